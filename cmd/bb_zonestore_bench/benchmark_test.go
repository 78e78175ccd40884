package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/buildbarn/bb-zonestore/pkg/objectio"
	"github.com/buildbarn/bb-zonestore/pkg/pool"
	"github.com/buildbarn/bb-zonestore/pkg/testutil"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRunBenchmark(t *testing.T) {
	ctx := context.Background()
	p, closePool, err := pool.NewPoolFromConfiguration(&pool.Configuration{
		Name:          "bench",
		PageSizeBytes: 4096,
		Devices: []zone.Configuration{{
			Name:               "ram0",
			InMemory:           &struct{}{},
			ZoneCount:          4,
			ZonePages:          16,
			OptimalIOSizeBytes: 8192,
		}},
	}, uuid.NewRandom, util.DefaultErrorLogger)
	require.NoError(t, err)
	defer func() { require.NoError(t, closePool()) }()

	contract := objectio.NewArgumentContract(p, objectio.StrictReadAheadPolicy, util.DefaultErrorLogger)
	blockObjectIO := objectio.NewZonedBlockObjectIO(p, contract)
	objects := []*benchmarkObject{
		// Filled entirely.
		newBenchmarkObject(1, &ObjectConfiguration{
			ZoneAddress: 0,
			ZoneCount:   2,
			AppendPages: 2,
		}),
		// Two appends of four pages.
		newBenchmarkObject(2, &ObjectConfiguration{
			ZoneAddress: 2,
			ZoneCount:   1,
			AppendPages: 4,
			AppendCount: 2,
		}),
	}

	require.NoError(t, runBenchmark(ctx, blockObjectIO, contract, objects, 3, 4096))
	require.Equal(t, int64(131072), objects[0].layout.GetCommittedLengthBytes())
	require.Equal(t, int64(32768), objects[1].layout.GetCommittedLengthBytes())
	require.Len(t, objects[0].digest, 32)
	require.NotEqual(t, objects[0].digest, objects[1].digest)

	t.Run("Corruption", func(t *testing.T) {
		// Overwriting data underneath the object should cause
		// verification to fail.
		device, err := p.GetDevice(0)
		require.NoError(t, err)
		require.NoError(t, device.GetZoneDevice().WriteVectors(ctx, [][]byte{make([]byte, 4096)}, 2, 4096, true))

		_, err = objects[1].verify(ctx, blockObjectIO, 2, 4096)
		testutil.RequirePrefixedStatus(t, status.Error(codes.DataLoss, "Object 0x2100: Data read back has BLAKE3 digest "), err)
	})

	t.Run("NoAppendPages", func(t *testing.T) {
		o := newBenchmarkObject(3, &ObjectConfiguration{
			ZoneAddress: 3,
			ZoneCount:   1,
		})
		_, err := o.fill(ctx, blockObjectIO, contract, 4096)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Object 0x3100: Appends must consist of at least one page"), err)
	})

	t.Run("PrintMetrics", func(t *testing.T) {
		var output bytes.Buffer
		require.NoError(t, printMetrics(&output, prometheus.DefaultGatherer, "buildbarn_zonestore_"))
		require.Contains(t, output.String(), "buildbarn_zonestore_block_object_io_operations_total{grpc_code=\"OK\",operation=\"Append\",pool=\"bench\"}")
		require.NotContains(t, output.String(), "go_goroutines")
	})
}

func TestFillPseudoRandom(t *testing.T) {
	// Buffers whose size is not a multiple of eight bytes should
	// be filled entirely, with the same prefix.
	var state uint64
	next := func() uint64 {
		state++
		return state * 0x0101010101010101
	}
	b := make([]byte, 12)
	fillPseudoRandom(next, b)
	require.Equal(t, []byte{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2}, b)
}

package main

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/buildbarn/bb-zonestore/pkg/object"
	"github.com/buildbarn/bb-zonestore/pkg/objectio"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/buildbarn/bb-zonestore/pkg/zone"
	"github.com/lazybeaver/xorshift"
	"github.com/zeebo/blake3"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// benchmarkObject keeps track of a single block object that is
// written to and read back.
type benchmarkObject struct {
	layout        *object.Layout
	configuration *ObjectConfiguration
	digest        []byte
}

func newBenchmarkObject(uniquifier uint64, configuration *ObjectConfiguration) *benchmarkObject {
	return &benchmarkObject{
		layout: object.NewLayout(
			object.NewObjectID(uniquifier, object.ObjectTypeBlock),
			configuration.DeviceIndex,
			zone.Address(configuration.ZoneAddress),
			configuration.ZoneCount,
			0),
		configuration: configuration,
	}
}

// fillPseudoRandom overwrites a buffer with the output of a
// pseudo-random number generator.
func fillPseudoRandom(next func() uint64, b []byte) {
	for len(b) >= 8 {
		binary.LittleEndian.PutUint64(b, next())
		b = b[8:]
	}
	if len(b) > 0 {
		var tail [8]byte
		binary.LittleEndian.PutUint64(tail[:], next())
		copy(b, tail[:])
	}
}

// fill appends pseudo-random data to the object, until either the
// configured number of appends has been performed, or the object is
// full. The BLAKE3 digest of the data is retained, so that it can be
// compared against the data read back.
func (o *benchmarkObject) fill(ctx context.Context, blockObjectIO objectio.BlockObjectIO, contract *objectio.ArgumentContract, pageSizeBytes int) (int64, error) {
	capacityBytes, err := contract.GetCapacityBytes(o.layout)
	if err != nil {
		return 0, err
	}
	if o.configuration.AppendPages <= 0 {
		return 0, status.Errorf(codes.InvalidArgument, "Object %s: Appends must consist of at least one page", o.layout.GetObjectID())
	}

	exclusiveLayout := o.layout.LockExclusive()
	defer exclusiveLayout.Unlock()

	hasher := blake3.New()
	sequence := xorshift.NewXorShift64Star(uint64(o.layout.GetObjectID()))
	buffer := objectio.NewPageAlignedBuffer(o.configuration.AppendPages, pageSizeBytes)
	for i := 0; o.configuration.AppendCount == 0 || i < o.configuration.AppendCount; i++ {
		offsetBytes := o.layout.GetCommittedLengthBytes()
		remainingBytes := capacityBytes - offsetBytes
		if remainingBytes <= 0 {
			break
		}
		chunk := buffer
		if int64(len(chunk)) > remainingBytes {
			chunk = chunk[:remainingBytes]
		}
		fillPseudoRandom(sequence.Next, chunk)
		if _, err := blockObjectIO.Append(ctx, exclusiveLayout, [][]byte{chunk}, offsetBytes); err != nil {
			return 0, util.StatusWrapf(err, "Object %s: Append %d failed", o.layout.GetObjectID(), i)
		}
		hasher.Write(chunk)
	}
	o.digest = hasher.Sum(nil)
	return o.layout.GetCommittedLengthBytes(), nil
}

// verify reads back all data committed to the object, and checks that
// its digest matches the one of the data that was written.
func (o *benchmarkObject) verify(ctx context.Context, blockObjectIO objectio.BlockObjectIO, readPages, pageSizeBytes int) (int64, error) {
	if readPages <= 0 {
		return 0, status.Error(codes.InvalidArgument, "Reads must consist of at least one page")
	}

	sharedLayout := o.layout.LockShared()
	defer sharedLayout.Unlock()

	hasher := blake3.New()
	buffer := objectio.NewPageAlignedBuffer(readPages, pageSizeBytes)
	committedLengthBytes := o.layout.GetCommittedLengthBytes()
	for offsetBytes := int64(0); offsetBytes < committedLengthBytes; {
		chunk := buffer
		if remainingBytes := committedLengthBytes - offsetBytes; int64(len(chunk)) > remainingBytes {
			chunk = chunk[:remainingBytes]
		}
		n, err := blockObjectIO.Read(ctx, sharedLayout, [][]byte{chunk}, offsetBytes)
		if err != nil {
			return 0, util.StatusWrapf(err, "Object %s: Read at offset %d failed", o.layout.GetObjectID(), offsetBytes)
		}
		hasher.Write(chunk[:n])
		offsetBytes += n
	}
	if digest := hasher.Sum(nil); !bytes.Equal(digest, o.digest) {
		return 0, status.Errorf(codes.DataLoss, "Object %s: Data read back has BLAKE3 digest %x, while %x was expected", o.layout.GetObjectID(), digest, o.digest)
	}
	return committedLengthBytes, nil
}

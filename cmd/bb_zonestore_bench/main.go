package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/buildbarn/bb-zonestore/pkg/objectio"
	"github.com/buildbarn/bb-zonestore/pkg/pool"
	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("Usage: bb_zonestore_bench bb_zonestore_bench.jsonnet")
	}
	var configuration ApplicationConfiguration
	if err := util.UnmarshalConfigurationFromFile(os.Args[1], &configuration); err != nil {
		log.Fatalf("Failed to read configuration from %s: %s", os.Args[1], err)
	}

	p, closePool, err := pool.NewPoolFromConfiguration(&configuration.Pool, uuid.NewRandom, util.DefaultErrorLogger)
	if err != nil {
		log.Fatal("Failed to create pool: ", err)
	}
	contract := objectio.NewArgumentContract(
		p,
		objectio.NewPageCountReadAheadPolicy(configuration.ReadAheadPageCounts),
		util.DefaultErrorLogger)
	blockObjectIO := objectio.NewZonedBlockObjectIO(p, contract)
	log.Printf("Attached pool %#v with identifier %s and %d devices, using a page size of %d bytes", p.GetName(), p.GetID(), p.GetDeviceCount(), p.GetPageSizeBytes())

	objects := make([]*benchmarkObject, 0, len(configuration.Objects))
	for i := range configuration.Objects {
		objects = append(objects, newBenchmarkObject(uint64(i+1), &configuration.Objects[i]))
	}

	err = runBenchmark(context.Background(), blockObjectIO, contract, objects, configuration.ReadPages, p.GetPageSizeBytes())
	if closeErr := closePool(); closeErr != nil {
		log.Print("Failed to detach pool: ", closeErr)
	}
	if err != nil {
		log.Fatal(err)
	}

	if configuration.PrintMetrics {
		if err := printMetrics(os.Stdout, prometheus.DefaultGatherer, "buildbarn_zonestore_"); err != nil {
			log.Fatal("Failed to print metrics: ", err)
		}
	}
}

// runBenchmark fills all objects with data in parallel, and reads all
// of them back afterwards.
func runBenchmark(ctx context.Context, blockObjectIO objectio.BlockObjectIO, contract *objectio.ArgumentContract, objects []*benchmarkObject, readPages, pageSizeBytes int) error {
	runPhase := func(name string, f func(ctx context.Context, o *benchmarkObject) (int64, error)) error {
		timeStart := time.Now()
		transferredBytes := make([]int64, len(objects))
		group, groupCtx := errgroup.WithContext(ctx)
		for i, o := range objects {
			group.Go(func() (err error) {
				transferredBytes[i], err = f(groupCtx, o)
				return
			})
		}
		if err := group.Wait(); err != nil {
			return util.StatusWrapf(err, "%s phase failed", name)
		}

		var totalBytes int64
		for _, n := range transferredBytes {
			totalBytes += n
		}
		duration := time.Since(timeStart)
		log.Printf("%s phase transferred %d bytes across %d objects in %s (%.1f MiB/s)", name, totalBytes, len(objects), duration, float64(totalBytes)/duration.Seconds()/(1<<20))
		return nil
	}

	if err := runPhase("Append", func(ctx context.Context, o *benchmarkObject) (int64, error) {
		return o.fill(ctx, blockObjectIO, contract, pageSizeBytes)
	}); err != nil {
		return err
	}
	return runPhase("Read", func(ctx context.Context, o *benchmarkObject) (int64, error) {
		return o.verify(ctx, blockObjectIO, readPages, pageSizeBytes)
	})
}

// printMetrics writes all metrics whose name starts with a given
// prefix, using the text exposition format.
func printMetrics(w io.Writer, gatherer prometheus.Gatherer, prefix string) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range filterMetricFamilies(families, prefix) {
		if err := encoder.Encode(family); err != nil {
			return err
		}
	}
	return nil
}

func filterMetricFamilies(families []*io_prometheus_client.MetricFamily, prefix string) []*io_prometheus_client.MetricFamily {
	var filtered []*io_prometheus_client.MetricFamily
	for _, family := range families {
		if strings.HasPrefix(family.GetName(), prefix) {
			filtered = append(filtered, family)
		}
	}
	return filtered
}

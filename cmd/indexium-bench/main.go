// Command indexium-bench compares the B-tree index against Pebble under
// mixed workloads and writes a CSV plus a latency plot.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Arshdeep54/indexium/bench"
	"github.com/Arshdeep54/indexium/index"
	"github.com/Arshdeep54/indexium/index/lsm"
)

func main() {
	scale := flag.Int("scale", 100000, "number of keys to load")
	outDir := flag.String("out", "results", "output directory")
	pageSize := flag.Int("page-size", 4096, "B-tree page size in bytes")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	f, err := os.Create(filepath.Join(*outDir, "bench_results.csv"))
	if err != nil {
		log.Fatalf("create csv: %v", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := bench.WriteHeader(w); err != nil {
		log.Fatalf("write header: %v", err)
	}

	workDir, err := os.MkdirTemp("", "indexium-bench-*")
	if err != nil {
		log.Fatalf("create work dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	var results []bench.Result

	bt, err := index.OpenBTree(filepath.Join(workDir, "btree.snap"), *pageSize)
	if err != nil {
		log.Fatalf("open btree: %v", err)
	}
	results = append(results, runSuite(w, "B-Tree", fmt.Sprint(*pageSize), bt, *scale)...)
	bt.Close()

	db, err := lsm.Open(filepath.Join(workDir, "pebble"))
	if err != nil {
		log.Fatalf("open pebble: %v", err)
	}
	results = append(results, runSuite(w, "Pebble", "default", db, *scale)...)
	db.Close()

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}

	plotPath := filepath.Join(*outDir, "bench_latency.png")
	if err := bench.Plot(results, plotPath); err != nil {
		log.Fatalf("plot: %v", err)
	}

	fmt.Printf("Benchmark complete. Results in %s\n", *outDir)
}

func runSuite(w *csv.Writer, name, conf string, idx index.Index, n int) []bench.Result {
	fmt.Printf("Testing %s (Config: %s)\n", name, conf)
	var results []bench.Result

	record := func(res bench.Result) {
		results = append(results, res)
		if err := bench.Record(w, res); err != nil {
			log.Fatalf("record: %v", err)
		}
	}

	// 1. Pure insert (initial load).
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(int32(k), "v"); err != nil {
			log.Fatalf("%s: insert %d: %v", name, k, err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	stats := bench.ReadMemoryStats()
	record(bench.Result{
		Name:      name,
		Config:    conf,
		Operation: "Load",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	})

	for _, wl := range []struct {
		workload  bench.Workload
		operation string
		ops       int
	}{
		{bench.OLTP, "Workload_OLTP", n / 2},
		{bench.OLAP, "Workload_OLAP", n / 2},
		{bench.Reporting, "Workload_Range", 100},
	} {
		start = time.Now()
		if err := bench.Execute(idx, wl.workload, wl.ops); err != nil {
			log.Fatalf("%s: %s: %v", name, wl.operation, err)
		}
		record(bench.Result{
			Name:      name,
			Config:    conf,
			Operation: wl.operation,
			LatencyNs: time.Since(start).Nanoseconds() / int64(wl.ops),
			MemMB:     bench.ReadMemoryStats().AllocMB,
		})
	}

	return results
}

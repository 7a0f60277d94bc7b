// Package bench drives mixed workloads against an index.Index and
// records latency and memory results for comparison runs.
package bench

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"

	"github.com/Arshdeep54/indexium/index"
)

// Result is one measured data point.
type Result struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// MemoryStats samples the live heap after a forced GC.
type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// ReadMemoryStats forces a GC so the sample reflects live data, not
// garbage.
func ReadMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// WriteHeader writes the CSV column header.
func WriteHeader(w *csv.Writer) error {
	return w.Write([]string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"})
}

// Record appends one result row to the CSV.
func Record(w *csv.Writer, res Result) error {
	return w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}

// Workload names a mixed distribution of operations.
type Workload string

const (
	// OLTP is read-heavy: 90% point lookups, 10% inserts.
	OLTP Workload = "OLTP (90/10)"
	// OLAP is write-heavy: 10% point lookups, 90% inserts.
	OLAP Workload = "OLAP (10/90)"
	// Reporting runs inclusive range scans [k, k+100] of 101 keys.
	Reporting Workload = "Reporting (Range)"
)

// Execute runs ops operations of the given mix against idx. The key
// space matches the operation count so hits and misses both occur.
func Execute(idx index.Index, w Workload, ops int) error {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := int32(rng.Intn(ops))

		switch w {
		case OLTP:
			if choice < 90 {
				_, _ = idx.Get(key)
			} else if err := idx.Insert(key, "x"); err != nil {
				return fmt.Errorf("bench: %s insert: %w", w, err)
			}
		case OLAP:
			if choice < 10 {
				_, _ = idx.Get(key)
			} else if err := idx.Insert(key, "x"); err != nil {
				return fmt.Errorf("bench: %s insert: %w", w, err)
			}
		case Reporting:
			it, err := idx.Range(key, key+100)
			if err != nil {
				return fmt.Errorf("bench: range: %w", err)
			}
			for it.Next() {
			}
			it.Close()
		}
	}
	return nil
}

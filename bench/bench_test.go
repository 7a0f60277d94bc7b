package bench

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Arshdeep54/indexium/index"
)

func TestExecuteWorkloads(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "bench.snap")
	idx, err := index.OpenBTree(fp, 4096)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	for k := int32(0); k < 200; k++ {
		if err := idx.Insert(k, "v"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	for _, w := range []Workload{OLTP, OLAP, Reporting} {
		if err := Execute(idx, w, 200); err != nil {
			t.Fatalf("%s: %v", w, err)
		}
	}
}

func TestRecordWritesCSVRow(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := WriteHeader(w); err != nil {
		t.Fatalf("header: %v", err)
	}
	err := Record(w, Result{
		Name:      "B-Tree",
		Config:    "4096",
		Operation: "Load",
		LatencyNs: 120,
		MemMB:     3,
		Objects:   42,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}
	if lines[1] != "B-Tree,4096,Load,120,3,42" {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestReadMemoryStats(t *testing.T) {
	stats := ReadMemoryStats()
	if stats.HeapObjects == 0 {
		t.Fatalf("heap object count is zero")
	}
}

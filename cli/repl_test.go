package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Arshdeep54/indexium/btree"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "btree.snap")
	tree, err := btree.New(fp, 4096)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	t.Cleanup(func() { tree.Close() })

	var out, errOut bytes.Buffer
	return NewREPL(tree, strings.NewReader(input), &out, &errOut), &out, &errOut
}

func TestREPLInsertAndSearch(t *testing.T) {
	repl, out, errOut := newTestREPL(t, strings.Join([]string{
		"BTREE INSERT 1 one",
		"BTREE INSERT 2 two",
		"BTREE SEARCH 2",
		"BTREE SEARCH 9",
		"exit",
	}, "\n"))

	if err := repl.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errOut.String())
	}
	if !strings.Contains(out.String(), "Value two") {
		t.Fatalf("output missing search hit: %s", out.String())
	}
	if !strings.Contains(out.String(), "Key not found") {
		t.Fatalf("output missing search miss: %s", out.String())
	}
}

func TestREPLDeleteAndSnapshot(t *testing.T) {
	repl, out, errOut := newTestREPL(t, strings.Join([]string{
		"BTREE INSERT 1 one",
		"BTREE DELETE 1",
		"BTREE SNAPSHOT",
		"EXIT",
	}, "\n"))

	if err := repl.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted 1") {
		t.Fatalf("output missing delete: %s", out.String())
	}
	// Snapshot of the emptied tree must fail.
	if !strings.Contains(errOut.String(), "snapshot failed") {
		t.Fatalf("expected snapshot failure, got: %s", errOut.String())
	}
}

func TestREPLReportsMissingArguments(t *testing.T) {
	repl, _, errOut := newTestREPL(t, strings.Join([]string{
		"BTREE INSERT",
		"BTREE INSERT 5",
		"BTREE SEARCH",
		"exit",
	}, "\n"))

	if err := repl.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := errOut.String()
	for _, want := range []string{
		"Missing key for INSERT",
		"Missing value for INSERT (key = 5)",
		"Missing key for SEARCH",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("error output missing %q: %s", want, got)
		}
	}
}

func TestREPLIgnoresOtherIndexTypes(t *testing.T) {
	repl, _, errOut := newTestREPL(t, "HASH INSERT 1 one\nexit\n")
	if err := repl.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut.String(), "unknown index type") {
		t.Fatalf("expected index type error, got: %s", errOut.String())
	}
}

func TestREPLWritesHistory(t *testing.T) {
	repl, _, _ := newTestREPL(t, "BTREE INSERT 1 one\nexit\n")
	hist := filepath.Join(t.TempDir(), "history.txt")
	if err := repl.WithHistoryFile(hist); err != nil {
		t.Fatalf("history: %v", err)
	}
	defer repl.Close()

	if err := repl.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(hist)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if !strings.Contains(string(data), "BTREE INSERT 1 one") || !strings.Contains(string(data), "exit") {
		t.Fatalf("history missing lines: %q", data)
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Arshdeep54/indexium/btree"
)

// REPL reads commands, executes them against the tree and prints results.
// Input and output streams are injectable so the loop can be scripted in
// tests.
type REPL struct {
	tree *btree.BTree

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	history *os.File
}

// NewREPL builds a REPL over the given tree and streams.
func NewREPL(tree *btree.BTree, in io.Reader, out, errOut io.Writer) *REPL {
	return &REPL{tree: tree, in: in, out: out, errOut: errOut}
}

// WithHistoryFile appends every input line to the file at path.
func (r *REPL) WithHistoryFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cli: open history file: %w", err)
	}
	r.history = f
	return nil
}

// Close releases the history file, if any.
func (r *REPL) Close() error {
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}

// Run reads commands until EOF or "exit".
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "indexium> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if r.history != nil {
			fmt.Fprintln(r.history, line)
		}
		if strings.EqualFold(line, "exit") {
			return nil
		}
		r.Execute(line)
	}
}

// Execute parses and runs a single command line. Errors are reported on
// the error stream; they never stop the loop.
func (r *REPL) Execute(line string) {
	cmd, err := Parse(line)
	if err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return
	}
	if cmd.Target != "BTREE" {
		fmt.Fprintf(r.errOut, "Error: unknown index type %q\n", cmd.Target)
		return
	}

	switch cmd.Op {
	case OpInsert:
		if !cmd.HasKey {
			fmt.Fprintln(r.errOut, "Error: Missing key for INSERT")
			return
		}
		if !cmd.HasValue {
			fmt.Fprintf(r.errOut, "Error: Missing value for INSERT (key = %d)\n", cmd.Key)
			return
		}
		r.tree.Insert(btree.Item{Key: cmd.Key, Val: cmd.Value})
		fmt.Fprint(r.out, r.tree)

	case OpSearch:
		if !cmd.HasKey {
			fmt.Fprintln(r.errOut, "Error: Missing key for SEARCH")
			return
		}
		val, err := r.tree.Search(cmd.Key)
		if err != nil {
			fmt.Fprintln(r.out, "Key not found")
			return
		}
		fmt.Fprintf(r.out, "Value %s\n", val)

	case OpDelete:
		if !cmd.HasKey {
			fmt.Fprintln(r.errOut, "Error: Missing key for DELETE")
			return
		}
		if err := r.tree.Delete(cmd.Key); err != nil {
			if errors.Is(err, btree.ErrNotFound) {
				fmt.Fprintln(r.out, "Key not found")
				return
			}
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "Deleted %d\n", cmd.Key)

	case OpSnapshot:
		if err := r.tree.Snapshot(); err != nil {
			fmt.Fprintf(r.errOut, "Error: snapshot failed: %v\n", err)
			return
		}
		fmt.Fprintln(r.out, "Snapshot written")
	}
}

// Command indexium is the interactive shell over the B-tree index.
//
// Usage:
//
//	indexium [-file data/btree.snap] [-page-size 4096]
//
// An existing valid snapshot is loaded; otherwise a fresh tree is
// created. Commands look like "BTREE INSERT 4 four"; "exit" quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Arshdeep54/indexium/btree"
	"github.com/Arshdeep54/indexium/cli"
)

func main() {
	file := flag.String("file", filepath.Join("data", "btree.snap"), "backing snapshot file")
	pageSize := flag.Int("page-size", 4096, "page size in bytes")
	flag.Parse()

	if dir := filepath.Dir(*file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
			os.Exit(1)
		}
	}

	tree := openTree(*file, *pageSize)
	defer tree.Close()

	repl := cli.NewREPL(tree, os.Stdin, os.Stdout, os.Stderr)
	historyFile := filepath.Join(filepath.Dir(*file), "history.txt")
	if err := repl.WithHistoryFile(historyFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer repl.Close()

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openTree loads an existing snapshot when the file holds one, and falls
// back to a fresh tree otherwise.
func openTree(file string, pageSize int) *btree.BTree {
	if btree.IsValidSnapshot(file, pageSize) {
		tree, err := btree.LoadSnapshot(file, pageSize)
		if err == nil {
			return tree
		}
		fmt.Fprintf(os.Stderr, "Failed to load snapshot: %v. Creating new B-tree.\n", err)
	}

	tree, err := btree.New(file, pageSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create B-tree: %v\n", err)
		os.Exit(1)
	}
	return tree
}

package btree

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ExportDOT writes a Graphviz description of the current tree. Each node
// is drawn as a record of its items, labelled with its page ID.
func (t *BTree) ExportDOT(filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "digraph BTree {")
	fmt.Fprintln(f, "  graph [ranksep=0.8, nodesep=0.5, rankdir=TB];")
	fmt.Fprintln(f, "  node [shape=record, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(f, "  edge [arrowsize=0.8, color=\"#444444\"];")

	if t.root != nil {
		exportNode(f, t.root)
	}

	fmt.Fprintln(f, "}")
	return nil
}

func exportNode(f *os.File, n *node) {
	label := fmt.Sprintf("page %d", n.id)
	for _, it := range n.items {
		val := it.Val
		if len(val) > 5 {
			val = val[:5] + "..."
		}
		label += fmt.Sprintf("|%d:%s", it.Key, val)
	}
	fmt.Fprintf(f, "  n%d [label=\"%s\"];\n", n.id, label)

	for _, child := range n.children {
		fmt.Fprintf(f, "  n%d -> n%d;\n", n.id, child.id)
		exportNode(f, child)
	}
}

// Print exports the tree to results/<name>.dot and renders it to PNG via
// Graphviz.
func (t *BTree) Print(name string) {
	dotPath := fmt.Sprintf("results/%s.dot", name)
	pngPath := fmt.Sprintf("results/%s.png", name)

	if err := t.ExportDOT(dotPath); err != nil {
		fmt.Println("DOT export error:", err)
		return
	}

	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", pngPath)
	if err := cmd.Run(); err != nil {
		fmt.Printf("Graphviz error: %v (make sure 'dot' is installed)\n", err)
		return
	}

	fmt.Printf("Tree exported to: %s\n", pngPath)
}

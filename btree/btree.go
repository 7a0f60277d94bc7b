// Package btree implements an ordered key/value index: an in-memory
// B-tree of degree 3 with point lookup, insertion and deletion, plus
// atomic checkpointing of the whole tree to a single backing file through
// the pager package.
//
// The tree lives in memory for the life of the instance; the page layer
// is only exercised by Snapshot and LoadSnapshot. A BTree is exclusively
// owned and must not be shared between goroutines.
package btree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Arshdeep54/indexium/pager"
)

// Item is a (signed 32-bit key, UTF-8 string value) pair.
type Item = pager.Item

const (
	// Degree is the order parameter of the tree.
	Degree = 3
	// MinItems is the minimum load of every non-root node.
	MinItems = Degree - 1
	// MaxItems is the maximum load of any node.
	MaxItems = Degree * 2
)

var (
	// ErrNotFound is returned by Search and Delete when the key is absent.
	ErrNotFound = errors.New("btree: key not found")

	// ErrEmptyTree is returned by Snapshot when there is nothing to write.
	// It wraps pager.ErrInvalidInput.
	ErrEmptyTree = fmt.Errorf("btree: tree is empty: %w", pager.ErrInvalidInput)
)

// BTree owns the root node and routes all I/O through its pager.
type BTree struct {
	pager *pager.Pager
	root  *node
}

// New creates or opens the backing file and returns an empty tree. An
// existing file is not truncated; its pages are overwritten as the tree
// allocates.
func New(filename string, pageSize int) (*BTree, error) {
	pg, err := pager.Open(filename, pageSize)
	if err != nil {
		return nil, err
	}
	return &BTree{pager: pg}, nil
}

// LoadSnapshot opens a snapshot file and reconstructs the tree it holds:
// the metadata page first, then the root page, then every referenced
// child recursively.
func LoadSnapshot(filename string, pageSize int) (*BTree, error) {
	pg, meta, err := pager.OpenSnapshot(filename, pageSize)
	if err != nil {
		return nil, err
	}

	rootID := meta.RootPageID
	if rootID == 0 {
		// Early snapshots stored no root ID; data always starts at page 1.
		rootID = 1
	}

	root, err := readNode(pg, rootID)
	if err != nil {
		pg.Close()
		return nil, err
	}
	if len(root.items) > MaxItems {
		pg.Close()
		return nil, fmt.Errorf("btree: root holds %d items (max %d): %w",
			len(root.items), MaxItems, pager.ErrInvalidData)
	}

	return &BTree{pager: pg, root: root}, nil
}

// IsValidSnapshot reports whether the file looks like a snapshot taken
// with the given page size.
func IsValidSnapshot(filename string, pageSize int) bool {
	return pager.IsValidSnapshot(filename, pageSize)
}

// Insert adds item to the tree. Inserting a key that already exists is a
// no-op that preserves the stored value. Structural failures (the pager
// refusing a page allocation) abort the insert silently.
func (t *BTree) Insert(item Item) {
	if t.root == nil {
		id, err := t.pager.AllocatePage()
		if err != nil {
			return
		}
		t.root = newNode(id)
	}

	if len(t.root.items) >= MaxItems {
		if err := t.splitRoot(); err != nil {
			return
		}
	}

	_ = t.root.insert(item, t.pager)
}

// splitRoot detaches the full root, splits it, and rebuilds a new root
// holding just the promoted median. This is the only way the tree grows
// in height.
func (t *BTree) splitRoot() error {
	oldRoot := t.root

	midItem, right, err := oldRoot.split(t.pager)
	if err != nil {
		return err
	}
	newID, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}

	newRoot := newNode(newID)
	newRoot.items = append(newRoot.items, midItem)
	newRoot.children = append(newRoot.children, oldRoot, right)
	t.root = newRoot
	return nil
}

// Search returns the value stored under key, or ErrNotFound.
func (t *BTree) Search(key int32) (string, error) {
	for n := t.root; n != nil; {
		pos, found := n.search(key)
		if found {
			return n.items[pos].Val, nil
		}
		if n.leaf() {
			break
		}
		n = n.children[pos]
	}
	return "", ErrNotFound
}

// Delete removes key from the tree, or returns ErrNotFound. When the root
// empties out but still has a child, that child becomes the new root and
// the tree shrinks in height.
func (t *BTree) Delete(key int32) error {
	if t.root == nil || len(t.root.items) == 0 {
		return ErrNotFound
	}

	err := t.root.delete(key)

	if len(t.root.items) == 0 && len(t.root.children) == 1 {
		t.root = t.root.children[0]
	}
	return err
}

// Snapshot writes the whole tree to the backing file: the metadata page
// at offset 0, then every node's page at its assigned ID, followed by a
// durable flush.
func (t *BTree) Snapshot() error {
	if t.root == nil || len(t.root.items) == 0 {
		return ErrEmptyTree
	}

	meta := pager.NewMetadata(t.root.id, uint32(t.pager.PageSize()), t.pager.NumPages())
	if err := t.pager.WriteMetadata(meta); err != nil {
		return err
	}
	if err := t.snapshotNode(t.root); err != nil {
		return err
	}
	return t.pager.Sync()
}

func (t *BTree) snapshotNode(n *node) error {
	if err := t.pager.WritePage(n.toPage()); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := t.snapshotNode(child); err != nil {
			return err
		}
	}
	return nil
}

// Range collects every item with key in [start, end] in ascending order.
func (t *BTree) Range(start, end int32) []Item {
	var out []Item
	if t.root != nil {
		collect(t.root, start, end, &out)
	}
	return out
}

func collect(n *node, start, end int32, out *[]Item) {
	for i, it := range n.items {
		if !n.leaf() {
			collect(n.children[i], start, end, out)
		}
		if it.Key >= start && it.Key <= end {
			*out = append(*out, it)
		}
	}
	if !n.leaf() {
		collect(n.children[len(n.items)], start, end, out)
	}
}

// Close releases the backing file.
func (t *BTree) Close() error {
	return t.pager.Close()
}

// String renders the tree one node per line, children indented under
// their parent.
func (t *BTree) String() string {
	if t.root == nil {
		return "<empty tree>"
	}
	var b strings.Builder
	writeNode(&b, t.root, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *node, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteByte('[')
	for i, it := range n.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteString("]\n")
	for _, child := range n.children {
		writeNode(b, child, depth+1)
	}
}

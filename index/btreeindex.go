package index

import (
	"errors"

	"github.com/Arshdeep54/indexium/btree"
)

var _ Index = (*BTreeIndex)(nil)

// BTreeIndex adapts btree.BTree to the Index interface.
type BTreeIndex struct {
	tree *btree.BTree
}

// OpenBTree creates or opens a B-tree index backed by the given file.
func OpenBTree(path string, pageSize int) (*BTreeIndex, error) {
	t, err := btree.New(path, pageSize)
	if err != nil {
		return nil, err
	}
	return &BTreeIndex{tree: t}, nil
}

// Tree exposes the underlying B-tree for snapshotting and visualization.
func (b *BTreeIndex) Tree() *btree.BTree {
	return b.tree
}

func (b *BTreeIndex) Insert(key int32, value string) error {
	b.tree.Insert(btree.Item{Key: key, Val: value})
	return nil
}

func (b *BTreeIndex) Get(key int32) (string, error) {
	return b.tree.Search(key)
}

// Delete removes key. A missing key is not an error here so that mixed
// workloads can fire deletes blindly.
func (b *BTreeIndex) Delete(key int32) error {
	err := b.tree.Delete(key)
	if errors.Is(err, btree.ErrNotFound) {
		return nil
	}
	return err
}

// Range returns an iterator over all keys in [start, end]. The items are
// collected in one in-order pass; the tree has no linked leaves to scan.
func (b *BTreeIndex) Range(start, end int32) (Iterator, error) {
	return &sliceIterator{items: b.tree.Range(start, end), idx: -1}, nil
}

func (b *BTreeIndex) Close() error {
	return b.tree.Close()
}

type sliceIterator struct {
	items []btree.Item
	idx   int
}

func (it *sliceIterator) Next() bool {
	it.idx++
	return it.idx < len(it.items)
}

func (it *sliceIterator) Key() int32    { return it.items[it.idx].Key }
func (it *sliceIterator) Value() string { return it.items[it.idx].Val }
func (it *sliceIterator) Error() error  { return nil }
func (it *sliceIterator) Close() error  { return nil }

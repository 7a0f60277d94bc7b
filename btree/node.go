package btree

import (
	"slices"

	"github.com/Arshdeep54/indexium/pager"
)

// node is the in-memory counterpart of a page. items are strictly sorted
// by key; children is empty for a leaf and len(items)+1 entries otherwise.
type node struct {
	id       pager.PageID
	items    []Item
	children []*node
}

func newNode(id pager.PageID) *node {
	return &node{id: id}
}

func (n *node) leaf() bool {
	return len(n.children) == 0
}

// search binary-searches the node's items for key. It returns the index
// of the key on a hit, otherwise the insertion point — which is also the
// child to descend into.
func (n *node) search(key int32) (int, bool) {
	low, high := 0, len(n.items)
	for low < high {
		mid := low + (high-low)/2
		switch {
		case n.items[mid].Key == key:
			return mid, true
		case n.items[mid].Key < key:
			low = mid + 1
		default:
			high = mid
		}
	}
	return low, false
}

// split divides a full node around its median. The median item is removed
// from both halves and returned for promotion into the parent; the right
// sibling gets a freshly allocated page ID.
func (n *node) split(pg *pager.Pager) (Item, *node, error) {
	newID, err := pg.AllocatePage()
	if err != nil {
		return Item{}, nil, err
	}

	mid := MinItems
	midItem := n.items[mid]

	right := newNode(newID)
	right.items = append(right.items, n.items[mid+1:]...)
	n.items = n.items[:mid]

	if !n.leaf() {
		right.children = append(right.children, n.children[mid+1:]...)
		n.children = n.children[:mid+1]
	}

	return midItem, right, nil
}

// insert places item into the subtree rooted at n. The caller guarantees
// n is not full. Duplicate keys are dropped, preserving the stored value.
func (n *node) insert(item Item, pg *pager.Pager) error {
	pos, found := n.search(item.Key)
	if found {
		return nil
	}

	if n.leaf() {
		n.items = slices.Insert(n.items, pos, item)
		return nil
	}

	if len(n.children[pos].items) >= MaxItems {
		midItem, right, err := n.children[pos].split(pg)
		if err != nil {
			return err
		}
		n.items = slices.Insert(n.items, pos, midItem)
		n.children = slices.Insert(n.children, pos+1, right)

		switch {
		case item.Key < n.items[pos].Key:
			// descend left of the promoted separator
		case item.Key > n.items[pos].Key:
			pos++
		default:
			// the separator already carries this key
			return nil
		}
	}
	return n.children[pos].insert(item, pg)
}

// delete removes key from the subtree rooted at n. Every child is topped
// up above MinItems before descending, so no underflow propagates back up.
func (n *node) delete(key int32) error {
	pos, found := n.search(key)

	if n.leaf() {
		if !found {
			return ErrNotFound
		}
		n.items = slices.Delete(n.items, pos, pos+1)
		return nil
	}

	if found {
		left, right := n.children[pos], n.children[pos+1]
		switch {
		case len(left.items) > MinItems:
			pred := left.max()
			n.items[pos] = pred
			return left.delete(pred.Key)
		case len(right.items) > MinItems:
			succ := right.min()
			n.items[pos] = succ
			return right.delete(succ.Key)
		default:
			n.mergeChildren(pos)
			return n.children[pos].delete(key)
		}
	}

	pos = n.fillChild(pos)
	return n.children[pos].delete(key)
}

// max returns the rightmost item of the subtree (in-order predecessor of
// the parent separator).
func (n *node) max() Item {
	for !n.leaf() {
		n = n.children[len(n.children)-1]
	}
	return n.items[len(n.items)-1]
}

// min returns the leftmost item of the subtree.
func (n *node) min() Item {
	for !n.leaf() {
		n = n.children[0]
	}
	return n.items[0]
}

// fillChild ensures children[pos] holds more than MinItems items before a
// descent, borrowing from a sibling or merging. It returns the index of
// the child to descend into, which shifts left when a merge absorbed the
// child into its left sibling.
func (n *node) fillChild(pos int) int {
	if len(n.children[pos].items) > MinItems {
		return pos
	}
	if pos > 0 && len(n.children[pos-1].items) > MinItems {
		n.borrowFromLeft(pos)
		return pos
	}
	if pos < len(n.children)-1 && len(n.children[pos+1].items) > MinItems {
		n.borrowFromRight(pos)
		return pos
	}
	if pos > 0 {
		n.mergeChildren(pos - 1)
		return pos - 1
	}
	n.mergeChildren(pos)
	return pos
}

// borrowFromLeft rotates right: the parent separator drops into the front
// of the child and the left sibling's last item replaces it.
func (n *node) borrowFromLeft(pos int) {
	child, left := n.children[pos], n.children[pos-1]

	child.items = slices.Insert(child.items, 0, n.items[pos-1])
	n.items[pos-1] = left.items[len(left.items)-1]
	left.items = left.items[:len(left.items)-1]

	if !child.leaf() {
		child.children = slices.Insert(child.children, 0, left.children[len(left.children)-1])
		left.children = left.children[:len(left.children)-1]
	}
}

// borrowFromRight rotates left: the parent separator is appended to the
// child and the right sibling's first item replaces it.
func (n *node) borrowFromRight(pos int) {
	child, right := n.children[pos], n.children[pos+1]

	child.items = append(child.items, n.items[pos])
	n.items[pos] = right.items[0]
	right.items = slices.Delete(right.items, 0, 1)

	if !child.leaf() {
		child.children = append(child.children, right.children[0])
		right.children = slices.Delete(right.children, 0, 1)
	}
}

// mergeChildren folds children[i+1] into children[i], pulling items[i]
// down as the median. The merged node keeps the left child's page ID; the
// right child's page is not reclaimed and stays allocated in the file.
func (n *node) mergeChildren(i int) {
	left, right := n.children[i], n.children[i+1]

	left.items = append(left.items, n.items[i])
	left.items = append(left.items, right.items...)
	left.children = append(left.children, right.children...)

	n.items = slices.Delete(n.items, i, i+1)
	n.children = slices.Delete(n.children, i+1, i+2)
}

// toPage converts the node to its on-disk form.
func (n *node) toPage() *pager.Page {
	p := &pager.Page{ID: n.id, Items: slices.Clone(n.items)}
	if !n.leaf() {
		p.Children = make([]pager.PageID, 0, len(n.children))
		for _, c := range n.children {
			p.Children = append(p.Children, c.id)
		}
	}
	return p
}

// readNode reconstructs the subtree rooted at the given page ID.
func readNode(pg *pager.Pager, id pager.PageID) (*node, error) {
	p, err := pg.ReadPage(id)
	if err != nil {
		return nil, err
	}

	n := &node{id: p.ID, items: p.Items}
	if len(p.Children) > 0 {
		n.children = make([]*node, 0, len(p.Children))
		for _, childID := range p.Children {
			child, err := readNode(pg, childID)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		}
	}
	return n, nil
}

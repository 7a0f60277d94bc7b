// Package pager manages a file of fixed-size pages: it allocates pages,
// reads and writes them by ID, and anchors the file with a metadata page
// at offset 0.
//
// Page layout (pageSize bytes, little-endian):
//
//	[0]     uint8  — page type (0 = leaf, 1 = internal)
//	[1..4]  uint32 — number of items
//
// Then for each item:
//
//	key      int32  (4 bytes)
//	valLen   uint32 (4 bytes)
//	val      valLen bytes of UTF-8
//
// Internal pages append numItems+1 uint32 child page IDs directly after
// the last item. The rest of the page is zero padding.
package pager

import (
	"encoding/binary"
	"fmt"
)

// PageID identifies a page; its byte offset is PageID * pageSize.
// ID 0 is reserved for the metadata page.
type PageID = uint32

const (
	typeLeaf     = byte(0)
	typeInternal = byte(1)

	offType  = 0
	offCount = 1 // uint32, 4 bytes
	offItems = 5
)

// Item is a key/value pair held by a page. Keys are compared as signed
// 32-bit integers; values are opaque UTF-8 payloads.
type Item struct {
	Key int32
	Val string
}

func (it Item) String() string {
	return fmt.Sprintf("%d-%s", it.Key, it.Val)
}

// Page is the on-disk form of a tree node. A leaf page has no children;
// an internal page with n items carries n+1 child page IDs. Internal
// pages store the separator items with their values, so values that end
// up in internal positions survive a round trip.
type Page struct {
	ID       PageID
	Items    []Item
	Children []PageID
}

// Leaf reports whether the page has no children.
func (p *Page) Leaf() bool {
	return len(p.Children) == 0
}

// encodePage serialises a page into a pageSize-byte buffer.
func encodePage(p *Page, pageSize int) ([]byte, error) {
	buf := make([]byte, pageSize)

	if p.Leaf() {
		buf[offType] = typeLeaf
	} else {
		buf[offType] = typeInternal
		if len(p.Children) != len(p.Items)+1 {
			return nil, fmt.Errorf("pager: page %d has %d items but %d children: %w",
				p.ID, len(p.Items), len(p.Children), ErrInvalidData)
		}
	}
	binary.LittleEndian.PutUint32(buf[offCount:], uint32(len(p.Items)))

	off := offItems
	for _, it := range p.Items {
		if off+8+len(it.Val) > pageSize {
			return nil, fmt.Errorf("pager: page %d overflows page size %d: %w",
				p.ID, pageSize, ErrInvalidInput)
		}
		binary.LittleEndian.PutUint32(buf[off:], uint32(it.Key))
		off += 4
		binary.LittleEndian.PutUint32(buf[off:], uint32(len(it.Val)))
		off += 4
		copy(buf[off:], it.Val)
		off += len(it.Val)
	}

	for _, c := range p.Children {
		if off+4 > pageSize {
			return nil, fmt.Errorf("pager: page %d overflows page size %d: %w",
				p.ID, pageSize, ErrInvalidInput)
		}
		binary.LittleEndian.PutUint32(buf[off:], c)
		off += 4
	}

	return buf, nil
}

// decodePage parses a pageSize-byte buffer into a Page. numPages bounds
// the child IDs an internal page may reference.
func decodePage(id PageID, buf []byte, numPages PageID) (*Page, error) {
	pageSize := len(buf)
	pageType := buf[offType]
	if pageType != typeLeaf && pageType != typeInternal {
		return nil, fmt.Errorf("pager: page %d: unknown page type %d: %w",
			id, pageType, ErrInvalidData)
	}

	count := binary.LittleEndian.Uint32(buf[offCount:offItems])
	// Each item needs at least 8 bytes, so an impossible count is caught
	// before the item loop runs off the page.
	if offItems+int(count)*8 > pageSize {
		return nil, fmt.Errorf("pager: page %d: item count %d exceeds page size %d: %w",
			id, count, pageSize, ErrInvalidData)
	}

	p := &Page{ID: id, Items: make([]Item, 0, count)}

	off := offItems
	for i := uint32(0); i < count; i++ {
		if off+8 > pageSize {
			return nil, fmt.Errorf("pager: page %d: item %d exceeds page size: %w",
				id, i, ErrInvalidData)
		}
		key := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		valLen := int(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		if valLen > pageSize || off+valLen > pageSize {
			return nil, fmt.Errorf("pager: page %d: value length %d exceeds page size: %w",
				id, valLen, ErrInvalidData)
		}
		p.Items = append(p.Items, Item{Key: key, Val: string(buf[off : off+valLen])})
		off += valLen
	}

	if pageType == typeInternal {
		p.Children = make([]PageID, 0, count+1)
		for i := uint32(0); i <= count; i++ {
			if off+4 > pageSize {
				return nil, fmt.Errorf("pager: page %d: child pointers exceed page size: %w",
					id, ErrInvalidData)
			}
			child := binary.LittleEndian.Uint32(buf[off:])
			off += 4
			if child == 0 || child > numPages {
				return nil, fmt.Errorf("pager: page %d: child page id %d out of range [1, %d]: %w",
					id, child, numPages, ErrInvalidData)
			}
			p.Children = append(p.Children, child)
		}
	}

	return p, nil
}

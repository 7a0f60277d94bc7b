package pager

import (
	"errors"
	"path/filepath"
	"testing"
)

func openPager(t *testing.T) *Pager {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "pages.bin")
	p, err := Open(fp, 4096)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestOpenRejectsBadPageSize(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "pages.bin")
	for _, ps := range []int{0, -4096, MaxPageSize + 1} {
		_, err := Open(fp, ps)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("page size %d: got %v, want ErrInvalidInput", ps, err)
		}
	}
}

func TestFirstAllocationYieldsPageOne(t *testing.T) {
	p := openPager(t)

	id, err := p.AllocatePage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if id != 1 {
		t.Fatalf("first allocation yields id %d, want 1", id)
	}
	if p.NumPages() != 1 {
		t.Fatalf("NumPages = %d, want 1", p.NumPages())
	}

	id, err = p.AllocatePage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if id != 2 {
		t.Fatalf("second allocation yields id %d, want 2", id)
	}
}

func TestPageRoundTripLeaf(t *testing.T) {
	p := openPager(t)
	id, err := p.AllocatePage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	page := &Page{ID: id, Items: []Item{
		{Key: -5, Val: "minus five"},
		{Key: 0, Val: ""},
		{Key: 7, Val: "seven"},
	}}
	if err := p.WritePage(page); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := p.ReadPage(id)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Leaf() {
		t.Fatalf("leaf page decoded as internal")
	}
	if len(got.Items) != 3 {
		t.Fatalf("decoded %d items, want 3", len(got.Items))
	}
	for i, want := range page.Items {
		if got.Items[i] != want {
			t.Fatalf("item %d = %v, want %v", i, got.Items[i], want)
		}
	}
}

func TestPageRoundTripInternal(t *testing.T) {
	p := openPager(t)
	var ids []PageID
	for i := 0; i < 3; i++ {
		id, err := p.AllocatePage()
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		ids = append(ids, id)
	}

	page := &Page{
		ID:       ids[0],
		Items:    []Item{{Key: 10, Val: "ten"}, {Key: 20, Val: "twenty"}},
		Children: []PageID{ids[0], ids[1], ids[2]},
	}
	if err := p.WritePage(page); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := p.ReadPage(ids[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Leaf() {
		t.Fatalf("internal page decoded as leaf")
	}
	if len(got.Children) != 3 {
		t.Fatalf("decoded %d children, want 3", len(got.Children))
	}
	for i, want := range page.Children {
		if got.Children[i] != want {
			t.Fatalf("child %d = %d, want %d", i, got.Children[i], want)
		}
	}
	// Separator values survive the round trip.
	if got.Items[1].Val != "twenty" {
		t.Fatalf("separator value = %q, want %q", got.Items[1].Val, "twenty")
	}
}

func TestReadPageRejectsOutOfRangeID(t *testing.T) {
	p := openPager(t)
	if _, err := p.ReadPage(0); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("read page 0: got %v, want ErrInvalidData", err)
	}
	if _, err := p.ReadPage(5); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("read unallocated page: got %v, want ErrInvalidData", err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	p := openPager(t)
	if _, err := p.AllocatePage(); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	m := NewMetadata(1, 4096, p.NumPages())
	if err := p.WriteMetadata(m); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	got, err := p.ReadMetadata()
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if got.Version != 1 || got.RootPageID != 1 || got.PageSize != 4096 || got.NumPages != 1 {
		t.Fatalf("metadata round trip mismatch: %+v", got)
	}
	if got.CreatedAt != m.CreatedAt {
		t.Fatalf("CreatedAt = %d, want %d", got.CreatedAt, m.CreatedAt)
	}
}

func TestSecondOpenIsLockedOut(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "pages.bin")
	p, err := Open(fp, 4096)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := Open(fp, 4096); !errors.Is(err, ErrFileLocked) {
		t.Fatalf("second open: got %v, want ErrFileLocked", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	p2, err := Open(fp, 4096)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	p2.Close()
}

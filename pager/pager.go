package pager

import (
	"errors"
	"fmt"
	"os"
)

// MaxPageSize caps the supported page size at 1 MiB.
const MaxPageSize = 1 << 20

var (
	// ErrInvalidInput marks rejected arguments: a page size of 0 or over
	// 1 MiB, an empty snapshot file, a page-size mismatch on load.
	ErrInvalidInput = errors.New("pager: invalid input")

	// ErrInvalidData marks decoding failures: bad magic, bad page type,
	// counts or lengths that escape the page, out-of-range child IDs.
	ErrInvalidData = errors.New("pager: invalid data")

	// ErrFileLocked is returned when another pager already holds the
	// backing file.
	ErrFileLocked = errors.New("pager: file already locked")
)

// Pager owns the backing file and all page-level I/O. Page ID i lives at
// byte offset i*pageSize; ID 0 is the metadata page and is not counted in
// numPages.
type Pager struct {
	file     *os.File
	pageSize int
	numPages PageID
}

// Open opens (or creates) a pager over the given file. An existing file
// is not truncated. On Unix the file is locked exclusively for the
// lifetime of the pager; on Windows no lock is taken.
func Open(path string, pageSize int) (*Pager, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("pager: page size %d out of range (0, %d]: %w",
			pageSize, MaxPageSize, ErrInvalidInput)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}

	return &Pager{file: f, pageSize: pageSize}, nil
}

// OpenSnapshot opens an existing snapshot file, validates its metadata
// and adopts the stored page count. Fails on an empty file.
func OpenSnapshot(path string, pageSize int) (*Pager, *Metadata, error) {
	p, err := Open(path, pageSize)
	if err != nil {
		return nil, nil, err
	}

	info, err := p.file.Stat()
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		p.Close()
		return nil, nil, fmt.Errorf("pager: snapshot file %s is empty: %w", path, ErrInvalidInput)
	}

	m, err := p.ReadMetadata()
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	p.numPages = m.NumPages
	return p, m, nil
}

// IsValidSnapshot reports whether the file at path looks like a snapshot
// taken with the given page size. It checks the magic, version and page
// size only; no structural validation is done.
func IsValidSnapshot(path string, pageSize int) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() < int64(pageSize) {
		return false
	}

	buf := make([]byte, metadataSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return false
	}
	_, err = decodeMetadata(buf, uint32(pageSize))
	return err == nil
}

// AllocatePage reserves the next page on disk, extending the file with
// zeroes, and returns its ID. The first allocation yields ID 1. If the
// write fails the page count is left untouched so the next allocation
// retries the same offset.
func (p *Pager) AllocatePage() (PageID, error) {
	if p.pageSize <= 0 || p.pageSize > MaxPageSize {
		return 0, fmt.Errorf("pager: page size %d out of range (0, %d]: %w",
			p.pageSize, MaxPageSize, ErrInvalidInput)
	}

	newID := p.numPages + 1
	if p.numPages == 0 {
		newID = 1
	}

	blank := make([]byte, p.pageSize)
	if _, err := p.file.WriteAt(blank, p.offset(newID)); err != nil {
		return 0, fmt.Errorf("pager: allocate page %d: %w", newID, err)
	}
	p.numPages = newID
	return newID, nil
}

// WritePage encodes the page and writes it at its ID's offset.
func (p *Pager) WritePage(page *Page) error {
	buf, err := encodePage(page, p.pageSize)
	if err != nil {
		return err
	}
	if _, err := p.file.WriteAt(buf, p.offset(page.ID)); err != nil {
		return fmt.Errorf("pager: write page %d: %w", page.ID, err)
	}
	return nil
}

// ReadPage reads and decodes the page with the given ID.
func (p *Pager) ReadPage(id PageID) (*Page, error) {
	if id == 0 || id > p.numPages {
		return nil, fmt.Errorf("pager: page id %d out of range [1, %d]: %w",
			id, p.numPages, ErrInvalidData)
	}
	buf := make([]byte, p.pageSize)
	if _, err := p.file.ReadAt(buf, p.offset(id)); err != nil {
		return nil, fmt.Errorf("pager: read page %d: %w", id, err)
	}
	return decodePage(id, buf, p.numPages)
}

// WriteMetadata serialises the metadata record at offset 0.
func (p *Pager) WriteMetadata(m *Metadata) error {
	buf := encodeMetadata(m, p.pageSize)
	if _, err := p.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("pager: write metadata: %w", err)
	}
	return nil
}

// ReadMetadata deserialises and validates the metadata record at offset 0.
func (p *Pager) ReadMetadata() (*Metadata, error) {
	buf := make([]byte, p.pageSize)
	if _, err := p.file.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("pager: read metadata: %w", err)
	}
	return decodeMetadata(buf, uint32(p.pageSize))
}

// Sync flushes the file to stable storage.
func (p *Pager) Sync() error {
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("pager: sync: %w", err)
	}
	return nil
}

// Close releases the file lock and closes the backing file.
func (p *Pager) Close() error {
	if err := unlockFile(p.file); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}

// NumPages returns the number of allocated data pages. The metadata page
// is outside this count.
func (p *Pager) NumPages() PageID {
	return p.numPages
}

// PageSize returns the page size the file was opened with.
func (p *Pager) PageSize() int {
	return p.pageSize
}

func (p *Pager) offset(id PageID) int64 {
	return int64(id) * int64(p.pageSize)
}

package pager

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Metadata layout (28 bytes, padded to pageSize on disk):
//
//	[0..3]   ASCII "BTRE"
//	[4..7]   uint32 version (= 1)
//	[8..11]  uint32 root page ID
//	[12..15] uint32 page size
//	[16..19] uint32 number of data pages
//	[20..27] uint64 creation time, seconds since epoch
const (
	metadataSize    = 28
	metadataVersion = 1
)

var metadataMagic = [4]byte{'B', 'T', 'R', 'E'}

// Metadata is the record anchored at page offset 0. The metadata page is
// not counted in NumPages.
type Metadata struct {
	Version    uint32
	RootPageID PageID
	PageSize   uint32
	NumPages   PageID
	CreatedAt  uint64
}

// NewMetadata builds a version-1 metadata record stamped with the current
// time.
func NewMetadata(rootPageID PageID, pageSize uint32, numPages PageID) *Metadata {
	return &Metadata{
		Version:    metadataVersion,
		RootPageID: rootPageID,
		PageSize:   pageSize,
		NumPages:   numPages,
		CreatedAt:  uint64(time.Now().Unix()),
	}
}

func encodeMetadata(m *Metadata, pageSize int) []byte {
	buf := make([]byte, pageSize)
	copy(buf[0:4], metadataMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], m.Version)
	binary.LittleEndian.PutUint32(buf[8:12], m.RootPageID)
	binary.LittleEndian.PutUint32(buf[12:16], m.PageSize)
	binary.LittleEndian.PutUint32(buf[16:20], m.NumPages)
	binary.LittleEndian.PutUint64(buf[20:28], m.CreatedAt)
	return buf
}

// decodeMetadata validates the magic, version and page size against the
// caller-supplied expectation.
func decodeMetadata(buf []byte, pageSize uint32) (*Metadata, error) {
	if len(buf) < metadataSize {
		return nil, fmt.Errorf("pager: metadata too small (%d bytes): %w", len(buf), ErrInvalidData)
	}
	if [4]byte(buf[0:4]) != metadataMagic {
		return nil, fmt.Errorf("pager: bad magic bytes %q: %w", buf[0:4], ErrInvalidData)
	}

	m := &Metadata{
		Version:    binary.LittleEndian.Uint32(buf[4:8]),
		RootPageID: binary.LittleEndian.Uint32(buf[8:12]),
		PageSize:   binary.LittleEndian.Uint32(buf[12:16]),
		NumPages:   binary.LittleEndian.Uint32(buf[16:20]),
		CreatedAt:  binary.LittleEndian.Uint64(buf[20:28]),
	}

	if m.Version != metadataVersion {
		return nil, fmt.Errorf("pager: unsupported snapshot version %d: %w", m.Version, ErrInvalidData)
	}
	if m.PageSize != pageSize {
		return nil, fmt.Errorf("pager: snapshot page size %d does not match %d: %w",
			m.PageSize, pageSize, ErrInvalidInput)
	}
	return m, nil
}

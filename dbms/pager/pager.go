// Package pager provides typed I/O over a file of fixed-size 512-byte
// blocks. Block 0 is reserved for the index header; every other block
// holds exactly one encoded tree node.
package pager

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// BlockSize is the fixed size of every block in the index file.
const BlockSize = 512

var (
	// ErrNotFound is returned when opening an index file that does not exist.
	ErrNotFound = errors.New("pager: file not found")

	// ErrShortBlock is returned when fewer than BlockSize bytes could be
	// read at a block offset.
	ErrShortBlock = errors.New("pager: short block")
)

// Block is a raw 512-byte block read from or written to disk.
type Block [BlockSize]byte

// File wraps an open index file and reads or writes whole blocks at
// block-indexed offsets.
type File struct {
	f *os.File
}

// Create creates a brand-new index file for read/write access.
// It fails if the file already exists.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("pager: create %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// Open opens an existing index file for read/write access.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("pager: open %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// ReadBlock reads the block with the given index from disk.
func (p *File) ReadBlock(id uint64) (*Block, error) {
	b := new(Block)
	n, err := p.f.ReadAt(b[:], p.offset(id))
	if n < BlockSize {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("pager: read block %d: %w", id, ErrShortBlock)
		}
		return nil, fmt.Errorf("pager: read block %d: %w", id, err)
	}
	return b, nil
}

// WriteBlock writes the block at the given index and flushes the file.
func (p *File) WriteBlock(id uint64, b *Block) error {
	if _, err := p.f.WriteAt(b[:], p.offset(id)); err != nil {
		return fmt.Errorf("pager: write block %d: %w", id, err)
	}
	if err := p.f.Sync(); err != nil {
		return fmt.Errorf("pager: flush block %d: %w", id, err)
	}
	return nil
}

// Size returns the current file size in bytes.
func (p *File) Size() (int64, error) {
	info, err := p.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("pager: stat: %w", err)
	}
	return info.Size(), nil
}

// Close closes the underlying file. Calling Close more than once is a no-op.
func (p *File) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

func (p *File) offset(id uint64) int64 {
	return int64(id) * BlockSize
}

package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/bindexdb/bindex/dbms/pager"
)

// ─── Constants ────────────────────────────────────────────────────────────────

const (
	// MinDegree is the B-tree minimum degree t. Every node holds at most
	// 2t-1 keys and 2t children; every non-root node holds at least t-1
	// keys once insertion completes.
	MinDegree = 10

	MaxKeys     = 2*MinDegree - 1
	MaxChildren = 2 * MinDegree

	// Offsets inside a raw node block. All fields are big-endian uint64.
	offBlockID  = 0
	offParentID = 8
	offKeyCount = 16
	offKeys     = 24
	offValues   = offKeys + MaxKeys*8
	offChildren = offValues + MaxKeys*8
	// offChildren + MaxChildren*8 = 488; the final 24 bytes stay zero.
)

// magic identifies a valid index file. It occupies the first 8 bytes of
// block 0.
const magic = "4337PRJ3"

// Node is the in-memory form of one tree node. The first KeyCount slots
// of Keys/Values are live; Children[i] == 0 means "no child".
type Node struct {
	BlockID  uint64
	ParentID uint64
	KeyCount int
	Keys     [MaxKeys]uint64
	Values   [MaxKeys]uint64
	Children [MaxChildren]uint64
}

// IsLeaf reports whether the node has no children at all.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Children {
		if c != 0 {
			return false
		}
	}
	return true
}

// ─── Block codec ──────────────────────────────────────────────────────────────

// encodeHeader fills b with the index header: magic, root block id and
// next free block id, zero padded to the block size.
func encodeHeader(b *pager.Block, rootID, nextBlockID uint64) {
	for i := range b {
		b[i] = 0
	}
	copy(b[:8], magic)
	binary.BigEndian.PutUint64(b[8:16], rootID)
	binary.BigEndian.PutUint64(b[16:24], nextBlockID)
}

// decodeHeader validates the magic and extracts the header fields.
func decodeHeader(b *pager.Block) (rootID, nextBlockID uint64, err error) {
	if string(b[:8]) != magic {
		return 0, 0, fmt.Errorf("btree: header: %w", ErrBadMagic)
	}
	rootID = binary.BigEndian.Uint64(b[8:16])
	nextBlockID = binary.BigEndian.Uint64(b[16:24])
	return rootID, nextBlockID, nil
}

// encodeNode serializes n into b. Unused key, value and child slots are
// written as zero, so the padding after the children array stays zero too.
func encodeNode(b *pager.Block, n *Node) {
	for i := range b {
		b[i] = 0
	}
	binary.BigEndian.PutUint64(b[offBlockID:], n.BlockID)
	binary.BigEndian.PutUint64(b[offParentID:], n.ParentID)
	binary.BigEndian.PutUint64(b[offKeyCount:], uint64(n.KeyCount))
	for i := 0; i < MaxKeys; i++ {
		binary.BigEndian.PutUint64(b[offKeys+i*8:], n.Keys[i])
		binary.BigEndian.PutUint64(b[offValues+i*8:], n.Values[i])
	}
	for i := 0; i < MaxChildren; i++ {
		binary.BigEndian.PutUint64(b[offChildren+i*8:], n.Children[i])
	}
}

// decodeNode is the inverse of encodeNode. It does not validate semantic
// invariants; higher layers may.
func decodeNode(b *pager.Block) *Node {
	n := &Node{
		BlockID:  binary.BigEndian.Uint64(b[offBlockID:]),
		ParentID: binary.BigEndian.Uint64(b[offParentID:]),
		KeyCount: int(binary.BigEndian.Uint64(b[offKeyCount:])),
	}
	for i := 0; i < MaxKeys; i++ {
		n.Keys[i] = binary.BigEndian.Uint64(b[offKeys+i*8:])
		n.Values[i] = binary.BigEndian.Uint64(b[offValues+i*8:])
	}
	for i := 0; i < MaxChildren; i++ {
		n.Children[i] = binary.BigEndian.Uint64(b[offChildren+i*8:])
	}
	return n
}

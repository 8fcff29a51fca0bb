// Package btree implements a single-file, disk-resident B-tree index
// mapping uint64 keys to uint64 values.
//
// File layout (512-byte blocks):
//
//	block 0    header: magic "4337PRJ3", root block id, next free block id
//	block k>0  one tree node: block id, parent id, key count,
//	           19 keys, 19 values, 20 child block ids (big-endian uint64)
//
// Nodes move between memory and disk through a small write-back cache;
// the engine itself touches only the header block. The file grows
// monotonically — there is no delete operation.
package btree

import (
	"errors"
	"fmt"

	"github.com/bindexdb/bindex/dbms/index"
	"github.com/bindexdb/bindex/dbms/pager"
)

var (
	// ErrNotOpen is returned when an operation is attempted on a closed tree.
	ErrNotOpen = errors.New("btree: index file is not open")

	// ErrBadMagic is returned when a file does not start with the index magic.
	ErrBadMagic = errors.New("btree: bad magic")

	// ErrDuplicateKey is returned when inserting a key that is already present.
	ErrDuplicateKey = errors.New("btree: duplicate key")

	// ErrInvalidInput is returned for keys or values that are not unsigned
	// decimal integers.
	ErrInvalidInput = errors.New("btree: invalid input")
)

// Tree is a disk-resident B-tree index over a single block file.
type Tree struct {
	path        string
	file        *pager.File
	cache       *nodeCache
	rootID      uint64 // 0 means the tree is empty
	nextBlockID uint64 // smallest unused block id, never decreases
}

// Create creates a new index file at path and opens it for read/write.
// The new file holds only the header block: an empty tree.
func Create(path string) (*Tree, error) {
	f, err := pager.Create(path)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		path:        path,
		file:        f,
		cache:       newNodeCache(f, cacheCapacity),
		rootID:      0,
		nextBlockID: 1,
	}
	// Reserve block 0, then write the real header over it.
	var zero pager.Block
	if err := f.WriteBlock(0, &zero); err != nil {
		f.Close()
		return nil, err
	}
	if err := t.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// Open opens an existing index file and validates its header.
func Open(path string) (*Tree, error) {
	f, err := pager.Open(path)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		path:  path,
		file:  f,
		cache: newNodeCache(f, cacheCapacity),
	}
	if err := t.load(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// load re-reads the header after clearing the cache, so the in-memory
// view starts from the committed on-disk state.
func (t *Tree) load() error {
	if err := t.cache.clear(); err != nil {
		return err
	}
	blk, err := t.file.ReadBlock(0)
	if err != nil {
		return err
	}
	rootID, nextBlockID, err := decodeHeader(blk)
	if err != nil {
		return fmt.Errorf("%s: %w", t.path, err)
	}
	t.rootID = rootID
	t.nextBlockID = nextBlockID
	return nil
}

// Close flushes every cached node to disk and closes the file.
// Calling Close on a closed tree is a no-op.
func (t *Tree) Close() error {
	if t.file == nil {
		return nil
	}
	if err := t.cache.clear(); err != nil {
		return err
	}
	err := t.file.Close()
	t.file = nil
	return err
}

// Path returns the path of the backing index file.
func (t *Tree) Path() string { return t.path }

// ─── Public operations ────────────────────────────────────────────────────────

// Insert adds the key/value pair to the index. Keys are unique; inserting
// a key that is already present fails with ErrDuplicateKey and leaves the
// tree unchanged.
func (t *Tree) Insert(key, value uint64) error {
	if t.file == nil {
		return ErrNotOpen
	}
	if _, found, err := t.Search(key); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%w: %d", ErrDuplicateKey, key)
	}

	prevNext := t.nextBlockID

	if t.rootID == 0 {
		// Empty tree: the first node always lands in block 1.
		root := &Node{BlockID: 1, KeyCount: 1}
		root.Keys[0] = key
		root.Values[0] = value
		if t.nextBlockID < 2 {
			t.nextBlockID = 2
		}
		t.rootID = root.BlockID
		if err := t.cache.put(root.BlockID, root); err != nil {
			return err
		}
		return t.writeHeader()
	}

	root, err := t.cache.get(t.rootID)
	if err != nil {
		return err
	}
	start := root
	if root.KeyCount == MaxKeys {
		// Root is full: grow the tree by one level before descending.
		newRoot := t.allocate()
		newRoot.Children[0] = root.BlockID
		root.ParentID = newRoot.BlockID
		t.rootID = newRoot.BlockID
		if err := t.writeHeader(); err != nil {
			return err
		}
		if err := t.splitChild(newRoot, 0, root); err != nil {
			return err
		}
		start = newRoot
	}
	if err := t.insertNonFull(start, key, value); err != nil {
		return err
	}
	if t.nextBlockID != prevNext {
		return t.writeHeader()
	}
	return nil
}

// Search returns the value stored under key, or false when absent.
func (t *Tree) Search(key uint64) (uint64, bool, error) {
	if t.file == nil {
		return 0, false, ErrNotOpen
	}
	id := t.rootID
	for id != 0 {
		n, err := t.cache.get(id)
		if err != nil {
			return 0, false, err
		}
		i := 0
		for i < n.KeyCount && key > n.Keys[i] {
			i++
		}
		if i < n.KeyCount && key == n.Keys[i] {
			return n.Values[i], true, nil
		}
		if n.IsLeaf() {
			return 0, false, nil
		}
		id = n.Children[i]
	}
	return 0, false, nil
}

// Traverse returns every pair in the index in strictly increasing key
// order.
func (t *Tree) Traverse() ([]index.Pair, error) {
	if t.file == nil {
		return nil, ErrNotOpen
	}
	if t.rootID == 0 {
		return nil, nil
	}
	var out []index.Pair
	if err := t.inorder(t.rootID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tree) inorder(id uint64, out *[]index.Pair) error {
	n, err := t.cache.get(id)
	if err != nil {
		return err
	}
	for i := 0; i < n.KeyCount; i++ {
		if n.Children[i] != 0 {
			if err := t.inorder(n.Children[i], out); err != nil {
				return err
			}
		}
		*out = append(*out, index.Pair{Key: n.Keys[i], Value: n.Values[i]})
	}
	if n.Children[n.KeyCount] != 0 {
		return t.inorder(n.Children[n.KeyCount], out)
	}
	return nil
}

// ─── Insert internals ─────────────────────────────────────────────────────────

// allocate hands out the next free block id. The node reaches disk once
// it is put into the cache and later evicted or flushed.
func (t *Tree) allocate() *Node {
	n := &Node{BlockID: t.nextBlockID}
	t.nextBlockID++
	return n
}

// insertNonFull walks down from v, splitting any full child it is about
// to enter, and places the pair in the leaf it ends up in. v itself must
// not be full.
func (t *Tree) insertNonFull(v *Node, key, value uint64) error {
	for {
		if v.IsLeaf() {
			i := v.KeyCount - 1
			for i >= 0 && key < v.Keys[i] {
				v.Keys[i+1] = v.Keys[i]
				v.Values[i+1] = v.Values[i]
				i--
			}
			v.Keys[i+1] = key
			v.Values[i+1] = value
			v.KeyCount++
			return t.cache.put(v.BlockID, v)
		}

		i := v.KeyCount - 1
		for i >= 0 && key < v.Keys[i] {
			i--
		}
		i++

		var child *Node
		if v.Children[i] == 0 {
			// A well-formed internal node has children 0..KeyCount
			// populated, so this branch should never fire during normal
			// insertion. It is kept from the original engine as a
			// repair path for files that violate that invariant.
			child = t.allocate()
			child.ParentID = v.BlockID
			v.Children[i] = child.BlockID
			if err := t.cache.put(child.BlockID, child); err != nil {
				return err
			}
			if err := t.cache.put(v.BlockID, v); err != nil {
				return err
			}
		} else {
			var err error
			child, err = t.cache.get(v.Children[i])
			if err != nil {
				return err
			}
		}

		if child.KeyCount == MaxKeys {
			if err := t.splitChild(v, i, child); err != nil {
				return err
			}
			// The promoted median may redirect us to the new sibling.
			if key > v.Keys[i] {
				i++
			}
		}
		next, err := t.cache.get(v.Children[i])
		if err != nil {
			return err
		}
		v = next
	}
}

// splitChild splits the full child c of p at child index i. c keeps its
// first t-1 keys, a new sibling takes the last t-1, and the median moves
// up into p at key index i.
func (t *Tree) splitChild(p *Node, i int, c *Node) error {
	sib := t.allocate()
	sib.ParentID = p.BlockID
	sib.KeyCount = MinDegree - 1
	copy(sib.Keys[:MinDegree-1], c.Keys[MinDegree:])
	copy(sib.Values[:MinDegree-1], c.Values[MinDegree:])
	if !c.IsLeaf() {
		copy(sib.Children[:MinDegree], c.Children[MinDegree:])
	}

	medianKey := c.Keys[MinDegree-1]
	medianValue := c.Values[MinDegree-1]

	c.KeyCount = MinDegree - 1
	for j := MinDegree - 1; j < MaxKeys; j++ {
		c.Keys[j] = 0
		c.Values[j] = 0
	}
	for j := MinDegree; j < MaxChildren; j++ {
		c.Children[j] = 0
	}

	for j := p.KeyCount; j > i; j-- {
		p.Keys[j] = p.Keys[j-1]
		p.Values[j] = p.Values[j-1]
	}
	for j := p.KeyCount + 1; j > i+1; j-- {
		p.Children[j] = p.Children[j-1]
	}
	p.Children[i+1] = sib.BlockID
	p.Keys[i] = medianKey
	p.Values[i] = medianValue
	p.KeyCount++

	if err := t.cache.put(p.BlockID, p); err != nil {
		return err
	}
	if err := t.cache.put(c.BlockID, c); err != nil {
		return err
	}
	return t.cache.put(sib.BlockID, sib)
}

// writeHeader persists the current root and next-block ids. The header
// is the only block the engine writes without going through the cache.
func (t *Tree) writeHeader() error {
	var blk pager.Block
	encodeHeader(&blk, t.rootID, t.nextBlockID)
	return t.file.WriteBlock(0, &blk)
}

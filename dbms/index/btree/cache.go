package btree

import "github.com/bindexdb/bindex/dbms/pager"

// cacheCapacity is the number of nodes held in memory at once. It is
// deliberately small so that eviction exercises regularly.
const cacheCapacity = 3

// nodeCache is a capacity-bounded, access-ordered map from block id to
// node with write-back semantics: a node reaches disk when its entry is
// evicted or when the cache is cleared, whichever comes first. The cache
// is the sole writer of node blocks; the engine writes only the header
// block directly.
type nodeCache struct {
	cap   int
	file  *pager.File
	items map[uint64]*cacheEntry
	head  *cacheEntry // most recent
	tail  *cacheEntry // least recent
}

type cacheEntry struct {
	id   uint64
	node *Node
	prev *cacheEntry
	next *cacheEntry
}

func newNodeCache(file *pager.File, capacity int) *nodeCache {
	return &nodeCache{
		cap:   capacity,
		file:  file,
		items: make(map[uint64]*cacheEntry, capacity),
	}
}

// get returns the node for id, loading it from disk on a miss. Either
// way the entry becomes the most recently used one.
func (c *nodeCache) get(id uint64) (*Node, error) {
	if e, ok := c.items[id]; ok {
		c.moveToFront(e)
		return e.node, nil
	}
	blk, err := c.file.ReadBlock(id)
	if err != nil {
		return nil, err
	}
	node := decodeNode(blk)
	if err := c.insert(id, node); err != nil {
		return nil, err
	}
	return node, nil
}

// put installs node as the authoritative copy for id. Repeated puts for
// the same id coalesce; only the latest state is written on eviction.
func (c *nodeCache) put(id uint64, node *Node) error {
	if e, ok := c.items[id]; ok {
		e.node = node
		c.moveToFront(e)
		return nil
	}
	return c.insert(id, node)
}

// clear writes every cached node back to disk and drops all entries.
func (c *nodeCache) clear() error {
	for id, e := range c.items {
		if err := c.writeNode(e.node); err != nil {
			return err
		}
		delete(c.items, id)
	}
	c.head = nil
	c.tail = nil
	return nil
}

func (c *nodeCache) insert(id uint64, node *Node) error {
	if len(c.items) >= c.cap {
		if err := c.evict(); err != nil {
			return err
		}
	}
	e := &cacheEntry{id: id, node: node}
	c.items[id] = e
	c.pushFront(e)
	return nil
}

// evict writes the least-recently-used node to disk and removes it.
func (c *nodeCache) evict() error {
	e := c.tail
	if e == nil {
		return nil
	}
	if err := c.writeNode(e.node); err != nil {
		return err
	}
	delete(c.items, e.id)
	c.tail = e.prev
	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}
	return nil
}

func (c *nodeCache) writeNode(n *Node) error {
	var blk pager.Block
	encodeNode(&blk, n)
	return c.file.WriteBlock(n.BlockID, &blk)
}

func (c *nodeCache) pushFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *nodeCache) moveToFront(e *cacheEntry) {
	if c.head == e {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
}

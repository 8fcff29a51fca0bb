package btree

import (
	"fmt"
	"io"
)

// ExportDOT writes the block-level structure of the tree as a Graphviz
// digraph, one record-shaped node per block. Useful for eyeballing splits
// while debugging: dot -Tpng out.dot -o out.png
func (t *Tree) ExportDOT(w io.Writer) error {
	if t.file == nil {
		return ErrNotOpen
	}
	fmt.Fprintln(w, "digraph bindex {")
	fmt.Fprintln(w, "  node [shape=record, fontname=\"Helvetica\", fontsize=10];")
	if t.rootID != 0 {
		if err := t.exportDOTNode(w, t.rootID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func (t *Tree) exportDOTNode(w io.Writer, id uint64) error {
	n, err := t.cache.get(id)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("block %d", n.BlockID)
	for i := 0; i < n.KeyCount; i++ {
		label += fmt.Sprintf("|%d:%d", n.Keys[i], n.Values[i])
	}
	fmt.Fprintf(w, "  n%d [label=\"%s\"];\n", n.BlockID, label)

	// Copy the child ids out first: rendering a child may evict n.
	var children []uint64
	for i := 0; i <= n.KeyCount && i < MaxChildren; i++ {
		if n.Children[i] != 0 {
			children = append(children, n.Children[i])
		}
	}
	for _, child := range children {
		fmt.Fprintf(w, "  n%d -> n%d;\n", id, child)
		if err := t.exportDOTNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

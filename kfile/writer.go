package kfile

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/koremap/koremap/mesh"
)

// Writer emits keyword files. The zero value writes 16-wide coordinates
// with a header comment, which matches what the reader accepts.
type Writer struct {
	// UseMapped writes each node's mapped position when one is set.
	UseMapped bool
	// Precision for coordinate formatting; <= 0 means 9 significant digits.
	Precision int
	// OmitHeader drops the leading comment block.
	OmitHeader bool
}

// Write serializes the mesh to filename, sections ordered *NODE,
// *ELEMENT_SOLID, *PART, *END. Nodes and elements are emitted in ascending
// id order so output is reproducible.
func (w *Writer) Write(filename string, m *mesh.Mesh) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	prec := w.Precision
	if prec <= 0 {
		prec = 9
	}

	if !w.OmitHeader {
		fmt.Fprintf(bw, "$ %s\n", m.Name)
		fmt.Fprintf(bw, "$ nodes: %d, elements: %d\n", len(m.Nodes), len(m.Elements))
	}
	fmt.Fprintln(bw, "*KEYWORD")

	fmt.Fprintln(bw, "*NODE")
	for _, id := range m.SortedNodeIDs() {
		n := m.Nodes[id]
		p := n.Position
		if w.UseMapped && n.IsMapped {
			p = n.Mapped
		}
		fmt.Fprintf(bw, "%8d%16.*g%16.*g%16.*g\n", id, prec, p.X, prec, p.Y, prec, p.Z)
	}

	fmt.Fprintln(bw, "*ELEMENT_SOLID")
	for _, id := range m.SortedElementIDs() {
		e := m.Elements[id]
		fmt.Fprintf(bw, "%8d%8d", id, e.PartID)
		for _, nid := range e.NodeIDs {
			fmt.Fprintf(bw, "%8d", nid)
		}
		fmt.Fprintln(bw)
	}

	for _, pid := range sortedPartIDs(m) {
		p := m.Parts[pid]
		fmt.Fprintln(bw, "*PART")
		fmt.Fprintln(bw, p.Name)
		fmt.Fprintf(bw, "%10d\n", p.ID)
	}

	fmt.Fprintln(bw, "*END")
	if err := bw.Flush(); err != nil {
		return err
	}
	return nil
}

func sortedPartIDs(m *mesh.Mesh) []int {
	ids := make([]int, 0, len(m.Parts))
	for id := range m.Parts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Package grid discovers the implicit (i,j,k) lattice structure of a
// hexahedral mesh from element-to-element face adjacency, with no reference
// to node coordinates.
package grid

import (
	"fmt"
	"sort"

	"github.com/koremap/koremap/mesh"
)

// Neighbor records one adjacency edge from the owning element's point of
// view.
type Neighbor struct {
	ElementID    int // neighbor element id
	OwnFace      int // local face index on the owning element
	NeighborFace int // local face index on the neighbor
}

// BoundaryFace is a face whose canonical key occurred exactly once.
type BoundaryFace struct {
	NodeIDs   [4]int // as ordered on the owning element's face
	ElementID int
	LocalFace int
}

// Connectivity is the element adjacency relation of one mesh.
type Connectivity struct {
	Neighbors      map[int][]Neighbor
	BoundaryFaces  []BoundaryFace
	CornerElements []int // element ids with exactly 3 neighbors, ascending
}

// faceKey is the canonical identity of a quad face: its node ids sorted
// ascending. Two faces are the same face iff their keys are equal.
type faceKey [4]int

func canonicalKey(ids [4]int) faceKey {
	s := ids[:]
	sort.Ints(s)
	return faceKey{s[0], s[1], s[2], s[3]}
}

type faceRef struct {
	elementID int
	localFace int
	nodeIDs   [4]int
}

// BuildConnectivity buckets every (element, face) pair by canonical face key
// and derives the adjacency relation. A key shared by two faces is an
// internal face; a single occurrence is a boundary face; more than two is a
// corrupt mesh. The resulting relation is validated against the structured
// grid invariants: neighbor counts in {3,4,5,6} and exactly 8 corner
// elements.
func BuildConnectivity(m *mesh.Mesh) (*Connectivity, error) {
	if len(m.Elements) == 0 {
		return nil, fmt.Errorf("mesh has no elements")
	}

	buckets := make(map[faceKey][]faceRef, len(m.Elements)*3)
	for _, id := range m.SortedElementIDs() {
		e := m.Elements[id]
		if e.Type != mesh.Hex8 {
			return nil, fmt.Errorf("element %d is %s, connectivity requires Hex8", id, e.Type)
		}
		for face := 0; face < mesh.NumFaces; face++ {
			ids := e.FaceNodeIDs(face)
			key := canonicalKey(ids)
			buckets[key] = append(buckets[key], faceRef{elementID: id, localFace: face, nodeIDs: ids})
		}
	}

	c := &Connectivity{Neighbors: make(map[int][]Neighbor, len(m.Elements))}
	for id := range m.Elements {
		c.Neighbors[id] = nil
	}

	for key, refs := range buckets {
		switch len(refs) {
		case 1:
			c.BoundaryFaces = append(c.BoundaryFaces, BoundaryFace{
				NodeIDs:   refs[0].nodeIDs,
				ElementID: refs[0].elementID,
				LocalFace: refs[0].localFace,
			})
		case 2:
			a, b := refs[0], refs[1]
			c.Neighbors[a.elementID] = append(c.Neighbors[a.elementID],
				Neighbor{ElementID: b.elementID, OwnFace: a.localFace, NeighborFace: b.localFace})
			c.Neighbors[b.elementID] = append(c.Neighbors[b.elementID],
				Neighbor{ElementID: a.elementID, OwnFace: b.localFace, NeighborFace: a.localFace})
		default:
			return nil, fmt.Errorf("face %v is shared by %d elements, mesh is corrupt", key, len(refs))
		}
	}

	if err := c.validateStructured(); err != nil {
		return nil, err
	}

	// Deterministic neighbor order and boundary face order.
	for id := range c.Neighbors {
		nbrs := c.Neighbors[id]
		sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].OwnFace < nbrs[b].OwnFace })
	}
	sort.Slice(c.BoundaryFaces, func(a, b int) bool {
		if c.BoundaryFaces[a].ElementID != c.BoundaryFaces[b].ElementID {
			return c.BoundaryFaces[a].ElementID < c.BoundaryFaces[b].ElementID
		}
		return c.BoundaryFaces[a].LocalFace < c.BoundaryFaces[b].LocalFace
	})
	sort.Ints(c.CornerElements)

	return c, nil
}

func (c *Connectivity) validateStructured() error {
	corners := 0
	var cornerIDs []int
	for id, nbrs := range c.Neighbors {
		n := len(nbrs)
		switch n {
		case 3:
			corners++
			cornerIDs = append(cornerIDs, id)
		case 4, 5, 6:
		default:
			return fmt.Errorf("not a structured grid: element %d has %d neighbors (expected 3-6)", id, n)
		}
	}
	if corners != 8 {
		return fmt.Errorf("not a structured grid: expected 8 corner elements, found %d", corners)
	}
	c.CornerElements = cornerIDs
	return nil
}

// NeighborCount returns how many elements share a face with the element.
func (c *Connectivity) NeighborCount(elementID int) int {
	return len(c.Neighbors[elementID])
}

// SharedFace returns the local face of a through which it touches b, or -1.
func (c *Connectivity) SharedFace(a, b int) int {
	for _, nbr := range c.Neighbors[a] {
		if nbr.ElementID == b {
			return nbr.OwnFace
		}
	}
	return -1
}

// ElementsWithNeighborCount returns the ids of elements with exactly n
// neighbors, ascending.
func (c *Connectivity) ElementsWithNeighborCount(n int) []int {
	var ids []int
	for id, nbrs := range c.Neighbors {
		if len(nbrs) == n {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

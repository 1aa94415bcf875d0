package grid

import (
	"fmt"
	"sort"

	"github.com/koremap/koremap/mesh"
)

// address is a lattice coordinate during propagation.
type address struct{ i, j, k int }

// step returns the address one signed unit away along the axis implied by
// the shared face. This is the whole of the direction bookkeeping: the face
// index alone determines axis (face/2) and sign (parity).
func (a address) step(face int) address {
	dir := mesh.FaceDirection(face)
	switch mesh.FaceAxis(face) {
	case 0:
		a.i += dir
	case 1:
		a.j += dir
	case 2:
		a.k += dir
	}
	return a
}

// AssignIndices gives every element an (i,j,k) address by breadth-first
// propagation from a seed corner, then normalizes the box to start at
// (0,0,0), stores the grid extents on the mesh, and relabels axes so that
// dimK <= dimJ <= dimI.
//
// The seed is the corner element with the smallest id, which makes the
// resulting addressing reproducible across runs. Address values (not the
// topology) depend on this choice.
func AssignIndices(m *mesh.Mesh, c *Connectivity) error {
	if len(m.Elements) == 0 {
		return fmt.Errorf("mesh has no elements")
	}
	if len(c.CornerElements) == 0 {
		return fmt.Errorf("cannot find corner element to start indexing")
	}

	for _, e := range m.Elements {
		e.ClearGridIndex()
	}

	seed := c.CornerElements[0]
	if n := c.NeighborCount(seed); n != 3 {
		return fmt.Errorf("seed element %d is not a corner (has %d neighbors)", seed, n)
	}

	type queued struct {
		id   int
		addr address
	}
	queue := []queued{{id: seed}}
	m.Element(seed).SetGridIndex(0, 0, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, nbr := range c.Neighbors[cur.id] {
			ne := m.Element(nbr.ElementID)
			if ne == nil || ne.IndexAssigned {
				continue
			}
			next := cur.addr.step(nbr.OwnFace)
			ne.SetGridIndex(next.i, next.j, next.k)
			queue = append(queue, queued{id: nbr.ElementID, addr: next})
		}
	}

	for _, id := range m.SortedElementIDs() {
		if !m.Elements[id].IndexAssigned {
			return fmt.Errorf("element %d was not indexed", id)
		}
	}

	normalize(m)
	dimI, dimJ, dimK := dimensions(m)
	m.SetGridDimensions(dimI, dimJ, dimK)
	reorderAxes(m)
	return nil
}

// normalize shifts all addresses so the box starts at the origin.
func normalize(m *mesh.Mesh) {
	minI, minJ, minK := 0, 0, 0
	for _, e := range m.Elements {
		if e.I < minI {
			minI = e.I
		}
		if e.J < minJ {
			minJ = e.J
		}
		if e.K < minK {
			minK = e.K
		}
	}
	for _, e := range m.Elements {
		e.I -= minI
		e.J -= minJ
		e.K -= minK
	}
}

func dimensions(m *mesh.Mesh) (dimI, dimJ, dimK int) {
	for _, e := range m.Elements {
		if e.I+1 > dimI {
			dimI = e.I + 1
		}
		if e.J+1 > dimJ {
			dimJ = e.J + 1
		}
		if e.K+1 > dimK {
			dimK = e.K + 1
		}
	}
	return
}

// reorderAxes permutes the address axes so the largest extent becomes i and
// the smallest k. Pure relabeling: node identities and geometry are
// untouched.
func reorderAxes(m *mesh.Mesh) {
	type axisDim struct{ dim, axis int }
	dims := []axisDim{{m.DimI, 0}, {m.DimJ, 1}, {m.DimK, 2}}
	sort.SliceStable(dims, func(a, b int) bool { return dims[a].dim > dims[b].dim })

	if dims[0].axis == 0 && dims[1].axis == 1 && dims[2].axis == 2 {
		return // already canonical
	}

	for _, e := range m.Elements {
		old := [3]int{e.I, e.J, e.K}
		e.I = old[dims[0].axis]
		e.J = old[dims[1].axis]
		e.K = old[dims[2].axis]
	}
	m.SetGridDimensions(dims[0].dim, dims[1].dim, dims[2].dim)
}

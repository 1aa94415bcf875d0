package grid

import (
	"fmt"
	"sort"

	"github.com/koremap/koremap/mesh"
)

// EdgeNodes is one of the 12 boundary edges of the logical box as an
// ordered node-id chain, walking one axis with the other two held at their
// extremes.
type EdgeNodes struct {
	Axis        int // 0=i, 1=j, 2=k
	NodeIDs     []int
	StartCorner int // corner index 0-7
	EndCorner   int
}

// Boundary is the topological skin of an indexed mesh: the physical node
// grid, the 8 corner node ids, the 12 boundary edges, and the element ids
// on each of the 6 logical faces. Pure index bookkeeping, no geometry.
type Boundary struct {
	DimI, DimJ, DimK int

	// nodeGrid[i][j][k] holds the node id at that lattice point, or -1
	// when the mesh never supplied it.
	nodeGrid [][][]int

	Corners   [8]int
	Edges     [12]EdgeNodes
	FaceElems [6][]int // element ids on each logical face, by local face index
}

// edge index layout: 0-3 run along i, 4-7 along j, 8-11 along k. The
// (start,end) corners follow the hex corner numbering of the mesh package.
var edgeCorners = [12][2]int{
	{0, 1}, {3, 2}, {4, 5}, {7, 6}, // i-edges: (j,k) = (0,0),(N,0),(0,P),(N,P)
	{0, 3}, {1, 2}, {4, 7}, {5, 6}, // j-edges: (i,k) = (0,0),(M,0),(0,P),(M,P)
	{0, 4}, {1, 5}, {3, 7}, {2, 6}, // k-edges: (i,j) = (0,0),(M,0),(0,N),(M,N)
}

// ExtractBoundary derives the boundary topology of a mesh whose elements
// carry structured addresses. The only failure mode is a mesh without grid
// extents; individual missing grid cells surface as -1 node ids.
func ExtractBoundary(m *mesh.Mesh) (*Boundary, error) {
	if !m.GridDimsSet {
		return nil, fmt.Errorf("mesh has no grid dimensions, run index assignment first")
	}

	b := &Boundary{DimI: m.DimI, DimJ: m.DimJ, DimK: m.DimK}
	b.buildNodeGrid(m)
	b.collectFaceElements(m)
	b.extractCorners()
	b.extractEdges()
	return b, nil
}

func (b *Boundary) buildNodeGrid(m *mesh.Mesh) {
	ni, nj, nk := b.DimI+1, b.DimJ+1, b.DimK+1
	b.nodeGrid = make([][][]int, ni)
	for i := 0; i < ni; i++ {
		b.nodeGrid[i] = make([][]int, nj)
		for j := 0; j < nj; j++ {
			row := make([]int, nk)
			for k := range row {
				row[k] = -1
			}
			b.nodeGrid[i][j] = row
		}
	}

	for _, e := range m.Elements {
		if !e.IndexAssigned {
			continue
		}
		for n := 0; n < mesh.NumNodes; n++ {
			off := mesh.HexCornerOffsets[n]
			gi, gj, gk := e.I+off[0], e.J+off[1], e.K+off[2]
			if gi < ni && gj < nj && gk < nk {
				b.nodeGrid[gi][gj][gk] = e.NodeIDs[n]
			}
		}
	}
}

func (b *Boundary) collectFaceElements(m *mesh.Mesh) {
	for _, id := range m.SortedElementIDs() {
		e := m.Elements[id]
		if !e.IndexAssigned {
			continue
		}
		if e.I == 0 {
			b.FaceElems[0] = append(b.FaceElems[0], id)
		}
		if e.I == b.DimI-1 {
			b.FaceElems[1] = append(b.FaceElems[1], id)
		}
		if e.J == 0 {
			b.FaceElems[2] = append(b.FaceElems[2], id)
		}
		if e.J == b.DimJ-1 {
			b.FaceElems[3] = append(b.FaceElems[3], id)
		}
		if e.K == 0 {
			b.FaceElems[4] = append(b.FaceElems[4], id)
		}
		if e.K == b.DimK-1 {
			b.FaceElems[5] = append(b.FaceElems[5], id)
		}
	}
}

func (b *Boundary) extractCorners() {
	ni, nj, nk := b.DimI, b.DimJ, b.DimK
	b.Corners[0] = b.NodeAt(0, 0, 0)
	b.Corners[1] = b.NodeAt(ni, 0, 0)
	b.Corners[2] = b.NodeAt(ni, nj, 0)
	b.Corners[3] = b.NodeAt(0, nj, 0)
	b.Corners[4] = b.NodeAt(0, 0, nk)
	b.Corners[5] = b.NodeAt(ni, 0, nk)
	b.Corners[6] = b.NodeAt(ni, nj, nk)
	b.Corners[7] = b.NodeAt(0, nj, nk)
}

func (b *Boundary) extractEdges() {
	ni, nj, nk := b.DimI, b.DimJ, b.DimK

	walkI := func(j, k int) []int {
		ids := make([]int, 0, ni+1)
		for i := 0; i <= ni; i++ {
			ids = append(ids, b.NodeAt(i, j, k))
		}
		return ids
	}
	walkJ := func(i, k int) []int {
		ids := make([]int, 0, nj+1)
		for j := 0; j <= nj; j++ {
			ids = append(ids, b.NodeAt(i, j, k))
		}
		return ids
	}
	walkK := func(i, j int) []int {
		ids := make([]int, 0, nk+1)
		for k := 0; k <= nk; k++ {
			ids = append(ids, b.NodeAt(i, j, k))
		}
		return ids
	}

	chains := [12][]int{
		walkI(0, 0), walkI(nj, 0), walkI(0, nk), walkI(nj, nk),
		walkJ(0, 0), walkJ(ni, 0), walkJ(0, nk), walkJ(ni, nk),
		walkK(0, 0), walkK(ni, 0), walkK(0, nj), walkK(ni, nj),
	}
	for idx := range b.Edges {
		b.Edges[idx] = EdgeNodes{
			Axis:        idx / 4,
			NodeIDs:     chains[idx],
			StartCorner: edgeCorners[idx][0],
			EndCorner:   edgeCorners[idx][1],
		}
	}
}

// NodeAt returns the node id at lattice point (i,j,k), or -1 when absent or
// out of range.
func (b *Boundary) NodeAt(i, j, k int) int {
	if i < 0 || j < 0 || k < 0 || i > b.DimI || j > b.DimJ || k > b.DimK {
		return -1
	}
	return b.nodeGrid[i][j][k]
}

// NodesOnFace returns the deduplicated, ascending node ids on one of the 6
// logical faces, resolved through each boundary element's local face table.
func (b *Boundary) NodesOnFace(m *mesh.Mesh, face int) []int {
	if face < 0 || face >= mesh.NumFaces {
		return nil
	}
	seen := make(map[int]struct{})
	local := mesh.FaceLocalNodes(face)
	for _, id := range b.FaceElems[face] {
		e := m.Element(id)
		if e == nil {
			continue
		}
		for _, ln := range local {
			seen[e.NodeIDs[ln]] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

package grid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koremap/koremap/generator"
	"github.com/koremap/koremap/grid"
	"github.com/koremap/koremap/mesh"
)

func flatBox(dimI, dimJ, dimK int) *mesh.Mesh {
	cfg := generator.DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = dimI, dimJ, dimK
	m, err := generator.Flat(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

func TestBuildConnectivity(t *testing.T) {
	m := flatBox(5, 4, 3)
	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)

	{ // Neighbor count census of a 5x4x3 box
		assert.Equal(t, 8, len(c.CornerElements))
		assert.Equal(t, 8, len(c.ElementsWithNeighborCount(3)))
		// Interior elements see all six faces matched
		assert.Equal(t, (5-2)*(4-2)*(3-2), len(c.ElementsWithNeighborCount(6)))
		// Boundary face count is the surface area in faces
		assert.Equal(t, 2*(5*4+4*3+3*5), len(c.BoundaryFaces))
	}

	{ // Adjacency is symmetric and through opposite faces
		for id, nbrs := range c.Neighbors {
			for _, nbr := range nbrs {
				own := c.SharedFace(id, nbr.ElementID)
				back := c.SharedFace(nbr.ElementID, id)
				assert.True(t, own >= 0 && back >= 0)
				assert.Equal(t, mesh.OppositeFace(own), back)
			}
		}
	}
}

func TestBuildConnectivityRejectsBadMeshes(t *testing.T) {
	{ // A single element has no corners to find
		m := flatBox(1, 1, 1)
		_, err := grid.BuildConnectivity(m)
		assert.Error(t, err)
	}
	{ // Three elements sharing one face is corrupt
		m := mesh.NewMesh()
		for id := 1; id <= 16; id++ {
			m.AddNode(id, float64(id), 0, 0)
		}
		m.AddElement(1, 1, [8]int{1, 2, 3, 4, 5, 6, 7, 8})
		m.AddElement(2, 1, [8]int{5, 6, 7, 8, 9, 10, 11, 12})
		m.AddElement(3, 1, [8]int{5, 6, 7, 8, 13, 14, 15, 16})
		_, err := grid.BuildConnectivity(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shared by 3")
	}
	{ // Tets cannot participate
		cfg := generator.DefaultConfig()
		cfg.DimI, cfg.DimJ, cfg.DimK = 2, 2, 2
		m, err := generator.TetMesh(cfg)
		require.NoError(t, err)
		_, err = grid.BuildConnectivity(m)
		assert.Error(t, err)
	}
}

func TestAssignIndices(t *testing.T) {
	m := flatBox(5, 4, 3)
	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)
	require.NoError(t, grid.AssignIndices(m, c))

	assert.True(t, m.GridDimsSet)
	assert.Equal(t, [3]int{5, 4, 3}, [3]int{m.DimI, m.DimJ, m.DimK})

	{ // Every cell of the box is claimed exactly once
		seen := make(map[[3]int]int)
		for id, e := range m.Elements {
			require.True(t, e.IndexAssigned)
			assert.True(t, e.I >= 0 && e.I < m.DimI)
			assert.True(t, e.J >= 0 && e.J < m.DimJ)
			assert.True(t, e.K >= 0 && e.K < m.DimK)
			seen[[3]int{e.I, e.J, e.K}] = id
		}
		assert.Equal(t, len(m.Elements), len(seen))
	}

	{ // Neighbors differ by one step along exactly one axis
		for id, nbrs := range c.Neighbors {
			e := m.Element(id)
			for _, nbr := range nbrs {
				ne := m.Element(nbr.ElementID)
				di, dj, dk := abs(e.I-ne.I), abs(e.J-ne.J), abs(e.K-ne.K)
				assert.Equal(t, 1, di+dj+dk)
			}
		}
	}
}

func TestAssignIndicesCanonicalAxisOrder(t *testing.T) {
	// Generated with the long axis last: relabeling must still deliver
	// dimK <= dimJ <= dimI.
	m := flatBox(2, 3, 5)
	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)
	require.NoError(t, grid.AssignIndices(m, c))
	assert.Equal(t, [3]int{5, 3, 2}, [3]int{m.DimI, m.DimJ, m.DimK})
}

func TestAssignIndicesAllCornerBlock(t *testing.T) {
	// In a 2x2x2 block every element is a corner with exactly 3 neighbors.
	m := flatBox(2, 2, 2)
	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)
	assert.Equal(t, 8, len(c.CornerElements))
	for id := range m.Elements {
		assert.Equal(t, 3, len(c.Neighbors[id]))
	}

	require.NoError(t, grid.AssignIndices(m, c))
	assert.Equal(t, [3]int{2, 2, 2}, [3]int{m.DimI, m.DimJ, m.DimK})

	// The origin cell owns the node at the bounding-box minimum corner
	min, _ := m.BoundingBox()
	var minNode int
	best := math.Inf(1)
	for id, n := range m.Nodes {
		if d := n.Position.Dist(min); d < best {
			best, minNode = d, id
		}
	}
	for _, e := range m.Elements {
		if e.I == 0 && e.J == 0 && e.K == 0 {
			assert.True(t, e.ContainsNode(minNode))
		}
	}
}

func TestExtractBoundary(t *testing.T) {
	m := flatBox(4, 3, 2)
	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)
	require.NoError(t, grid.AssignIndices(m, c))

	b, err := grid.ExtractBoundary(m)
	require.NoError(t, err)

	{ // Corners resolve and are distinct
		seen := make(map[int]bool)
		for _, id := range b.Corners {
			assert.True(t, id >= 0)
			seen[id] = true
		}
		assert.Equal(t, 8, len(seen))
	}

	{ // Edge chains have the right length and run corner to corner
		lens := [3]int{b.DimI + 1, b.DimJ + 1, b.DimK + 1}
		for idx, e := range b.Edges {
			assert.Equal(t, idx/4, e.Axis)
			require.Equal(t, lens[e.Axis], len(e.NodeIDs))
			assert.Equal(t, b.Corners[e.StartCorner], e.NodeIDs[0])
			assert.Equal(t, b.Corners[e.EndCorner], e.NodeIDs[len(e.NodeIDs)-1])
		}
	}

	{ // Face element and node counts
		assert.Equal(t, b.DimJ*b.DimK, len(b.FaceElems[0]))
		assert.Equal(t, b.DimI*b.DimK, len(b.FaceElems[2]))
		assert.Equal(t, b.DimI*b.DimJ, len(b.FaceElems[4]))
		assert.Equal(t, (b.DimJ+1)*(b.DimK+1), len(b.NodesOnFace(m, 0)))
		assert.Equal(t, (b.DimI+1)*(b.DimJ+1), len(b.NodesOnFace(m, 5)))
	}

	{ // Boundary extraction requires indexing
		_, err := grid.ExtractBoundary(flatBox(2, 2, 2))
		assert.Error(t, err)
	}
}

func TestCalculateEdges(t *testing.T) {
	cfg := generator.DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = 4, 3, 2
	cfg.LengthI, cfg.LengthJ, cfg.LengthK = 100, 20, 10
	m, err := generator.Flat(cfg)
	require.NoError(t, err)

	c, err := grid.BuildConnectivity(m)
	require.NoError(t, err)
	require.NoError(t, grid.AssignIndices(m, c))
	b, err := grid.ExtractBoundary(m)
	require.NoError(t, err)

	edges := grid.CalculateEdges(m, b)

	assert.InDelta(t, 100., edges.NeutralLength(0), 1e-9)
	assert.InDelta(t, 20., edges.NeutralLength(1), 1e-9)
	assert.InDelta(t, 10., edges.NeutralLength(2), 1e-9)
	assert.InDelta(t, 25., edges.AvgElementSize(0), 1e-9)

	for idx := 0; idx < 12; idx++ {
		e := edges.Edges[idx]
		cum := e.Cumulative()
		require.Equal(t, len(e.Points), len(cum))
		assert.Equal(t, 0., cum[0])
		assert.InDelta(t, e.TotalLength, cum[len(cum)-1], 1e-12)
		for i := 1; i < len(cum); i++ {
			assert.True(t, cum[i] >= cum[i-1])
		}
		// Undeformed boxes carry no strain
		assert.InDelta(t, 0., edges.Strain(idx), 1e-12)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

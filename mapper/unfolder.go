package mapper

import (
	"fmt"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/grid"
	"github.com/koremap/koremap/mesh"
)

// Unfold reconstructs a canonical flat mesh from a bent structured mesh.
// The flat X coordinate at lattice index i is the average cumulative arc
// length of the four i-parallel boundary edges, so dense and sparse regions
// of the bent mesh stay dense and sparse when flattened. Y and Z spans come
// from the i=0 cross-section corners, which is exactly what Remap's
// bounding-box normalization expects: Remap(bent, Unfold(bent)) reproduces
// the bent node positions up to floating-point tolerance.
func Unfold(bent *mesh.Mesh) (*mesh.Mesh, error) {
	if bent == nil || len(bent.Elements) == 0 {
		return nil, fmt.Errorf("mesh is empty")
	}

	work := bent.Clone()
	conn, err := grid.BuildConnectivity(work)
	if err != nil {
		return nil, fmt.Errorf("input mesh is not a valid structured grid: %w", err)
	}
	if err := grid.AssignIndices(work, conn); err != nil {
		return nil, fmt.Errorf("failed to assign structured indices: %w", err)
	}
	boundary, err := grid.ExtractBoundary(work)
	if err != nil {
		return nil, err
	}
	edges := grid.CalculateEdges(work, boundary)

	return synthesizeFlat(work, boundary, edges), nil
}

// averageArcLengths returns, for each lattice index along i, the mean of
// the cumulative arc lengths of the four i-parallel edges.
func averageArcLengths(edges *grid.EdgeSet) []float64 {
	numNodes := edges.DimI + 1
	cums := [4][]float64{}
	for e := 0; e < 4; e++ {
		cums[e] = edges.Edges[e].Cumulative()
	}

	avg := make([]float64, numNodes)
	for i := 0; i < numNodes; i++ {
		sum, count := 0.0, 0
		for e := 0; e < 4; e++ {
			if i < len(cums[e]) {
				sum += cums[e][i]
				count++
			}
		}
		if count > 0 {
			avg[i] = sum / float64(count)
		} else if edges.DimI > 0 {
			avg[i] = float64(i) / float64(edges.DimI) * edges.NeutralLength(0)
		}
	}
	return avg
}

func synthesizeFlat(work *mesh.Mesh, boundary *grid.Boundary, edges *grid.EdgeSet) *mesh.Mesh {
	dimI, dimJ, dimK := boundary.DimI, boundary.DimJ, boundary.DimK
	arcLengths := averageArcLengths(edges)

	// Y/Z ranges from the i=0 cross-section corners. The bounding box would
	// be wrong here: curvature moves nodes at other i positions.
	cornerPos := func(j, k int, fallback geom.Vec) geom.Vec {
		if id := boundary.NodeAt(0, j, k); id >= 0 {
			if n := work.Node(id); n != nil {
				return n.Position
			}
		}
		return fallback
	}
	halfJ, halfK := edges.NeutralLength(1)/2, edges.NeutralLength(2)/2
	c00 := cornerPos(0, 0, geom.Vec{Y: -halfJ, Z: -halfK})
	c10 := cornerPos(dimJ, 0, geom.Vec{Y: halfJ, Z: -halfK})
	c01 := cornerPos(0, dimK, geom.Vec{Y: -halfJ, Z: halfK})
	c11 := cornerPos(dimJ, dimK, geom.Vec{Y: halfJ, Z: halfK})

	minY := min4(c00.Y, c10.Y, c01.Y, c11.Y)
	maxY := max4(c00.Y, c10.Y, c01.Y, c11.Y)
	minZ := min4(c00.Z, c10.Z, c01.Z, c11.Z)
	maxZ := max4(c00.Z, c10.Z, c01.Z, c11.Z)

	sizeY := maxY - minY
	sizeZ := maxZ - minZ
	if sizeY < 1e-10 {
		sizeY = edges.NeutralLength(1)
	}
	if sizeZ < 1e-10 {
		sizeZ = edges.NeutralLength(2)
	}

	flat := mesh.NewMesh()
	flat.Name = "flat_unfolded"

	// Nodes in k -> j -> i order with i innermost, the same ordering the
	// example generators use, so remapping recovers the lattice exactly.
	nodesPerRow := dimI + 1
	nodesPerSlice := nodesPerRow * (dimJ + 1)
	nodeID := 1
	for k := 0; k <= dimK; k++ {
		z := minZ + float64(k)/float64(dimK)*sizeZ
		for j := 0; j <= dimJ; j++ {
			y := minY + float64(j)/float64(dimJ)*sizeY
			for i := 0; i <= dimI; i++ {
				flat.AddNode(nodeID, arcLengths[i], y, z)
				nodeID++
			}
		}
	}

	elemID := 1
	for k := 0; k < dimK; k++ {
		for j := 0; j < dimJ; j++ {
			for i := 0; i < dimI; i++ {
				base := 1 + i + j*nodesPerRow + k*nodesPerSlice
				flat.AddElement(elemID, 1, [mesh.NumNodes]int{
					base,
					base + 1,
					base + 1 + nodesPerRow,
					base + nodesPerRow,
					base + nodesPerSlice,
					base + 1 + nodesPerSlice,
					base + 1 + nodesPerRow + nodesPerSlice,
					base + nodesPerRow + nodesPerSlice,
				})
				flat.Element(elemID).SetGridIndex(i, j, k)
				elemID++
			}
		}
	}

	flat.AddPart(1, "unfolded_part")
	flat.SetGridDimensions(dimI, dimJ, dimK)
	return flat
}

func min4(a, b, c, d float64) float64 {
	m := a
	for _, v := range []float64{b, c, d} {
		if v < m {
			m = v
		}
	}
	return m
}

func max4(a, b, c, d float64) float64 {
	m := a
	for _, v := range []float64{b, c, d} {
		if v > m {
			m = v
		}
	}
	return m
}

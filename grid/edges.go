package grid

import (
	"gonum.org/v1/gonum/floats"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/mesh"
)

// EdgeCurve is one boundary edge resolved to physical points, with
// per-segment Euclidean lengths. Derived data: rebuild whenever the mesh or
// its indices change.
type EdgeCurve struct {
	Axis           int
	Points         []geom.Vec
	SegmentLengths []float64
	TotalLength    float64
	StartCorner    int
	EndCorner      int
}

// Cumulative returns the running arc length at every point, starting at 0.
func (e *EdgeCurve) Cumulative() []float64 {
	cum := make([]float64, 1, len(e.Points))
	sum := 0.0
	for _, s := range e.SegmentLengths {
		sum += s
		cum = append(cum, sum)
	}
	return cum
}

// EdgeSet holds the 12 boundary edge curves and the per-axis neutral
// lengths (the mean of the 4 edges parallel to each axis).
type EdgeSet struct {
	Edges            [12]EdgeCurve
	DimI, DimJ, DimK int

	neutral [3]float64
}

// CalculateEdges resolves the 12 boundary edges into geometry. Node ids
// that do not resolve are skipped; the mesh is incomplete at that point but
// the remaining chain still yields a usable curve.
func CalculateEdges(m *mesh.Mesh, b *Boundary) *EdgeSet {
	s := &EdgeSet{DimI: b.DimI, DimJ: b.DimJ, DimK: b.DimK}
	for idx := range s.Edges {
		en := b.Edges[idx]
		ec := EdgeCurve{Axis: en.Axis, StartCorner: en.StartCorner, EndCorner: en.EndCorner}
		for _, id := range en.NodeIDs {
			if n := m.Node(id); n != nil {
				ec.Points = append(ec.Points, n.Position)
			}
		}
		for i := 0; i+1 < len(ec.Points); i++ {
			ec.SegmentLengths = append(ec.SegmentLengths, ec.Points[i].Dist(ec.Points[i+1]))
		}
		ec.TotalLength = floats.Sum(ec.SegmentLengths)
		s.Edges[idx] = ec
	}

	for axis := 0; axis < 3; axis++ {
		lengths := make([]float64, 4)
		for p := 0; p < 4; p++ {
			lengths[p] = s.Edges[axis*4+p].TotalLength
		}
		s.neutral[axis] = floats.Sum(lengths) / 4
	}
	return s
}

// NeutralLength returns the canonical flat extent along an axis.
func (s *EdgeSet) NeutralLength(axis int) float64 {
	if axis < 0 || axis > 2 {
		return 0
	}
	return s.neutral[axis]
}

// AvgElementSize returns neutral length divided by the element count along
// the axis.
func (s *EdgeSet) AvgElementSize(axis int) float64 {
	dims := [3]int{s.DimI, s.DimJ, s.DimK}
	if axis < 0 || axis > 2 || dims[axis] <= 0 {
		return 0
	}
	return s.neutral[axis] / float64(dims[axis])
}

// Strain returns the relative deviation of one edge's length from its
// axis's neutral length, a cheap deformation indicator.
func (s *EdgeSet) Strain(edgeIndex int) float64 {
	if edgeIndex < 0 || edgeIndex >= 12 {
		return 0
	}
	neutral := s.neutral[s.Edges[edgeIndex].Axis]
	if neutral <= 0 {
		return 0
	}
	return (s.Edges[edgeIndex].TotalLength - neutral) / neutral
}

// Package mapper builds a continuous coordinate chart over the logical cube
// of a structured hex mesh and evaluates it bidirectionally: remapping flat
// meshes onto a bent reference, and unfolding bent meshes back to canonical
// flat coordinates.
package mapper

import (
	"sort"

	"github.com/koremap/koremap/geom"
)

// EdgeInterpolator evaluates a polyline by arc length: parameter t in [0,1]
// maps to the point t*TotalLength along the curve, not to a point index, so
// uniform parameter steps stay physically uniform even when the lattice
// nodes are unevenly spaced.
type EdgeInterpolator struct {
	points []geom.Vec
	cum    []float64 // cumulative arc length, cum[0] == 0
	total  float64
}

// NewEdgeInterpolator builds the cumulative arc-length table. The input
// slice is copied; the interpolator holds no reference to its source.
func NewEdgeInterpolator(points []geom.Vec) EdgeInterpolator {
	e := EdgeInterpolator{points: append([]geom.Vec(nil), points...)}
	if len(e.points) < 2 {
		return e
	}
	e.cum = make([]float64, len(e.points))
	for i := 1; i < len(e.points); i++ {
		e.total += e.points[i].Dist(e.points[i-1])
		e.cum[i] = e.total
	}
	return e
}

// Valid reports whether the curve has at least two points.
func (e *EdgeInterpolator) Valid() bool { return len(e.points) >= 2 }

// TotalLength returns the arc length of the whole curve.
func (e *EdgeInterpolator) TotalLength() float64 { return e.total }

// PointCount returns the number of polyline points.
func (e *EdgeInterpolator) PointCount() int { return len(e.points) }

// Point returns the i-th polyline point.
func (e *EdgeInterpolator) Point(i int) geom.Vec { return e.points[i] }

// At evaluates the curve at arc-length parameter t, clamped into [0,1].
func (e *EdgeInterpolator) At(t float64) geom.Vec {
	if len(e.points) == 0 {
		return geom.Vec{}
	}
	if len(e.points) == 1 {
		return e.points[0]
	}
	t = geom.Clamp01(t)
	if t <= 0 || e.total <= 0 {
		return e.points[0]
	}
	if t >= 1 {
		return e.points[len(e.points)-1]
	}

	seg, local := e.segment(t)
	return geom.Lerp(e.points[seg], e.points[seg+1], local)
}

// Tangent returns the unit direction of the segment containing t.
func (e *EdgeInterpolator) Tangent(t float64) geom.Vec {
	if len(e.points) < 2 {
		return geom.Vec{X: 1}
	}
	seg, _ := e.segment(geom.Clamp01(t))
	return e.points[seg+1].Sub(e.points[seg]).Normalized()
}

// segment binary-searches the cumulative table for the segment bracketing
// arc length t*total and returns the segment index with the local fraction.
func (e *EdgeInterpolator) segment(t float64) (int, float64) {
	target := t * e.total
	// First index with cum >= target; the segment starts one before it.
	idx := sort.SearchFloat64s(e.cum, target)
	if idx <= 0 {
		return 0, 0
	}
	if idx >= len(e.cum) {
		idx = len(e.cum) - 1
	}
	seg := idx - 1
	segLen := e.cum[idx] - e.cum[seg]
	if segLen <= 0 {
		return seg, 0
	}
	return seg, (target - e.cum[seg]) / segLen
}

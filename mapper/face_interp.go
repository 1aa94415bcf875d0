package mapper

import "github.com/koremap/koremap/geom"

// FacePatch interpolates one boundary face of the logical cube. A bilinear
// patch blends the 4 corners; a Coons patch blends the 4 bounding edge
// curves with a bilinear correction, matching all four edges exactly.
type FacePatch struct {
	corners  [4]geom.Vec // c00, c10, c01, c11 in (s,t) order
	edges    [4]EdgeInterpolator
	bilinear bool
	valid    bool
}

// NewBilinearPatch builds a ruled patch from four corner positions.
func NewBilinearPatch(c00, c10, c01, c11 geom.Vec) FacePatch {
	return FacePatch{
		corners:  [4]geom.Vec{c00, c10, c01, c11},
		bilinear: true,
		valid:    true,
	}
}

// NewCoonsPatch builds a patch from four bounding curves:
// s0 and s1 run along t at s=0 and s=1; t0 and t1 run along s at t=0 and
// t=1. Corners come from the curve endpoints.
func NewCoonsPatch(s0, s1, t0, t1 EdgeInterpolator) FacePatch {
	p := FacePatch{edges: [4]EdgeInterpolator{s0, s1, t0, t1}}
	p.corners[0] = s0.At(0) // c00
	p.corners[1] = s1.At(0) // c10
	p.corners[2] = s0.At(1) // c01
	p.corners[3] = s1.At(1) // c11
	p.valid = s0.Valid() && s1.Valid() && t0.Valid() && t1.Valid()
	return p
}

// At evaluates the patch at (s,t), clamped into the unit square.
func (p *FacePatch) At(s, t float64) geom.Vec {
	if !p.valid {
		return geom.Vec{}
	}
	s = geom.Clamp01(s)
	t = geom.Clamp01(t)

	if p.bilinear {
		bottom := geom.Lerp(p.corners[0], p.corners[1], s)
		top := geom.Lerp(p.corners[2], p.corners[3], s)
		return geom.Lerp(bottom, top, t)
	}

	// Coons: ruled surface in s plus ruled surface in t minus the bilinear
	// corner blend counted by both.
	lc := p.edges[0].At(t).Scale(1 - s).Add(p.edges[1].At(t).Scale(s))
	ld := p.edges[2].At(s).Scale(1 - t).Add(p.edges[3].At(s).Scale(t))
	b := p.corners[0].Scale((1 - s) * (1 - t)).
		Add(p.corners[1].Scale(s * (1 - t))).
		Add(p.corners[2].Scale((1 - s) * t)).
		Add(p.corners[3].Scale(s * t))
	return lc.Add(ld).Sub(b)
}

package mapper

import (
	"fmt"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/grid"
	"github.com/koremap/koremap/mesh"
)

// Mode selects the chart evaluation scheme.
type Mode int

const (
	// EdgeBased blends the four i-parallel edge curves bilinearly in (v,w).
	// Exact at lattice nodes of structured data; the default, and required
	// for the unfold/remap round trip to close.
	EdgeBased Mode = iota
	// Transfinite is Gordon-Hall interpolation over the 6 Coons face
	// patches, 12 edge curves and 8 corners. Smoother when the boundary
	// faces are genuinely curved; reduces to trilinear interpolation on a
	// perfect cube.
	Transfinite
)

// Frame is the coordinate chart f:[0,1]^3 -> R^3 for one bent mesh. It is a
// value built once from extracted geometry and holds no reference to the
// source mesh.
type Frame struct {
	Mode    Mode
	Corners [8]geom.Vec
	Edges   [12]EdgeInterpolator
	Faces   [6]FacePatch
}

// faceEdgeIndices wires each logical face to its four bounding edges in
// Coons (s0, s1, t0, t1) order. Face parameters: face 0/1 use (v,w),
// face 2/3 use (u,w), face 4/5 use (u,v).
var faceEdgeIndices = [6][4]int{
	{8, 10, 4, 6},  // u=0
	{9, 11, 5, 7},  // u=1
	{8, 9, 0, 2},   // v=0
	{10, 11, 1, 3}, // v=1
	{4, 5, 0, 1},   // w=0
	{6, 7, 2, 3},   // w=1
}

// BuildFrame assembles the chart from the mesh's corners and boundary edge
// curves. Fails when a corner node cannot be resolved.
func BuildFrame(m *mesh.Mesh, b *grid.Boundary, edges *grid.EdgeSet) (*Frame, error) {
	f := &Frame{Mode: EdgeBased}

	for i, id := range b.Corners {
		n := m.Node(id)
		if n == nil {
			return nil, fmt.Errorf("corner %d: node %d not found in mesh", i, id)
		}
		f.Corners[i] = n.Position
	}

	for i := range f.Edges {
		f.Edges[i] = NewEdgeInterpolator(edges.Edges[i].Points)
		if !f.Edges[i].Valid() {
			return nil, fmt.Errorf("boundary edge %d has fewer than 2 points", i)
		}
	}

	for face, idx := range faceEdgeIndices {
		f.Faces[face] = NewCoonsPatch(
			f.Edges[idx[0]], f.Edges[idx[1]], f.Edges[idx[2]], f.Edges[idx[3]])
	}
	return f, nil
}

// MapToPhysical evaluates the chart at (u,v,w), clamped into the unit cube.
func (f *Frame) MapToPhysical(u, v, w float64) geom.Vec {
	u = geom.Clamp01(u)
	v = geom.Clamp01(v)
	w = geom.Clamp01(w)
	if f.Mode == Transfinite {
		return f.transfinite(u, v, w)
	}
	return f.edgeBased(u, v, w)
}

// edgeBased evaluates the four i-parallel edges at arc-length parameter u
// and blends them bilinearly across the (v,w) cross section.
func (f *Frame) edgeBased(u, v, w float64) geom.Vec {
	p00 := f.Edges[0].At(u) // j=0, k=0
	p10 := f.Edges[1].At(u) // j=N, k=0
	p01 := f.Edges[2].At(u) // j=0, k=P
	p11 := f.Edges[3].At(u) // j=N, k=P

	bottom := geom.Lerp(p00, p10, v)
	top := geom.Lerp(p01, p11, v)
	return geom.Lerp(bottom, top, w)
}

// transfinite is the Gordon-Hall boolean sum: face contributions minus edge
// contributions plus corner contributions.
func (f *Frame) transfinite(u, v, w float64) geom.Vec {
	mu, mv, mw := 1-u, 1-v, 1-w

	pf := f.Faces[0].At(v, w).Scale(mu)
	pf = pf.Add(f.Faces[1].At(v, w).Scale(u))
	pf = pf.Add(f.Faces[2].At(u, w).Scale(mv))
	pf = pf.Add(f.Faces[3].At(u, w).Scale(v))
	pf = pf.Add(f.Faces[4].At(u, v).Scale(mw))
	pf = pf.Add(f.Faces[5].At(u, v).Scale(w))

	pe := f.Edges[0].At(u).Scale(mv * mw)
	pe = pe.Add(f.Edges[1].At(u).Scale(v * mw))
	pe = pe.Add(f.Edges[2].At(u).Scale(mv * w))
	pe = pe.Add(f.Edges[3].At(u).Scale(v * w))
	pe = pe.Add(f.Edges[4].At(v).Scale(mu * mw))
	pe = pe.Add(f.Edges[5].At(v).Scale(u * mw))
	pe = pe.Add(f.Edges[6].At(v).Scale(mu * w))
	pe = pe.Add(f.Edges[7].At(v).Scale(u * w))
	pe = pe.Add(f.Edges[8].At(w).Scale(mu * mv))
	pe = pe.Add(f.Edges[9].At(w).Scale(u * mv))
	pe = pe.Add(f.Edges[10].At(w).Scale(mu * v))
	pe = pe.Add(f.Edges[11].At(w).Scale(u * v))

	pc := f.Corners[0].Scale(mu * mv * mw)
	pc = pc.Add(f.Corners[1].Scale(u * mv * mw))
	pc = pc.Add(f.Corners[2].Scale(u * v * mw))
	pc = pc.Add(f.Corners[3].Scale(mu * v * mw))
	pc = pc.Add(f.Corners[4].Scale(mu * mv * w))
	pc = pc.Add(f.Corners[5].Scale(u * mv * w))
	pc = pc.Add(f.Corners[6].Scale(u * v * w))
	pc = pc.Add(f.Corners[7].Scale(mu * v * w))

	return pf.Sub(pe).Add(pc)
}

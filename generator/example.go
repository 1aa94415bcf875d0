// Package generator builds example structured meshes: flat reference bars
// and bent variants driven by an analytic centerline with a Frenet frame.
package generator

import (
	"fmt"
	"math"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/mesh"
)

// CenterlineFunc maps t in [0,1] to a centerline position.
type CenterlineFunc func(t float64) geom.Vec

// CrossSectionFunc maps t in [0,1] to (width, height) scale factors.
type CrossSectionFunc func(t float64) (float64, float64)

// Flat generates an axis-aligned structured bar: nodes ordered k -> j -> i
// with i innermost, ids starting at cfg.StartNodeID.
func Flat(cfg Config) (*mesh.Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return sweep(cfg, func(t float64) geom.Vec {
		return geom.Vec{X: t * cfg.LengthI}
	}, nil)
}

// Bent generates a structured mesh swept along the configured centerline.
func Bent(cfg Config) (*mesh.Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	line, section, err := shape(cfg)
	if err != nil {
		return nil, err
	}
	return sweep(cfg, line, section)
}

func shape(cfg Config) (CenterlineFunc, CrossSectionFunc, error) {
	switch cfg.Shape {
	case "", "flat":
		return func(t float64) geom.Vec {
			return geom.Vec{X: t * cfg.LengthI}
		}, nil, nil
	case "arc":
		angle := cfg.ArcAngleDeg * math.Pi / 180
		r := cfg.ArcRadius
		return func(t float64) geom.Vec {
			a := t * angle
			return geom.Vec{X: r * math.Sin(a), Y: r * (1 - math.Cos(a))}
		}, nil, nil
	case "scurve":
		return func(t float64) geom.Vec {
			return geom.Vec{
				X: t * cfg.LengthI,
				Y: cfg.SCurveAmp * math.Sin(2*math.Pi*cfg.SCurveFreq*t),
			}
		}, nil, nil
	case "helix":
		turns := cfg.LengthI / math.Max(cfg.HelixPitch, 1e-10)
		return func(t float64) geom.Vec {
			a := 2 * math.Pi * turns * t
			return geom.Vec{
				X: cfg.HelixRadius * math.Cos(a),
				Y: cfg.HelixRadius * math.Sin(a),
				Z: t * cfg.LengthI,
			}
		}, nil, nil
	case "wave":
		return func(t float64) geom.Vec {
			return geom.Vec{
				X: t * cfg.LengthI,
				Z: cfg.WaveAmp * math.Sin(2*math.Pi*cfg.WaveFreq*t),
			}
		}, nil, nil
	case "twist":
		// Straight centerline; the twist lives in the cross-section frame.
		return func(t float64) geom.Vec {
				return geom.Vec{X: t * cfg.LengthI}
			}, func(t float64) (float64, float64) {
				return 1, 1
			}, nil
	case "bulge":
		return func(t float64) geom.Vec {
				return geom.Vec{X: t * cfg.LengthI}
			}, func(t float64) (float64, float64) {
				d := (t - cfg.BulgePos) / math.Max(cfg.BulgeWidth, 1e-10)
				s := 1 + (cfg.BulgeFactor-1)*math.Exp(-d*d*4)
				return s, s
			}, nil
	case "taper":
		return func(t float64) geom.Vec {
				return geom.Vec{X: t * cfg.LengthI}
			}, func(t float64) (float64, float64) {
				s := 1 + (cfg.TaperRatio-1)*t
				return s, s
			}, nil
	case "teardrop":
		// Flat lead-in, then a fold that wraps back over itself.
		flat := cfg.TeardropFlat
		r := cfg.TeardropRad
		return func(t float64) geom.Vec {
			if t <= flat {
				return geom.Vec{X: t * cfg.LengthI}
			}
			a := (t - flat) / (1 - flat) * math.Pi
			x0 := flat * cfg.LengthI
			return geom.Vec{X: x0 + r*math.Sin(a), Z: r * (1 - math.Cos(a))}
		}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown shape %q", cfg.Shape)
	}
}

// sweep places cross sections along the centerline using a Frenet-style
// frame, then builds the hex lattice over them.
func sweep(cfg Config, line CenterlineFunc, section CrossSectionFunc) (*mesh.Mesh, error) {
	m := mesh.NewMesh()
	m.Name = cfg.Shape

	twist := cfg.TwistDeg * math.Pi / 180
	if cfg.Shape != "twist" {
		twist = 0
	}

	nodesPerRow := cfg.DimI + 1
	nodesPerSlice := nodesPerRow * (cfg.DimJ + 1)

	nodeID := cfg.StartNodeID
	for k := 0; k <= cfg.DimK; k++ {
		zOff := (float64(k)/float64(cfg.DimK) - 0.5) * cfg.LengthK
		for j := 0; j <= cfg.DimJ; j++ {
			yOff := (float64(j)/float64(cfg.DimJ) - 0.5) * cfg.LengthJ
			for i := 0; i <= cfg.DimI; i++ {
				t := float64(i) / float64(cfg.DimI)

				sw, sh := 1.0, 1.0
				if section != nil {
					sw, sh = section(t)
				}
				y, z := yOff*sw, zOff*sh
				if twist != 0 {
					a := twist * t
					y, z = y*math.Cos(a)-z*math.Sin(a), y*math.Sin(a)+z*math.Cos(a)
				}

				center := line(t)
				nrm, bin := frame(line, t)
				p := center.Add(nrm.Scale(y)).Add(bin.Scale(z))
				m.AddNode(nodeID, p.X, p.Y, p.Z)
				nodeID++
			}
		}
	}

	elemID := cfg.StartElementID
	for k := 0; k < cfg.DimK; k++ {
		for j := 0; j < cfg.DimJ; j++ {
			for i := 0; i < cfg.DimI; i++ {
				base := cfg.StartNodeID + i + j*nodesPerRow + k*nodesPerSlice
				m.AddElement(elemID, cfg.PartID, [mesh.NumNodes]int{
					base,
					base + 1,
					base + 1 + nodesPerRow,
					base + nodesPerRow,
					base + nodesPerSlice,
					base + 1 + nodesPerSlice,
					base + 1 + nodesPerRow + nodesPerSlice,
					base + nodesPerRow + nodesPerSlice,
				})
				elemID++
			}
		}
	}

	m.AddPart(cfg.PartID, cfg.Shape)
	return m, nil
}

// frame returns the cross-section normal and binormal at t, from a tangent
// estimated by central differences. Degenerate tangents fall back to the
// global axes.
func frame(line CenterlineFunc, t float64) (nrm, bin geom.Vec) {
	const h = 1e-4
	t0, t1 := math.Max(0, t-h), math.Min(1, t+h)
	tan := line(t1).Sub(line(t0)).Normalized()
	if tan.Norm() < 1e-10 {
		tan = geom.Vec{X: 1}
	}

	up := geom.Vec{Z: 1}
	if math.Abs(tan.Dot(up)) > 0.99 {
		up = geom.Vec{Y: 1}
	}
	nrm = up.Cross(tan).Normalized()
	if nrm.Norm() < 1e-10 {
		nrm = geom.Vec{Y: 1}
	}
	bin = tan.Cross(nrm).Normalized()
	return
}

// Refined generates a flat mesh with factor-times more elements along each
// axis than cfg, for mapping a fine flat part onto a coarse bent reference.
func Refined(cfg Config, factor int) (*mesh.Mesh, error) {
	if factor < 1 {
		return nil, fmt.Errorf("refine factor must be at least 1, got %d", factor)
	}
	fine := cfg
	fine.DimI *= factor
	fine.DimJ *= factor
	fine.DimK *= factor
	return Flat(fine)
}

// tetSplit maps each hex to 5 tetrahedra by local corner indices.
var tetSplit = [5][4]int{
	{0, 1, 2, 5},
	{0, 2, 3, 7},
	{0, 5, 2, 7},
	{0, 5, 7, 4},
	{2, 5, 6, 7},
}

// TetMesh splits each hex of a flat mesh into 5 tetrahedra, written as
// degenerate 8-node solids (the keyword-file convention).
func TetMesh(cfg Config) (*mesh.Mesh, error) {
	hexes, err := Flat(cfg)
	if err != nil {
		return nil, err
	}
	m := mesh.NewMesh()
	m.Name = hexes.Name + "_tet"
	for id, n := range hexes.Nodes {
		nn := *n
		m.Nodes[id] = &nn
	}
	for _, p := range hexes.Parts {
		m.AddPart(p.ID, p.Name)
	}

	elemID := cfg.StartElementID
	for _, hexID := range hexes.SortedElementIDs() {
		he := hexes.Elements[hexID]
		for _, tet := range tetSplit {
			n3 := he.NodeIDs[tet[3]]
			m.AddElement(elemID, he.PartID, [mesh.NumNodes]int{
				he.NodeIDs[tet[0]], he.NodeIDs[tet[1]], he.NodeIDs[tet[2]], n3,
				n3, n3, n3, n3,
			})
			m.Element(elemID).Type = mesh.Tet4
			elemID++
		}
	}
	return m, nil
}

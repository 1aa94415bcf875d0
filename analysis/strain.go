// Package analysis computes per-element deformation measures between a
// reference mesh and its mapped counterpart.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/mesh"
)

// ElementStrain holds the deformation measures of one element, evaluated at
// the element center.
type ElementStrain struct {
	ElementID int
	// F is the 3x3 deformation gradient.
	F *mat.Dense
	// Green is the Green-Lagrange strain tensor 0.5*(F^T F - I).
	Green *mat.SymDense
	// Principal are the eigenvalues of Green in ascending order.
	Principal [3]float64
	// VolumeRatio is det(F), the local volume change.
	VolumeRatio float64
	// MaxShear is half the spread of the principal strains.
	MaxShear float64
	// VonMisesStrain is the equivalent strain of Green.
	VonMisesStrain float64

	// Stress and VonMisesStress are set by Report.ApplyMaterial.
	Stress         *mat.SymDense
	VonMisesStress float64
}

// Report aggregates strain results over a mesh pair.
type Report struct {
	Elements []ElementStrain

	MinVolumeRatio float64
	MaxVolumeRatio float64
	AvgVolumeRatio float64
	// WorstElement has the volume ratio farthest from 1.
	WorstElement int

	MinVonMisesStrain float64
	MaxVonMisesStrain float64
	AvgVonMisesStrain float64

	// Stress aggregates, populated by ApplyMaterial.
	HasStress         bool
	MinVonMisesStress float64
	MaxVonMisesStress float64
	AvgVonMisesStress float64
}

// Analyze computes the deformation of each element of def relative to ref.
// The meshes must share element ids and connectivity; def positions use the
// mapped coordinates where set.
func Analyze(ref, def *mesh.Mesh) (*Report, error) {
	if ref == nil || def == nil {
		return nil, fmt.Errorf("both meshes are required")
	}
	if len(ref.Elements) != len(def.Elements) {
		return nil, fmt.Errorf("element counts differ: %d vs %d", len(ref.Elements), len(def.Elements))
	}

	rep := &Report{
		MinVolumeRatio:    math.Inf(1),
		MaxVolumeRatio:    math.Inf(-1),
		MinVonMisesStrain: math.Inf(1),
		MaxVonMisesStrain: math.Inf(-1),
	}
	worstDev := -1.0
	sum := 0.0
	vmSum := 0.0

	for _, id := range ref.SortedElementIDs() {
		re := ref.Elements[id]
		de := def.Element(id)
		if de == nil {
			return nil, fmt.Errorf("element %d missing from deformed mesh", id)
		}
		if re.Type != mesh.Hex8 || de.Type != mesh.Hex8 {
			continue
		}

		refC, err := cornerPositions(ref, re, false)
		if err != nil {
			return nil, err
		}
		defC, err := cornerPositions(def, de, true)
		if err != nil {
			return nil, err
		}

		es, err := elementStrain(id, refC, defC)
		if err != nil {
			return nil, err
		}
		rep.Elements = append(rep.Elements, es)

		j := es.VolumeRatio
		sum += j
		if j < rep.MinVolumeRatio {
			rep.MinVolumeRatio = j
		}
		if j > rep.MaxVolumeRatio {
			rep.MaxVolumeRatio = j
		}
		if dev := math.Abs(j - 1); dev > worstDev {
			worstDev = dev
			rep.WorstElement = id
		}

		vm := es.VonMisesStrain
		vmSum += vm
		if vm < rep.MinVonMisesStrain {
			rep.MinVonMisesStrain = vm
		}
		if vm > rep.MaxVonMisesStrain {
			rep.MaxVonMisesStrain = vm
		}
	}

	if len(rep.Elements) == 0 {
		return nil, fmt.Errorf("no hexahedral elements to analyze")
	}
	rep.AvgVolumeRatio = sum / float64(len(rep.Elements))
	rep.AvgVonMisesStrain = vmSum / float64(len(rep.Elements))
	return rep, nil
}

// ApplyMaterial computes per-element stresses from the Green strains with an
// isotropic elastic material and fills in the stress aggregates.
func (r *Report) ApplyMaterial(m Material) error {
	if !m.Valid() {
		return fmt.Errorf("invalid material: E=%g, nu=%g", m.E, m.Nu)
	}
	r.MinVonMisesStress = math.Inf(1)
	r.MaxVonMisesStress = math.Inf(-1)
	sum := 0.0
	for i := range r.Elements {
		es := &r.Elements[i]
		es.Stress = m.Stress(es.Green)
		es.VonMisesStress = VonMisesStress(es.Stress)
		sum += es.VonMisesStress
		if es.VonMisesStress < r.MinVonMisesStress {
			r.MinVonMisesStress = es.VonMisesStress
		}
		if es.VonMisesStress > r.MaxVonMisesStress {
			r.MaxVonMisesStress = es.VonMisesStress
		}
	}
	r.AvgVonMisesStress = sum / float64(len(r.Elements))
	r.HasStress = true
	return nil
}

func cornerPositions(m *mesh.Mesh, e *mesh.Element, useMapped bool) ([mesh.NumNodes]geom.Vec, error) {
	var out [mesh.NumNodes]geom.Vec
	for i, nid := range e.NodeIDs {
		n := m.Node(nid)
		if n == nil {
			return out, fmt.Errorf("element %d references missing node %d", e.ID, nid)
		}
		if useMapped {
			out[i] = n.Effective()
		} else {
			out[i] = n.Position
		}
	}
	return out, nil
}

// elementStrain evaluates F at the element center from the covariant base
// vectors of the trilinear interpolant, then derives the strain measures.
func elementStrain(id int, ref, def [mesh.NumNodes]geom.Vec) (ElementStrain, error) {
	refBase := baseVectors(ref)
	defBase := baseVectors(def)

	var refInv mat.Dense
	if err := refInv.Inverse(refBase); err != nil {
		return ElementStrain{}, fmt.Errorf("element %d: reference geometry is degenerate: %w", id, err)
	}

	f := mat.NewDense(3, 3, nil)
	f.Mul(defBase, &refInv)

	var ftf mat.Dense
	ftf.Mul(f.T(), f)
	green := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			v := 0.5 * ftf.At(i, j)
			if i == j {
				v -= 0.5
			}
			green.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(green, false) {
		return ElementStrain{}, fmt.Errorf("element %d: strain eigendecomposition failed", id)
	}
	vals := eig.Values(nil)
	sort.Float64s(vals)

	es := ElementStrain{
		ElementID:      id,
		F:              f,
		Green:          green,
		VolumeRatio:    mat.Det(f),
		VonMisesStrain: VonMisesStrain(green),
	}
	copy(es.Principal[:], vals)
	es.MaxShear = (es.Principal[2] - es.Principal[0]) / 2
	return es, nil
}

// baseVectors returns the 3x3 matrix whose columns are the covariant base
// vectors at the element center, from quarter-averaged corner differences.
func baseVectors(c [mesh.NumNodes]geom.Vec) *mat.Dense {
	di := c[1].Sub(c[0]).Add(c[2].Sub(c[3])).Add(c[5].Sub(c[4])).Add(c[6].Sub(c[7])).Scale(0.25)
	dj := c[3].Sub(c[0]).Add(c[2].Sub(c[1])).Add(c[7].Sub(c[4])).Add(c[6].Sub(c[5])).Scale(0.25)
	dk := c[4].Sub(c[0]).Add(c[5].Sub(c[1])).Add(c[6].Sub(c[2])).Add(c[7].Sub(c[3])).Scale(0.25)
	return mat.NewDense(3, 3, []float64{
		di.X, dj.X, dk.X,
		di.Y, dj.Y, dk.Y,
		di.Z, dj.Z, dk.Z,
	})
}

// Print writes a summary to stdout.
func (r *Report) Print() {
	fmt.Printf("%d\t\t= Elements analyzed\n", len(r.Elements))
	fmt.Printf("%.6g\t= Min volume ratio\n", r.MinVolumeRatio)
	fmt.Printf("%.6g\t= Max volume ratio\n", r.MaxVolumeRatio)
	fmt.Printf("%.6g\t= Avg volume ratio\n", r.AvgVolumeRatio)
	fmt.Printf("%d\t\t= Worst element\n", r.WorstElement)
	fmt.Printf("%.6g\t= Min von Mises strain\n", r.MinVonMisesStrain)
	fmt.Printf("%.6g\t= Max von Mises strain\n", r.MaxVonMisesStrain)
	fmt.Printf("%.6g\t= Avg von Mises strain\n", r.AvgVonMisesStrain)
	if r.HasStress {
		fmt.Printf("%.6g\t= Min von Mises stress\n", r.MinVonMisesStress)
		fmt.Printf("%.6g\t= Max von Mises stress\n", r.MaxVonMisesStress)
		fmt.Printf("%.6g\t= Avg von Mises stress\n", r.AvgVonMisesStress)
	}
}

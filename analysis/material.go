package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Material is an isotropic linear elastic material (Hooke's law).
type Material struct {
	E  float64 // Young's modulus, consistent units
	Nu float64 // Poisson's ratio, 0 < nu < 0.5
}

// IsotropicElastic validates and returns a material.
func IsotropicElastic(e, nu float64) (Material, error) {
	m := Material{E: e, Nu: nu}
	if !m.Valid() {
		return Material{}, fmt.Errorf("invalid material: E=%g, nu=%g (need E > 0, 0 < nu < 0.5)", e, nu)
	}
	return m, nil
}

func (m Material) Valid() bool { return m.E > 0 && m.Nu > 0 && m.Nu < 0.5 }

// ShearModulus returns mu.
func (m Material) ShearModulus() float64 { return m.E / (2 * (1 + m.Nu)) }

// LameLambda returns Lame's first parameter.
func (m Material) LameLambda() float64 {
	return m.E * m.Nu / ((1 + m.Nu) * (1 - 2*m.Nu))
}

// Stress computes sigma = lambda*tr(eps)*I + 2*mu*eps from a strain tensor.
func (m Material) Stress(strain *mat.SymDense) *mat.SymDense {
	lambda, mu := m.LameLambda(), m.ShearModulus()
	tr := strain.At(0, 0) + strain.At(1, 1) + strain.At(2, 2)

	s := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			v := 2 * mu * strain.At(i, j)
			if i == j {
				v += lambda * tr
			}
			s.SetSym(i, j, v)
		}
	}
	return s
}

// deviatoricContraction returns d:d for the deviatoric part of a symmetric
// tensor.
func deviatoricContraction(t *mat.SymDense) float64 {
	mean := (t.At(0, 0) + t.At(1, 1) + t.At(2, 2)) / 3
	sum := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := t.At(i, j)
			if i == j {
				v -= mean
			}
			sum += v * v
		}
	}
	return sum
}

// VonMisesStress is sqrt(3/2 * s:s) over the deviatoric stress.
func VonMisesStress(stress *mat.SymDense) float64 {
	return math.Sqrt(1.5 * deviatoricContraction(stress))
}

// VonMisesStrain is sqrt(2/3 * e:e) over the deviatoric strain.
func VonMisesStrain(strain *mat.SymDense) float64 {
	return math.Sqrt(2.0 / 3.0 * deviatoricContraction(strain))
}

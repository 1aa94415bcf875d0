package kfile

import (
	"bufio"
	"fmt"
	"os"

	"github.com/koremap/koremap/analysis"
)

// DynainWriter emits *INITIAL_STRESS_SOLID cards for prestress
// initialization, one integration point per element.
type DynainWriter struct {
	// LargeDeformation sets the LARGE flag on the stress cards; use it when
	// the strains were computed as Green-Lagrange.
	LargeDeformation bool
}

// Write serializes a stress report to a dynain file. The report must have a
// material applied.
func (w *DynainWriter) Write(filename string, rep *analysis.Report) error {
	if !rep.HasStress {
		return fmt.Errorf("report has no stresses, apply a material first")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	large := 0
	if w.LargeDeformation {
		large = 1
	}

	fmt.Fprintf(bw, "$ prestress cards, %d elements\n", len(rep.Elements))
	fmt.Fprintln(bw, "*KEYWORD")
	fmt.Fprintln(bw, "*INITIAL_STRESS_SOLID")
	for _, es := range rep.Elements {
		// eid, nint, nhisv, large
		fmt.Fprintf(bw, "%10d%10d%10d%10d\n", es.ElementID, 1, 0, large)
		// sigxx, sigyy, sigzz, sigxy, sigyz, sigzx, eps
		s := es.Stress
		fmt.Fprintf(bw, "%10.4g%10.4g%10.4g%10.4g%10.4g%10.4g%10.4g\n",
			s.At(0, 0), s.At(1, 1), s.At(2, 2),
			s.At(0, 1), s.At(1, 2), s.At(0, 2), 0.0)
	}
	fmt.Fprintln(bw, "*END")
	return bw.Flush()
}

// WriteStrainCSV writes the per-element strain results as CSV, usable
// whether or not a material was applied.
func (w *DynainWriter) WriteStrainCSV(filename string, rep *analysis.Report) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	header := "element,exx,eyy,ezz,exy,eyz,exz,von_mises_strain,volume_ratio"
	if rep.HasStress {
		header += ",von_mises_stress"
	}
	fmt.Fprintln(bw, header)
	for _, es := range rep.Elements {
		g := es.Green
		fmt.Fprintf(bw, "%d,%g,%g,%g,%g,%g,%g,%g,%g",
			es.ElementID,
			g.At(0, 0), g.At(1, 1), g.At(2, 2),
			g.At(0, 1), g.At(1, 2), g.At(0, 2),
			es.VonMisesStrain, es.VolumeRatio)
		if rep.HasStress {
			fmt.Fprintf(bw, ",%g", es.VonMisesStress)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

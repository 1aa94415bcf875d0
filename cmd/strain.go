/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koremap/koremap/analysis"
	"github.com/koremap/koremap/kfile"
)

// strainCmd represents the strain command
var strainCmd = &cobra.Command{
	Use:   "strain",
	Short: "Compare a reference mesh against its mapped result",
	Long: `
Computes the per-element deformation gradient, Green-Lagrange strain and
volume ratio of a deformed mesh relative to its reference, and prints a
summary. With a material (-E and --nu) it also computes stresses and can
write *INITIAL_STRESS_SOLID prestress cards in dynain format.

koremap strain -r flat.k -d mapped.k
koremap strain -r flat.k -d mapped.k -E 210000 --nu 0.3 -o prestress.dynain`,
	Run: func(cmd *cobra.Command, args []string) {
		refFile, _ := cmd.Flags().GetString("reference")
		defFile, _ := cmd.Flags().GetString("deformed")
		verbose, _ := cmd.Flags().GetBool("verbose")
		youngs, _ := cmd.Flags().GetFloat64("E")
		nu, _ := cmd.Flags().GetFloat64("nu")
		outFile, _ := cmd.Flags().GetString("output")
		csvFile, _ := cmd.Flags().GetString("csv")

		ref, err := kfile.Read(refFile)
		exitOnError(err)
		def, err := kfile.Read(defFile)
		exitOnError(err)

		rep, err := analysis.Analyze(ref, def)
		exitOnError(err)

		if youngs > 0 {
			mat, merr := analysis.IsotropicElastic(youngs, nu)
			exitOnError(merr)
			exitOnError(rep.ApplyMaterial(mat))
		}
		rep.Print()

		w := kfile.DynainWriter{LargeDeformation: true}
		if outFile != "" {
			exitOnError(w.Write(outFile, rep))
			fmt.Println("wrote", outFile)
		}
		if csvFile != "" {
			exitOnError(w.WriteStrainCSV(csvFile, rep))
			fmt.Println("wrote", csvFile)
		}

		if verbose {
			for _, es := range rep.Elements {
				fmt.Printf("%8d  J=%.6g  principal=(%.4g, %.4g, %.4g)  maxShear=%.4g\n",
					es.ElementID, es.VolumeRatio,
					es.Principal[0], es.Principal[1], es.Principal[2], es.MaxShear)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(strainCmd)
	strainCmd.Flags().StringP("reference", "r", "", "reference mesh (.k)")
	strainCmd.Flags().StringP("deformed", "d", "", "deformed mesh (.k)")
	strainCmd.Flags().BoolP("verbose", "v", false, "print per-element results")
	strainCmd.Flags().Float64P("E", "E", 0, "Young's modulus; enables stress output")
	strainCmd.Flags().Float64("nu", 0.3, "Poisson's ratio")
	strainCmd.Flags().StringP("output", "o", "", "dynain output with *INITIAL_STRESS_SOLID cards")
	strainCmd.Flags().String("csv", "", "per-element strain CSV output")
	strainCmd.MarkFlagRequired("reference")
	strainCmd.MarkFlagRequired("deformed")
}

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
	"os"

	"github.com/spf13/cobra"

	"github.com/koremap/koremap/generator"
	"github.com/koremap/koremap/kfile"
	"github.com/koremap/koremap/mesh"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate example flat and bent meshes",
	Long: `
Builds a structured mesh from an analytic shape or a YAML description and
writes it as a keyword file.

Shapes: flat, arc, scurve, helix, wave, twist, bulge, taper, teardrop,
plus vardensity for a zoned flat bar.

koremap generate -s arc -o arc.k
koremap generate -s vardensity -c zones.yaml -o bar.k`,
	Run: func(cmd *cobra.Command, args []string) {
		shape, _ := cmd.Flags().GetString("shape")
		cfgPath, _ := cmd.Flags().GetString("cfg")
		outFile, _ := cmd.Flags().GetString("output")
		refine, _ := cmd.Flags().GetInt("refine")
		tets, _ := cmd.Flags().GetBool("tets")

		var m *mesh.Mesh
		var err error
		if shape == "vardensity" {
			vcfg := generator.DefaultVarDensityConfig()
			if cfgPath != "" {
				data, rerr := os.ReadFile(cfgPath)
				exitOnError(rerr)
				exitOnError(vcfg.Parse(data))
			}
			m, err = generator.VarDensity(vcfg)
		} else {
			cfg := generator.DefaultConfig()
			cfg.Shape = shape
			if cfgPath != "" {
				data, rerr := os.ReadFile(cfgPath)
				exitOnError(rerr)
				exitOnError(cfg.Parse(data))
			}
			cfg.Print()
			switch {
			case tets:
				m, err = generator.TetMesh(cfg)
			case refine > 1:
				m, err = generator.Refined(cfg, refine)
			default:
				m, err = generator.Bent(cfg)
			}
		}
		exitOnError(err)

		fmt.Printf("generated %d nodes, %d elements\n", len(m.Nodes), len(m.Elements))
		w := kfile.Writer{}
		exitOnError(w.Write(outFile, m))
		fmt.Println("wrote", outFile)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("shape", "s", "flat", "shape to generate")
	generateCmd.Flags().StringP("cfg", "c", "", "YAML config overriding the defaults")
	generateCmd.Flags().StringP("output", "o", "mesh.k", "output mesh file")
	generateCmd.Flags().Int("refine", 1, "refine the flat grid by this factor")
	generateCmd.Flags().Bool("tets", false, "split hexes into degenerate tetrahedra")
}

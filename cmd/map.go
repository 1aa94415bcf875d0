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

	"github.com/koremap/koremap/kfile"
	"github.com/koremap/koremap/mapper"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a flat mesh onto a bent reference mesh",
	Long: `
Reads a bent reference mesh and a flat mesh, infers the bent mesh's
structured topology, and maps every flat node into the bent shape.

koremap map -b bent.k -f flat.k -o mapped.k`,
	Run: func(cmd *cobra.Command, args []string) {
		bentFile, _ := cmd.Flags().GetString("bent")
		flatFile, _ := cmd.Flags().GetString("flat")
		outFile, _ := cmd.Flags().GetString("output")
		modeStr, _ := cmd.Flags().GetString("mode")
		workers, _ := cmd.Flags().GetInt("workers")
		failOnInvalid, _ := cmd.Flags().GetBool("fail-on-invalid")
		precision, _ := cmd.Flags().GetInt("precision")

		mode := mapper.EdgeBased
		if modeStr == "transfinite" {
			mode = mapper.Transfinite
		}

		bent, err := kfile.Read(bentFile)
		exitOnError(err)
		flat, err := kfile.Read(flatFile)
		exitOnError(err)

		fmt.Printf("bent: %d nodes, %d elements\n", len(bent.Nodes), len(bent.Elements))
		fmt.Printf("flat: %d nodes, %d elements\n", len(flat.Nodes), len(flat.Elements))

		mapped, stats, err := mapper.Remap(bent, flat, mapper.Options{
			Mode:          mode,
			Workers:       workers,
			FailOnInvalid: failOnInvalid,
			Progress: func(pct int) {
				fmt.Printf("... %d%%\n", pct)
			},
		})
		exitOnError(err)
		stats.Print()

		w := kfile.Writer{UseMapped: true, Precision: precision}
		exitOnError(w.Write(outFile, mapped))
		fmt.Println("wrote", outFile)
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().StringP("bent", "b", "", "bent reference mesh (.k)")
	mapCmd.Flags().StringP("flat", "f", "", "flat mesh to map (.k)")
	mapCmd.Flags().StringP("output", "o", "mapped.k", "output mesh file")
	mapCmd.Flags().String("mode", "edge", "interpolation mode: edge or transfinite")
	mapCmd.Flags().IntP("workers", "w", 0, "worker goroutines, 0 = GOMAXPROCS")
	mapCmd.Flags().Bool("fail-on-invalid", false, "fail if any mapped element inverts")
	mapCmd.Flags().Int("precision", 0, "coordinate digits in output, 0 = default")
	mapCmd.MarkFlagRequired("bent")
	mapCmd.MarkFlagRequired("flat")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

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

	"github.com/koremap/koremap/kfile"
	"github.com/koremap/koremap/mapper"
)

// unfoldCmd represents the unfold command
var unfoldCmd = &cobra.Command{
	Use:   "unfold",
	Short: "Reconstruct the flat shape of a bent mesh",
	Long: `
Infers the structured topology of a bent mesh and rebuilds its canonical
flat counterpart, preserving the arc-length element density along the
primary axis.

koremap unfold -i bent.k -o flat.k`,
	Run: func(cmd *cobra.Command, args []string) {
		inFile, _ := cmd.Flags().GetString("input")
		outFile, _ := cmd.Flags().GetString("output")
		precision, _ := cmd.Flags().GetInt("precision")

		bent, err := kfile.Read(inFile)
		exitOnError(err)
		fmt.Printf("input: %d nodes, %d elements\n", len(bent.Nodes), len(bent.Elements))

		flat, err := mapper.Unfold(bent)
		exitOnError(err)
		fmt.Printf("unfolded grid: %d x %d x %d\n", flat.DimI, flat.DimJ, flat.DimK)

		w := kfile.Writer{Precision: precision}
		exitOnError(w.Write(outFile, flat))
		fmt.Println("wrote", outFile)
	},
}

func init() {
	rootCmd.AddCommand(unfoldCmd)
	unfoldCmd.Flags().StringP("input", "i", "", "bent mesh (.k)")
	unfoldCmd.Flags().StringP("output", "o", "flat.k", "output mesh file")
	unfoldCmd.Flags().Int("precision", 0, "coordinate digits in output, 0 = default")
	unfoldCmd.MarkFlagRequired("input")
}

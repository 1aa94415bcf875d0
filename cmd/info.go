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

	"github.com/koremap/koremap/grid"
	"github.com/koremap/koremap/kfile"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Inspect a mesh and its structured topology",
	Long: `
Reads a mesh, prints its statistics, and reports whether a structured
(i,j,k) topology can be inferred from it.

koremap info -i mesh.k`,
	Run: func(cmd *cobra.Command, args []string) {
		inFile, _ := cmd.Flags().GetString("input")

		m, err := kfile.Read(inFile)
		exitOnError(err)
		m.Stats().Print()

		conn, err := grid.BuildConnectivity(m)
		if err != nil {
			fmt.Println("not a structured grid:", err)
			return
		}
		if err := grid.AssignIndices(m, conn); err != nil {
			fmt.Println("index assignment failed:", err)
			return
		}
		fmt.Printf("%d x %d x %d\t= Structured grid\n", m.DimI, m.DimJ, m.DimK)

		boundary, err := grid.ExtractBoundary(m)
		exitOnError(err)
		edges := grid.CalculateEdges(m, boundary)
		for axis, name := range []string{"i", "j", "k"} {
			fmt.Printf("%.6g\t= Neutral length along %s\n", edges.NeutralLength(axis), name)
		}
		for e := 0; e < 4; e++ {
			fmt.Printf("%+.4g%%\t= Strain of %s-edge %d\n", edges.Strain(e)*100, "i", e)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("input", "i", "", "mesh to inspect (.k)")
	infoCmd.MarkFlagRequired("input")
}

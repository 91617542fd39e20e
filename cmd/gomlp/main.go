/*
 * main.go, part of gomlp.
 *
 * Copyright 2024 The gomlp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Command gomlp runs the gomlp analyses and conversions from the shell.
package main

import (
	"os"

	"github.com/gomlp/gomlp/cmd/gomlp/commands"
	"github.com/gomlp/gomlp/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gomlp",
	Short: "Tools for machine-learned potential workflows",
	Long: `gomlp - Tools for machine-learned potential workflows.

Reads Quantum ESPRESSO, DeePMD, n2p2 and extended xyz data, writes n2p2
training sets and pw.x inputs, and analyzes the results of LAMMPS runs
with n2p2 potentials.

Examples:
  gomlp convert --from espresso -r data/Si -o input.data
  gomlp cohesive read runs/cohesive
  gomlp elastic setup nnp/train --z 14 --template elastic-template
  gomlp sputter yield runs/Ar-Si --plot yield.png
  gomlp rdf --from xyz md.xyz --plot rdf.png
  gomlp metrics nnp/train`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Initialize(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	commands.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.CohesiveCmd)
	rootCmd.AddCommand(commands.ElasticCmd)
	rootCmd.AddCommand(commands.SputterCmd)
	rootCmd.AddCommand(commands.NeighborCmd)
	rootCmd.AddCommand(commands.RDFCmd)
	rootCmd.AddCommand(commands.DepthCmd)
	rootCmd.AddCommand(commands.PairpotCmd)
	rootCmd.AddCommand(commands.SymfuncCmd)
	rootCmd.AddCommand(commands.MetricsCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.CacheCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

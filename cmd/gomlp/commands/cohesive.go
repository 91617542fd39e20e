/*
 * cohesive.go, part of gomlp.
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

package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/gomlp/gomlp/cohesive"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	cohesiveTemplate  string
	cohesivePotential string
	cohesiveCutoff    float64
	cohesiveAtoms     int
)

// CohesiveCmd sets up and reads LAMMPS cohesive energy calculations.
var CohesiveCmd = &cobra.Command{
	Use:   "cohesive",
	Short: "Cohesive energy calculations",
}

var cohesiveSetupCmd = &cobra.Command{
	Use:   "setup <target>",
	Short: "Write the single-atom and minimization inputs to target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		template := firstNonEmpty(cohesiveTemplate, cfg.Paths.CohesiveTemplate)
		potential := firstNonEmpty(cohesivePotential, cfg.Paths.Potential)
		if template == "" || potential == "" {
			return errors.New("cohesive setup needs a template and a potential directory")
		}
		C := cohesive.NewCalculator(template, potential, args[0])
		C.Cutoff = cohesiveCutoff
		if err := C.Setup(); err != nil {
			return err
		}
		pterm.Success.Printfln("Cohesive energy inputs written to %s", args[0])
		return nil
	},
}

var cohesiveReadCmd = &cobra.Command{
	Use:   "read <dir>",
	Short: "Read the cohesive energy from finished calculations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := cohesive.NewReader(cohesiveAtoms).Read(args[0])
		if err != nil {
			return err
		}
		pterm.Info.Println(res.String())
		return nil
	},
}

func init() {
	cohesiveSetupCmd.Flags().StringVar(&cohesiveTemplate, "template", "", "Template directory (default from config)")
	cohesiveSetupCmd.Flags().StringVar(&cohesivePotential, "potential", "", "n2p2 potential directory (default from config)")
	cohesiveSetupCmd.Flags().Float64Var(&cohesiveCutoff, "cutoff", cohesive.DefaultCutoff, "Pair style cutoff, in A")
	cohesiveReadCmd.Flags().IntVarP(&cohesiveAtoms, "natoms", "n", 8000, "Atoms in the bulk structure, 0 to read them from the log")
	CohesiveCmd.AddCommand(cohesiveSetupCmd, cohesiveReadCmd)
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

/*
 * convert.go, part of gomlp.
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
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/deepmd"
	"github.com/gomlp/gomlp/mlpio"
	"github.com/gomlp/gomlp/qe"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	convertFrom      string
	convertTo        string
	convertOut       string
	convertRecursive bool
	convertTemplate  string
	convertRaw       bool
)

// ConvertCmd converts training structures between formats.
var ConvertCmd = &cobra.Command{
	Use:   "convert [paths...]",
	Short: "Convert structures between formats",
	Long: `Reads structures in one format and writes them in another.

Output formats:
  n2p2      one input.data file (-o)
  deepmd    a DeePMD-kit system directory (-o)
  espresso  one pw.x input deck per structure under -o, built from --template`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	ConvertCmd.Flags().StringVarP(&convertFrom, "from", "f", "espresso", "Input format (espresso, deepmd, n2p2, xyz)")
	ConvertCmd.Flags().StringVarP(&convertTo, "to", "t", "n2p2", "Output format (n2p2, deepmd, espresso)")
	ConvertCmd.Flags().StringVarP(&convertOut, "output", "o", "input.data", "Output file or directory")
	ConvertCmd.Flags().BoolVarP(&convertRecursive, "recursive", "r", false, "Read every pw.x calculation under the given directories")
	ConvertCmd.Flags().StringVar(&convertTemplate, "template", "", "pw.x input template for espresso output")
	ConvertCmd.Flags().BoolVar(&convertRaw, "raw", false, "Write .raw text files instead of .npy for deepmd output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	atoms, err := readStructures(convertFrom, args, convertRecursive)
	if err != nil {
		return err
	}
	to, err := mlp.ParseFormat(convertTo)
	if err != nil {
		return err
	}
	switch to {
	case mlp.FormatN2P2:
		err = mlpio.ExportN2P2(convertOut, atoms, cfg)
	case mlp.FormatDeepMD:
		err = deepmd.WriteSystem(convertOut, atoms, convertRaw)
	case mlp.FormatEspresso:
		err = writeDecks(atoms)
	default:
		return errors.Newf("cannot write %s files", to)
	}
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s to %s", countLabel(len(atoms), "structure"), convertOut)
	return nil
}

func writeDecks(atoms []*mlp.Atoms) error {
	if convertTemplate == "" {
		return errors.New("espresso output needs a --template deck")
	}
	for i, A := range atoms {
		name := A.StructureID
		if name == "" {
			name = fmt.Sprintf("structure_%04d", i)
		}
		dir := filepath.Join(convertOut, fmt.Sprintf("%04d_%s", i, name))
		if err := qe.WriteInput(convertTemplate, filepath.Join(dir, cfg.Espresso.Input), A); err != nil {
			return err
		}
	}
	return nil
}

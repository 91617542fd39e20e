/*
 * elastic.go, part of gomlp.
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
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gomlp/gomlp/elastic"
	"github.com/gomlp/gomlp/mlpplot"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	elasticTemplate string
	elasticTarget   string
	elasticZ        []int
	elasticPlot     string
)

// ElasticCmd sets up and collects per-epoch elastic constant calculations.
var ElasticCmd = &cobra.Command{
	Use:   "elastic",
	Short: "Elastic constants for every saved training epoch",
}

var elasticSetupCmd = &cobra.Command{
	Use:   "setup <training-dir>",
	Short: "Write one LAMMPS elastic calculation per epoch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		template := firstNonEmpty(elasticTemplate, cfg.Paths.ElasticTemplate)
		if template == "" {
			return errors.New("elastic setup needs a template directory")
		}
		if len(elasticZ) == 0 {
			return errors.New("give the atomic numbers of the potential with --z")
		}
		target := firstNonEmpty(elasticTarget, args[0])
		dirs, err := elastic.NewCalculator(args[0], template).Setup(target, elasticZ)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("%s set up under %s", countLabel(len(dirs), "epoch"), filepath.Join(target, elastic.ElasticDir))
		return nil
	},
}

var elasticCollectCmd = &cobra.Command{
	Use:   "collect <elastic-dir>",
	Short: "Tabulate the mechanical properties of the finished epochs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := elastic.Collect(args[0])
		if err != nil {
			return err
		}
		header := append([]string{"epoch"}, elastic.Headers()...)
		data := make([][]string, 0, len(rows))
		epochs := make([]float64, len(rows))
		bulk := make([]float64, len(rows))
		for i, r := range rows {
			line := []string{strconv.Itoa(r.Epoch)}
			for _, v := range r.Values() {
				line = append(line, ftoa(v))
			}
			data = append(data, line)
			epochs[i] = float64(r.Epoch)
			bulk[i] = r.BulkModulus
		}
		if err := printTable(header, data); err != nil {
			return err
		}
		if elasticPlot == "" {
			return nil
		}
		return mlpplot.Lines([]mlpplot.Series{{Name: "bulk modulus", X: epochs, Y: bulk, Points: true}},
			mlpplot.Labels{X: "Epoch", Y: "Bulk modulus (GPa)"}, elasticPlot)
	},
}

func init() {
	elasticSetupCmd.Flags().StringVar(&elasticTemplate, "template", "", "LAMMPS elastic template directory (default from config)")
	elasticSetupCmd.Flags().StringVar(&elasticTarget, "target", "", "Where the elastic directory is created (default: the training directory)")
	elasticSetupCmd.Flags().IntSliceVar(&elasticZ, "z", nil, "Atomic numbers of the elements of the potential")
	elasticCollectCmd.Flags().StringVar(&elasticPlot, "plot", "", "Save the bulk modulus per epoch to this figure")
	ElasticCmd.AddCommand(elasticSetupCmd, elasticCollectCmd)
}

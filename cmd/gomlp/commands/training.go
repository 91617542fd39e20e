/*
 * training.go, part of gomlp.
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
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gomlp/gomlp/metrics"
	"github.com/gomlp/gomlp/mlpio"
	"github.com/gomlp/gomlp/mlpplot"
	"github.com/gomlp/gomlp/n2p2"
	"github.com/gomlp/gomlp/pairpot"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	pairpotMag   bool
	pairpotShift bool
	pairpotPlot  string

	symfuncSpecies []string
	symfuncN       int
	symfuncCSV     string

	metricsRaw   bool
	metricsEpoch int
	metricsPlot  string
)

// PairpotCmd builds a dimer energy curve from pw.x calculations.
var PairpotCmd = &cobra.Command{
	Use:   "pairpot <dirs...>",
	Short: "Pair potential curve from dimer calculations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		O := mlpio.EspressoOptions(cfg)
		var C pairpot.Curve
		var skipped []string
		if pairpotMag {
			C, skipped = pairpot.FromEspressoMag(args, O)
		} else {
			C, skipped = pairpot.FromEspresso(args, O)
		}
		if len(skipped) > 0 {
			pterm.Warning.Printfln("%d directories skipped", len(skipped))
		}
		if len(C) == 0 {
			return errors.New("no dimer energies read")
		}
		if pairpotShift {
			C = C.Shift()
		}
		data := make([][]string, len(C))
		for i, p := range C {
			data[i] = []string{p.Dir, ftoa(p.Distance), ftoa(p.Energy)}
		}
		if err := printTable([]string{"dir", "distance (A)", "energy (eV)"}, data); err != nil {
			return err
		}
		if pairpotPlot == "" {
			return nil
		}
		return mlpplot.Lines([]mlpplot.Series{{Name: "DFT", X: C.Distances(), Y: C.Energies(), Points: true}},
			mlpplot.Labels{X: "Distance (A)", Y: "Energy (eV)"}, pairpotPlot)
	},
}

// SymfuncCmd summarizes the symmetry function values of a scaling run.
var SymfuncCmd = &cobra.Command{
	Use:   "symfunc <dir>",
	Short: "Symmetry function values dumped by nnp-scaling",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		species, err := parseSpecies(symfuncSpecies)
		if err != nil {
			return err
		}
		R, err := n2p2.NewSFReader(args[0])
		if err != nil {
			return err
		}
		tables, err := R.Read(species, symfuncN)
		if err != nil {
			return err
		}
		elements := make([]string, 0, len(tables))
		for k := range tables {
			elements = append(elements, k)
		}
		sort.Strings(elements)
		data := make([][]string, 0, len(elements))
		for _, el := range elements {
			T := tables[el]
			data = append(data, []string{el, strconv.Itoa(len(T.Rows)), strconv.Itoa(len(T.Columns))})
			if symfuncCSV != "" {
				if err := writeSFTable(symfuncCSV+"_"+el+".csv", T); err != nil {
					return err
				}
			}
		}
		pterm.Info.Printfln("%s layout", R.Layout())
		return printTable([]string{"element", "atoms", "functions"}, data)
	},
}

func writeSFTable(path string, T *n2p2.SFTable) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(T.Columns); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	for _, r := range T.Rows {
		line := make([]string, len(r))
		for i, v := range r {
			line[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(line); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "writing %s", path)
}

// MetricsCmd scores every epoch of an n2p2 training.
var MetricsCmd = &cobra.Command{
	Use:   "metrics <training-dir>",
	Short: "R2, RMSE and MAE of the energies and forces per epoch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		O := metrics.DefaultOptions()
		O.Physical(!metricsRaw)
		T, err := metrics.NewTraining(args[0], O)
		if err != nil {
			return err
		}
		scores, err := T.Scores()
		if err != nil {
			return err
		}
		data := make([][]string, len(scores))
		for i, s := range scores {
			data[i] = []string{strconv.Itoa(s.Epoch), s.Data, s.Kind, strconv.Itoa(s.N), ftoa(s.R2), ftoa(s.RMSE), ftoa(s.MAE)}
		}
		if err := printTable([]string{"epoch", "data", "kind", "n", "R2", "RMSE", "MAE"}, data); err != nil {
			return err
		}
		for _, k := range []string{metrics.Energy, metrics.Force} {
			if b, ok := metrics.Best(scores, metrics.Test, k); ok {
				pterm.Success.Printfln("Lowest test %s RMSE: %s at epoch %d", k, ftoa(b.RMSE), b.Epoch)
			}
		}
		if metricsPlot == "" {
			return nil
		}
		epoch := metricsEpoch
		if epoch < 0 {
			b, ok := metrics.Best(scores, metrics.Test, metrics.Energy)
			if !ok {
				return errors.New("no test energies to plot")
			}
			epoch = b.Epoch
		}
		comps, err := T.Comparisons(epoch)
		if err != nil {
			return err
		}
		C := comps[n2p2.TestPoints]
		return mlpplot.Parity(C.Ref, C.NNP, mlpplot.Labels{
			Title: "Test energies, epoch " + strconv.Itoa(epoch),
			X:     "Reference",
			Y:     "NNP",
		}, metricsPlot)
	},
}

func init() {
	PairpotCmd.Flags().BoolVar(&pairpotMag, "mag", false, "Read the first total energy, for spin-polarized runs that may not finish")
	PairpotCmd.Flags().BoolVar(&pairpotShift, "shift", false, "Shift the energies to 0 at the largest distance")
	PairpotCmd.Flags().StringVar(&pairpotPlot, "plot", "", "Save the curve to this figure")
	SymfuncCmd.Flags().StringSliceVarP(&symfuncSpecies, "species", "s", nil, "Elements as Z=symbol, e.g. 14=Si,8=O")
	SymfuncCmd.Flags().IntVarP(&symfuncN, "functions", "n", 0, "Symmetry functions per atom, 0 to read them from the scaling log")
	SymfuncCmd.Flags().StringVar(&symfuncCSV, "csv", "", "Write one CSV table per element, named <prefix>_<element>.csv")
	_ = SymfuncCmd.MarkFlagRequired("species")
	MetricsCmd.Flags().BoolVar(&metricsRaw, "raw", false, "Score the normalized values, without the input.nn conversion factors")
	MetricsCmd.Flags().IntVar(&metricsEpoch, "epoch", -1, "Epoch of the parity plot, -1 for the best test energy RMSE")
	MetricsCmd.Flags().StringVar(&metricsPlot, "plot", "", "Save a parity plot of the test energies to this file")
}

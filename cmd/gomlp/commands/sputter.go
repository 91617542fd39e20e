/*
 * sputter.go, part of gomlp.
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
	"strconv"

	"github.com/gomlp/gomlp/mlpplot"
	"github.com/gomlp/gomlp/sputter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sputterDump     string
	sputterInterval int
	sputterWindow   int
	sputterTypes    []int
	sputterArea     float64
	sputterPlot     string

	yamamuraMin   float64
	yamamuraMax   float64
	yamamuraSteps int
	yamamuraTable string
)

// SputterCmd analyzes sputtering simulations.
var SputterCmd = &cobra.Command{
	Use:   "sputter",
	Short: "Sputtering yields from LAMMPS dumps and the Yamamura formula",
}

var sputterYieldCmd = &cobra.Command{
	Use:   "yield <dir>",
	Short: "Count the sputtered atoms in the dump in dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		C, err := sputter.NewCalculator(args[0], firstNonEmpty(sputterDump, cfg.Sputter.Dump))
		if err != nil {
			return err
		}
		types := sputterTypes
		if len(types) == 0 && cfg.Sputter.Type > 0 {
			types = []int{cfg.Sputter.Type}
		}
		steps, err := C.Sputtered(types...)
		if err != nil {
			return err
		}
		interval := sputterInterval
		if interval <= 0 {
			interval = cfg.Sputter.Interval
		}
		area := sputterArea
		if area <= 0 {
			area = cfg.Sputter.Area
		}
		rows, err := sputter.IonDose(steps, interval, area)
		if err != nil {
			return err
		}
		data := make([][]string, len(rows))
		for i, r := range rows {
			data[i] = []string{strconv.Itoa(r.Timestep), strconv.Itoa(r.Injected), strconv.Itoa(r.Sputtered), ftoa(r.Dose)}
		}
		if err := printTable([]string{"timestep", "injected", "sputtered", "dose (1/A^2)"}, data); err != nil {
			return err
		}
		yield := sputter.Yield(rows)
		if len(yield) > 0 {
			pterm.Info.Printfln("Yield after %d ions: %.4f atoms/ion", yield[len(yield)-1].Injected, yield[len(yield)-1].Value)
		}
		if sputterPlot == "" {
			return nil
		}
		window := sputterWindow
		if window <= 0 {
			window = cfg.Sputter.Window
		}
		avg, err := sputter.SlidingAverage(rows, window)
		if err != nil {
			return err
		}
		return mlpplot.Lines([]mlpplot.Series{
			pointSeries("cumulative yield", yield),
			pointSeries("sliding average", avg),
		}, mlpplot.Labels{X: "Injected ions", Y: "Sputtered atoms per ion"}, sputterPlot)
	},
}

var sputterYamamuraCmd = &cobra.Command{
	Use:   "yamamura <projectile> <target>",
	Short: "Yamamura sputtering yields over an energy range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := sputter.DefaultTable()
		if path := firstNonEmpty(yamamuraTable, cfg.Paths.YamamuraTable); path != "" {
			var err error
			if table, err = sputter.LoadTable(path); err != nil {
				return err
			}
		}
		Y, err := sputter.NewYamamura(args[0], args[1], table)
		if err != nil {
			return err
		}
		energies := make([]float64, yamamuraSteps)
		for i := range energies {
			energies[i] = yamamuraMin
			if yamamuraSteps > 1 {
				energies[i] += float64(i) * (yamamuraMax - yamamuraMin) / float64(yamamuraSteps-1)
			}
		}
		yields := Y.Yields(energies)
		pterm.Info.Printfln("%s on %s: threshold %.4f eV", args[0], args[1], Y.Threshold())
		data := make([][]string, len(energies))
		for i := range energies {
			data[i] = []string{ftoa(energies[i]), ftoa(yields[i])}
		}
		if err := printTable([]string{"energy (eV)", "yield"}, data); err != nil {
			return err
		}
		if sputterPlot == "" {
			return nil
		}
		return mlpplot.Lines([]mlpplot.Series{{Name: "Yamamura", X: energies, Y: yields}},
			mlpplot.Labels{X: "Ion energy (eV)", Y: "Sputtering yield"}, sputterPlot)
	},
}

func pointSeries(name string, points []sputter.Point) mlpplot.Series {
	S := mlpplot.Series{Name: name, X: make([]float64, len(points)), Y: make([]float64, len(points))}
	for i, p := range points {
		S.X[i] = float64(p.Injected)
		S.Y[i] = p.Value
	}
	return S
}

func init() {
	sputterYieldCmd.Flags().StringVar(&sputterDump, "dump", "", "Dump file name (default from config)")
	sputterYieldCmd.Flags().IntVar(&sputterInterval, "interval", 0, "Timesteps between ion injections (default from config)")
	sputterYieldCmd.Flags().IntVar(&sputterWindow, "window", 0, "Sliding average window, in dump blocks (default from config)")
	sputterYieldCmd.Flags().IntSliceVar(&sputterTypes, "type", nil, "Atom types counted as sputtered (default from config)")
	sputterYieldCmd.Flags().Float64Var(&sputterArea, "area", 0, "Surface area in A^2, for the ion dose")
	sputterYamamuraCmd.Flags().Float64Var(&yamamuraMin, "min", 50, "Lowest ion energy, in eV")
	sputterYamamuraCmd.Flags().Float64Var(&yamamuraMax, "max", 1000, "Highest ion energy, in eV")
	sputterYamamuraCmd.Flags().IntVar(&yamamuraSteps, "steps", 20, "Number of energies")
	sputterYamamuraCmd.Flags().StringVar(&yamamuraTable, "table", "", "CSV table of target parameters (default from config)")
	SputterCmd.PersistentFlags().StringVar(&sputterPlot, "plot", "", "Save a figure to this file")
	SputterCmd.AddCommand(sputterYieldCmd, sputterYamamuraCmd)
}

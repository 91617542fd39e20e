/*
 * structure.go, part of gomlp.
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
	"github.com/gomlp/gomlp/depth"
	"github.com/gomlp/gomlp/histo"
	"github.com/gomlp/gomlp/mlpplot"
	"github.com/gomlp/gomlp/neighbor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	structFrom string
	structPlot string

	rdfCutoff  float64
	rdfBins    int
	rdfTotal   bool

	depthSpecies  string
	depthSurface  float64
	depthUpper    float64
	depthStep     float64
	depthInterval float64
)

// NeighborCmd prints the nearest-neighbor distance of every bond.
var NeighborCmd = &cobra.Command{
	Use:   "neighbor <path>",
	Short: "Nearest-neighbor distance per pair of species",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		A, err := readOne(structFrom, args[0])
		if err != nil {
			return err
		}
		T, err := neighbor.NearestNeighbors(A)
		if err != nil {
			return err
		}
		var data [][]string
		for _, b := range T.Bonds() {
			data = append(data, []string{b, ftoa(T[b])})
		}
		return printTable([]string{"bond", "distance (A)"}, data)
	},
}

// RDFCmd computes radial distribution functions.
var RDFCmd = &cobra.Command{
	Use:   "rdf <path>",
	Short: "Radial distribution function of a periodic structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		A, err := readOne(structFrom, args[0])
		if err != nil {
			return err
		}
		O := neighbor.DefaultOptions()
		O.Cutoff(cfg.RDF.Cutoff)
		O.Cutoff(rdfCutoff)
		O.Bins(cfg.RDF.Bins)
		O.Bins(rdfBins)
		O.Partial(!rdfTotal)
		S, err := neighbor.RDF(A, O)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("g(r) of %s up to %g A", A.Formula(), O.Cutoff())
		if structPlot == "" {
			return printRDF(S)
		}
		var series []mlpplot.Series
		for _, k := range S.Keys() {
			D := S.View(k)
			series = append(series, mlpplot.Series{Name: k, X: D.Centers(), Y: D.View()})
		}
		return mlpplot.Lines(series, mlpplot.Labels{X: "r (A)", Y: "g(r)"}, structPlot)
	},
}

func printRDF(S *histo.Set) error {
	keys := S.Keys()
	header := append([]string{"r (A)"}, keys...)
	centers := S.View(keys[0]).Centers()
	data := make([][]string, len(centers))
	for i, c := range centers {
		data[i] = []string{ftoa(c)}
		for _, k := range keys {
			data[i] = append(data[i], ftoa(S.View(k).View()[i]))
		}
	}
	return printTable(header, data)
}

// DepthCmd computes the depth profile of one species.
var DepthCmd = &cobra.Command{
	Use:   "depth <path>",
	Short: "Depth concentration profile of a species below a surface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		A, err := readOne(structFrom, args[0])
		if err != nil {
			return err
		}
		O := depth.DefaultOptions()
		O.Step(depthStep)
		O.Interval(depthInterval)
		rows, err := depth.Profile(A, depthSpecies, depthSurface, depthUpper, O)
		if err != nil {
			return err
		}
		data := make([][]string, len(rows))
		x := make([]float64, len(rows))
		y := make([]float64, len(rows))
		for i, r := range rows {
			data[i] = []string{ftoa(r.Depth), ftoa(r.Density), ftoa(r.Average)}
			x[i], y[i] = r.Depth, r.Average
		}
		if err := printTable([]string{"depth (A)", "density (cm^-3)", "average (cm^-3)"}, data); err != nil {
			return err
		}
		if structPlot == "" {
			return nil
		}
		return mlpplot.Lines([]mlpplot.Series{{Name: depthSpecies, X: x, Y: y}},
			mlpplot.Labels{X: "Depth (A)", Y: "Concentration (cm^-3)"}, structPlot)
	},
}

func init() {
	for _, c := range []*cobra.Command{NeighborCmd, RDFCmd, DepthCmd} {
		c.Flags().StringVarP(&structFrom, "from", "f", "xyz", "Input format (espresso, deepmd, n2p2, xyz)")
	}
	for _, c := range []*cobra.Command{RDFCmd, DepthCmd} {
		c.Flags().StringVar(&structPlot, "plot", "", "Save a figure to this file")
	}
	RDFCmd.Flags().Float64Var(&rdfCutoff, "cutoff", 0, "Largest distance, in A (default from config)")
	RDFCmd.Flags().IntVar(&rdfBins, "bins", 0, "Number of bins (default from config)")
	RDFCmd.Flags().BoolVar(&rdfTotal, "total", false, "Only the total g(r), not one per pair of species")
	DepthCmd.Flags().StringVarP(&depthSpecies, "species", "s", "", "Species, as a symbol or an atomic number")
	DepthCmd.Flags().Float64Var(&depthSurface, "surface", 0, "z of the surface, in A")
	DepthCmd.Flags().Float64Var(&depthUpper, "upper", 0, "Height above the surface where the profile starts, in A")
	DepthCmd.Flags().Float64Var(&depthStep, "step", 0.5, "Bin width, in A")
	DepthCmd.Flags().Float64Var(&depthInterval, "interval", 3, "Moving average width, in A")
	_ = DepthCmd.MarkFlagRequired("species")
}

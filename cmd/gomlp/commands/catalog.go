/*
 * catalog.go, part of gomlp.
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
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/catalog"
	"github.com/gomlp/gomlp/mlpio"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	catalogSystem string
	catalogName   string
	cacheFrom     string
	cacheOut      string
)

// CatalogCmd manages the per-system structure catalogs.
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog of the DFT calculations of a system",
}

var catalogInitCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create an empty catalog in dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		C, err := catalog.Open(filepath.Join(args[0], catalog.DBName))
		if err != nil {
			return err
		}
		defer C.Close()
		pterm.Success.Printfln("Catalog created at %s", C.Path())
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <roots...>",
	Short: "Add every pw.x calculation under the roots to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		C, err := openCatalog()
		if err != nil {
			return err
		}
		defer C.Close()
		atoms, err := readStructures(mlp.FormatEspresso.String(), args, true)
		if err != nil {
			return err
		}
		added, present := 0, 0
		for _, A := range atoms {
			err := C.Add(catalog.EntryFromAtoms(A))
			switch {
			case errors.Is(err, catalog.ErrExists):
				present++
			case err != nil:
				return err
			default:
				added++
			}
		}
		pterm.Success.Printfln("%s added, %d already in the catalog", countLabel(added, "structure"), present)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the catalog entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		C, err := openCatalog()
		if err != nil {
			return err
		}
		defer C.Close()
		var names []string
		if catalogName != "" {
			names = append(names, catalogName)
		}
		entries, err := C.List(names...)
		if err != nil {
			return err
		}
		data := make([][]string, len(entries))
		for i, E := range entries {
			data[i] = []string{E.ID, strconv.Itoa(E.StructureID), E.StructureName, E.CalculationType, E.OriginalPath}
		}
		return printTable([]string{"id", "structure", "name", "calculation", "path"}, data)
	},
}

func openCatalog() (*catalog.Catalog, error) {
	if catalogSystem == "" {
		return nil, errors.New("give the system of the catalog with --system")
	}
	return catalog.OpenSystem(cfg, catalogSystem)
}

// CacheCmd saves and loads binary structure caches.
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Binary caches of parsed structures",
}

var cacheSaveCmd = &cobra.Command{
	Use:   "save <paths...>",
	Short: "Parse the structures and save them to a cache file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		atoms, err := readStructures(cacheFrom, args, true)
		if err != nil {
			return err
		}
		if err := mlpio.SaveCache(cacheOut, atoms); err != nil {
			return err
		}
		pterm.Success.Printfln("%s cached in %s", countLabel(len(atoms), "structure"), cacheOut)
		return nil
	},
}

var cacheLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Summarize a cache file, or every cache under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var atoms []*mlp.Atoms
		var err error
		if fi, serr := os.Stat(args[0]); serr == nil && fi.IsDir() {
			atoms, err = mlpio.LoadCacheDir(args[0])
		} else {
			atoms, err = mlpio.LoadCache(args[0])
		}
		if err != nil {
			return err
		}
		data := make([][]string, len(atoms))
		for i, A := range atoms {
			e := "-"
			if v, ok := A.Energy(); ok {
				e = ftoa(v)
			}
			data[i] = []string{A.StructureID, A.Formula(), strconv.Itoa(A.NAtoms()), e}
		}
		return printTable([]string{"id", "formula", "atoms", "energy (eV)"}, data)
	},
}

func init() {
	CatalogCmd.PersistentFlags().StringVar(&catalogSystem, "system", "", "System whose catalog is used, as configured")
	catalogListCmd.Flags().StringVar(&catalogName, "name", "", "Only list structures with this formula")
	CatalogCmd.AddCommand(catalogInitCmd, catalogAddCmd, catalogListCmd)
	cacheSaveCmd.Flags().StringVarP(&cacheFrom, "from", "f", "espresso", "Input format")
	cacheSaveCmd.Flags().StringVarP(&cacheOut, "output", "o", "structures.cache", "Cache file")
	CacheCmd.AddCommand(cacheSaveCmd, cacheLoadCmd)
}

/*
 * common.go, part of gomlp.
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

// Package commands holds the subcommands of the gomlp binary.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/config"
	"github.com/gomlp/gomlp/logger"
	"github.com/gomlp/gomlp/mlpio"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonLog    bool

	// cfg is loaded by Initialize before any command runs.
	cfg = config.Default()
)

// AddGlobalFlags adds the flags shared by every command to root.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (YAML, TOML or JSON)")
	root.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log in JSON format")
	root.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v progress, -vv every file)")
}

// Initialize loads the configuration and sets up the logger. The -v count
// takes precedence over the configured log level.
func Initialize(cmd *cobra.Command) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}
	level := logger.ParseLevel(cfg.Log.Level)
	if v, _ := cmd.Flags().GetCount("verbose"); v > 0 {
		level = logger.VerbosityToLevel(v)
	}
	if err := logger.Initialize(jsonLog || cfg.Log.JSON, level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// printTable renders rows under header in the terminal.
func printTable(header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', 8, 64)
}

// readStructures reads the structures in paths, in the format named from.
// With recursive and the espresso format, every calculation under the paths
// is read.
func readStructures(from string, paths []string, recursive bool) ([]*mlp.Atoms, error) {
	format, err := mlp.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	if recursive && format == mlp.FormatEspresso {
		var dirs []string
		for _, p := range paths {
			d, err := mlpio.FindEspresso(p, cfg)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, d...)
		}
		paths = dirs
	}
	atoms, skipped, err := mlpio.ReadAll(paths, format, cfg)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		pterm.Warning.Printfln("%d invalid calculations skipped", len(skipped))
	}
	if len(atoms) == 0 {
		return nil, errors.New("no structures read")
	}
	return atoms, nil
}

// readOne reads the single structure at path, or the last one if the file
// has several frames.
func readOne(from, path string) (*mlp.Atoms, error) {
	atoms, err := readStructures(from, []string{path}, false)
	if err != nil {
		return nil, err
	}
	if len(atoms) > 1 {
		pterm.Info.Printfln("%s has %d structures, using the last one", path, len(atoms))
	}
	return atoms[len(atoms)-1], nil
}

// parseSpecies parses "14=Si,8=O" maps.
func parseSpecies(s []string) (map[int]string, error) {
	ret := make(map[int]string, len(s))
	for _, v := range s {
		k, sym, ok := strings.Cut(v, "=")
		if !ok {
			return nil, errors.Newf("species %q is not in Z=symbol form", v)
		}
		z, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, errors.Newf("bad atomic number in %q", v)
		}
		ret[z] = strings.TrimSpace(sym)
	}
	return ret, nil
}

func countLabel(n int, what string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", what)
	}
	return fmt.Sprintf("%d %ss", n, what)
}

/*
 * read.go, part of gomlp.
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

// Package mlpio reads structures in any of the formats gomlp knows,
// exports them to n2p2, and keeps parsed records in compressed caches.
package mlpio

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/config"
	"github.com/gomlp/gomlp/deepmd"
	"github.com/gomlp/gomlp/logger"
	"github.com/gomlp/gomlp/n2p2"
	"github.com/gomlp/gomlp/qe"
	"github.com/gomlp/gomlp/toolkit"
)

// EspressoOptions returns the pw.x reading options in C.
func EspressoOptions(C *config.Config) *qe.Options {
	O := qe.DefaultOptions()
	O.Input(C.Espresso.Input)
	O.Output(C.Espresso.Output)
	O.IDMarker(C.Espresso.IDMarker)
	return O
}

// Read reads the structures at path, in the given format. path is a pw.x
// calculation directory for FormatEspresso, a system directory for FormatDeepMD,
// and a file otherwise. A nil C means the default configuration.
// Toolkit objects live in memory, use FromObject for them.
func Read(path string, format mlp.Format, C *config.Config) ([]*mlp.Atoms, error) {
	if C == nil {
		C = config.Default()
	}
	var ret []*mlp.Atoms
	var err error
	switch format {
	case mlp.FormatEspresso:
		var A *mlp.Atoms
		if A, err = qe.Read(path, EspressoOptions(C)); err == nil {
			ret = []*mlp.Atoms{A}
		}
	case mlp.FormatDeepMD:
		ret, err = deepmd.ReadSystem(path)
	case mlp.FormatN2P2:
		ret, err = n2p2.ReadDataFile(path)
	case mlp.FormatXYZ:
		var M *toolkit.Molecule
		if M, err = toolkit.ReadXYZ(path); err == nil {
			ret, err = M.Records()
		}
		for _, A := range ret {
			A.Path = path
		}
	default:
		return nil, mlp.NewError(mlp.ErrUnsupportedFormat, format.String()+" can't be read from a path", path)
	}
	if err != nil {
		return nil, mlp.Decorate(err, "mlpio.Read")
	}
	if err := fillSymbols(ret, C.Espresso.Species); err != nil {
		return nil, mlp.Decorate(err, "mlpio.Read")
	}
	logger.Logger.Debugw("read structures", "path", path, "format", format.String(), "count", len(ret))
	return ret, nil
}

// fillSymbols gives the fallback species to records without symbols.
func fillSymbols(atoms []*mlp.Atoms, species string) error {
	for _, A := range atoms {
		if A.Symbols() != nil || species == "" {
			continue
		}
		if err := A.SetSymbols(species); err != nil {
			return err
		}
	}
	return nil
}

// FromObject builds a record from an in-memory toolkit object. See mlp.FromToolkit.
func FromObject(obj any) (*mlp.Atoms, error) {
	A, err := mlp.FromToolkit(obj)
	return A, mlp.Decorate(err, "mlpio.FromObject")
}

// invalid reports whether err comes from a calculation that ran but can't be
// used for training.
func invalid(err error) bool {
	return errors.Is(err, mlp.ErrJobIncomplete) || errors.Is(err, mlp.ErrNotConverged) || errors.Is(err, mlp.ErrUnreliableSCF)
}

// ReadAll reads every path in paths and returns all the structures, in order.
// Calculations that didn't finish, didn't converge or have unreliable forces are
// logged and skipped. Any other error stops the reading. The paths skipped are
// returned.
func ReadAll(paths []string, format mlp.Format, C *config.Config) ([]*mlp.Atoms, []string, error) {
	var ret []*mlp.Atoms
	var skipped []string
	for _, p := range paths {
		atoms, err := Read(p, format, C)
		if err != nil {
			if invalid(err) {
				logger.Logger.Infow("skipping invalid calculation", "path", p, "error", err.Error())
				skipped = append(skipped, p)
				continue
			}
			return nil, skipped, mlp.Decorate(err, "mlpio.ReadAll")
		}
		ret = append(ret, atoms...)
	}
	return ret, skipped, nil
}

// FindEspresso returns, sorted, every directory under root that contains a pw.x
// output with the name in C.
func FindEspresso(root string, C *config.Config) ([]string, error) {
	if C == nil {
		C = config.Default()
	}
	if err := mlp.Exists(root); err != nil {
		return nil, mlp.Decorate(err, "FindEspresso")
	}
	var ret []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == C.Espresso.Output {
			ret = append(ret, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	sort.Strings(ret)
	return ret, nil
}

// ExportN2P2 writes atoms to an n2p2 input.data file at path. Records without
// symbols get the fallback species in C.
func ExportN2P2(path string, atoms []*mlp.Atoms, C *config.Config) error {
	if C == nil {
		C = config.Default()
	}
	O := n2p2.DefaultOptions()
	O.Species(C.Espresso.Species)
	err := n2p2.WriteDataFile(path, atoms, O)
	if err == nil {
		logger.Logger.Infow("wrote n2p2 data", "path", path, "structures", len(atoms))
	}
	return mlp.Decorate(err, "ExportN2P2")
}

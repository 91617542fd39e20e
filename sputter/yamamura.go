/*
 * yamamura.go, part of gomlp.
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

package sputter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
)

// TableParams are the per-target fitting constants of Yamamura and Tawara,
// At. Data Nucl. Data Tables 62, 149 (1996), Table I.
type TableParams struct {
	Us float64 //surface binding energy, eV
	Q  float64
	W  float64
	S  float64
}

// Table maps the atomic number of the target to its constants.
type Table map[int]TableParams

// DefaultTable holds the constants for the targets used in gomlp's own
// workflows. Others must be loaded with LoadTable.
func DefaultTable() Table {
	return Table{
		14: {Us: 4.63, Q: 0.66, W: 2.32, S: 2.5},
	}
}

// tableColumns are the columns a constant table must have, in any order.
var tableColumns = []string{"Z2", "Us", "Q", "W", "s"}

// LoadTable reads a CSV file with a header containing the columns
// Z2, Us, Q, W and s.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mlp.FileError(path, err)
	}
	defer f.Close()
	T, err := ReadTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return T, nil
}

// ReadTable reads a constant table in CSV format from r.
func ReadTable(r io.Reader) (Table, error) {
	c := csv.NewReader(r)
	c.TrimLeadingSpace = true
	header, err := c.Read()
	if err != nil {
		return nil, mlp.NewError(mlp.ErrBadValue, "no header in constant table", "")
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, v := range tableColumns {
		if _, ok := idx[v]; !ok {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("column %s missing in constant table", v), "")
		}
	}
	T := make(Table)
	for {
		rec, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading constant table")
		}
		z, err := strconv.Atoi(strings.TrimSpace(rec[idx["Z2"]]))
		if err != nil {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad Z2 value %q", rec[idx["Z2"]]), "")
		}
		vals := make([]float64, 4)
		for i, col := range tableColumns[1:] {
			if vals[i], err = mlp.ParseFloat(rec[idx[col]]); err != nil {
				return nil, mlp.Decorate(err, "ReadTable")
			}
		}
		T[z] = TableParams{Us: vals[0], Q: vals[1], W: vals[2], S: vals[3]}
	}
	return T, nil
}

// Yamamura is the semi-empirical sputtering yield of a projectile on a
// monoatomic target.
type Yamamura struct {
	Projectile, Target string
	z1, z2             float64
	m1, m2             float64
	p                  TableParams
}

// NewYamamura returns the model for the projectile and target element
// symbols. The target must be in the table. If table is nil, DefaultTable
// is used.
func NewYamamura(projectile, target string, table Table) (*Yamamura, error) {
	if table == nil {
		table = DefaultTable()
	}
	Y := &Yamamura{Projectile: projectile, Target: target}
	for _, v := range []struct {
		sym  string
		z, m *float64
	}{{projectile, &Y.z1, &Y.m1}, {target, &Y.z2, &Y.m2}} {
		z, err := mlp.AtomicNumber(v.sym)
		if err != nil {
			return nil, mlp.Decorate(err, "NewYamamura")
		}
		m, err := mlp.Mass(v.sym)
		if err != nil {
			return nil, mlp.Decorate(err, "NewYamamura")
		}
		*v.z, *v.m = float64(z), m
	}
	p, ok := table[int(Y.z2)]
	if !ok {
		return nil, mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("no Yamamura-Tawara constants for target %s", target), "")
	}
	Y.p = p
	return Y, nil
}

// snTF is the Thomas-Fermi reduced nuclear stopping cross section, eq. 4.
func snTF(ep float64) float64 {
	sq := math.Sqrt(ep)
	return 3.441 * sq * math.Log(ep+2.718) / (1 + 6.355*sq + ep*(6.882*sq-1.708))
}

// epsilon is the reduced energy, eq. 22.
func (Y *Yamamura) epsilon(E float64) float64 {
	a := Y.z1 * Y.z2 * math.Sqrt(math.Pow(Y.z1, 2.0/3)+math.Pow(Y.z2, 2.0/3))
	return 0.03255 / a * Y.m2 / (Y.m1 + Y.m2) * E
}

// ke is Lindhard's electronic stopping coefficient, eq. 20.
func (Y *Yamamura) ke() float64 {
	a := math.Pow(Y.m1+Y.m2, 1.5) / (math.Pow(Y.m1, 1.5) * math.Sqrt(Y.m2))
	b := math.Pow(Y.z1, 2.0/3) * math.Sqrt(Y.z2) / math.Pow(math.Pow(Y.z1, 2.0/3)+math.Pow(Y.z2, 2.0/3), 0.75)
	return 0.079 * a * b
}

// sn is the nuclear stopping cross section in eV A^2, eq. 21.
func (Y *Yamamura) sn(E float64) float64 {
	z12 := math.Sqrt(math.Pow(Y.z1, 2.0/3) + math.Pow(Y.z2, 2.0/3))
	return 84.78 * Y.z1 * Y.z2 / z12 * Y.m1 / (Y.m1 + Y.m2) * snTF(Y.epsilon(E))
}

// alpha is eq. 17.
func (Y *Yamamura) alpha() float64 {
	r := Y.m2 / Y.m1
	if Y.m1 <= Y.m2 {
		return 0.249*math.Pow(r, 0.56) + 0.0035*math.Pow(r, 1.5)
	}
	return 0.0875*math.Pow(r, -0.15) + 0.165*r
}

// Threshold returns the sputtering threshold energy in eV, eq. 18.
func (Y *Yamamura) Threshold() float64 {
	gamma := 4 * Y.m1 * Y.m2 / math.Pow(Y.m1+Y.m2, 2)
	if Y.m1 >= Y.m2 {
		return 6.7 / gamma * Y.p.Us
	}
	return (1 + 5.7*Y.m1/Y.m2) / gamma * Y.p.Us
}

// Yield returns the sputtering yield, in atoms per ion, at normal incidence
// for a projectile energy E in eV, eq. 15. Energies at or below the threshold
// give 0.
func (Y *Yamamura) Yield(E float64) float64 {
	eth := Y.Threshold()
	if E <= eth {
		return 0
	}
	gamma := Y.p.W / (1 + math.Pow(Y.m1/7, 3)) //eq. 16
	a := Y.p.Q * Y.alpha() / Y.p.Us
	b := Y.sn(E) / (1 + gamma*Y.ke()*math.Pow(Y.epsilon(E), 0.3))
	c := math.Pow(1-math.Sqrt(eth/E), Y.p.S)
	return 0.042 * a * b * c
}

// Yields returns the yield for each energy in energies.
func (Y *Yamamura) Yields(energies []float64) []float64 {
	ret := make([]float64, len(energies))
	for i, e := range energies {
		ret[i] = Y.Yield(e)
	}
	return ret
}

/*
 * deck.go, part of gomlp.
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

package qe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
)

//cards that can follow the ATOMIC_POSITIONS block
var cardNames = []string{"ATOMIC_SPECIES", "ATOMIC_POSITIONS", "K_POINTS", "CELL_PARAMETERS",
	"OCCUPATIONS", "CONSTRAINTS", "ATOMIC_VELOCITIES", "ATOMIC_FORCES", "ADDITIONAL_K_POINTS",
	"SOLVENTS", "HUBBARD"}

// Deck is a pw.x input deck.
type Deck struct {
	lines  *mlp.Lines
	values map[string]string
}

// ReadDeck reads the input deck at path.
func ReadDeck(path string) (*Deck, error) {
	L, err := mlp.ReadLines(path)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadDeck")
	}
	return NewDeck(L), nil
}

// NewDeck parses the namelists of the deck in L. Cards are parsed on request.
func NewDeck(L *mlp.Lines) *Deck {
	D := &Deck{lines: L, values: make(map[string]string)}
	in := false
	for _, l := range L.All() {
		switch {
		case strings.HasPrefix(l, "&"):
			in = true
			continue
		case l == "/":
			in = false
			continue
		}
		if !in {
			continue
		}
		for _, kv := range splitAssignments(l) {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			D.values[strings.ToLower(strings.TrimSpace(k))] = strings.Trim(strings.TrimSpace(v), `'"`)
		}
	}
	return D
}

// Lines returns the lines of the deck.
func (D *Deck) Lines() *mlp.Lines { return D.lines }

// Value returns the value given to key in any of the namelists.
// Keys are case-insensitive. If a key is given more than once, the last one wins.
func (D *Deck) Value(key string) (string, bool) {
	v, ok := D.values[strings.ToLower(key)]
	return v, ok
}

// Float returns the value of key as a float64.
func (D *Deck) Float(key string) (float64, error) {
	v, ok := D.Value(key)
	if !ok {
		return 0, mlp.MarkerError(key, D.lines.Name)
	}
	return mlp.ParseFloat(v)
}

// NAtoms returns the value of nat.
func (D *Deck) NAtoms() (int, error) {
	v, ok := D.Value("nat")
	if !ok {
		return 0, mlp.MarkerError("nat", D.lines.Name)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("invalid nat value %q", v), D.lines.Name)
	}
	return n, nil
}

// alat returns the lattice parameter in A, from celldm(1) (Bohr) or A.
func (D *Deck) alat() (float64, error) {
	if c, err := D.Float("celldm(1)"); err == nil {
		return c * mlp.Bohr2A, nil
	}
	if a, err := D.Float("a"); err == nil {
		return a, nil
	}
	return 0, mlp.NewError(mlp.ErrMarkerNotFound, "alat units need celldm(1) or A", D.lines.Name)
}

// card returns the index of the card header and its unit option, lowercased.
func (D *Deck) card(name string) (int, string, error) {
	i, err := D.lines.Find(name, mlp.LastMatch)
	if err != nil {
		return -1, "", err
	}
	f := strings.Fields(strings.NewReplacer("{", " ", "}", " ", "(", " ", ")", " ").Replace(D.lines.Line(i)))
	unit := ""
	if len(f) > 1 {
		unit = strings.ToLower(f[1])
	}
	return i, unit, nil
}

// Cell returns the lattice vectors, in A, from the CELL_PARAMETERS card.
func (D *Deck) Cell() (*v3.Matrix, error) {
	i, unit, err := D.card("CELL_PARAMETERS")
	if err != nil {
		return nil, mlp.Decorate(err, "Cell")
	}
	block, err := D.lines.Block(i+1, 3)
	if err != nil {
		return nil, mlp.Decorate(err, "Cell")
	}
	cell, err := readVecs(block, 0)
	if err != nil {
		return nil, mlp.Decorate(err, "Cell")
	}
	var factor float64
	switch unit {
	case "angstrom":
		factor = 1
	case "bohr":
		factor = mlp.Bohr2A
	case "alat":
		if factor, err = D.alat(); err != nil {
			return nil, mlp.Decorate(err, "Cell")
		}
	case "":
		//old decks: alat if given, bohr otherwise
		if factor, err = D.alat(); err != nil {
			factor = mlp.Bohr2A
		}
	default:
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("unknown CELL_PARAMETERS unit %q", unit), D.lines.Name)
	}
	cell.Dense.Scale(factor, cell.Dense)
	return cell, nil
}

// Positions returns the cartesian coordinates, in A, of the nat atoms in the
// ATOMIC_POSITIONS card, and their element symbols.
func (D *Deck) Positions() (*v3.Matrix, []string, error) {
	n, err := D.NAtoms()
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Positions")
	}
	i, unit, err := D.card("ATOMIC_POSITIONS")
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Positions")
	}
	block, err := D.lines.Block(i+1, n)
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Positions")
	}
	coords, err := readVecs(block, 1)
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Positions")
	}
	symbols := make([]string, n)
	for j, l := range block {
		symbols[j] = elementFromLabel(strings.Fields(l)[0])
	}
	switch unit {
	case "angstrom":
	case "bohr":
		coords.Dense.Scale(mlp.Bohr2A, coords.Dense)
	case "alat", "":
		a, err := D.alat()
		if err != nil {
			return nil, nil, mlp.Decorate(err, "Positions")
		}
		coords.Dense.Scale(a, coords.Dense)
	case "crystal":
		cell, err := D.Cell()
		if err != nil {
			return nil, nil, mlp.Decorate(err, "Positions")
		}
		coords = mlp.Cartesian(cell, coords)
	default:
		return nil, nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("unsupported ATOMIC_POSITIONS unit %q", unit), D.lines.Name)
	}
	return coords, symbols, nil
}

// Species returns the labels in the ATOMIC_SPECIES card, or nil if the deck has none.
func (D *Deck) Species() []string {
	i, _, err := D.card("ATOMIC_SPECIES")
	if err != nil {
		return nil
	}
	var ret []string
	for _, l := range D.lines.All()[i+1:] {
		if l == "" || isCard(l) {
			break
		}
		ret = append(ret, strings.Fields(l)[0])
	}
	return ret
}

//readVecs reads 3 floats per line, starting at field skip.
func readVecs(block []string, skip int) (*v3.Matrix, error) {
	data := make([]float64, 0, 3*len(block))
	for _, l := range block {
		f := strings.Fields(l)
		if len(f) < skip+3 {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("expected %d fields in line %q", skip+3, l), "")
		}
		v, err := mlp.ParseFloats(f[skip : skip+3])
		if err != nil {
			return nil, err
		}
		data = append(data, v...)
	}
	return v3.NewMatrix(data)
}

func isCard(l string) bool {
	f := strings.Fields(l)
	if len(f) == 0 {
		return false
	}
	for _, v := range cardNames {
		if strings.ToUpper(f[0]) == v {
			return true
		}
	}
	return false
}

var labelElement = regexp.MustCompile(`^[A-Z][a-z]?`)

//elementFromLabel turns species labels such as "Si1" or "Fe_up" into element symbols.
func elementFromLabel(label string) string {
	if s := labelElement.FindString(label); s != "" {
		if _, err := mlp.AtomicNumber(s); err == nil {
			return s
		}
		if len(s) == 2 {
			if _, err := mlp.AtomicNumber(s[:1]); err == nil {
				return s[:1]
			}
		}
	}
	return label
}

//splitAssignments splits a namelist line at the commas that are not inside quotes.
func splitAssignments(l string) []string {
	if i := strings.Index(l, "!"); i >= 0 {
		l = l[:i]
	}
	var ret []string
	var quote rune
	start := 0
	for i, c := range l {
		switch {
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case quote == 0 && c == ',':
			ret = append(ret, l[start:i])
			start = i + 1
		}
	}
	return append(ret, l[start:])
}

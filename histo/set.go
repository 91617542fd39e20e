/*
 * set.go, part of gomlp.
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

package histo

// Set is a group of histograms with the same dividers, identified by a key.
type Set struct {
	dividers []float64
	d        map[string]*Data
	order    []string
}

// NewSet returns an empty set whose histograms will use dividers.
func NewSet(dividers []float64) *Set {
	return &Set{dividers: append([]float64(nil), dividers...), d: make(map[string]*Data)}
}

// Keys returns the keys of the set in the order their histograms were created.
func (S *Set) Keys() []string {
	return append([]string(nil), S.order...)
}

// Fill puts an empty histogram under each of the given keys that doesn't have one.
func (S *Set) Fill(keys ...string) {
	for _, k := range keys {
		S.get(k)
	}
}

func (S *Set) get(key string) *Data {
	D, ok := S.d[key]
	if !ok {
		D = NewData(S.dividers)
		S.d[key] = D
		S.order = append(S.order, key)
	}
	return D
}

// AddData adds one or more data points to the histogram with the given key,
// creating it if needed.
func (S *Set) AddData(key string, point ...float64) {
	S.get(key).AddData(point...)
}

// View returns the histogram with the given key, or nil if there is none.
func (S *Set) View(key string) *Data {
	return S.d[key]
}

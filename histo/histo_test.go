/*
 * histo_test.go, part of gomlp.
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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var rawdata = []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}

func TestData(Te *testing.T) {
	div := []float64{0, 1, 2, 3, 4, 8}
	D := NewData(div)
	div[0] = -1
	//8, 44 and 32 are out of range
	D.AddData(rawdata...)
	assert.Equal(Te, []float64{2, 6, 2, 7, 9}, D.View())
	D.AddData(-0.5)
	assert.Equal(Te, 2.0, D.View()[0])

	assert.Equal(Te, []float64{0.5, 1.5, 2.5, 3.5, 6}, D.Centers())
	assert.Equal(Te, 4.0, D.Width(4))
	D.Scale(func(c, w, n float64) float64 { return n / w })
	assert.Equal(Te, []float64{2, 6, 2, 7, 2.25}, D.View())
	assert.Panics(Te, func() { NewData([]float64{2, 1}) })
}

func TestUniform(Te *testing.T) {
	assert.Equal(Te, []float64{0, 0.5, 1, 1.5, 2}, Uniform(0, 2, 4))
	assert.Panics(Te, func() { Uniform(1, 0, 3) })
}

func TestSet(Te *testing.T) {
	S := NewSet(Uniform(0, 4, 4))
	S.Fill("Si-Si", "O-O")
	S.AddData("Si-O", 1.6, 1.7, 3.9)
	S.AddData("Si-Si", 2.35)
	assert.Equal(Te, []string{"Si-Si", "O-O", "Si-O"}, S.Keys())
	assert.Equal(Te, []float64{0, 2, 0, 1}, S.View("Si-O").View())
	assert.Equal(Te, []float64{0, 0, 0, 0}, S.View("O-O").View())
	assert.Equal(Te, []float64{0, 0, 1, 0}, S.View("Si-Si").View())
	assert.Nil(Te, S.View("H-H"))
}

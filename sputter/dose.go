/*
 * dose.go, part of gomlp.
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
	"fmt"

	mlp "github.com/gomlp/gomlp"
)

// Row is one timestep of an irradiation run, with the ions injected so far.
type Row struct {
	Timestep  int
	Sputtered int
	Injected  int
	Dose      float64 //injected ions per A^2, 0 if no area was given
}

// IonDose adds the number of injected ions to each step, one ion every
// interval timesteps, so injected = floor(timestep/interval). If a positive
// area (A^2) is given, the dose is injected/area.
func IonDose(steps []Step, interval int, area ...float64) ([]Row, error) {
	if interval <= 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("injection interval must be positive, got %d", interval), "")
	}
	a := 0.0
	if len(area) > 0 {
		a = area[0]
	}
	ret := make([]Row, len(steps))
	for i, s := range steps {
		r := Row{Timestep: s.Timestep, Sputtered: s.Sputtered, Injected: s.Timestep / interval}
		if a > 0 {
			r.Dose = float64(r.Injected) / a
		}
		ret[i] = r
	}
	return ret, nil
}

// Point is a value keyed by the number of injected ions.
type Point struct {
	Injected int
	Value    float64
}

// SlidingAverage returns the mean sputtered count over the last window rows,
// keyed by the injected count of the last row of each window. The first
// window-1 rows have no average and give no point.
func SlidingAverage(rows []Row, window int) ([]Point, error) {
	if window <= 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("window must be positive, got %d", window), "")
	}
	if len(rows) < window {
		return nil, nil
	}
	ret := make([]Point, 0, len(rows)-window+1)
	sum := 0
	for i, r := range rows {
		sum += r.Sputtered
		if i >= window {
			sum -= rows[i-window].Sputtered
		}
		if i >= window-1 {
			ret = append(ret, Point{Injected: r.Injected, Value: float64(sum) / float64(window)})
		}
	}
	return ret, nil
}

// Yield returns the cumulative sputtered count divided by the injected ions,
// for every row after the first injection.
func Yield(rows []Row) []Point {
	var ret []Point
	total := 0
	for _, r := range rows {
		total += r.Sputtered
		if r.Injected <= 0 {
			continue
		}
		ret = append(ret, Point{Injected: r.Injected, Value: float64(total) / float64(r.Injected)})
	}
	return ret
}

// seehuhn.de/go/pdfpipe - split, transform and print PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package unit converts lengths with units into PDF points.
//
// A dimension is written as a non-negative decimal number followed by one
// of the units "pt", "in", "mm" or "cm", for example "4in", "101.6 mm" or
// "288pt".  The unit is mandatory: a bare number is always an error.
package unit

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/pdfpipe"
)

// Unit is a length unit.
type Unit string

// The supported units.
const (
	Point      Unit = "pt"
	Inch       Unit = "in"
	Millimetre Unit = "mm"
	Centimetre Unit = "cm"
)

// PointsPerInch is the number of PDF points in one inch.
const PointsPerInch = 72.0

var pointsPer = map[Unit]float64{
	Point:      1,
	Inch:       PointsPerInch,
	Millimetre: PointsPerInch / 25.4,
	Centimetre: PointsPerInch / 2.54,
}

// Points returns the number of PDF points in one u.
// The result is 0 for unknown units.
func (u Unit) Points() float64 {
	return pointsPer[u]
}

// Dimension is a length, given as a value and a unit.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Points returns the length in PDF points.
func (d Dimension) Points() float64 {
	return d.Value * d.Unit.Points()
}

func (d Dimension) String() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + string(d.Unit)
}

// Parse parses a dimension string like "100mm" or "4 in".
// Unit names are case-insensitive.
func Parse(text string) (Dimension, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Dimension{}, fmt.Errorf("%w: empty value", pdfpipe.ErrInvalidDimension)
	}

	n := 0
	for n < len(s) && (s[n] >= '0' && s[n] <= '9' || s[n] == '.') {
		n++
	}
	if n == 0 {
		return Dimension{}, fmt.Errorf("%w: %q does not start with a number",
			pdfpipe.ErrInvalidDimension, text)
	}
	value, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("%w: bad number in %q",
			pdfpipe.ErrInvalidDimension, text)
	}

	u := Unit(strings.TrimLeft(s[n:], " \t"))
	if u == "" {
		return Dimension{}, fmt.Errorf("%w: %q has no unit (use pt, in, mm or cm)",
			pdfpipe.ErrInvalidDimension, text)
	}
	if _, ok := pointsPer[u]; !ok {
		return Dimension{}, fmt.Errorf("%w: unknown unit %q in %q",
			pdfpipe.ErrInvalidDimension, string(u), text)
	}

	return Dimension{Value: value, Unit: u}, nil
}

// ParseDimension parses a dimension string and returns its length in PDF
// points.
func ParseDimension(text string) (float64, error) {
	d, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return d.Points(), nil
}

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

package geometry

import (
	"errors"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfpipe"
)

func TestDimensions(t *testing.T) {
	cases := []struct {
		box       rect.Rect
		w, h      float64
		landscape bool
	}{
		{rect.Rect{URx: 612, URy: 792}, 612, 792, false},
		{rect.Rect{URx: 792, URy: 612}, 792, 612, true},
		{rect.Rect{LLx: 82, LLy: 260, URx: 514, URy: 548}, 432, 288, true},
		{rect.Rect{LLx: -10, LLy: -10, URx: 10, URy: 10}, 20, 20, false},
	}
	for i, c := range cases {
		p := New(c.box, 0)
		w, h := p.Dimensions()
		if w != c.w || h != c.h {
			t.Errorf("%d: got %gx%g, want %gx%g", i, w, h, c.w, c.h)
		}
		if p.IsLandscape() != c.landscape {
			t.Errorf("%d: IsLandscape = %t", i, p.IsLandscape())
		}
	}
}

func TestIsLandscapeIgnoresRotation(t *testing.T) {
	p := New(rect.Rect{URx: 612, URy: 792}, 90)
	if p.IsLandscape() {
		t.Error("rotation should not affect IsLandscape")
	}
}

func TestCheck(t *testing.T) {
	good := New(rect.Rect{URx: 100, URy: 50}, 270)
	if err := good.Check(); err != nil {
		t.Error(err)
	}

	flat := New(rect.Rect{URx: 100, URy: 0}, 0)
	if err := flat.Check(); !errors.Is(err, pdfpipe.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}

	tilted := New(rect.Rect{URx: 100, URy: 50}, 45)
	if err := tilted.Check(); !errors.Is(err, pdfpipe.ErrInvalidRotation) {
		t.Errorf("expected ErrInvalidRotation, got %v", err)
	}
}

func TestNormalizeRotation(t *testing.T) {
	cases := []struct{ in, out int }{
		{0, 0}, {90, 90}, {180, 180}, {270, 270},
		{360, 0}, {450, 90}, {-90, 270}, {-180, 180}, {-720, 0},
	}
	for _, c := range cases {
		got, err := NormalizeRotation(c.in)
		if err != nil {
			t.Errorf("%d: %v", c.in, err)
		} else if got != c.out {
			t.Errorf("%d: got %d, want %d", c.in, got, c.out)
		}
	}

	for _, bad := range []int{1, 45, -30, 181} {
		_, err := NormalizeRotation(bad)
		if !errors.Is(err, pdfpipe.ErrInvalidRotation) {
			t.Errorf("%d: expected ErrInvalidRotation, got %v", bad, err)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := New(rect.Rect{URx: 10, URy: 20}, 0)
	b := a
	b.Box.URx = 99
	b.Rotate = 90
	b.Content = matrix.Scale(2, 2)

	if a.Box.URx != 10 || a.Rotate != 0 || a.IsScaled() {
		t.Errorf("modifying a copy changed the original: %v", a)
	}
}

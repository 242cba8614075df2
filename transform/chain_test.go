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

package transform

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/selection"
)

func TestChainLabel(t *testing.T) {
	chain := Chain{
		{Transform: Rotate{Angle: 90}},
		{Transform: Crop{LowerLeft: vec.Vec2{X: 82, Y: 260}, UpperRight: vec.Vec2{X: 514, Y: 548}}},
	}
	out, err := chain.Apply([]geometry.Page{letter})
	if err != nil {
		t.Fatal(err)
	}
	w, h := out[0].Dimensions()
	if w != 432 || h != 288 || out[0].Rotate != 90 {
		t.Errorf("got %gx%g rot=%d, want 432x288 rot=90", w, h, out[0].Rotate)
	}
}

func TestChainPositions(t *testing.T) {
	pages := []geometry.Page{letter, letter, letter, letter}
	chain := Chain{
		{Transform: Rotate{Angle: 90}, Pages: selection.List{2, 3}},
	}
	out, err := chain.Apply(pages)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, p := range out {
		got = append(got, p.Rotate)
	}
	if d := cmp.Diff([]int{0, 90, 90, 0}, got); d != "" {
		t.Errorf("rotations (-want +got):\n%s", d)
	}
	for i, p := range pages {
		if p.Rotate != 0 {
			t.Errorf("input page %d was modified", i+1)
		}
	}
}

func TestChainOrderMatters(t *testing.T) {
	crop := Step{Transform: Crop{LowerLeft: vec.Vec2{X: 0, Y: 0}, UpperRight: vec.Vec2{X: 100, Y: 100}}}
	resize := Step{Transform: Resize{Width: "200pt", Height: "400pt", Fit: Stretch}}

	a, err := Chain{crop, resize}.Apply([]geometry.Page{letter})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Chain{resize, crop}.Apply([]geometry.Page{letter})
	if err != nil {
		t.Fatal(err)
	}

	if a[0].Box != (rect.Rect{URx: 200, URy: 400}) {
		t.Errorf("crop+resize: got box %v", a[0].Box)
	}
	if b[0].Box != (rect.Rect{URx: 100, URy: 100}) {
		t.Errorf("resize+crop: got box %v", b[0].Box)
	}
	if a[0].Content == b[0].Content {
		t.Error("different orders gave the same content matrix")
	}
}

func TestChainErrors(t *testing.T) {
	pages := []geometry.Page{letter, letter}

	_, err := Chain{{Transform: Rotate{Angle: 90}, Pages: selection.List{3}}}.Apply(pages)
	if !errors.Is(err, pdfpipe.ErrPageIndexOutOfRange) {
		t.Errorf("expected ErrPageIndexOutOfRange, got %v", err)
	}

	_, err = Chain{{Transform: Resize{Width: "1in", Height: "1in", Fit: "fill"}}}.Apply(pages)
	if !errors.Is(err, pdfpipe.ErrUnknownFitMode) {
		t.Errorf("expected ErrUnknownFitMode, got %v", err)
	}

	_, err = Chain{{}}.Apply(pages)
	if err == nil {
		t.Error("missing transformation not detected")
	}
}

func TestChainValidate(t *testing.T) {
	good := Chain{
		{Transform: Rotate{To: Landscape}},
		{Transform: Resize{Width: "4in", Height: "6in"}, Pages: selection.Range{Start: 1, End: 2}},
	}
	if err := good.Validate(); err != nil {
		t.Error(err)
	}

	bad := []Chain{
		{{Transform: Rotate{Angle: 30}}},
		{{Transform: Crop{}}},
		{{Transform: Resize{Width: "4in", Height: "6"}}},
		{{Transform: Rotate{Angle: 90}, Pages: selection.List{0}}},
		{{}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("%d: expected an error", i)
		}
	}
}

func TestChainEmpty(t *testing.T) {
	out, err := Chain(nil).Apply([]geometry.Page{letter, letterWide})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]geometry.Page{letter, letterWide}, out); d != "" {
		t.Errorf("empty chain changed pages:\n%s", d)
	}
}

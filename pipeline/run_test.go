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

package pipeline

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/output"
	"seehuhn.de/go/pdfpipe/selection"
	"seehuhn.de/go/pdfpipe/transform"
)

var quiet = slog.New(slog.DiscardHandler)

func testSpecs() []*output.Spec {
	return []*output.Spec{
		{
			Name:   "sheet",
			Select: selection.Spec{Pages: selection.First{}},
		},
		{
			Name:   "broken",
			Select: selection.Spec{Pages: selection.List{5}},
		},
		{
			Name:   "label",
			Select: selection.Spec{Pages: selection.Last{}},
			Transforms: transform.Chain{
				{Transform: transform.Rotate{Angle: 90}},
			},
			Printer: "Zebra",
			Copies:  2,
		},
	}
}

func names(artifacts []*Artifact) []string {
	var res []string
	for _, a := range artifacts {
		res = append(res, a.Output)
	}
	return res
}

func TestRunContinue(t *testing.T) {
	src := newFakeInput(2)
	res := Run(src, testSpecs(), &Options{Logger: quiet})

	if d := cmp.Diff([]string{"sheet", "broken", "label"}, names(res.Artifacts)); d != "" {
		t.Errorf("artifacts (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"sheet", "label"}, names(res.Succeeded())); d != "" {
		t.Errorf("succeeded (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"broken"}, names(res.Failed())); d != "" {
		t.Errorf("failed (-want +got):\n%s", d)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("unexpected skipped outputs %v", res.Skipped)
	}

	err := res.Err()
	if !errors.Is(err, pdfpipe.ErrPageIndexOutOfRange) || !errors.Is(err, pdfpipe.ErrOutputAssemblyFailed) {
		t.Errorf("unexpected error %v", err)
	}

	label := res.Artifacts[2]
	if label.Printer != "Zebra" || label.Copies != 2 {
		t.Errorf("label: printer %q, copies %d", label.Printer, label.Copies)
	}
	if label.Document.Pages[0].Geometry.Rotate != 90 {
		t.Error("label was not rotated")
	}
	if res.Artifacts[0].Copies != 1 {
		t.Errorf("sheet: got %d copies, want 1", res.Artifacts[0].Copies)
	}
	if res.Artifacts[1].Document != nil {
		t.Error("failed artifact has a document")
	}
}

func TestRunStrict(t *testing.T) {
	src := newFakeInput(2)
	res := Run(src, testSpecs(), &Options{Strict: true, Logger: quiet})

	if d := cmp.Diff([]string{"sheet", "broken"}, names(res.Artifacts)); d != "" {
		t.Errorf("artifacts (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"label"}, res.Skipped); d != "" {
		t.Errorf("skipped (-want +got):\n%s", d)
	}
}

func TestRunSuccess(t *testing.T) {
	src := newFakeInput(6)
	specs := []*output.Spec{
		{Name: "a"},
		{Name: "b", Select: selection.Spec{Pages: selection.Exclude{1, 2}}},
	}
	res := Run(src, specs, nil)
	if err := res.Err(); err != nil {
		t.Fatal(err)
	}
	if len(res.Failed()) != 0 || len(res.Succeeded()) != 2 {
		t.Errorf("got %d succeeded, %d failed", len(res.Succeeded()), len(res.Failed()))
	}
	for i, p := range src.pages {
		if p != geometry.New(rect.Rect{URx: 612, URy: 792}, 0) {
			t.Errorf("source page %d was modified", i+1)
		}
	}
}

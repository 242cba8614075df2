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

package pdffile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/output"
	"seehuhn.de/go/pdfpipe/selection"
	"seehuhn.de/go/pdfpipe/transform"
)

type testPage struct {
	box     rect.Rect
	rotate  int
	cropBox *rect.Rect
}

var letter = rect.Rect{URx: 612, URy: 792}

// makePDF writes a PDF file with the given pages.  The content stream of
// page i contains the comment "% page i".
func makePDF(t *testing.T, pages []testPage) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	rm := pdf.NewResourceManager(w)
	tree := pagetree.NewWriter(w, rm)

	for i, p := range pages {
		contentRef := w.Alloc()
		stm, err := w.OpenStream(contentRef, nil)
		if err != nil {
			t.Fatal(err)
		}
		_, err = fmt.Fprintf(stm, "0 0 m 100 100 l S\n%% page %d\n", i+1)
		if err != nil {
			t.Fatal(err)
		}
		err = stm.Close()
		if err != nil {
			t.Fatal(err)
		}

		dict := pdf.Dict{
			"Type":      pdf.Name("Page"),
			"MediaBox":  rectangle(p.box),
			"Resources": pdf.Dict{},
			"Contents":  contentRef,
		}
		if p.rotate != 0 {
			dict["Rotate"] = pdf.Integer(p.rotate)
		}
		if p.cropBox != nil {
			dict["CropBox"] = rectangle(*p.cropBox)
		}
		err = tree.AppendPageDict(w.Alloc(), dict)
		if err != nil {
			t.Fatal(err)
		}
	}

	treeRef, err := tree.Close()
	if err != nil {
		t.Fatal(err)
	}
	err = rm.Close()
	if err != nil {
		t.Fatal(err)
	}
	w.GetMeta().Catalog.Pages = treeRef
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func openPDF(t *testing.T, data []byte) (*pdf.Reader, *File) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := New(r)
	if err != nil {
		t.Fatal(err)
	}
	return r, f
}

func readStream(t *testing.T, r pdf.Getter, ref pdf.Object) string {
	t.Helper()
	body, err := pdf.GetStreamReader(r, ref)
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// writeOutput assembles spec from f and returns the written PDF file.
func writeOutput(t *testing.T, f *File, spec *output.Spec) []byte {
	t.Helper()
	doc, err := output.Assemble(f, spec)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	err = f.Write(buf, doc)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPageGeometry(t *testing.T) {
	data := makePDF(t, []testPage{
		{box: letter},
		{box: rect.Rect{LLx: 10, LLy: 20, URx: 305, URy: 440}, rotate: 90},
		{box: letter, rotate: -90},
	})
	r, f := openPDF(t, data)
	defer r.Close()

	if f.NumPages() != 3 {
		t.Fatalf("got %d pages, want 3", f.NumPages())
	}

	want := []geometry.Page{
		geometry.New(letter, 0),
		geometry.New(rect.Rect{LLx: 10, LLy: 20, URx: 305, URy: 440}, 90),
		geometry.New(letter, 270),
	}
	for i := range want {
		got, err := f.PageGeometry(i)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(want[i], got); d != "" {
			t.Errorf("page %d (-want +got):\n%s", i+1, d)
		}
	}

	_, err := f.PageGeometry(3)
	if !errors.Is(err, pdfpipe.ErrPageIndexOutOfRange) {
		t.Errorf("expected ErrPageIndexOutOfRange, got %v", err)
	}
}

func TestWriteLabel(t *testing.T) {
	data := makePDF(t, []testPage{{box: letter}, {box: letter}})
	r, f := openPDF(t, data)
	defer r.Close()

	spec := &output.Spec{
		Name:   "label",
		Select: selection.Spec{Pages: selection.List{2, 1, 2}},
		Transforms: transform.Chain{
			{Transform: transform.Rotate{Angle: 90}},
			{Transform: transform.Crop{
				LowerLeft:  vec.Vec2{X: 82, Y: 260},
				UpperRight: vec.Vec2{X: 514, Y: 548},
			}},
		},
	}
	outData := writeOutput(t, f, spec)

	r2, f2 := openPDF(t, outData)
	defer r2.Close()

	if f2.NumPages() != 3 {
		t.Fatalf("got %d pages, want 3", f2.NumPages())
	}
	wantSource := []int{2, 1, 2}
	for i := range 3 {
		g, err := f2.PageGeometry(i)
		if err != nil {
			t.Fatal(err)
		}
		if w, h := g.Dimensions(); w != 432 || h != 288 || g.Rotate != 90 {
			t.Errorf("page %d: got %gx%g rot=%d", i+1, w, h, g.Rotate)
		}

		_, dict, err := pagetree.GetPage(r2, i)
		if err != nil {
			t.Fatal(err)
		}
		body := readStream(t, r2, dict["Contents"])
		want := fmt.Sprintf("%% page %d", wantSource[i])
		if !strings.Contains(body, want) {
			t.Errorf("page %d: content %q does not contain %q", i+1, body, want)
		}
		if _, ok := dict["Annots"]; ok {
			t.Errorf("page %d: annotations were copied", i+1)
		}
	}

	info := r2.GetMeta().Info
	if info == nil || string(info.Title) != "label" || string(info.Producer) != Producer {
		t.Errorf("unexpected document info %v", info)
	}
	if r2.GetMeta().Catalog.Metadata == 0 {
		t.Error("XMP metadata missing")
	}
}

func TestWriteResized(t *testing.T) {
	data := makePDF(t, []testPage{{box: letter}})
	r, f := openPDF(t, data)
	defer r.Close()

	spec := &output.Spec{
		Name: "small",
		Transforms: transform.Chain{
			{Transform: transform.Resize{Width: "4in", Height: "6in", Fit: transform.Stretch}},
		},
	}
	outData := writeOutput(t, f, spec)

	r2, f2 := openPDF(t, outData)
	defer r2.Close()

	g, err := f2.PageGeometry(0)
	if err != nil {
		t.Fatal(err)
	}
	if g.Box != (rect.Rect{URx: 288, URy: 432}) {
		t.Errorf("got media box %v", g.Box)
	}

	_, dict, err := pagetree.GetPage(r2, 0)
	if err != nil {
		t.Fatal(err)
	}
	contents, err := pdf.GetArray(r2, dict["Contents"])
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 3 {
		t.Fatalf("got %d content streams, want 3", len(contents))
	}
	var got []string
	for _, ref := range contents {
		got = append(got, readStream(t, r2, ref))
	}
	if got[0] != "q 0.470588 0 0 0.545455 0 0 cm\n" {
		t.Errorf("wrong prefix stream %q", got[0])
	}
	if !strings.Contains(got[1], "% page 1") {
		t.Errorf("original content not found in %q", got[1])
	}
	if got[2] != "Q\n" {
		t.Errorf("wrong suffix stream %q", got[2])
	}
}

func TestWriteBoxes(t *testing.T) {
	crop := rect.Rect{LLx: 10, LLy: 10, URx: 600, URy: 780}
	data := makePDF(t, []testPage{{box: letter, cropBox: &crop}})
	r, f := openPDF(t, data)
	defer r.Close()

	rotated := writeOutput(t, f, &output.Spec{
		Name:       "rotated",
		Transforms: transform.Chain{{Transform: transform.Rotate{Angle: 180}}},
	})
	cropped := writeOutput(t, f, &output.Spec{
		Name: "cropped",
		Transforms: transform.Chain{{Transform: transform.Crop{
			LowerLeft:  vec.Vec2{X: 0, Y: 0},
			UpperRight: vec.Vec2{X: 300, Y: 300},
		}}},
	})

	r2, err := pdf.NewReader(bytes.NewReader(rotated), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()
	_, dict, err := pagetree.GetPage(r2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := dict["CropBox"]; !ok {
		t.Error("rotation removed the crop box")
	}

	r3, err := pdf.NewReader(bytes.NewReader(cropped), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r3.Close()
	_, dict, err = pagetree.GetPage(r3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := dict["CropBox"]; ok {
		t.Error("stale crop box was kept")
	}
}

func TestWriteEmpty(t *testing.T) {
	data := makePDF(t, []testPage{{box: letter}})
	r, f := openPDF(t, data)
	defer r.Close()

	err := f.Write(io.Discard, &output.Document{Name: "empty"})
	if err == nil {
		t.Error("empty document was written")
	}
}

func TestCheckRejectsGarbage(t *testing.T) {
	err := Check(strings.NewReader("this is not a PDF file"), 1)
	if err == nil {
		t.Error("garbage was accepted")
	}
}

func TestSourceUnchanged(t *testing.T) {
	data := makePDF(t, []testPage{{box: letter}})
	r, f := openPDF(t, data)
	defer r.Close()

	before, err := f.PageGeometry(0)
	if err != nil {
		t.Fatal(err)
	}
	writeOutput(t, f, &output.Spec{
		Name:       "x",
		Transforms: transform.Chain{{Transform: transform.Rotate{Angle: 90}}},
	})
	after, err := f.PageGeometry(0)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(before, after); d != "" {
		t.Errorf("source page changed (-before +after):\n%s", d)
	}
}

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

// Package pdffile connects the pipeline to real PDF files.
//
// A [File] gives access to the page geometry of a PDF document, and writes
// assembled output documents as new PDF files.  Pages are copied together
// with their resources, only the page boxes, the rotation and, for resized
// pages, the content transformation are changed.
package pdffile

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
)

// File is an open PDF document.
type File struct {
	r        pdf.Getter
	closer   io.Closer
	numPages int
}

// Open opens the PDF file with the given name.
// The ReaderOptions are passed to [pdf.Open] and may be nil.
func Open(path string, opt *pdf.ReaderOptions) (*File, error) {
	r, err := pdf.Open(path, opt)
	if err != nil {
		return nil, err
	}
	f, err := New(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.closer = r
	return f, nil
}

// New returns a File which reads from r.
// Closing the File does not close r.
func New(r pdf.Getter) (*File, error) {
	n, err := pagetree.NumPages(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read page tree: %w", err)
	}
	return &File{r: r, numPages: n}, nil
}

// Close closes the underlying PDF reader, if it was opened by [Open].
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// NumPages returns the number of pages in the document.
func (f *File) NumPages() int {
	return f.numPages
}

// PageGeometry returns the geometry of page i (0-based).
//
// The page box is the media box of the page, taking inherited values from
// the page tree into account.
func (f *File) PageGeometry(i int) (geometry.Page, error) {
	if i < 0 || i >= f.numPages {
		return geometry.Page{}, fmt.Errorf("%w: page %d of %d",
			pdfpipe.ErrPageIndexOutOfRange, i+1, f.numPages)
	}
	_, dict, err := pagetree.GetPage(f.r, i)
	if err != nil {
		return geometry.Page{}, err
	}
	return f.geometryOf(dict)
}

func (f *File) geometryOf(dict pdf.Dict) (geometry.Page, error) {
	mediaBox, err := pdf.GetRectangle(f.r, dict["MediaBox"])
	if err != nil {
		return geometry.Page{}, err
	}
	if mediaBox == nil {
		return geometry.Page{}, errMissingMediaBox
	}
	box := rect.Rect{
		LLx: min(mediaBox.LLx, mediaBox.URx),
		LLy: min(mediaBox.LLy, mediaBox.URy),
		URx: max(mediaBox.LLx, mediaBox.URx),
		URy: max(mediaBox.LLy, mediaBox.URy),
	}

	rot, err := pdf.Optional(pdf.GetInteger(f.r, dict["Rotate"]))
	if err != nil {
		return geometry.Page{}, err
	}
	rotate, err := geometry.NormalizeRotation(int(rot))
	if err != nil {
		return geometry.Page{}, err
	}

	p := geometry.New(box, rotate)
	if err := p.Check(); err != nil {
		return geometry.Page{}, err
	}
	return p, nil
}

var errMissingMediaBox = fmt.Errorf("%w: missing media box", pdfpipe.ErrInvalidGeometry)

var errEmptyDocument = errors.New("cannot write a PDF file without pages")

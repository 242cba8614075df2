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

// Package output assembles output documents from the pages of a source
// document.
//
// An output is described by a [Spec]: which pages to take and how to
// transform them.  [Assemble] evaluates a Spec against a [Source] and
// returns the resulting [Document].  Documents only describe the pages;
// writing them to a file is done by the pdffile package.
package output

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/selection"
	"seehuhn.de/go/pdfpipe/transform"
)

// Source gives read-only access to the pages of an input document.
type Source interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageGeometry returns the geometry of page i (0-based).
	PageGeometry(i int) (geometry.Page, error)
}

// Spec describes one output document.
type Spec struct {
	// Name identifies the output.  It is used in error messages and for
	// naming the output file.
	Name string

	// Select determines which pages of the source are used, and in which
	// order.
	Select selection.Spec

	// Transforms is applied to the selected pages.
	Transforms transform.Chain

	// Printer, if set, is the printer the output is sent to.
	Printer string

	// Copies is the number of copies to print.  The value 0 means 1.
	Copies int
}

// NumCopies returns the number of copies to print.
func (s *Spec) NumCopies() int {
	if s.Copies <= 0 {
		return 1
	}
	return s.Copies
}

// Validate checks the parts of s which do not depend on the source
// document.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("missing output name")
	}
	if err := s.Select.Validate(); err != nil {
		return &pdfpipe.OutputError{Output: s.Name, Err: err}
	}
	if err := s.Transforms.Validate(); err != nil {
		return &pdfpipe.OutputError{Output: s.Name, Err: err}
	}
	if s.Copies < 0 {
		return &pdfpipe.OutputError{
			Output: s.Name,
			Err:    fmt.Errorf("invalid number of copies %d", s.Copies),
		}
	}
	return nil
}

// Page is one page of an output document.
type Page struct {
	// Index is the 0-based page index in the source document.
	Index int

	// Geometry is the transformed geometry of the page.
	Geometry geometry.Page
}

// Document is an assembled output document.
type Document struct {
	Name  string
	Pages []Page
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return len(d.Pages)
}

// SourcePages returns the 1-based source page numbers of the document.
func (d *Document) SourcePages() []int {
	res := make([]int, len(d.Pages))
	for i, p := range d.Pages {
		res[i] = p.Index + 1
	}
	return res
}

// Assemble builds the output document described by spec.
//
// The source is only read.  All errors are of type [*pdfpipe.OutputError].
func Assemble(src Source, spec *Spec) (*Document, error) {
	fail := func(err error) (*Document, error) {
		return nil, &pdfpipe.OutputError{Output: spec.Name, Err: err}
	}

	idx, err := spec.Select.Resolve(src.NumPages())
	if err != nil {
		return fail(err)
	}

	pages := make([]geometry.Page, len(idx))
	for k, i := range idx {
		p, err := src.PageGeometry(i)
		if err != nil {
			return fail(fmt.Errorf("page %d: %w", i+1, err))
		}
		if err := p.Check(); err != nil {
			return fail(fmt.Errorf("page %d: %w", i+1, err))
		}
		pages[k] = p
	}

	pages, err = spec.Transforms.Apply(pages)
	if err != nil {
		return fail(err)
	}

	doc := &Document{
		Name:  spec.Name,
		Pages: make([]Page, len(idx)),
	}
	for k, i := range idx {
		doc.Pages[k] = Page{Index: i, Geometry: pages[k]}
	}
	return doc, nil
}

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

// Package pdfpipe converts one input PDF file into a set of named derivative
// files.
//
// Every derivative ("output") consists of a selection of pages from the
// input, and every selected page runs through a chain of geometric
// transformations: rotation, cropping and resizing.  A typical use is to
// split a shipping document into a packing sheet and a correctly oriented
// 4x6in label, and to send both to different printers.
//
// The work is split over several packages:
//
//   - [seehuhn.de/go/pdfpipe/unit] parses dimensions like "4in" or "100mm".
//   - [seehuhn.de/go/pdfpipe/geometry] describes the geometry of a page.
//   - [seehuhn.de/go/pdfpipe/transform] implements rotate, crop and resize.
//   - [seehuhn.de/go/pdfpipe/selection] resolves page selectors.
//   - [seehuhn.de/go/pdfpipe/output] assembles a single output document.
//   - [seehuhn.de/go/pdfpipe/pipeline] runs all outputs for a set of inputs.
//   - [seehuhn.de/go/pdfpipe/pdffile] reads and writes the PDF files.
//   - [seehuhn.de/go/pdfpipe/config] loads the YAML configuration.
//   - [seehuhn.de/go/pdfpipe/printer] hands finished files to a printer.
//
// This package only defines the error values shared by all of these.
package pdfpipe

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

// Package selection resolves page selectors against a document.
//
// Selectors use 1-based page numbers, as printed on the page or shown by a
// PDF viewer.  [Resolve] turns a selector into the 0-based page indices used
// internally.  Out-of-range page numbers are always an error; they are never
// clamped to the valid range.
package selection

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/pdfpipe"
)

// A Selector chooses a sequence of pages from a document.
//
// The implementations are [All], [First], [Last], [Range], [List],
// [Exclude], [Concat] and [Except].
type Selector interface {
	resolve(numPages int) ([]int, error)
	validate() error
	String() string
}

// All selects every page, in document order.
type All struct{}

// First selects the first page.
type First struct{}

// Last selects the last page.
type Last struct{}

// Range selects the pages Start to End (inclusive, 1-based).
type Range struct {
	Start, End int
}

// List selects the given pages (1-based) in the given order.
// Pages may be listed more than once.
type List []int

// Exclude selects all pages except the given ones (1-based),
// in document order.
type Exclude []int

// Concat selects the pages of all parts, one part after the other.
type Concat []Selector

// Except selects all pages not selected by Of, in document order.
// Unlike [Exclude], this can describe pages relative to the end of the
// document, e.g. all pages except the last one.
type Except struct {
	Of Selector
}

// Resolve returns the 0-based indices of the pages selected by sel in a
// document with numPages pages.  A nil selector selects all pages.
//
// An empty result is not an error here; see [Spec.Resolve].
func Resolve(sel Selector, numPages int) ([]int, error) {
	if numPages < 0 {
		return nil, fmt.Errorf("%w: negative page count %d", pdfpipe.ErrInvalidGeometry, numPages)
	}
	if sel == nil {
		sel = All{}
	}
	return sel.resolve(numPages)
}

// Validate checks the parts of sel which do not depend on the document,
// i.e. that all page numbers are positive and that ranges are not
// reversed.
func Validate(sel Selector) error {
	if sel == nil {
		return nil
	}
	return sel.validate()
}

func (All) resolve(numPages int) ([]int, error) {
	res := make([]int, numPages)
	for i := range res {
		res[i] = i
	}
	return res, nil
}

func (All) validate() error { return nil }

func (All) String() string { return "all" }

func (First) resolve(numPages int) ([]int, error) {
	if numPages < 1 {
		return nil, outOfRange(1, numPages)
	}
	return []int{0}, nil
}

func (First) validate() error { return nil }

func (First) String() string { return "first" }

func (Last) resolve(numPages int) ([]int, error) {
	if numPages < 1 {
		return nil, fmt.Errorf("%w: last page of an empty document", pdfpipe.ErrPageIndexOutOfRange)
	}
	return []int{numPages - 1}, nil
}

func (Last) validate() error { return nil }

func (Last) String() string { return "last" }

func (r Range) resolve(numPages int) ([]int, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.End > numPages {
		return nil, outOfRange(r.End, numPages)
	}
	res := make([]int, 0, r.End-r.Start+1)
	for pageNo := r.Start; pageNo <= r.End; pageNo++ {
		res = append(res, pageNo-1)
	}
	return res, nil
}

func (r Range) validate() error {
	if r.Start < 1 {
		return fmt.Errorf("%w: page %d", pdfpipe.ErrPageIndexOutOfRange, r.Start)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: reversed range %d-%d", pdfpipe.ErrPageIndexOutOfRange, r.Start, r.End)
	}
	return nil
}

func (r Range) String() string {
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

func (l List) resolve(numPages int) ([]int, error) {
	res := make([]int, 0, len(l))
	for _, pageNo := range l {
		if pageNo < 1 || pageNo > numPages {
			return nil, outOfRange(pageNo, numPages)
		}
		res = append(res, pageNo-1)
	}
	return res, nil
}

func (l List) validate() error {
	return checkPositive(l)
}

func (l List) String() string {
	return joinInts(l)
}

func (e Exclude) resolve(numPages int) ([]int, error) {
	skip := make(map[int]bool, len(e))
	for _, pageNo := range e {
		if pageNo < 1 || pageNo > numPages {
			return nil, outOfRange(pageNo, numPages)
		}
		skip[pageNo-1] = true
	}
	res := make([]int, 0, numPages)
	for i := 0; i < numPages; i++ {
		if !skip[i] {
			res = append(res, i)
		}
	}
	return res, nil
}

func (e Exclude) validate() error {
	return checkPositive(e)
}

func (e Exclude) String() string {
	return "except " + joinInts(e)
}

func (c Concat) resolve(numPages int) ([]int, error) {
	var res []int
	for _, part := range c {
		idx, err := part.resolve(numPages)
		if err != nil {
			return nil, err
		}
		res = append(res, idx...)
	}
	return res, nil
}

func (c Concat) validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty page list", pdfpipe.ErrPageIndexOutOfRange)
	}
	for _, part := range c {
		if part == nil {
			return fmt.Errorf("%w: missing list item", pdfpipe.ErrPageIndexOutOfRange)
		}
		if err := part.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Concat) String() string {
	parts := make([]string, len(c))
	for i, part := range c {
		parts[i] = part.String()
	}
	return strings.Join(parts, ",")
}

func (e Except) resolve(numPages int) ([]int, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	idx, err := e.Of.resolve(numPages)
	if err != nil {
		return nil, err
	}
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	res := make([]int, 0, numPages-len(skip))
	for i := 0; i < numPages; i++ {
		if !skip[i] {
			res = append(res, i)
		}
	}
	return res, nil
}

func (e Except) validate() error {
	if e.Of == nil {
		return fmt.Errorf("%w: nothing to exclude", pdfpipe.ErrPageIndexOutOfRange)
	}
	if _, nested := e.Of.(Except); nested {
		return fmt.Errorf("%w: nested exclusion", pdfpipe.ErrPageIndexOutOfRange)
	}
	return e.Of.validate()
}

func (e Except) String() string {
	return "except " + e.Of.String()
}

func outOfRange(pageNo, numPages int) error {
	return fmt.Errorf("%w: page %d of %d", pdfpipe.ErrPageIndexOutOfRange, pageNo, numPages)
}

func checkPositive(pages []int) error {
	for _, pageNo := range pages {
		if pageNo < 1 {
			return fmt.Errorf("%w: page %d", pdfpipe.ErrPageIndexOutOfRange, pageNo)
		}
	}
	return nil
}

func joinInts(pages []int) string {
	parts := make([]string, len(pages))
	for i, pageNo := range pages {
		parts[i] = strconv.Itoa(pageNo)
	}
	return strings.Join(parts, ",")
}

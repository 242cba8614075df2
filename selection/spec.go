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

package selection

import (
	"fmt"

	"seehuhn.de/go/pdfpipe"
)

// Require is a precondition on the number of pages of the input document.
// Zero fields impose no constraint.
type Require struct {
	// Exact, if positive, is the required number of pages.
	Exact int

	// Min, if positive, is the minimum number of pages.
	Min int
}

// Check verifies that a document with numPages pages satisfies r.
func (r Require) Check(numPages int) error {
	if r.Exact > 0 && numPages != r.Exact {
		return fmt.Errorf("%w: document has %d pages, exactly %d required",
			pdfpipe.ErrPageCountMismatch, numPages, r.Exact)
	}
	if r.Min > 0 && numPages < r.Min {
		return fmt.Errorf("%w: document has %d pages, at least %d required",
			pdfpipe.ErrPageCountMismatch, numPages, r.Min)
	}
	return nil
}

// Validate checks that the precondition can be satisfied at all.
func (r Require) Validate() error {
	if r.Exact < 0 || r.Min < 0 {
		return fmt.Errorf("%w: negative page count in precondition", pdfpipe.ErrPageCountMismatch)
	}
	if r.Exact > 0 && r.Min > r.Exact {
		return fmt.Errorf("%w: minimum %d exceeds exact count %d",
			pdfpipe.ErrPageCountMismatch, r.Min, r.Exact)
	}
	return nil
}

// Spec is the page selection of one output.
type Spec struct {
	// Pages chooses the pages.  If this is nil, all pages are used.
	Pages Selector

	// Require is checked before any page is selected.
	Require Require

	// AllowEmpty permits selections without any pages.
	AllowEmpty bool
}

// Resolve checks the page count precondition and returns the 0-based
// indices of the selected pages.
//
// Unless AllowEmpty is set, an empty selection is reported as
// [pdfpipe.ErrEmptySelection].
func (s *Spec) Resolve(numPages int) ([]int, error) {
	err := s.Require.Check(numPages)
	if err != nil {
		return nil, err
	}

	idx, err := Resolve(s.Pages, numPages)
	if err != nil {
		return nil, err
	}

	if len(idx) == 0 && !s.AllowEmpty {
		sel := "all"
		if s.Pages != nil {
			sel = s.Pages.String()
		}
		return nil, fmt.Errorf("%w: %q selects no pages of %d",
			pdfpipe.ErrEmptySelection, sel, numPages)
	}
	return idx, nil
}

// Validate checks the selector and the precondition.
func (s *Spec) Validate() error {
	err := Validate(s.Pages)
	if err != nil {
		return err
	}
	return s.Require.Validate()
}

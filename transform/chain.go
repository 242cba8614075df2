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
	"fmt"

	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/selection"
)

// Step is one element of a [Chain].
type Step struct {
	Transform

	// Pages restricts the step to some pages of the output.  The page
	// numbers are 1-based positions in the output document, not page
	// numbers of the input.  If Pages is nil, the step applies to every
	// page.
	Pages selection.Selector
}

func (s Step) String() string {
	if s.Pages == nil {
		return s.Transform.String()
	}
	return s.Transform.String() + " on pages " + s.Pages.String()
}

// Chain is a sequence of transformations, applied in order.
type Chain []Step

// Validate checks all steps of the chain.
func (c Chain) Validate() error {
	for i, step := range c {
		if step.Transform == nil {
			return fmt.Errorf("step %d: missing transformation", i+1)
		}
		if err := step.Transform.Validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		if err := selection.Validate(step.Pages); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}

// Apply transforms the pages of an output document.
//
// Page i of the result is obtained by applying all steps which select
// position i, in the order of the chain, to pages[i].  Every step sees the
// result of the previous steps.  The pages slice is not modified.
func (c Chain) Apply(pages []geometry.Page) ([]geometry.Page, error) {
	n := len(pages)

	// applies[k][i] tells whether step k applies to page i
	applies := make([][]bool, len(c))
	for k, step := range c {
		if step.Transform == nil {
			return nil, fmt.Errorf("step %d: missing transformation", k+1)
		}
		applies[k] = make([]bool, n)
		if step.Pages == nil {
			for i := range applies[k] {
				applies[k][i] = true
			}
			continue
		}
		idx, err := selection.Resolve(step.Pages, n)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", k+1, step, err)
		}
		for _, i := range idx {
			applies[k][i] = true
		}
	}

	res := make([]geometry.Page, n)
	for i, p := range pages {
		for k, step := range c {
			if !applies[k][i] {
				continue
			}
			var err error
			p, err = step.Transform.Apply(p)
			if err != nil {
				return nil, fmt.Errorf("page %d, step %d (%s): %w", i+1, k+1, step, err)
			}
		}
		res[i] = p
	}
	return res, nil
}

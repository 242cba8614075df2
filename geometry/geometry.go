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

// Package geometry describes the geometry of a PDF page.
package geometry

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfpipe"
)

// Page is the geometry of a single page.
//
// Page is a value type.  Copying a Page gives an independent copy, so that
// transformations of one copy never affect another.
type Page struct {
	// Box is the media box of the page, in PDF points.
	Box rect.Rect

	// Rotate is the clockwise rotation of the page when displayed,
	// one of 0, 90, 180 or 270.
	Rotate int

	// Content maps the user space of the original page to the user space
	// of this page.  This is [matrix.Identity] unless the page content has
	// been scaled.
	Content matrix.Matrix
}

// New returns the geometry of an untransformed page.
func New(box rect.Rect, rotate int) Page {
	return Page{
		Box:     box,
		Rotate:  rotate,
		Content: matrix.Identity,
	}
}

// Width returns the width of the page box.
func (p Page) Width() float64 {
	return p.Box.URx - p.Box.LLx
}

// Height returns the height of the page box.
func (p Page) Height() float64 {
	return p.Box.URy - p.Box.LLy
}

// Dimensions returns the width and height of the page box.
// The rotation of the page is not taken into account.
func (p Page) Dimensions() (width, height float64) {
	return p.Width(), p.Height()
}

// IsLandscape reports whether the page box is wider than it is high.
// Square pages count as portrait.
func (p Page) IsLandscape() bool {
	w, h := p.Dimensions()
	return w > h
}

// IsScaled reports whether the page content has been transformed.
func (p Page) IsScaled() bool {
	return p.Content != matrix.Identity
}

// Check verifies that the page box is non-degenerate and that the rotation
// is one of the four allowed values.
func (p Page) Check() error {
	if !(p.Box.URx > p.Box.LLx && p.Box.URy > p.Box.LLy) {
		return fmt.Errorf("%w: degenerate page box %s",
			pdfpipe.ErrInvalidGeometry, FormatBox(p.Box))
	}
	switch p.Rotate {
	case 0, 90, 180, 270:
		// pass
	default:
		return fmt.Errorf("%w: page rotation %d", pdfpipe.ErrInvalidRotation, p.Rotate)
	}
	return nil
}

func (p Page) String() string {
	return fmt.Sprintf("%s rot=%d", FormatBox(p.Box), p.Rotate)
}

// NormalizeRotation maps a rotation angle to the range 0, 90, 180, 270.
// Negative angles are allowed, but the angle must be a multiple of 90.
func NormalizeRotation(deg int) (int, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("%w: %d is not a multiple of 90", pdfpipe.ErrInvalidRotation, deg)
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg, nil
}

// FormatBox formats a rectangle as "[llx lly urx ury]".
func FormatBox(r rect.Rect) string {
	return fmt.Sprintf("[%g %g %g %g]", r.LLx, r.LLy, r.URx, r.URy)
}

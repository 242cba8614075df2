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

// Package transform implements the geometric page transformations.
//
// There are three transformations: [Rotate] changes the display rotation of
// a page, [Crop] replaces the page box, and [Resize] scales the page content
// to a new page size.  All transformations operate on [geometry.Page]
// values and return a new value, the input is never modified.
package transform

import (
	"fmt"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/unit"
)

// Transform is a geometric page transformation.
type Transform interface {
	// Apply returns the transformed page geometry.
	Apply(p geometry.Page) (geometry.Page, error)

	// Validate checks the parameters of the transformation, as far as this
	// is possible without knowing the page.
	Validate() error

	String() string
}

// Orientation is the target orientation of a [Rotate] transformation.
type Orientation string

// These are the supported orientations.
const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Auto      Orientation = "auto"
)

// ParseOrientation converts a string to an Orientation.
// The comparison is case-insensitive.
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(strings.ToLower(strings.TrimSpace(s)))
	switch o {
	case Landscape, Portrait, Auto:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown orientation %q", pdfpipe.ErrInvalidRotation, s)
}

// Rotate rotates a page clockwise.
//
// If To is empty, the page is rotated by Angle degrees, which must be one of
// 0, 90, 180 or 270.  Rotations accumulate: two rotations by 90 degrees give
// the same result as one rotation by 180 degrees.
//
// Otherwise the page is rotated by 90 degrees if this is needed to give the
// orientation To.  [Auto] never rotates.
type Rotate struct {
	Angle int
	To    Orientation
}

// Apply implements the [Transform] interface.
func (r Rotate) Apply(p geometry.Page) (geometry.Page, error) {
	if err := r.Validate(); err != nil {
		return p, err
	}

	angle := r.Angle
	var to Orientation
	if r.To != "" {
		to, _ = ParseOrientation(string(r.To))
	}
	switch to {
	case Landscape:
		angle = 0
		if !p.IsLandscape() {
			angle = 90
		}
	case Portrait:
		angle = 0
		if p.IsLandscape() {
			angle = 90
		}
	case Auto:
		angle = 0
	}
	if angle == 0 {
		return p, nil
	}

	p.Rotate = (p.Rotate + angle) % 360
	return p, nil
}

// Validate implements the [Transform] interface.
func (r Rotate) Validate() error {
	if r.To != "" {
		_, err := ParseOrientation(string(r.To))
		return err
	}
	switch r.Angle {
	case 0, 90, 180, 270:
		return nil
	}
	return fmt.Errorf("%w: angle must be 0, 90, 180 or 270, not %d",
		pdfpipe.ErrInvalidRotation, r.Angle)
}

func (r Rotate) String() string {
	if r.To != "" {
		return "rotate " + string(r.To)
	}
	return fmt.Sprintf("rotate %d", r.Angle)
}

// Crop sets the page box to the rectangle with the given corners, in PDF
// points.
//
// The coordinates are absolute, not relative to the current page box, and
// the new box may extend beyond the old one.
type Crop struct {
	LowerLeft  vec.Vec2
	UpperRight vec.Vec2
}

// Apply implements the [Transform] interface.
func (c Crop) Apply(p geometry.Page) (geometry.Page, error) {
	if err := c.Validate(); err != nil {
		return p, err
	}
	p.Box = c.Rect()
	return p, nil
}

// Validate implements the [Transform] interface.
func (c Crop) Validate() error {
	if !(c.UpperRight.X > c.LowerLeft.X && c.UpperRight.Y > c.LowerLeft.Y) {
		return fmt.Errorf("%w: lower left (%g, %g), upper right (%g, %g)",
			pdfpipe.ErrInvalidCrop,
			c.LowerLeft.X, c.LowerLeft.Y, c.UpperRight.X, c.UpperRight.Y)
	}
	return nil
}

// Rect returns the crop rectangle.
func (c Crop) Rect() rect.Rect {
	return rect.Rect{
		LLx: c.LowerLeft.X,
		LLy: c.LowerLeft.Y,
		URx: c.UpperRight.X,
		URy: c.UpperRight.Y,
	}
}

func (c Crop) String() string {
	return "crop " + geometry.FormatBox(c.Rect())
}

// FitMode describes how page content is fitted to a new page size.
type FitMode string

// These are the supported fit modes.
const (
	// Contain scales the content uniformly, so that it fits into the new
	// page.
	Contain FitMode = "contain"

	// Cover scales the content uniformly, so that it covers the new page.
	// Content may extend beyond the page box in one direction.
	Cover FitMode = "cover"

	// Stretch scales both axes independently, so that the content exactly
	// fills the new page.
	Stretch FitMode = "stretch"
)

// Resize changes the page size to Width x Height and scales the page
// content accordingly.
//
// Width and Height are dimension strings like "4in" or "150mm", see
// [unit.Parse].  If Fit is empty, [Contain] is used.
type Resize struct {
	Width  string
	Height string
	Fit    FitMode
}

// Apply implements the [Transform] interface.
//
// The content is first moved so that the lower left corner of the current
// page box is at the origin, and then scaled.  The new page box is
// (0, 0)-(Width, Height).
func (r Resize) Apply(p geometry.Page) (geometry.Page, error) {
	tw, th, err := r.target()
	if err != nil {
		return p, err
	}
	fit, err := r.fitMode()
	if err != nil {
		return p, err
	}

	cw, ch := p.Dimensions()
	if cw <= 0 || ch <= 0 {
		return p, fmt.Errorf("%w: cannot scale a %gx%g page",
			pdfpipe.ErrInvalidGeometry, cw, ch)
	}

	sx, sy := tw/cw, th/ch
	switch fit {
	case Contain:
		s := min(sx, sy)
		sx, sy = s, s
	case Cover:
		s := max(sx, sy)
		sx, sy = s, s
	}

	mapBox := matrix.Translate(-p.Box.LLx, -p.Box.LLy).Mul(matrix.Scale(sx, sy))
	p.Content = p.Content.Mul(mapBox)
	p.Box = rect.Rect{URx: tw, URy: th}
	return p, nil
}

// Validate implements the [Transform] interface.
func (r Resize) Validate() error {
	_, _, err := r.target()
	if err != nil {
		return err
	}
	_, err = r.fitMode()
	return err
}

func (r Resize) target() (float64, float64, error) {
	tw, err := unit.ParseDimension(r.Width)
	if err != nil {
		return 0, 0, fmt.Errorf("resize width: %w", err)
	}
	th, err := unit.ParseDimension(r.Height)
	if err != nil {
		return 0, 0, fmt.Errorf("resize height: %w", err)
	}
	if tw <= 0 || th <= 0 {
		return 0, 0, fmt.Errorf("%w: target size %sx%s is empty",
			pdfpipe.ErrInvalidDimension, r.Width, r.Height)
	}
	return tw, th, nil
}

func (r Resize) fitMode() (FitMode, error) {
	fit := FitMode(strings.ToLower(string(r.Fit)))
	switch fit {
	case "":
		return Contain, nil
	case Contain, Cover, Stretch:
		return fit, nil
	}
	return "", fmt.Errorf("%w: %q", pdfpipe.ErrUnknownFitMode, string(r.Fit))
}

func (r Resize) String() string {
	fit := r.Fit
	if fit == "" {
		fit = Contain
	}
	return fmt.Sprintf("resize %sx%s %s", r.Width, r.Height, fit)
}

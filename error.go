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

package pdfpipe

import (
	"errors"
	"strconv"
)

// The error kinds reported by the pipeline.  Errors returned by the
// sub-packages wrap one of these, so that callers can use [errors.Is] to
// find the kind of a failure.
var (
	ErrInvalidDimension    = errors.New("invalid dimension")
	ErrInvalidRotation     = errors.New("invalid rotation")
	ErrInvalidCrop         = errors.New("invalid crop rectangle")
	ErrUnknownFitMode      = errors.New("unknown fit mode")
	ErrInvalidGeometry     = errors.New("invalid page geometry")
	ErrPageIndexOutOfRange = errors.New("page index out of range")
	ErrEmptySelection      = errors.New("empty page selection")
	ErrPageCountMismatch   = errors.New("page count mismatch")

	// ErrOutputAssemblyFailed is matched by every [*OutputError].
	ErrOutputAssemblyFailed = errors.New("output assembly failed")

	// ErrPathCollision indicates that two outputs of a batch run would be
	// written to the same file.
	ErrPathCollision = errors.New("output path collision")
)

// OutputError is returned when one of the configured outputs cannot be
// assembled.  It records the name of the output.
type OutputError struct {
	Output string
	Err    error
}

func (err *OutputError) Error() string {
	msg := "output " + strconv.Quote(err.Output) + " failed"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (err *OutputError) Unwrap() error {
	return err.Err
}

// Is reports whether target is [ErrOutputAssemblyFailed].
func (err *OutputError) Is(target error) bool {
	return target == ErrOutputAssemblyFailed
}

// Kind returns the sentinel error which describes err, or nil if err does
// not wrap any of the error kinds defined in this package.
func Kind(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// kinds is ordered from specific to generic.
var kinds = []error{
	ErrInvalidDimension,
	ErrInvalidRotation,
	ErrInvalidCrop,
	ErrUnknownFitMode,
	ErrInvalidGeometry,
	ErrPageIndexOutOfRange,
	ErrEmptySelection,
	ErrPageCountMismatch,
	ErrPathCollision,
	ErrOutputAssemblyFailed,
}

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

// Package pipeline runs the configured outputs over input documents.
//
// [Run] assembles all outputs of a single document.  [Batch] processes
// many input files concurrently, writes the outputs to disk and optionally
// sends them to a printer.
package pipeline

import (
	"errors"
	"log/slog"

	"seehuhn.de/go/pdfpipe/output"
)

// Options control a [Run].
type Options struct {
	// Strict stops the run after the first failed output.  By default, the
	// remaining outputs are still assembled.
	Strict bool

	// Logger receives progress messages.  If this is nil, [slog.Default] is
	// used.
	Logger *slog.Logger
}

// Artifact is the result of assembling one output.
type Artifact struct {
	// Output is the name of the output.
	Output string

	// Document is the assembled document, or nil if the output failed.
	Document *output.Document

	// Printer and Copies are copied from the [output.Spec].
	Printer string
	Copies  int

	// Path is the file the document was written to.  This is empty until
	// the document has been written.
	Path string

	// Err is the reason the output failed, or nil.
	Err error
}

// Result lists the artifacts of a run, in configuration order.
type Result struct {
	Artifacts []*Artifact

	// Skipped lists the outputs which were not attempted, because an
	// earlier output failed in strict mode.
	Skipped []string
}

// Err returns all errors of the run, or nil if all outputs succeeded.
func (r *Result) Err() error {
	var errs []error
	for _, a := range r.Artifacts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errors.Join(errs...)
}

// Succeeded returns the artifacts which were produced without error.
func (r *Result) Succeeded() []*Artifact {
	var res []*Artifact
	for _, a := range r.Artifacts {
		if a.Err == nil {
			res = append(res, a)
		}
	}
	return res
}

// Failed returns the artifacts which could not be produced.
func (r *Result) Failed() []*Artifact {
	var res []*Artifact
	for _, a := range r.Artifacts {
		if a.Err != nil {
			res = append(res, a)
		}
	}
	return res
}

// Run assembles the outputs described by specs from the document src.
//
// The outputs are processed in the order given.  A failed output is
// recorded in the result, with the error in [Artifact.Err].
func Run(src output.Source, specs []*output.Spec, opt *Options) *Result {
	if opt == nil {
		opt = &Options{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{}
	for k, spec := range specs {
		doc, err := output.Assemble(src, spec)
		a := &Artifact{
			Output:   spec.Name,
			Document: doc,
			Printer:  spec.Printer,
			Copies:   spec.NumCopies(),
			Err:      err,
		}
		res.Artifacts = append(res.Artifacts, a)

		if err != nil {
			logger.Warn("output failed", "output", spec.Name, "error", err)
			if opt.Strict {
				for _, rest := range specs[k+1:] {
					res.Skipped = append(res.Skipped, rest.Name)
				}
				break
			}
			continue
		}
		logger.Debug("output assembled",
			"output", spec.Name,
			"pages", doc.SourcePages())
	}
	return res
}

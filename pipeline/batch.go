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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/output"
)

// Input is an open input document.
type Input interface {
	output.Source

	// Write writes an assembled output document, which must have been
	// created from this input.
	Write(w io.Writer, doc *output.Document) error

	Close() error
}

// Batch processes a list of input files.
//
// Each input file is opened, all outputs are assembled, written to disk
// and, if a printer is configured for an output, printed.  Different input
// files are processed concurrently.
type Batch struct {
	// Specs lists the outputs, in configuration order.
	Specs []*output.Spec

	// Concurrency is the maximal number of documents processed at the same
	// time.  If this is zero, [runtime.NumCPU] is used.
	Concurrency int

	// OutDir is the directory for the output files.  If this is empty, the
	// outputs are written next to their input file.
	OutDir string

	// Naming is the file name pattern, see [OutputPath].
	Naming string

	// Force allows existing files to be overwritten.
	Force bool

	// DryRun assembles the outputs but does not write or print anything.
	DryRun bool

	// Strict stops processing at the first error.
	Strict bool

	// Open opens an input file.  This field is required.
	Open func(path string) (Input, error)

	// Verify, if set, is used to check every written file.
	Verify func(r io.ReadSeeker, wantPages int) error

	// Print, if set, is called for every written output which has a printer.
	Print func(ctx context.Context, path, printer string, copies int) error

	// Logger receives progress messages.  If this is nil, [slog.Default] is
	// used.
	Logger *slog.Logger
}

// DocResult is the outcome of processing one input file.
type DocResult struct {
	Input string

	// Result is nil if the document was never opened.
	Result *Result

	// Err is set if the document could not be opened, or if it was not
	// started because the batch was cancelled.
	Err error
}

// Failed reports whether anything went wrong with this document.
func (d *DocResult) Failed() bool {
	if d.Err != nil {
		return true
	}
	return d.Result != nil && (len(d.Result.Failed()) > 0 || len(d.Result.Skipped) > 0)
}

// BatchResult lists the outcomes of a batch run, in input order.
type BatchResult struct {
	Docs []*DocResult
}

// Err returns all errors of the batch, or nil if everything succeeded.
func (b *BatchResult) Err() error {
	var errs []error
	for _, d := range b.Docs {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Input, d.Err))
		}
		if d.Result != nil {
			for _, a := range d.Result.Failed() {
				errs = append(errs, fmt.Errorf("%s: %w", d.Input, a.Err))
			}
		}
	}
	return errors.Join(errs...)
}

// Written returns the number of files written.
func (b *BatchResult) Written() int {
	n := 0
	for _, d := range b.Docs {
		if d.Result == nil {
			continue
		}
		for _, a := range d.Result.Artifacts {
			if a.Err == nil && a.Path != "" {
				n++
			}
		}
	}
	return n
}

// Plan returns the output file names for all inputs.  The result maps
// each input to the paths of its outputs, in configuration order.
//
// An error wrapping [pdfpipe.ErrPathCollision] is returned if two outputs
// would be written to the same file, or if an output would overwrite one of
// the inputs.
func (b *Batch) Plan(inputs []string) (map[string][]string, error) {
	seen := make(map[string]string)
	for _, in := range inputs {
		key, err := pathKey(in)
		if err != nil {
			return nil, err
		}
		seen[key] = "input " + in
	}

	plan := make(map[string][]string, len(inputs))
	for _, in := range inputs {
		paths := make([]string, len(b.Specs))
		for k, spec := range b.Specs {
			p, err := OutputPath(b.OutDir, b.Naming, in, spec.Name, k+1)
			if err != nil {
				return nil, err
			}
			key, err := pathKey(p)
			if err != nil {
				return nil, err
			}
			what := fmt.Sprintf("output %q of %s", spec.Name, in)
			if prev, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %s and %s both use %s",
					pdfpipe.ErrPathCollision, prev, what, p)
			}
			seen[key] = what
			paths[k] = p
		}
		plan[in] = paths
	}
	return plan, nil
}

func pathKey(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return lowerASCII(abs), nil
	}
	return abs, nil
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// Run processes the given input files.
//
// All output paths are computed before any file is opened.  If the paths
// are not unique, no work is done and an error is returned.  Otherwise the
// returned error is nil and the outcome of each document is reported in the
// BatchResult.
//
// If ctx is cancelled, documents which have not yet been started are
// skipped and report the context error.  Documents which are already being
// processed are completed.
func (b *Batch) Run(ctx context.Context, inputs []string) (*BatchResult, error) {
	if b.Open == nil {
		return nil, errors.New("pipeline: missing Open function")
	}
	plan, err := b.Plan(inputs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	numWorkers := b.Concurrency
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(inputs))

	res := &BatchResult{Docs: make([]*DocResult, len(inputs))}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				if err := ctx.Err(); err != nil {
					res.Docs[i] = &DocResult{Input: in, Err: err}
					continue
				}
				d := b.processDocument(ctx, in, plan[in])
				res.Docs[i] = d
				if b.Strict && d.Failed() {
					cancel()
				}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return res, nil
}

// processDocument handles a single input file.  Once started, the document
// is finished even if ctx is cancelled.
func (b *Batch) processDocument(ctx context.Context, in string, paths []string) *DocResult {
	ctx = context.WithoutCancel(ctx)
	logger := b.logger().With("input", in)

	d := &DocResult{Input: in}
	src, err := b.Open(in)
	if err != nil {
		logger.Error("cannot open input", "error", err)
		d.Err = err
		return d
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("closing input failed", "error", err)
		}
	}()

	logger.Info("processing", "pages", src.NumPages())

	d.Result = Run(src, b.Specs, &Options{Strict: b.Strict, Logger: logger})

	for k, a := range d.Result.Artifacts {
		if a.Err != nil {
			continue
		}
		err := b.emit(ctx, logger, src, a, paths[k])
		if err != nil {
			a.Err = &pdfpipe.OutputError{Output: a.Output, Err: err}
			logger.Error("output failed", "output", a.Output, "error", err)
			if b.Strict {
				for _, rest := range d.Result.Artifacts[k+1:] {
					if rest.Err == nil {
						d.Result.Skipped = append(d.Result.Skipped, rest.Output)
					}
				}
				break
			}
		}
	}
	return d
}

// emit writes one artifact to disk and prints it.
func (b *Batch) emit(ctx context.Context, logger *slog.Logger, src Input, a *Artifact, path string) error {
	logger = logger.With("output", a.Output)
	numPages := a.Document.NumPages()

	if numPages == 0 {
		logger.Info("skipping empty output")
		return nil
	}

	if b.DryRun {
		logger.Info("would write",
			"path", path,
			"pages", a.Document.SourcePages())
		if a.Printer != "" {
			logger.Info("would print", "printer", a.Printer, "copies", a.Copies)
		}
		return nil
	}

	err := b.writeFile(path, numPages, func(w io.Writer) error {
		return src.Write(w, a.Document)
	})
	if err != nil {
		return err
	}
	a.Path = path
	logger.Info("wrote output", "path", path, "pages", numPages)

	if a.Printer != "" && b.Print != nil {
		err := b.Print(ctx, path, a.Printer, a.Copies)
		if err != nil {
			return fmt.Errorf("printing to %q: %w", a.Printer, err)
		}
		logger.Info("sent to printer", "printer", a.Printer, "copies", a.Copies)
	}
	return nil
}

// writeFile writes a file via a temporary file in the same directory, so
// that no partial outputs are left behind.
func (b *Batch) writeFile(path string, numPages int, write func(io.Writer) error) (err error) {
	if !b.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pdfpipe-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	err = write(tmp)
	if err != nil {
		return err
	}

	if b.Verify != nil {
		if _, err = tmp.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err = b.Verify(tmp, numPages); err != nil {
			return fmt.Errorf("verifying %s: %w", path, err)
		}
	}

	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (b *Batch) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

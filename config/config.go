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

// Package config reads the YAML configuration of the pipeline.
//
// A configuration file lists the outputs to create from every input
// document, together with some global settings:
//
//	output_dir: ./out
//	naming: "{stem}_{output}.pdf"
//	outputs:
//	  sheet:
//	    pages: first
//	    printer: "Office Laser"
//	  label:
//	    pages: last
//	    transforms:
//	      - rotate: 90
//	      - crop: {lower_left: [82, 260], upper_right: [514, 548]}
//	      - resize: {width: 4in, height: 6in, fit: contain}
//	    printer: "Zebra"
//
// Outputs are created in the order they appear in the file.  The whole
// configuration is checked when it is loaded, so that errors are found
// before any input is processed.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v2"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/output"
)

// Config is a parsed configuration file.
type Config struct {
	// OutputDir is the directory for output files.  If this is empty,
	// outputs are written next to their input.
	OutputDir string

	// Naming is the pattern for output file names.
	Naming string

	// Strict requests that processing stops at the first error.
	Strict bool

	// Concurrency limits the number of documents processed in parallel.
	// Zero means one per CPU.
	Concurrency int

	// Check requests that written files are validated.
	Check bool

	Print PrintSettings

	// Outputs lists the outputs in configuration order.
	Outputs []*output.Spec
}

// PrintSettings configures the print dispatcher.
type PrintSettings struct {
	// Sumatra is the location of SumatraPDF.exe, used on Windows.
	Sumatra string `yaml:"sumatra"`

	// Args are extra command line arguments for the print command.
	Args []string `yaml:"args"`
}

// Printers returns the names of all printers used in the configuration, in
// alphabetical order.
func (c *Config) Printers() []string {
	seen := make(map[string]bool)
	for _, spec := range c.Outputs {
		if spec.Printer != "" {
			seen[spec.Printer] = true
		}
	}
	printers := maps.Keys(seen)
	slices.Sort(printers)
	return printers
}

// Names returns the output names in configuration order.
func (c *Config) Names() []string {
	res := make([]string, len(c.Outputs))
	for i, spec := range c.Outputs {
		res[i] = spec.Name
	}
	return res
}

// Error is a configuration error.
type Error struct {
	// File is the name of the configuration file, if known.
	File string

	// Output is the name of the offending output, if any.
	Output string

	Err error
}

func (err *Error) Error() string {
	msg := ""
	if err.File != "" {
		msg = err.File + ": "
	}
	if err.Output != "" {
		msg += "output " + strconv.Quote(err.Output) + ": "
	}
	return msg + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *Error) Unwrap() error {
	return err.Err
}

// Load reads and checks a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		var cErr *Error
		if errors.As(err, &cErr) {
			cErr.File = path
			return nil, cErr
		}
		return nil, &Error{File: path, Err: err}
	}
	return c, nil
}

// fileData is the on-disk layout of a configuration file.
type fileData struct {
	OutputDir   string        `yaml:"output_dir"`
	Naming      string        `yaml:"naming"`
	Strict      bool          `yaml:"strict"`
	Concurrency int           `yaml:"concurrency"`
	Check       bool          `yaml:"check"`
	Print       PrintSettings `yaml:"print"`
	Outputs     yaml.MapSlice `yaml:"outputs"`
}

// Parse decodes and checks a configuration.  Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var raw fileData
	err := yaml.UnmarshalStrict(data, &raw)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if raw.Concurrency < 0 {
		return nil, &Error{Err: fmt.Errorf("invalid concurrency %d", raw.Concurrency)}
	}
	if len(raw.Outputs) == 0 {
		return nil, &Error{Err: errors.New("no outputs defined")}
	}

	c := &Config{
		OutputDir:   raw.OutputDir,
		Naming:      raw.Naming,
		Strict:      raw.Strict,
		Concurrency: raw.Concurrency,
		Check:       raw.Check,
		Print:       raw.Print,
	}

	seen := make(map[string]bool)
	for _, item := range raw.Outputs {
		name, ok := item.Key.(string)
		if !ok || name == "" {
			return nil, &Error{Err: fmt.Errorf("invalid output name %v", item.Key)}
		}
		if seen[name] {
			return nil, &Error{Output: name, Err: errors.New("duplicate output name")}
		}
		seen[name] = true

		spec, err := decodeOutput(name, item.Value)
		if err != nil {
			return nil, &Error{Output: name, Err: err}
		}
		if err := spec.Validate(); err != nil {
			var outErr *pdfpipe.OutputError
			if errors.As(err, &outErr) {
				err = outErr.Err
			}
			return nil, &Error{Output: name, Err: err}
		}
		c.Outputs = append(c.Outputs, spec)
	}

	return c, nil
}

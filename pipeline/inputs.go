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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultNaming is the file name pattern used if no other pattern is set.
const DefaultNaming = "{stem}_{output}.pdf"

// FindInputs returns the input files for path.
//
// If path is a directory, the result lists all files in the directory with
// extension ".pdf" (in any case), sorted by name.  Sub-directories are not
// searched.  Otherwise the result contains path itself.
func FindInputs(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: not a regular file", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		res = append(res, filepath.Join(path, e.Name()))
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%s: no PDF files found", path)
	}
	return res, nil
}

var errBadNaming = errors.New("invalid naming pattern")

// OutputPath returns the file name for an output.
//
// The naming pattern may contain the placeholders {stem} (the input file
// name without extension), {output} (the name of the output) and {index}
// (the 1-based position of the output in the configuration).  If dir is
// empty, the file is placed next to the input.
func OutputPath(dir, naming, input, output string, idx int) (string, error) {
	if naming == "" {
		naming = DefaultNaming
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}

	if err := checkNaming(naming); err != nil {
		return "", err
	}

	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	r := strings.NewReplacer(
		"{stem}", stem,
		"{output}", safeName(output),
		"{index}", strconv.Itoa(idx),
	)
	name := r.Replace(naming)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q gives an empty file name", errBadNaming, naming)
	}
	return filepath.Join(dir, name), nil
}

// checkNaming reports unknown placeholders and unbalanced braces in a
// naming pattern.  Braces in the substituted values are allowed.
func checkNaming(naming string) error {
	rest := strings.NewReplacer("{stem}", "", "{output}", "", "{index}", "").Replace(naming)
	if strings.ContainsAny(rest, "{}") {
		return fmt.Errorf("%w: %q", errBadNaming, naming)
	}
	return nil
}

// safeName makes an output name usable as part of a file name.
func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < ' ' {
			return '_'
		}
		return r
	}, name)
}

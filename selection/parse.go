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
	"strconv"
	"strings"
)

// Parse parses the textual form of a selector.
//
// The accepted forms are
//
//	all              every page
//	first            the first page
//	last             the last page
//	N                page N
//	N-M              pages N to M
//	N,M,...          the listed pages, in the given order
//	except SEL       all pages not selected by SEL
//
// Items of a list may themselves be ranges, e.g. "1,4-6,2".  Ranges are
// kept as [Range] values inside a [Concat], they are only expanded when
// the selector is resolved.  SEL can be any of the forms above, for
// example "except last" selects all pages but the last one.  The result is
// validated with [Validate].
func Parse(text string) (Selector, error) {
	spec := strings.ToLower(strings.TrimSpace(text))

	var sel Selector
	var err error
	if rest, ok := strings.CutPrefix(spec, "except "); ok {
		sel, err = parseExcept(strings.TrimSpace(rest))
	} else {
		sel, err = parseSimple(spec)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid page selector %q: %w", text, err)
	}

	err = Validate(sel)
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func parseSimple(spec string) (Selector, error) {
	switch {
	case spec == "all":
		return All{}, nil
	case spec == "first":
		return First{}, nil
	case spec == "last":
		return Last{}, nil
	case strings.Contains(spec, ","):
		return parseList(spec)
	case strings.Contains(spec, "-"):
		return parseRange(spec)
	}
	pageNo, err := strconv.Atoi(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid page number %q", spec)
	}
	return List{pageNo}, nil
}

func parseExcept(spec string) (Selector, error) {
	if spec == "except" || strings.HasPrefix(spec, "except ") {
		return nil, fmt.Errorf("nested except")
	}
	sel, err := parseSimple(spec)
	if err != nil {
		return nil, err
	}
	if pages, ok := sel.(List); ok {
		return Exclude(pages), nil
	}
	return Except{Of: sel}, nil
}

// parseList parses a comma-separated list.  A list of plain page numbers
// gives a [List], otherwise the result is a [Concat] where runs of
// consecutive page numbers are collected into one List.
func parseList(spec string) (Selector, error) {
	var parts Concat
	var pages List
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("empty list item")
		}
		if strings.Contains(item, "-") {
			r, err := parseRange(item)
			if err != nil {
				return nil, err
			}
			if len(pages) > 0 {
				parts = append(parts, pages)
				pages = nil
			}
			parts = append(parts, r)
			continue
		}
		pageNo, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", item)
		}
		pages = append(pages, pageNo)
	}
	if len(parts) == 0 {
		return pages, nil
	}
	if len(pages) > 0 {
		parts = append(parts, pages)
	}
	return parts, nil
}

func parseRange(spec string) (Range, error) {
	a, b, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q", spec)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Range{}, fmt.Errorf("invalid start page %q", a)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Range{}, fmt.Errorf("invalid end page %q", b)
	}
	return Range{Start: start, End: end}, nil
}

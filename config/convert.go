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

package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfpipe"
	"seehuhn.de/go/pdfpipe/output"
	"seehuhn.de/go/pdfpipe/selection"
	"seehuhn.de/go/pdfpipe/transform"
	"seehuhn.de/go/pdfpipe/unit"
)

type outputData struct {
	Pages      interface{}     `yaml:"pages"`
	Exclude    []int           `yaml:"exclude"`
	Require    requireData     `yaml:"require"`
	AllowEmpty bool            `yaml:"allow_empty"`
	Transforms []transformData `yaml:"transforms"`
	Printer    string          `yaml:"printer"`
	Copies     int             `yaml:"copies"`
}

type requireData struct {
	Exact int `yaml:"exact"`
	Min   int `yaml:"min"`
}

type transformData struct {
	Rotate interface{} `yaml:"rotate"`
	Crop   *cropData   `yaml:"crop"`
	Resize *resizeData `yaml:"resize"`

	// Pages restricts the step to some pages of the output.
	Pages interface{} `yaml:"pages"`
}

type cropData struct {
	LowerLeft  []interface{} `yaml:"lower_left"`
	UpperRight []interface{} `yaml:"upper_right"`
}

type resizeData struct {
	Width  string `yaml:"width"`
	Height string `yaml:"height"`
	Fit    string `yaml:"fit"`
}

// decodeOutput converts the YAML value of one output into a Spec.
func decodeOutput(name string, value interface{}) (*output.Spec, error) {
	var data outputData
	if value != nil {
		// The output table is decoded as a MapSlice to keep the order of
		// outputs, so the individual entries need a second pass.
		body, err := yaml.Marshal(value)
		if err != nil {
			return nil, err
		}
		err = yaml.UnmarshalStrict(body, &data)
		if err != nil {
			return nil, err
		}
	}

	sel, err := decodePages(data.Pages)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	if data.Exclude != nil {
		if sel != nil {
			return nil, errors.New("only one of pages and exclude can be given")
		}
		sel = selection.Exclude(data.Exclude)
	}

	spec := &output.Spec{
		Name: name,
		Select: selection.Spec{
			Pages:      sel,
			Require:    selection.Require{Exact: data.Require.Exact, Min: data.Require.Min},
			AllowEmpty: data.AllowEmpty,
		},
		Printer: strings.TrimSpace(data.Printer),
		Copies:  data.Copies,
	}

	for i, t := range data.Transforms {
		step, err := decodeStep(t)
		if err != nil {
			return nil, fmt.Errorf("transform %d: %w", i+1, err)
		}
		spec.Transforms = append(spec.Transforms, step)
	}

	return spec, nil
}

// decodePages converts a page selection.  The value can be a textual
// selector, a single page number or a list of page numbers.
func decodePages(value interface{}) (selection.Selector, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return selection.Parse(strconv.Itoa(v))
	case string:
		return selection.Parse(v)
	case []interface{}:
		list := make(selection.List, len(v))
		for i, x := range v {
			n, ok := x.(int)
			if !ok {
				return nil, fmt.Errorf("%w: invalid page number %v",
					pdfpipe.ErrPageIndexOutOfRange, x)
			}
			list[i] = n
		}
		err := selection.Validate(list)
		if err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported page selection %v", value)
}

func decodeStep(data transformData) (transform.Step, error) {
	var step transform.Step
	n := 0
	if data.Rotate != nil {
		n++
	}
	if data.Crop != nil {
		n++
	}
	if data.Resize != nil {
		n++
	}
	if n != 1 {
		return step, errors.New("need exactly one of rotate, crop and resize")
	}

	var err error
	switch {
	case data.Rotate != nil:
		step.Transform, err = decodeRotate(data.Rotate)
	case data.Crop != nil:
		step.Transform, err = decodeCrop(data.Crop)
	case data.Resize != nil:
		step.Transform = transform.Resize{
			Width:  data.Resize.Width,
			Height: data.Resize.Height,
			Fit:    transform.FitMode(data.Resize.Fit),
		}
	}
	if err != nil {
		return step, err
	}

	step.Pages, err = decodePages(data.Pages)
	if err != nil {
		return step, fmt.Errorf("pages: %w", err)
	}
	return step, nil
}

// decodeRotate accepts an angle, or one of the orientations "landscape",
// "portrait" and "auto".
func decodeRotate(value interface{}) (transform.Rotate, error) {
	switch v := value.(type) {
	case int:
		return transform.Rotate{Angle: v}, nil
	case string:
		if angle, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return transform.Rotate{Angle: angle}, nil
		}
		o, err := transform.ParseOrientation(v)
		if err != nil {
			return transform.Rotate{}, err
		}
		return transform.Rotate{To: o}, nil
	}
	return transform.Rotate{}, fmt.Errorf("%w: %v", pdfpipe.ErrInvalidRotation, value)
}

func decodeCrop(data *cropData) (transform.Crop, error) {
	ll, err := decodePoint(data.LowerLeft)
	if err != nil {
		return transform.Crop{}, fmt.Errorf("lower_left: %w", err)
	}
	ur, err := decodePoint(data.UpperRight)
	if err != nil {
		return transform.Crop{}, fmt.Errorf("upper_right: %w", err)
	}
	return transform.Crop{LowerLeft: ll, UpperRight: ur}, nil
}

// decodePoint converts a coordinate pair.  Plain numbers are in PDF
// points, strings are dimensions with a unit.
func decodePoint(value []interface{}) (vec.Vec2, error) {
	if len(value) != 2 {
		return vec.Vec2{}, fmt.Errorf("%w: need two coordinates, got %d",
			pdfpipe.ErrInvalidCrop, len(value))
	}
	var xy [2]float64
	for i, c := range value {
		x, err := decodeLength(c)
		if err != nil {
			return vec.Vec2{}, err
		}
		xy[i] = x
	}
	return vec.Vec2{X: xy[0], Y: xy[1]}, nil
}

// decodeLength converts a crop coordinate to PDF points.  Coordinates may
// be negative, for dimension strings a leading minus sign is accepted.
func decodeLength(value interface{}) (float64, error) {
	var x float64
	switch v := value.(type) {
	case int:
		x = float64(v)
	case float64:
		x = v
	case string:
		s := strings.TrimSpace(v)
		sign := 1.0
		if rest, ok := strings.CutPrefix(s, "-"); ok {
			sign, s = -1, rest
		}
		d, err := unit.ParseDimension(s)
		if err != nil {
			return 0, err
		}
		return sign * d, nil
	default:
		return 0, fmt.Errorf("%w: %v", pdfpipe.ErrInvalidDimension, value)
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, fmt.Errorf("%w: %g", pdfpipe.ErrInvalidDimension, x)
	}
	return x, nil
}

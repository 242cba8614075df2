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

package pdffile

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/text/language"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfpipe/geometry"
	"seehuhn.de/go/pdfpipe/output"
)

// Producer is recorded in the metadata of all written files.
const Producer = "seehuhn.de/go/pdfpipe"

// boxKeys lists the page boxes which are relative to the media box.
var boxKeys = []pdf.Name{"CropBox", "BleedBox", "TrimBox", "ArtBox"}

// Write writes doc as a new PDF file to w.
//
// The document must have been assembled from f.  The pages are copied from
// f, together with all objects they refer to.  Annotations and article
// beads are not copied.
func (f *File) Write(w io.Writer, doc *output.Document) error {
	if len(doc.Pages) == 0 {
		return errEmptyDocument
	}

	metaIn := f.r.GetMeta()

	out, err := pdf.NewWriter(w, metaIn.Version, nil)
	if err != nil {
		return err
	}

	rm := pdf.NewResourceManager(out)
	pageTreeOut := pagetree.NewWriter(out, rm)
	copier := pdf.NewCopier(out, f.r)

	redirected := make(map[pdf.Reference]bool)
	for pos, page := range doc.Pages {
		refIn, pageIn, err := pagetree.GetPage(f.r, page.Index)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.Index+1, err)
		}
		orig, err := f.geometryOf(pageIn)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.Index+1, err)
		}

		// The same input page can appear more than once.  References to
		// the page are redirected to its first copy.
		refOut := out.Alloc()
		if refIn != 0 && !redirected[refIn] {
			copier.Redirect(refIn, refOut)
			redirected[refIn] = true
		}

		dict := maps.Clone(pageIn)
		delete(dict, "Parent")
		delete(dict, "Annots")
		delete(dict, "B")
		contents := dict["Contents"]
		delete(dict, "Contents")

		pageOut, err := copier.CopyDict(dict)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.Index+1, err)
		}

		g := page.Geometry
		pageOut["MediaBox"] = rectangle(g.Box)
		if g.Box != orig.Box {
			for _, key := range boxKeys {
				delete(pageOut, key)
			}
		}
		if g.Rotate != 0 {
			pageOut["Rotate"] = pdf.Integer(g.Rotate)
		} else {
			delete(pageOut, "Rotate")
		}

		contentsOut, err := copyContents(out, copier, f.r, contents, g)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.Index+1, err)
		}
		if contentsOut != nil {
			pageOut["Contents"] = contentsOut
		}

		err = pageTreeOut.AppendPageDict(refOut, pageOut)
		if err != nil {
			return fmt.Errorf("output page %d: %w", pos+1, err)
		}
	}

	treeRef, err := pageTreeOut.Close()
	if err != nil {
		return err
	}
	err = rm.Close()
	if err != nil {
		return err
	}

	now := time.Now()
	metaOut := out.GetMeta()
	metaOut.Catalog.Pages = treeRef
	metaOut.Info = outputInfo(metaIn.Info, doc.Name, now)
	if metaOut.Version >= pdf.V1_4 {
		ref, err := writeMetadata(out, string(metaOut.Info.Title), now)
		if err != nil {
			return err
		}
		metaOut.Catalog.Metadata = ref
	}

	return out.Close()
}

// copyContents copies the content streams of a page.  If the page content
// has been scaled, the streams are enclosed in "q ... cm" and "Q" streams.
func copyContents(out *pdf.Writer, copier *pdf.Copier, r pdf.Getter, contents pdf.Object, g geometry.Page) (pdf.Object, error) {
	if contents == nil {
		return nil, nil
	}

	var streams pdf.Array
	obj, err := pdf.Resolve(r, contents)
	if err != nil {
		return nil, err
	}
	switch obj := obj.(type) {
	case pdf.Array:
		streams, err = copier.CopyArray(obj)
		if err != nil {
			return nil, err
		}
	case *pdf.Stream:
		ref, ok := contents.(pdf.Reference)
		if !ok {
			return nil, fmt.Errorf("content stream is not an indirect object")
		}
		refOut, err := copier.CopyReference(ref)
		if err != nil {
			return nil, err
		}
		streams = pdf.Array{refOut}
	default:
		return nil, nil
	}

	if !g.IsScaled() {
		if len(streams) == 1 {
			return streams[0], nil
		}
		return streams, nil
	}

	pre, err := writeContentStream(out, "q "+formatMatrix(g.Content)+" cm\n")
	if err != nil {
		return nil, err
	}
	post, err := writeContentStream(out, "Q\n")
	if err != nil {
		return nil, err
	}
	res := pdf.Array{pre}
	res = append(res, streams...)
	res = append(res, post)
	return res, nil
}

func writeContentStream(out *pdf.Writer, body string) (pdf.Reference, error) {
	ref := out.Alloc()
	stm, err := out.OpenStream(ref, nil)
	if err != nil {
		return 0, err
	}
	_, err = io.WriteString(stm, body)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}

func formatMatrix(m matrix.Matrix) string {
	parts := make([]string, len(m))
	for i, x := range m {
		parts[i] = formatNumber(x)
	}
	return strings.Join(parts, " ")
}

func formatNumber(x float64) string {
	x = math.Round(x*1e6) / 1e6
	if x == 0 {
		x = 0 // avoid "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func rectangle(r rect.Rect) pdf.Array {
	return pdf.Array{number(r.LLx), number(r.LLy), number(r.URx), number(r.URy)}
}

func number(x float64) pdf.Object {
	if x == math.Trunc(x) && math.Abs(x) < 1<<31 {
		return pdf.Integer(x)
	}
	return pdf.Real(x)
}

// outputInfo returns the document information dictionary for an output.
// The input's entries are kept, and the output name is added to the title.
func outputInfo(in *pdf.Info, name string, now time.Time) *pdf.Info {
	info := &pdf.Info{}
	if in != nil {
		*info = *in
		info.Custom = maps.Clone(in.Custom)
	}
	if info.Title != "" {
		info.Title = pdf.TextString(string(info.Title) + " (" + name + ")")
	} else {
		info.Title = pdf.TextString(name)
	}
	info.Producer = pdf.TextString(Producer)
	info.ModDate = pdf.Date(now)
	return info
}

// pdfNamespace is the XMP namespace for PDF metadata.
type pdfNamespace struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.AgentName
}

func writeMetadata(out *pdf.Writer, title string, now time.Time) (pdf.Reference, error) {
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.MustParse("x-default"), title)
	basic := &xmp.Basic{
		CreateDate: xmp.NewDate(now),
		ModifyDate: xmp.NewDate(now),
	}
	pdfInfo := &pdfNamespace{
		Producer: xmp.NewAgentName(Producer),
	}

	packet := xmp.NewPacket()
	packet.Set(dc, basic, pdfInfo)

	ref := out.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	stm, err := out.OpenStream(ref, dict)
	if err != nil {
		return 0, err
	}
	err = packet.Write(stm, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}

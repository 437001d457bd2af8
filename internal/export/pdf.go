/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"transformcanvas/internal/scene"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); one device unit maps to one point, so the page size
// is the viewport size. Built-in Helvetica keeps text vector without
// embedding.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	Width, Height float64
	Title         string
}

// WritePDF renders the snapshot to a single-page PDF at outPath.
func WritePDF(outPath string, items []scene.Rendered, opt PDFOptions) error {
	if opt.Width <= 0 || opt.Height <= 0 {
		return fmt.Errorf("pdf export: invalid size %gx%g", opt.Width, opt.Height)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: opt.Width, Ht: opt.Height},
		OrientationStr: "",
	})
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, false)
	}
	pdf.SetAuthor("Transform Canvas", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: opt.Width, Ht: opt.Height})

	imgN := 0
	for _, it := range items {
		g := it.Geometry
		stroke, width := strokeOf(it.Style)
		pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
		pdf.SetLineWidth(width)
		styleStr := "D"
		if fc, ok := fillOf(it.Style); ok {
			pdf.SetFillColor(int(fc.R), int(fc.G), int(fc.B))
			styleStr = "FD"
		}

		switch g.Kind {
		case scene.Line:
			for i := 1; i < len(g.Points); i++ {
				pdf.Line(g.Points[i-1].X, g.Points[i-1].Y, g.Points[i].X, g.Points[i].Y)
			}
		case scene.Polygon:
			pts := make([]gofpdf.PointType, len(g.Points))
			for i, p := range g.Points {
				pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
			}
			pdf.Polygon(pts, styleStr)
		case scene.Rectangle:
			pdf.Rect(g.Rect.X, g.Rect.Y, g.Rect.W, g.Rect.H, styleStr)
		case scene.Oval:
			pdf.Ellipse(g.Rect.X+g.Rect.W/2, g.Rect.Y+g.Rect.H/2, g.Rect.W/2, g.Rect.H/2, 0, styleStr)
		case scene.Arc:
			pdf.Arc(g.Rect.X+g.Rect.W/2, g.Rect.Y+g.Rect.H/2, g.Rect.W/2, g.Rect.H/2, 0,
				g.Start*180/math.Pi, (g.Start+g.Extent)*180/math.Pi, "D")
		case scene.Text:
			if g.Angle != 0 {
				// gofpdf rotates counterclockwise; the dissected device
				// angle is clockwise on a y-down page
				pdf.TransformBegin()
				pdf.TransformRotate(-g.Angle*180/math.Pi, g.Anchor.X, g.Anchor.Y)
				pdf.Text(g.Anchor.X, g.Anchor.Y, g.Text)
				pdf.TransformEnd()
			} else {
				pdf.Text(g.Anchor.X, g.Anchor.Y, g.Text)
			}
		case scene.Image:
			if g.Image == nil {
				continue
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, g.Image); err != nil {
				return fmt.Errorf("encode embedded image: %w", err)
			}
			imgN++
			name := fmt.Sprintf("snapshot-img-%d", imgN)
			io := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, io, &buf)
			pdf.ImageOptions(name, g.Rect.X, g.Rect.Y, g.Rect.W, g.Rect.H, false, io, 0, "")
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

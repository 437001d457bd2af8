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
	"encoding/base64"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"transformcanvas/internal/geom"
	"transformcanvas/internal/scene"
)

// SVGOptions controls SVG export behavior. The coordinate system is the
// device space of the snapshot, one SVG unit per device unit.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	Width, Height float64
	Background    string // "#rrggbb"; empty means white
}

// WriteSVG renders the snapshot as a standalone SVG file at path.
func WriteSVG(path string, items []scene.Rendered, opt SVGOptions) error {
	if opt.Width <= 0 || opt.Height <= 0 {
		return fmt.Errorf("svg export: invalid size %gx%g", opt.Width, opt.Height)
	}
	bg := opt.Background
	if bg == "" {
		bg = "#ffffff"
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", opt.Width, opt.Height, opt.Width, opt.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", opt.Width, opt.Height, bg)

	for _, it := range items {
		g := it.Geometry
		stroke, width := strokeOf(it.Style)
		sc := hexColor(stroke)
		fill := "none"
		if fc, ok := fillOf(it.Style); ok {
			fill = hexColor(fc)
		}
		switch g.Kind {
		case scene.Line:
			wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", svgPoints(g.Points), sc, width)
		case scene.Polygon:
			wf("  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n", svgPoints(g.Points), fill, sc, width)
		case scene.Rectangle:
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n", g.Rect.X, g.Rect.Y, g.Rect.W, g.Rect.H, fill, sc, width)
		case scene.Oval:
			wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n", g.Rect.X+g.Rect.W/2, g.Rect.Y+g.Rect.H/2, g.Rect.W/2, g.Rect.H/2, fill, sc, width)
		case scene.Arc:
			wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", svgPoints(arcOutline(g.Rect, g.Start, g.Extent, 72)), sc, width)
		case scene.Text:
			attrs := ""
			if g.Angle != 0 {
				// SVG rotate is clockwise in screen coordinates, same sense
				// as the dissected device angle
				attrs = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", g.Angle*180/math.Pi, g.Anchor.X, g.Anchor.Y)
			}
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"%s\"%s>%s</text>\n", g.Anchor.X, g.Anchor.Y, sc, attrs, escText(g.Text))
		case scene.Image:
			if g.Image == nil {
				continue
			}
			var ib bytes.Buffer
			if err := png.Encode(&ib, g.Image); err != nil {
				return fmt.Errorf("encode embedded image: %w", err)
			}
			wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"data:image/png;base64,%s\"/>\n",
				g.Rect.X, g.Rect.Y, g.Rect.W, g.Rect.H, base64.StdEncoding.EncodeToString(ib.Bytes()))
		}
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pts []geom.Pt) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g,%g", p.X, p.Y)
	}
	return b.String()
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"transformcanvas/internal/geom"
	"transformcanvas/internal/scene"
)

// PNGOptions controls PNG export behavior.
// - Width/Height are the output pixel dimensions (the viewport size).
// - Background defaults to white when zero.
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	Width, Height int
	Background    color.RGBA
}

// RenderPNG rasterizes a snapshot into an RGBA image. Strokes are hairlines;
// rectangles honor a fill style. Text is drawn with a fixed bitmap face and,
// like the simpler interactive surfaces, ignores the rotation angle.
func RenderPNG(items []scene.Rendered, opt PNGOptions) *image.RGBA {
	bg := opt.Background
	if bg == (color.RGBA{}) {
		bg = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	for _, it := range items {
		g := it.Geometry
		stroke, _ := strokeOf(it.Style)
		switch g.Kind {
		case scene.Line:
			strokePolyline(img, g.Points, false, stroke)
		case scene.Polygon:
			if fc, ok := fillOf(it.Style); ok {
				fillPolygon(img, g.Points, fc)
			}
			strokePolyline(img, g.Points, true, stroke)
		case scene.Rectangle:
			x0, y0 := int(math.Round(g.Rect.X)), int(math.Round(g.Rect.Y))
			x1, y1 := int(math.Round(g.Rect.X+g.Rect.W)), int(math.Round(g.Rect.Y+g.Rect.H))
			if fc, ok := fillOf(it.Style); ok {
				fillRect(img, x0, y0, x1, y1, fc)
			}
			strokeRect(img, x0, y0, x1, y1, stroke)
		case scene.Oval:
			strokePolyline(img, ellipseOutline(g.Rect, 72), true, stroke)
		case scene.Arc:
			strokePolyline(img, arcOutline(g.Rect, g.Start, g.Extent, 72), false, stroke)
		case scene.Text:
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(stroke),
				Face: basicfont.Face7x13,
				Dot:  fixed.P(int(math.Round(g.Anchor.X)), int(math.Round(g.Anchor.Y))),
			}
			d.DrawString(g.Text)
		case scene.Image:
			if g.Image == nil {
				continue
			}
			dst := image.Rect(
				int(math.Round(g.Rect.X)), int(math.Round(g.Rect.Y)),
				int(math.Round(g.Rect.X+g.Rect.W)), int(math.Round(g.Rect.Y+g.Rect.H)))
			xdraw.ApproxBiLinear.Scale(img, dst, g.Image, g.Image.Bounds(), xdraw.Over, nil)
		}
	}
	return img
}

// WritePNG renders the snapshot and writes it to path.
func WritePNG(path string, items []scene.Rendered, opt PNGOptions) error {
	if opt.Width <= 0 || opt.Height <= 0 {
		return fmt.Errorf("png export: invalid size %dx%d", opt.Width, opt.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	img := RenderPNG(items, opt)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func ellipseOutline(r geom.Rect, n int) []geom.Pt {
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	pts := make([]geom.Pt, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return pts
}

func arcOutline(r geom.Rect, start, extent float64, n int) []geom.Pt {
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	segs := int(math.Ceil(float64(n) * math.Abs(extent) / (2 * math.Pi)))
	if segs < 2 {
		segs = 2
	}
	pts := make([]geom.Pt, segs+1)
	for i := 0; i <= segs; i++ {
		a := start + extent*float64(i)/float64(segs)
		pts[i] = geom.Pt{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return pts
}

func strokePolyline(img *image.RGBA, pts []geom.Pt, closed bool, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], col)
	}
	if closed {
		drawLine(img, pts[len(pts)-1], pts[0], col)
	}
}

// drawLine is a float variant of Bresenham: step along the major axis.
func drawLine(img *image.RGBA, a, b geom.Pt, col color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.SetRGBA(int(math.Round(a.X)), int(math.Round(a.Y)), col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.SetRGBA(int(math.Round(a.X+dx*t)), int(math.Round(a.Y+dy*t)), col)
	}
}

// fillPolygon is a scanline fill with even-odd parity, good enough for the
// convex-ish shapes the adapter emits.
func fillPolygon(img *image.RGBA, pts []geom.Pt, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	for y := int(math.Ceil(minY)); y <= int(math.Floor(maxY)); y++ {
		fy := float64(y)
		var xs []float64
		for i := range pts {
			p, q := pts[i], pts[(i+1)%len(pts)]
			if (p.Y <= fy && q.Y > fy) || (q.Y <= fy && p.Y > fy) {
				xs = append(xs, p.X+(fy-p.Y)/(q.Y-p.Y)*(q.X-p.X))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

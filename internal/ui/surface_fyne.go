//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"transformcanvas/internal/geom"
	"transformcanvas/internal/raster"
	"transformcanvas/internal/scene"
)

// canvasSurface implements scene.Surface on top of Fyne canvas objects. One
// scene handle owns a small set of canvas objects (a polyline becomes several
// canvas.Line segments since Fyne has no polyline primitive).
type canvasSurface struct {
	next    scene.Handle
	objects map[scene.Handle]*surfaceObject
	order   []scene.Handle
	rot     scene.Rotator // rotated text is rasterized through this
}

type surfaceObject struct {
	style scene.Style
	objs  []fyne.CanvasObject
}

func newCanvasSurface() *canvasSurface {
	return &canvasSurface{
		objects: map[scene.Handle]*surfaceObject{},
		rot:     raster.NewCache(raster.DefaultBucket, 0),
	}
}

func (s *canvasSurface) Create(kind scene.Kind, g scene.DeviceGeometry, style scene.Style) (scene.Handle, error) {
	objs := s.buildObjects(g, style)
	s.next++
	h := s.next
	s.objects[h] = &surfaceObject{style: style, objs: objs}
	s.order = append(s.order, h)
	return h, nil
}

func (s *canvasSurface) Update(h scene.Handle, g scene.DeviceGeometry) error {
	o, ok := s.objects[h]
	if !ok {
		return fmt.Errorf("ui: unknown surface handle %d", h)
	}
	o.objs = s.buildObjects(g, o.style)
	return nil
}

func (s *canvasSurface) Delete(h scene.Handle) error {
	if _, ok := s.objects[h]; !ok {
		return fmt.Errorf("ui: unknown surface handle %d", h)
	}
	delete(s.objects, h)
	for i, k := range s.order {
		if k == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// canvasObjects returns all live objects in creation (draw) order.
func (s *canvasSurface) canvasObjects() []fyne.CanvasObject {
	out := make([]fyne.CanvasObject, 0, len(s.order)*2)
	for _, h := range s.order {
		out = append(out, s.objects[h].objs...)
	}
	return out
}

func (s *canvasSurface) buildObjects(g scene.DeviceGeometry, style scene.Style) []fyne.CanvasObject {
	stroke, width := uiStroke(style)
	switch g.Kind {
	case scene.Line:
		return segments(g.Points, false, stroke, width)
	case scene.Polygon:
		// stroke only; Fyne has no filled polygon primitive
		return segments(g.Points, true, stroke, width)
	case scene.Rectangle:
		r := canvas.NewRectangle(color.Transparent)
		if fc, ok := uiFill(style); ok {
			r.FillColor = fc
		}
		r.StrokeColor = stroke
		r.StrokeWidth = width
		moveResize(r, g.Rect)
		return []fyne.CanvasObject{r}
	case scene.Oval:
		c := canvas.NewCircle(color.Transparent)
		if fc, ok := uiFill(style); ok {
			c.FillColor = fc
		}
		c.StrokeColor = stroke
		c.StrokeWidth = width
		c.Position1 = fyne.NewPos(float32(g.Rect.X), float32(g.Rect.Y))
		c.Position2 = fyne.NewPos(float32(g.Rect.X+g.Rect.W), float32(g.Rect.Y+g.Rect.H))
		return []fyne.CanvasObject{c}
	case scene.Arc:
		return segments(sampleDeviceArc(g.Rect, g.Start, g.Extent), false, stroke, width)
	case scene.Text:
		// Fyne cannot rotate canvas text natively; beyond a small angle the
		// run is rasterized and rotated as a bitmap, matching the SVG/PDF
		// exporters.
		if img, r, ok := s.rotatedText(g, stroke); ok {
			ci := canvas.NewImageFromImage(img)
			ci.FillMode = canvas.ImageFillStretch
			moveResize(ci, r)
			return []fyne.CanvasObject{ci}
		}
		t := canvas.NewText(g.Text, stroke)
		t.Move(fyne.NewPos(float32(g.Anchor.X), float32(g.Anchor.Y)))
		return []fyne.CanvasObject{t}
	case scene.Image:
		if g.Image == nil {
			return nil
		}
		img := canvas.NewImageFromImage(g.Image)
		img.FillMode = canvas.ImageFillStretch
		moveResize(img, g.Rect)
		return []fyne.CanvasObject{img}
	}
	return nil
}

// textAngleTol is the rotation below which native canvas text is used.
const textAngleTol = 1e-3

// rotatedText rasterizes the run with the built-in bitmap face and rotates
// it about the device anchor, which stays fixed like the exporters keep it.
// ok is false for near-zero angles and empty runs.
func (s *canvasSurface) rotatedText(g scene.DeviceGeometry, col color.Color) (image.Image, geom.Rect, bool) {
	angle := geom.NormalizeAngle(g.Angle)
	if math.Abs(angle) < textAngleTol || g.Text == "" {
		return nil, geom.Rect{}, false
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, g.Text).Ceil()
	if w <= 0 {
		return nil, geom.Rect{}, false
	}
	asc := face.Metrics().Ascent.Ceil()
	h := asc + face.Metrics().Descent.Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face, Dot: fixed.P(0, asc)}
	d.DrawString(g.Text)

	rotated := s.rot.Rotate(img, angle)
	rb := rotated.Bounds()
	// the baseline start is the pivot; the bitmap center swings around it
	c0 := geom.Pt{X: g.Anchor.X + float64(w)/2, Y: g.Anchor.Y - float64(asc) + float64(h)/2}
	c1 := geom.About(g.Anchor, geom.Rotate(angle)).Apply(c0)
	r := geom.Rect{
		X: c1.X - float64(rb.Dx())/2,
		Y: c1.Y - float64(rb.Dy())/2,
		W: float64(rb.Dx()),
		H: float64(rb.Dy()),
	}
	return rotated, r, true
}

func segments(pts []geom.Pt, closed bool, stroke color.Color, width float32) []fyne.CanvasObject {
	if len(pts) < 2 {
		return nil
	}
	n := len(pts) - 1
	if closed {
		n++
	}
	out := make([]fyne.CanvasObject, 0, n)
	for i := 1; i < len(pts); i++ {
		out = append(out, segment(pts[i-1], pts[i], stroke, width))
	}
	if closed {
		out = append(out, segment(pts[len(pts)-1], pts[0], stroke, width))
	}
	return out
}

func segment(a, b geom.Pt, stroke color.Color, width float32) *canvas.Line {
	l := canvas.NewLine(stroke)
	l.StrokeWidth = width
	l.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
	l.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
	return l
}

func moveResize(o fyne.CanvasObject, r geom.Rect) {
	o.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	o.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
}

func sampleDeviceArc(r geom.Rect, start, extent float64) []geom.Pt {
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	segs := int(math.Ceil(48 * math.Abs(extent) / (2 * math.Pi)))
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

func uiStroke(s scene.Style) (color.Color, float32) {
	var col color.Color = color.Black
	if c, ok := s["outline"].(color.Color); ok {
		col = c
	}
	w := float32(1)
	switch v := s["width"].(type) {
	case float64:
		w = float32(v)
	case int:
		w = float32(v)
	}
	return col, w
}

func uiFill(s scene.Style) (color.Color, bool) {
	c, ok := s["fill"].(color.Color)
	return c, ok
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the drawable model: primitives authored in model-space
// coordinates, a per-primitive transform adapter that turns them into
// device-space geometry, the view controller owning the global transform,
// the gesture machine driving it, and the redraw coordinator.
//
// Model-space geometry is never mutated by transforms; every redraw derives
// fresh device geometry from it.
package scene

import (
	"image"

	"transformcanvas/internal/geom"
)

// Kind is the closed set of primitive variants. Dispatch is a switch over
// this tag; the set is known at design time and not meant to be extended
// by client code.
type Kind uint8

const (
	Line Kind = iota
	Polygon
	Rectangle
	Oval
	Arc
	Text
	Image
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Polygon:
		return "polygon"
	case Rectangle:
		return "rectangle"
	case Oval:
		return "oval"
	case Arc:
		return "arc"
	case Text:
		return "text"
	case Image:
		return "image"
	}
	return "unknown"
}

// Style is an open configuration map (color, width, fill, ...) passed through
// to the draw surface unmodified.
type Style map[string]any

// Handle identifies an object on the draw surface. Zero means "not created yet".
type Handle int64

// Primitive is a registered drawable. Its model geometry and local transform
// are owned by the registering caller; device geometry is derived, never
// stored back into the model fields.
type Primitive struct {
	kind   Kind
	pts    []geom.Pt // Line, Polygon vertices
	rect   geom.Rect // Rectangle, Oval, Arc, Image bounds
	start  float64   // Arc: start angle, radians
	extent float64   // Arc: sweep, radians, counterclockwise
	text   string
	anchor geom.Pt // Text anchor point
	img    image.Image

	local geom.Matrix
	style Style

	// surface bookkeeping, owned by the redraw coordinator
	handle      Handle
	surfaceKind Kind // kind of the surface object currently backing this primitive
}

// NewLine creates a polyline through the given model-space points.
func NewLine(pts ...geom.Pt) *Primitive {
	return &Primitive{kind: Line, pts: pts, local: geom.Identity()}
}

// NewPolygon creates a closed polygon with the given model-space vertices.
func NewPolygon(pts ...geom.Pt) *Primitive {
	return &Primitive{kind: Polygon, pts: pts, local: geom.Identity()}
}

// NewRectangle creates an axis-aligned (in model space) rectangle.
func NewRectangle(r geom.Rect) *Primitive {
	return &Primitive{kind: Rectangle, rect: r, local: geom.Identity()}
}

// NewOval creates an axis-aligned ellipse inscribed in r.
func NewOval(r geom.Rect) *Primitive {
	return &Primitive{kind: Oval, rect: r, local: geom.Identity()}
}

// NewArc creates an elliptic arc on the ellipse inscribed in r, sweeping
// extent radians counterclockwise from start.
func NewArc(r geom.Rect, start, extent float64) *Primitive {
	return &Primitive{kind: Arc, rect: r, start: start, extent: extent, local: geom.Identity()}
}

// NewText creates a text run anchored at the given model-space point.
func NewText(anchor geom.Pt, text string) *Primitive {
	return &Primitive{kind: Text, anchor: anchor, text: text, local: geom.Identity()}
}

// NewImage creates a bitmap whose center sits at the center of r.
func NewImage(r geom.Rect, img image.Image) *Primitive {
	return &Primitive{kind: Image, rect: r, img: img, local: geom.Identity()}
}

func (p *Primitive) Kind() Kind { return p.kind }

// Local returns the primitive's local transform.
func (p *Primitive) Local() geom.Matrix { return p.local }

// SetLocal replaces the local transform. Takes effect on the next redraw.
func (p *Primitive) SetLocal(m geom.Matrix) { p.local = m }

func (p *Primitive) Style() Style         { return p.style }
func (p *Primitive) SetStyle(s Style)     { p.style = s }
func (p *Primitive) Handle() Handle       { return p.handle }
func (p *Primitive) Text() string         { return p.text }
func (p *Primitive) SetText(s string)     { p.text = s }
func (p *Primitive) Bitmap() image.Image  { return p.img }
func (p *Primitive) SetBitmap(i image.Image) { p.img = i }

// Bounds returns the model-space bounding box, before any transform.
// Transform origins (anchors) are resolved against this box.
func (p *Primitive) Bounds() geom.Rect {
	switch p.kind {
	case Line, Polygon:
		return geom.BoundsOf(p.pts)
	case Text:
		return geom.Rect{X: p.anchor.X, Y: p.anchor.Y}
	default:
		return p.rect
	}
}

// Origin resolves a transform anchor against the primitive's model bounds.
func (p *Primitive) Origin(a geom.Anchor) geom.Pt { return a.Resolve(p.Bounds()) }

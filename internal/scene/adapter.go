/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"math"

	"transformcanvas/internal/geom"
)

// AdapterOptions tunes the per-primitive transform adapter.
type AdapterOptions struct {
	// Segments is the number of boundary samples used to approximate a
	// rotated oval as a polygon. Higher is smoother but more geometry to
	// push per redraw; 100 matches the historical default. Values divisible
	// by 4 produce symmetric shapes.
	Segments int
	// AngleTol is the rotation below which a transform counts as
	// axis-aligned and the native oval/arc/rectangle path is used.
	AngleTol float64
}

const (
	defaultSegments = 100
	defaultAngleTol = 1e-9
)

func (o AdapterOptions) withDefaults() AdapterOptions {
	if o.Segments <= 0 {
		o.Segments = defaultSegments
	}
	if o.AngleTol <= 0 {
		o.AngleTol = defaultAngleTol
	}
	return o
}

// Device converts one primitive's model geometry into device geometry under
// the effective transform compose(global, local). It is a pure recompute: no
// state, invoked for every primitive on every redraw.
//
// For Text and Image a failed dissection (shear, or a degenerate scale) does
// not fail the conversion: the returned geometry is the documented unrotated
// fallback and the dissection error is returned alongside it so the caller
// can log it without aborting the pass.
func Device(p *Primitive, global geom.Matrix, rot Rotator, opts AdapterOptions) (DeviceGeometry, error) {
	opts = opts.withDefaults()
	eff := global.Mul(p.local)

	switch p.kind {
	case Line, Polygon:
		return DeviceGeometry{Kind: p.kind, Points: eff.ApplyAll(p.pts)}, nil

	case Rectangle:
		corners := eff.ApplyAll(rectCorners(p.rect))
		if upright(eff, opts.AngleTol) {
			return DeviceGeometry{Kind: Rectangle, Rect: geom.BoundsOf(corners)}, nil
		}
		return DeviceGeometry{Kind: Polygon, Points: corners}, nil

	case Oval:
		if upright(eff, opts.AngleTol) {
			corners := eff.ApplyAll(rectCorners(p.rect))
			return DeviceGeometry{Kind: Oval, Rect: geom.BoundsOf(corners)}, nil
		}
		return DeviceGeometry{Kind: Polygon, Points: eff.ApplyAll(sampleEllipse(p.rect, opts.Segments))}, nil

	case Arc:
		// The fast path additionally requires no axis flip, since a flip
		// mirrors the start angle and sweep direction.
		if c, err := eff.Dissect(); err == nil &&
			math.Abs(geom.NormalizeAngle(c.Rotation)) < opts.AngleTol && c.Sy > 0 {
			corners := eff.ApplyAll(rectCorners(p.rect))
			return DeviceGeometry{Kind: Arc, Rect: geom.BoundsOf(corners), Start: p.start, Extent: p.extent}, nil
		}
		pts := eff.ApplyAll(sampleArc(p.rect, p.start, p.extent, opts.Segments))
		if s, ok := p.style["arcstyle"].(string); ok && s == "pieslice" {
			pts = append(pts, eff.Apply(p.rect.Center()))
			return DeviceGeometry{Kind: Polygon, Points: pts}, nil
		}
		return DeviceGeometry{Kind: Line, Points: pts}, nil

	case Text:
		g := DeviceGeometry{Kind: Text, Text: p.text, Anchor: eff.Apply(p.anchor)}
		c, err := eff.Dissect()
		if err != nil {
			return g, err // unrotated fallback
		}
		g.Angle = c.Rotation
		return g, nil

	case Image:
		center := eff.Apply(p.rect.Center())
		g := DeviceGeometry{Kind: Image, Anchor: center, Image: p.img}
		c, err := eff.Dissect()
		if err != nil {
			g.Rect = centeredRect(center, p.rect.W, p.rect.H)
			return g, err // unrotated fallback
		}
		g.Angle = c.Rotation
		w, h := p.rect.W*math.Abs(c.Sx), p.rect.H*math.Abs(c.Sy)
		if rot != nil && math.Abs(geom.NormalizeAngle(c.Rotation)) > opts.AngleTol {
			g.Image = rot.Rotate(p.img, c.Rotation)
			// the rotated bitmap's footprint grows to its bounding box
			s, cs := math.Abs(math.Sin(c.Rotation)), math.Abs(math.Cos(c.Rotation))
			w, h = w*cs+h*s, w*s+h*cs
		}
		g.Rect = centeredRect(center, w, h)
		return g, nil
	}
	return DeviceGeometry{}, nil
}

func rectCorners(r geom.Rect) []geom.Pt {
	return []geom.Pt{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

func centeredRect(c geom.Pt, w, h float64) geom.Rect {
	return geom.Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// upright reports whether the transform keeps axis-aligned shapes
// axis-aligned: dissectable with (near) zero rotation. Flips count as
// upright; shear does not.
func upright(m geom.Matrix, tol float64) bool {
	c, err := m.Dissect()
	return err == nil && math.Abs(geom.NormalizeAngle(c.Rotation)) < tol
}

// sampleEllipse approximates the boundary of the ellipse inscribed in r with
// n points. The parameterization compensates for unequal radii so sample
// spacing stays roughly uniform along the curve (the classic
// atan(tan(theta)*sqrt(ry/rx)) substitution).
func sampleEllipse(r geom.Rect, n int) []geom.Pt {
	rx, ry := r.W/2, r.H/2
	c := r.Center()
	if rx <= 0 || ry <= 0 {
		return rectCorners(r)
	}
	pts := make([]geom.Pt, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		phi := theta
		if rx != ry {
			phi = math.Atan(math.Tan(theta) * math.Sqrt(ry/rx))
			if math.Cos(theta) < 0 {
				phi += math.Pi // compensate for atan instead of atan2
			}
		}
		pts[i] = geom.Pt{X: c.X + rx*math.Cos(phi), Y: c.Y + ry*math.Sin(phi)}
	}
	return pts
}

// sampleArc samples the elliptic arc from start sweeping extent radians.
// The segment count scales with the fraction of the full ellipse covered.
func sampleArc(r geom.Rect, start, extent float64, n int) []geom.Pt {
	rx, ry := r.W/2, r.H/2
	c := r.Center()
	segs := int(math.Ceil(float64(n) * math.Abs(extent) / (2 * math.Pi)))
	if segs < 2 {
		segs = 2
	}
	pts := make([]geom.Pt, segs+1)
	for i := 0; i <= segs; i++ {
		a := start + extent*float64(i)/float64(segs)
		pts[i] = geom.Pt{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

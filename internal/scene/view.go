/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"transformcanvas/internal/geom"
	applog "transformcanvas/internal/log"
)

// Direction selects the orientation of positive x/y in model space relative
// to the device. SE is the plain screen convention (x right, y down).
type Direction uint8

const (
	DirSE Direction = iota
	DirNE
	DirSW
	DirNW
)

func (d Direction) vector() geom.Pt {
	switch d {
	case DirNE:
		return geom.Pt{X: 1, Y: -1}
	case DirSW:
		return geom.Pt{X: -1, Y: 1}
	case DirNW:
		return geom.Pt{X: -1, Y: -1}
	}
	return geom.Pt{X: 1, Y: 1}
}

// ParseDirection reads the compass shorthand used in config files.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "se", "SE", "":
		return DirSE, nil
	case "ne", "NE":
		return DirNE, nil
	case "sw", "SW":
		return DirSW, nil
	case "nw", "NW":
		return DirNW, nil
	}
	return DirSE, fmt.Errorf("scene: unknown direction %q", s)
}

// NudgeDir is a discrete pan direction for keyboard nudges.
type NudgeDir uint8

const (
	NudgeLeft NudgeDir = iota
	NudgeRight
	NudgeUp
	NudgeDown
)

// Options configures a View. Zero values select the documented defaults.
type Options struct {
	ScaleBase  float64     // base scale applied to everything; default 1
	ScaleRatio float64     // width/height ratio the view is fitted to; 0 disables
	ZoomFactor float64     // multiplicative wheel-zoom step; default 1.1
	Direction  Direction   // axis orientation; default DirSE
	Origin     geom.Anchor // where in the viewport the model origin sits; default center
	Offset     geom.Pt     // additional device-space offset of the origin
	Rotation   float64     // initial view rotation, radians
	Coalesce   bool        // merge redraw requests arriving mid-pass
	Adapter    AdapterOptions
	Logger     *slog.Logger
}

// View owns the global transform of one drawing surface and the registry of
// primitives rendered through it. It is the single writer of the global
// matrix: gestures and user code go through its operations.
//
// A View belongs to the event-loop goroutine of its surface, the usual
// single-threaded cooperative model of UI toolkits. It performs no internal
// locking; callers driving it from multiple OS threads must serialize all
// calls externally.
type View struct {
	opts    Options
	surface Surface
	rotator Rotator
	log     *slog.Logger

	width, height float64

	// components the matrix is rebuilt from; kept in sync with global on
	// interactive ops via dissection
	zoom     float64
	offset   geom.Pt
	rotation float64 // matrix-space angle: positive is clockwise on a y-down device

	global geom.Matrix
	inv    geom.Matrix
	invOK  bool

	prims []*Primitive

	cursor      geom.Pt
	cursorKnown bool

	omit    bool
	drawing bool
	pending int

	// OnDraw, when set, runs at the end of every redraw pass (after all
	// surface calls). Hook for overlays and status readouts.
	OnDraw func()
}

// New creates a view over the given surface. rotator may be nil when the
// scene contains no images.
func New(surface Surface, rotator Rotator, opts Options) *View {
	if opts.ScaleBase == 0 {
		opts.ScaleBase = 1
	}
	if opts.ZoomFactor <= 0 {
		opts.ZoomFactor = 1.1
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("scene")
	}
	v := &View{
		opts:     opts,
		surface:  surface,
		rotator:  rotator,
		log:      l,
		zoom:     1,
		offset:   opts.Offset,
		rotation: geom.NormalizeAngle(opts.Rotation),
	}
	v.rebuild()
	return v
}

// Resize informs the view of the current viewport size in device units.
// The origin anchor is resolved against the viewport, so a resize moves it.
func (v *View) Resize(w, h float64) {
	v.width, v.height = w, h
	v.rebuild()
	v.Redraw()
}

func (v *View) Viewport() geom.Rect { return geom.R(0, 0, v.width, v.height) }

// scaleVec is the combined scale: base * ratio fit * zoom, axis-signed by
// direction.
func (v *View) scaleVec() geom.Pt {
	s := v.opts.ScaleBase * v.ratioFactor() * v.zoom
	d := v.opts.Direction.vector()
	return geom.Pt{X: s * d.X, Y: s * d.Y}
}

func (v *View) ratioFactor() float64 {
	if v.opts.ScaleRatio > 0 && v.width > 0 && v.height > 0 {
		return v.opts.ScaleRatio / (v.width / v.height)
	}
	return 1
}

// rebuild recomposes the global matrix from its components in the fixed
// order scale -> rotate -> translate.
func (v *View) rebuild() {
	origin := v.opts.Origin.Resolve(v.Viewport())
	sv := v.scaleVec()
	v.global = geom.Translate(origin.X+v.offset.X, origin.Y+v.offset.Y).
		Mul(geom.Rotate(v.rotation)).
		Mul(geom.Scale(sv.X, sv.Y))
	v.invOK = false
}

// Transform returns the current global matrix.
func (v *View) Transform() geom.Matrix { return v.global }

// SetTransform replaces the global matrix wholesale and refreshes the
// component cache from it. Gesture updates come through here: each motion
// event derives the full matrix from its gesture-start snapshot, so errors
// never accumulate across a drag.
func (v *View) SetTransform(m geom.Matrix) {
	v.global = m
	v.invOK = false
	if c, err := m.Dissect(); err == nil {
		origin := v.opts.Origin.Resolve(v.Viewport())
		rot := c.Rotation
		// Dissect keeps Sx non-negative, so an x flip from the direction
		// vector comes back folded into a half-turn rotation. rebuild
		// re-applies the direction signs itself; fold the flip back out
		// here or the two paths recompose different matrices.
		if v.opts.Direction.vector().X < 0 {
			rot -= math.Pi
		}
		v.rotation = geom.NormalizeAngle(rot)
		v.offset = geom.Pt{X: c.Tx - origin.X, Y: c.Ty - origin.Y}
		if base := v.opts.ScaleBase * v.ratioFactor(); base != 0 {
			v.zoom = c.Sx / math.Abs(base)
		}
	}
	v.Redraw()
}

// ToDevice maps a model-space point to device space.
func (v *View) ToDevice(p geom.Pt) geom.Pt { return v.global.Apply(p) }

// ToModel maps a device-space point back to model space. Fails with
// geom.ErrSingular if the global matrix is not invertible.
func (v *View) ToModel(p geom.Pt) (geom.Pt, error) {
	if !v.invOK {
		inv, err := v.global.Invert()
		if err != nil {
			return geom.Pt{}, err
		}
		v.inv = inv
		v.invOK = true
	}
	return v.inv.Apply(p), nil
}

// Pan shifts the view by a device-space delta.
func (v *View) Pan(d geom.Pt) {
	v.SetTransform(geom.Translate(d.X, d.Y).Mul(v.global))
}

// Zoom scales the view by factor, keeping the device point origin fixed
// (the point under the cursor stays put). A zero factor is rejected since
// it would make the view singular and unrecoverable.
func (v *View) Zoom(factor float64, origin geom.Pt) error {
	if factor == 0 {
		return errors.New("scene: zoom factor must be non-zero")
	}
	v.SetTransform(geom.About(origin, geom.Scale(factor, factor)).Mul(v.global))
	return nil
}

// RotateView rotates the view by delta radians around the device point origin.
func (v *View) RotateView(delta float64, origin geom.Pt) {
	v.SetTransform(geom.About(origin, geom.Rotate(delta)).Mul(v.global))
}

// Nudge pans by a fixed device-space step in one of four directions,
// independent of the current rotation or scale. step <= 0 selects a tenth
// of the viewport dimension, the historical keyboard step.
func (v *View) Nudge(dir NudgeDir, step float64) {
	var d geom.Pt
	switch dir {
	case NudgeLeft:
		if step <= 0 {
			step = v.width / 10
		}
		d = geom.Pt{X: -step}
	case NudgeRight:
		if step <= 0 {
			step = v.width / 10
		}
		d = geom.Pt{X: step}
	case NudgeUp:
		if step <= 0 {
			step = v.height / 10
		}
		d = geom.Pt{Y: -step}
	case NudgeDown:
		if step <= 0 {
			step = v.height / 10
		}
		d = geom.Pt{Y: step}
	}
	v.Pan(d)
}

// ZoomStep performs one wheel-zoom step in (dirIn) or out at the cursor
// device point. When the cursor is outside the viewport (keyboard zoom, for
// example) the viewport center is used instead.
func (v *View) ZoomStep(dirIn bool, cursor geom.Pt) {
	f := v.opts.ZoomFactor
	if !dirIn {
		f = 1 / f
	}
	if !v.Viewport().Contains(cursor) {
		cursor = v.Viewport().Center()
	}
	_ = v.Zoom(f, cursor) // factor derives from ZoomFactor > 0, never zero
}

// Component accessors in the manner of the original canvas properties.

func (v *View) ZoomValue() float64 { return v.zoom }

// SetZoom sets the absolute zoom value and rebuilds the view transform.
func (v *View) SetZoom(z float64) {
	v.zoom = z
	v.rebuild()
	v.Redraw()
}

func (v *View) Offset() geom.Pt { return v.offset }

func (v *View) SetOffset(o geom.Pt) {
	v.offset = o
	v.rebuild()
	v.Redraw()
}

// Rotation returns the view rotation, normalized into (-pi, pi].
func (v *View) Rotation() float64 { return v.rotation }

func (v *View) SetRotation(rad float64) {
	v.rotation = geom.NormalizeAngle(rad)
	v.rebuild()
	v.Redraw()
}

func (v *View) ScaleBase() float64 { return v.opts.ScaleBase }

// SetScaleBase rejects zero: a zero base scale makes the whole view
// singular, which inversion would then report on every cursor conversion.
func (v *View) SetScaleBase(s float64) error {
	if s == 0 {
		return errors.New("scene: scale base must be non-zero")
	}
	v.opts.ScaleBase = s
	v.rebuild()
	v.Redraw()
	return nil
}

func (v *View) SetZoomFactor(f float64) error {
	if f <= 0 {
		return errors.New("scene: zoom factor must be > 0")
	}
	v.opts.ZoomFactor = f
	return nil
}

// OmitDraw suppresses automatic redraws while true, so several settings can
// be changed with a single trailing redraw.
func (v *View) OmitDraw() bool        { return v.omit }
func (v *View) SetOmitDraw(omit bool) { v.omit = omit }

// Register adds a primitive to the scene. The surface object is created on
// the next redraw pass.
func (v *View) Register(p *Primitive) {
	v.prims = append(v.prims, p)
	v.Redraw()
}

// Deregister removes a primitive and deletes its surface object.
func (v *View) Deregister(p *Primitive) {
	for i, q := range v.prims {
		if q == p {
			v.prims = append(v.prims[:i], v.prims[i+1:]...)
			break
		}
	}
	if p.handle != 0 {
		if err := v.surface.Delete(p.handle); err != nil {
			v.log.Error("delete surface object failed", slog.Any("err", err))
		}
		p.handle = 0
	}
}

// Primitives returns the registry in registration (draw) order.
func (v *View) Primitives() []*Primitive { return v.prims }

// SetCursor caches the last known cursor device position.
func (v *View) SetCursor(p geom.Pt) {
	v.cursor = p
	v.cursorKnown = true
}

// Cursor returns the cached cursor device position, if any motion has been
// seen yet.
func (v *View) Cursor() (geom.Pt, bool) { return v.cursor, v.cursorKnown }

// CursorModel reports the cursor position converted to model space, the
// value the original surfaced as its scaled-motion event.
func (v *View) CursorModel() (geom.Pt, error) {
	if !v.cursorKnown {
		return geom.Pt{}, errors.New("scene: no cursor position seen yet")
	}
	return v.ToModel(v.cursor)
}

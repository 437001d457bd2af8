/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "log/slog"

// Rendered pairs one primitive's style with its freshly computed device
// geometry. Exporters consume this instead of talking to a live surface.
type Rendered struct {
	Geometry DeviceGeometry
	Style    Style
}

// Redraw runs a full redraw pass: recompute every primitive's device
// geometry under the current global matrix, then push it to the surface.
//
// Requests arriving while a pass is in flight (a surface callback feeding an
// input event back in, for example) are deferred: with coalescing enabled
// they merge into at most one trailing pass, otherwise each request queues
// its own pass. Either way the in-flight pass runs to completion first — a
// pass is atomic from the surface's perspective, fully applied or not
// started, never half-applied.
func (v *View) Redraw() {
	if v.omit {
		return
	}
	if v.drawing {
		if v.opts.Coalesce {
			if v.pending == 0 {
				v.pending = 1
			}
		} else {
			v.pending++
		}
		return
	}
	v.drawing = true
	v.pass()
	for v.pending > 0 {
		v.pending--
		v.pass()
	}
	v.drawing = false
}

func (v *View) pass() {
	// Phase 1: compute everything before the first surface call. A
	// primitive that cannot be dissected falls back to its unrotated
	// geometry; it never aborts the pass.
	staged := v.stage()

	// Phase 2: apply. Surface errors are logged per object and skipped so
	// one broken object cannot wedge the rest of the scene.
	for i, s := range staged {
		p := v.prims[i]
		switch {
		case p.handle == 0:
			v.create(p, s.Geometry)
		case p.surfaceKind != s.Geometry.Kind:
			// the emitted kind changed (an oval picked up rotation and
			// became a polygon); the surface object must be rebuilt
			if err := v.surface.Delete(p.handle); err != nil {
				v.log.Error("delete before re-create failed", slog.Any("err", err))
			}
			p.handle = 0
			v.create(p, s.Geometry)
		default:
			if err := v.surface.Update(p.handle, s.Geometry); err != nil {
				v.log.Error("update surface object failed",
					slog.String("kind", s.Geometry.Kind.String()), slog.Any("err", err))
			}
		}
	}

	if v.OnDraw != nil {
		v.OnDraw()
	}
}

func (v *View) create(p *Primitive, g DeviceGeometry) {
	h, err := v.surface.Create(g.Kind, g, p.style)
	if err != nil {
		v.log.Error("create surface object failed",
			slog.String("kind", g.Kind.String()), slog.Any("err", err))
		return
	}
	p.handle = h
	p.surfaceKind = g.Kind
}

// stage computes device geometry for every primitive without touching the
// surface.
func (v *View) stage() []Rendered {
	out := make([]Rendered, 0, len(v.prims))
	for _, p := range v.prims {
		g, err := Device(p, v.global, v.rotator, v.opts.Adapter)
		if err != nil {
			v.log.Debug("primitive rendered unrotated",
				slog.String("kind", p.kind.String()), slog.Any("err", err))
		}
		out = append(out, Rendered{Geometry: g, Style: p.style})
	}
	return out
}

// Snapshot returns the device geometry of the whole scene under the current
// global matrix, without issuing surface calls. Exporters render from this.
func (v *View) Snapshot() []Rendered { return v.stage() }

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
	"strings"
	"testing"

	"transformcanvas/internal/geom"
)

func TestRedrawCoalescesReentrantRequests(t *testing.T) {
	v, fs := newTestView(Options{Coalesce: true})
	v.Register(NewLine(geom.Pt{}, geom.Pt{X: 1}))
	v.Register(NewLine(geom.Pt{}, geom.Pt{Y: 1}))

	passes := 0
	v.OnDraw = func() { passes++ }

	// the surface feeds a redraw request back in on each update of the
	// first pass; both must merge into a single trailing pass
	fired := 0
	fs.onUpdate = func() {
		if fired < 2 {
			fired++
			v.Redraw()
		}
	}
	v.Redraw()
	if passes != 2 {
		t.Fatalf("passes = %d, want 2 (initial plus one coalesced trailer)", passes)
	}
}

func TestRedrawQueuesWithoutCoalescing(t *testing.T) {
	v, fs := newTestView(Options{})
	v.Register(NewLine(geom.Pt{}, geom.Pt{X: 1}))

	passes := 0
	v.OnDraw = func() { passes++ }

	fired := 0
	fs.onUpdate = func() {
		if fired < 3 {
			fired++
			v.Redraw()
		}
	}
	v.Redraw()
	if passes != 4 {
		t.Fatalf("passes = %d, want 4 (initial plus three queued)", passes)
	}
}

func TestRedrawPassIsNotInterleaved(t *testing.T) {
	// a re-entrant request must never interrupt the running pass: the
	// in-flight pass touches every object before any trailing pass starts
	v, fs := newTestView(Options{Coalesce: true})
	v.Register(NewLine(geom.Pt{}, geom.Pt{X: 1}))
	v.Register(NewLine(geom.Pt{}, geom.Pt{Y: 1}))
	v.Register(NewLine(geom.Pt{X: 1}, geom.Pt{Y: 1}))
	fs.calls = nil

	fired := false
	fs.onUpdate = func() {
		if !fired {
			fired = true
			v.Redraw()
		}
	}
	v.Redraw()

	want := []string{"update:1", "update:2", "update:3", "update:1", "update:2", "update:3"}
	if len(fs.calls) != len(want) {
		t.Fatalf("calls = %v", fs.calls)
	}
	for i, w := range want {
		if fs.calls[i] != w {
			t.Fatalf("call %d = %s, want %s (full order %v)", i, fs.calls[i], w, fs.calls)
		}
	}
}

func TestRedrawRecreatesOnKindChange(t *testing.T) {
	v, fs := newTestView(Options{})
	p := NewOval(geom.R(0, 0, 20, 10))
	v.Register(p)
	if fs.calls[len(fs.calls)-1] != "create:oval:1" {
		t.Fatalf("calls = %v", fs.calls)
	}
	fs.calls = nil

	// rotation turns the oval into a sampled polygon; the surface object
	// must be torn down and rebuilt under the new kind
	v.SetRotation(math.Pi / 4)
	if len(fs.calls) != 2 || fs.calls[0] != "delete:1" || !strings.HasPrefix(fs.calls[1], "create:polygon:") {
		t.Fatalf("calls = %v, want delete then polygon create", fs.calls)
	}

	fs.calls = nil
	v.SetRotation(0)
	if len(fs.calls) != 2 || !strings.HasPrefix(fs.calls[1], "create:oval:") {
		t.Fatalf("calls = %v, want recreate as oval", fs.calls)
	}
}

func TestRedrawSkipsFailedObject(t *testing.T) {
	v, fs := newTestView(Options{})
	fs.failCreate = true
	a := NewLine(geom.Pt{}, geom.Pt{X: 1})
	b := NewLine(geom.Pt{}, geom.Pt{Y: 1})
	v.Register(a)
	v.Register(b)
	if a.Handle() != 0 || b.Handle() != 0 {
		t.Fatal("handles assigned despite create failures")
	}

	fs.failCreate = false
	v.Redraw()
	if a.Handle() == 0 || b.Handle() == 0 {
		t.Fatal("objects not created once the surface recovered")
	}
}

func TestSnapshotMakesNoSurfaceCalls(t *testing.T) {
	v, fs := newTestView(Options{})
	v.Register(NewRectangle(geom.R(0, 0, 10, 10)))
	v.Register(NewText(geom.Pt{X: 5, Y: 5}, "hi"))
	fs.calls = nil

	snap := v.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len(snapshot) = %d, want 2", len(snap))
	}
	if snap[0].Geometry.Kind != Rectangle || snap[1].Geometry.Kind != Text {
		t.Fatalf("kinds = %v, %v", snap[0].Geometry.Kind, snap[1].Geometry.Kind)
	}
	if len(fs.calls) != 0 {
		t.Fatalf("snapshot touched the surface: %v", fs.calls)
	}
}

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
	"testing"

	"transformcanvas/internal/geom"
)

func newTestMachine(t *testing.T) (*Machine, *View) {
	t.Helper()
	v, _ := newTestView(Options{})
	return NewMachine(v, Bindings{}), v
}

func TestPanGesture(t *testing.T) {
	m, v := newTestMachine(t)
	before := v.ToDevice(geom.Pt{X: 3, Y: 4})

	m.ButtonDown(ButtonPrimary, ModShift, geom.Pt{X: 50, Y: 50})
	if g, ok := m.Active(); !ok || g != GesturePan {
		t.Fatalf("active = %v/%v, want pan", g, ok)
	}
	m.Motion(geom.Pt{X: 80, Y: 30})

	after := v.ToDevice(geom.Pt{X: 3, Y: 4})
	if !ptNear(after.Sub(before), geom.Pt{X: 30, Y: -20}) {
		t.Fatalf("pan moved by %v, want (30,-20)", after.Sub(before))
	}

	m.ButtonUp(ButtonPrimary)
	if _, ok := m.Active(); ok {
		t.Fatal("gesture still active after button up")
	}
}

func TestScaleGestureKeepsAnchorFixed(t *testing.T) {
	m, v := newTestMachine(t)
	anchor := geom.Pt{X: 70, Y: 40}
	model, err := v.ToModel(anchor)
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}

	m.ButtonDown(ButtonPrimary, ModCtrl, anchor)
	m.Motion(geom.Pt{X: anchor.X + 50, Y: anchor.Y})

	if got := v.ToDevice(model); !ptNear(got, anchor) {
		t.Fatalf("anchor drifted to %v", got)
	}
	// 50px right means factor 1.5
	if math.Abs(v.ZoomValue()-1.5) > testTol {
		t.Fatalf("zoom = %v, want 1.5", v.ZoomValue())
	}
}

func TestScaleGestureClampsNearZero(t *testing.T) {
	m, v := newTestMachine(t)
	m.ButtonDown(ButtonPrimary, ModCtrl, geom.Pt{X: 150, Y: 50})
	m.Motion(geom.Pt{X: -200, Y: 50}) // raw factor would be negative

	if v.ZoomValue() <= 0 {
		t.Fatalf("zoom = %v, want clamped positive", v.ZoomValue())
	}
	if _, err := v.ToModel(geom.Pt{X: 1, Y: 1}); err != nil {
		t.Fatalf("view became singular: %v", err)
	}
}

func TestRotateGestureAboutModelOrigin(t *testing.T) {
	m, v := newTestMachine(t)
	pivot := v.ToDevice(geom.Pt{})
	start := geom.Pt{X: pivot.X + 40, Y: pivot.Y}

	m.ButtonDown(ButtonPrimary, ModAlt, start)
	m.Motion(geom.Pt{X: pivot.X, Y: pivot.Y + 40}) // quarter turn

	if got := v.ToDevice(geom.Pt{}); !ptNear(got, pivot) {
		t.Fatalf("pivot drifted to %v", got)
	}
	if math.Abs(v.Rotation()-math.Pi/2) > testTol {
		t.Fatalf("rotation = %v, want pi/2", v.Rotation())
	}
}

func TestMotionDerivesFromSnapshotWithoutDrift(t *testing.T) {
	// a long noisy drag and a single direct motion to the same end point
	// must produce bit-identical transforms
	m1, v1 := newTestMachine(t)
	m2, v2 := newTestMachine(t)
	down := geom.Pt{X: 50, Y: 50}
	end := geom.Pt{X: 123.25, Y: 77.5}

	m1.ButtonDown(ButtonPrimary, ModAlt, down)
	for i := 0; i < 500; i++ {
		m1.Motion(geom.Pt{X: 50 + float64(i%37), Y: 50 + float64(i%23)})
	}
	m1.Motion(end)

	m2.ButtonDown(ButtonPrimary, ModAlt, down)
	m2.Motion(end)

	if v1.Transform() != v2.Transform() {
		t.Fatalf("drift: %+v != %+v", v1.Transform(), v2.Transform())
	}
}

func TestUnboundEventsIgnored(t *testing.T) {
	m, v := newTestMachine(t)
	before := v.Transform()

	m.ButtonDown(ButtonPrimary, ModShift|ModCtrl, geom.Pt{X: 10, Y: 10}) // no binding
	if _, ok := m.Active(); ok {
		t.Fatal("unbound modifier combination started a gesture")
	}
	m.ButtonDown(ButtonSecondary, ModShift, geom.Pt{X: 10, Y: 10})
	if _, ok := m.Active(); ok {
		t.Fatal("secondary button started a gesture")
	}
	m.Motion(geom.Pt{X: 90, Y: 90})
	if v.Transform() != before {
		t.Fatal("idle motion mutated the transform")
	}
}

func TestWheelIgnoredDuringDrag(t *testing.T) {
	m, v := newTestMachine(t)
	m.ButtonDown(ButtonPrimary, ModShift, geom.Pt{X: 50, Y: 50})
	before := v.Transform()
	m.Wheel(1, geom.Pt{X: 50, Y: 50})
	if v.Transform() != before {
		t.Fatal("wheel applied mid-drag")
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	m, v := newTestMachine(t)
	cursor := geom.Pt{X: 60, Y: 30}
	model, err := v.ToModel(cursor)
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	m.Wheel(1, cursor)
	if got := v.ToDevice(model); !ptNear(got, cursor) {
		t.Fatalf("cursor point drifted to %v", got)
	}
	if math.Abs(v.ZoomValue()-1.1) > testTol {
		t.Fatalf("zoom = %v, want one default step", v.ZoomValue())
	}
}

func TestKeyNudgeAndZoomBindings(t *testing.T) {
	m, v := newTestMachine(t)
	before := v.ToDevice(geom.Pt{})
	m.KeyDown(KeyLeft, ModShift)
	after := v.ToDevice(geom.Pt{})
	if !ptNear(after.Sub(before), geom.Pt{X: -20}) { // width 200 / 10
		t.Fatalf("nudge moved by %v, want (-20,0)", after.Sub(before))
	}

	m.KeyDown(KeyPlus, ModCtrl)
	if math.Abs(v.ZoomValue()-1.1) > testTol {
		t.Fatalf("zoom = %v after ctrl-plus, want 1.1", v.ZoomValue())
	}
	m.KeyDown(KeyMinus, ModCtrl)
	if math.Abs(v.ZoomValue()-1) > 1e-6 {
		t.Fatalf("zoom = %v after ctrl-minus, want back to 1", v.ZoomValue())
	}

	m.KeyDown(KeyLeft, ModAlt) // unbound chord
	if got := v.ToDevice(geom.Pt{}); !ptNear(got, after) {
		t.Fatal("unbound chord mutated the view")
	}
}

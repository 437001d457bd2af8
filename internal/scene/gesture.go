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

// Modifier is a bitmask of held modifier keys as reported by the event
// source.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Button identifies a mouse button. Only the primary button starts drags.
type Button uint8

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
	ButtonMiddle
)

// GestureKind is a drag gesture the machine can run.
type GestureKind uint8

const (
	GesturePan GestureKind = iota
	GestureScale
	GestureRotate
)

// Key names the keyboard keys bindable to instantaneous actions.
type Key string

const (
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyPlus  Key = "+"
	KeyMinus Key = "-"
)

// KeyChord is a key plus the modifiers held with it.
type KeyChord struct {
	Key  Key
	Mods Modifier
}

// KeyAction is what a bound chord does.
type KeyAction uint8

const (
	ActionNudgeLeft KeyAction = iota
	ActionNudgeRight
	ActionNudgeUp
	ActionNudgeDown
	ActionZoomIn
	ActionZoomOut
)

// Bindings maps input combinations to gestures and actions. Both maps may be
// replaced wholesale; events with no binding are ignored.
type Bindings struct {
	Drag map[Modifier]GestureKind
	Keys map[KeyChord]KeyAction
}

// DefaultBindings returns the documented defaults: shift-drag pans,
// ctrl-drag scales, alt-drag rotates; shift+arrows nudge and ctrl+plus/minus
// zoom at the cursor.
func DefaultBindings() Bindings {
	return Bindings{
		Drag: map[Modifier]GestureKind{
			ModShift: GesturePan,
			ModCtrl:  GestureScale,
			ModAlt:   GestureRotate,
		},
		Keys: map[KeyChord]KeyAction{
			{KeyLeft, ModShift}:  ActionNudgeLeft,
			{KeyRight, ModShift}: ActionNudgeRight,
			{KeyUp, ModShift}:    ActionNudgeUp,
			{KeyDown, ModShift}:  ActionNudgeDown,
			{KeyPlus, ModCtrl}:   ActionZoomIn,
			{KeyMinus, ModCtrl}:  ActionZoomOut,
		},
	}
}

type machineState uint8

const (
	stateIdle machineState = iota
	statePanning
	stateScaling
	stateRotating
)

// scaleDragDivisor converts horizontal drag distance into a scale factor:
// factor = 1 + dx/100, so a 100px drag doubles the view.
const scaleDragDivisor = 100

// minDragScale keeps a leftward scale drag from collapsing through zero
// into a singular view.
const minDragScale = 0.01

// Machine interprets raw input events into gestures and drives the view.
//
// Every drag gesture records the device anchor point and a snapshot of the
// global matrix at button-down; each motion event derives the new matrix
// from that fixed snapshot rather than from the previous frame, so a long
// drag accumulates no floating-point drift.
type Machine struct {
	view *View
	bind Bindings

	state    machineState
	anchor   geom.Pt     // device point at gesture start
	snapshot geom.Matrix // global matrix at gesture start
	pivot    geom.Pt     // rotation pivot: device position of the model origin at gesture start
}

// NewMachine wires a gesture machine to a view. Nil binding maps fall back
// to the defaults.
func NewMachine(v *View, b Bindings) *Machine {
	def := DefaultBindings()
	if b.Drag == nil {
		b.Drag = def.Drag
	}
	if b.Keys == nil {
		b.Keys = def.Keys
	}
	return &Machine{view: v, bind: b}
}

// Active reports the gesture in progress, if any.
func (m *Machine) Active() (GestureKind, bool) {
	switch m.state {
	case statePanning:
		return GesturePan, true
	case stateScaling:
		return GestureScale, true
	case stateRotating:
		return GestureRotate, true
	}
	return 0, false
}

// ButtonDown begins a drag gesture when the primary button goes down with a
// bound modifier. Anything else is ignored: no transition, no error.
func (m *Machine) ButtonDown(b Button, mods Modifier, p geom.Pt) {
	if m.state != stateIdle || b != ButtonPrimary {
		return
	}
	g, ok := m.bind.Drag[mods]
	if !ok {
		return
	}
	m.anchor = p
	m.snapshot = m.view.Transform()
	switch g {
	case GesturePan:
		m.state = statePanning
	case GestureScale:
		m.state = stateScaling
	case GestureRotate:
		m.state = stateRotating
		m.pivot = m.snapshot.Apply(geom.Pt{})
	}
}

// Motion updates the cursor cache and, during a drag, recomputes the global
// matrix from the gesture-start snapshot.
func (m *Machine) Motion(p geom.Pt) {
	m.view.SetCursor(p)
	switch m.state {
	case statePanning:
		d := p.Sub(m.anchor)
		m.view.SetTransform(geom.Translate(d.X, d.Y).Mul(m.snapshot))
	case stateScaling:
		f := 1 + (p.X-m.anchor.X)/scaleDragDivisor
		if f < minDragScale {
			f = minDragScale
		}
		m.view.SetTransform(geom.About(m.anchor, geom.Scale(f, f)).Mul(m.snapshot))
	case stateRotating:
		a0 := math.Atan2(m.anchor.Y-m.pivot.Y, m.anchor.X-m.pivot.X)
		a1 := math.Atan2(p.Y-m.pivot.Y, p.X-m.pivot.X)
		m.view.SetTransform(geom.About(m.pivot, geom.Rotate(a1-a0)).Mul(m.snapshot))
	}
}

// ButtonUp ends any drag gesture.
func (m *Machine) ButtonUp(b Button) {
	if b == ButtonPrimary {
		m.state = stateIdle
	}
}

// Wheel zooms instantaneously at the cursor; there is no gesture state to
// keep. Wheel events during a drag are ignored.
func (m *Machine) Wheel(dy float64, p geom.Pt) {
	if m.state != stateIdle || dy == 0 {
		return
	}
	m.view.SetCursor(p)
	m.view.ZoomStep(dy > 0, p)
}

// KeyDown runs the action bound to the chord, if any.
func (m *Machine) KeyDown(k Key, mods Modifier) {
	if m.state != stateIdle {
		return
	}
	act, ok := m.bind.Keys[KeyChord{Key: k, Mods: mods}]
	if !ok {
		return
	}
	switch act {
	case ActionNudgeLeft:
		m.view.Nudge(NudgeLeft, 0)
	case ActionNudgeRight:
		m.view.Nudge(NudgeRight, 0)
	case ActionNudgeUp:
		m.view.Nudge(NudgeUp, 0)
	case ActionNudgeDown:
		m.view.Nudge(NudgeDown, 0)
	case ActionZoomIn, ActionZoomOut:
		cursor, ok := m.view.Cursor()
		if !ok {
			cursor = geom.Pt{X: -1, Y: -1} // outside; ZoomStep recenters
		}
		m.view.ZoomStep(act == ActionZoomIn, cursor)
	}
}

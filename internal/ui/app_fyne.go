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
	"image/color"
	"log/slog"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"transformcanvas/internal/config"
	"transformcanvas/internal/crash"
	"transformcanvas/internal/geom"
	applog "transformcanvas/internal/log"
	"transformcanvas/internal/raster"
	"transformcanvas/internal/scene"
	"transformcanvas/internal/telemetry"
)

// TransformCanvas is the interactive drawing surface widget. It renders the
// scene registry through a canvasSurface and feeds raw pointer events into
// the gesture machine.
type TransformCanvas struct {
	widget.BaseWidget

	surface *canvasSurface
	view    *scene.View
	machine *scene.Machine
	bind    scene.Bindings
}

var _ desktop.Mouseable = (*TransformCanvas)(nil)
var _ desktop.Hoverable = (*TransformCanvas)(nil)
var _ fyne.Scrollable = (*TransformCanvas)(nil)

// NewTransformCanvas builds the widget from the canvas section of the config.
// Unparseable origin or direction values fall back to the defaults with a
// warning rather than failing startup.
func NewTransformCanvas(cfg config.AppConfig) *TransformCanvas {
	l := applog.WithComponent("ui")

	origin, err := geom.ParseAnchor(cfg.Canvas.Origin)
	if err != nil {
		l.Warn("invalid origin in config, using center", slog.String("origin", cfg.Canvas.Origin))
	}
	dir, err := scene.ParseDirection(cfg.Canvas.Direction)
	if err != nil {
		l.Warn("invalid direction in config, using se", slog.String("direction", cfg.Canvas.Direction))
	}

	surface := newCanvasSurface()
	v := scene.New(surface, raster.NewCache(raster.DefaultBucket, 0), scene.Options{
		ScaleBase:  cfg.Canvas.ScaleBase,
		ScaleRatio: cfg.Canvas.ScaleRatio,
		ZoomFactor: cfg.Canvas.ZoomFactor,
		Direction:  dir,
		Origin:     origin,
		Coalesce:   cfg.Canvas.CoalesceEnabled(),
		Adapter:    scene.AdapterOptions{Segments: cfg.Canvas.OvalSegments},
		Logger:     l,
	})

	bind := bindingsFromConfig(cfg.Bindings, l)
	t := &TransformCanvas{
		surface: surface,
		view:    v,
		machine: scene.NewMachine(v, bind),
		bind:    bind,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TransformCanvas) View() *scene.View       { return t.view }
func (t *TransformCanvas) Machine() *scene.Machine { return t.machine }

// Resize propagates the new viewport size to the view, which re-resolves the
// origin anchor and redraws.
func (t *TransformCanvas) Resize(size fyne.Size) {
	t.BaseWidget.Resize(size)
	t.view.Resize(float64(size.Width), float64(size.Height))
}

func (t *TransformCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &transformCanvasRenderer{t: t, bg: bg}
}

func (t *TransformCanvas) MouseDown(e *desktop.MouseEvent) {
	t.machine.ButtonDown(buttonOf(e.Button), modsOf(e.Modifier), ptOf(e.Position))
}

func (t *TransformCanvas) MouseUp(e *desktop.MouseEvent) {
	t.machine.ButtonUp(buttonOf(e.Button))
}

func (t *TransformCanvas) MouseMoved(e *desktop.MouseEvent) {
	t.machine.Motion(ptOf(e.Position))
}

func (t *TransformCanvas) MouseIn(*desktop.MouseEvent) {}
func (t *TransformCanvas) MouseOut()                   {}

func (t *TransformCanvas) Scrolled(e *fyne.ScrollEvent) {
	t.machine.Wheel(float64(e.Scrolled.DY), ptOf(e.Position))
}

// registerShortcuts binds the key chords on the window canvas. Plain "+"
// registers on the equal key, where it lives on common layouts.
func (t *TransformCanvas) registerShortcuts(c fyne.Canvas) {
	for chord := range t.bind.Keys {
		chord := chord
		c.AddShortcut(&desktop.CustomShortcut{
			KeyName:  fyneKeyOf(chord.Key),
			Modifier: fyneModsOf(chord.Mods),
		}, func(fyne.Shortcut) {
			t.machine.KeyDown(chord.Key, chord.Mods)
		})
	}
}

type transformCanvasRenderer struct {
	t  *TransformCanvas
	bg *canvas.Rectangle
}

func (r *transformCanvasRenderer) Objects() []fyne.CanvasObject {
	return append([]fyne.CanvasObject{r.bg}, r.t.surface.canvasObjects()...)
}

func (r *transformCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
}

func (r *transformCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *transformCanvasRenderer) Refresh() {
	canvas.Refresh(r.t)
}

func (r *transformCanvasRenderer) Destroy() {}

func ptOf(p fyne.Position) geom.Pt {
	return geom.Pt{X: float64(p.X), Y: float64(p.Y)}
}

func buttonOf(b desktop.MouseButton) scene.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return scene.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return scene.ButtonMiddle
	}
	return scene.ButtonPrimary
}

func modsOf(m fyne.KeyModifier) scene.Modifier {
	var out scene.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= scene.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= scene.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= scene.ModAlt
	}
	return out
}

func fyneModsOf(m scene.Modifier) fyne.KeyModifier {
	var out fyne.KeyModifier
	if m&scene.ModShift != 0 {
		out |= fyne.KeyModifierShift
	}
	if m&scene.ModCtrl != 0 {
		out |= fyne.KeyModifierControl
	}
	if m&scene.ModAlt != 0 {
		out |= fyne.KeyModifierAlt
	}
	return out
}

func fyneKeyOf(k scene.Key) fyne.KeyName {
	switch k {
	case scene.KeyLeft:
		return fyne.KeyLeft
	case scene.KeyRight:
		return fyne.KeyRight
	case scene.KeyUp:
		return fyne.KeyUp
	case scene.KeyDown:
		return fyne.KeyDown
	case scene.KeyPlus:
		return fyne.KeyEqual
	case scene.KeyMinus:
		return fyne.KeyMinus
	}
	return fyne.KeyName(k)
}

// bindingsFromConfig translates the string drag map from the config file
// ("ctrl+shift": "rotate") into machine bindings. Unknown entries are logged
// and skipped; an empty map keeps the defaults.
func bindingsFromConfig(b config.BindingsConfig, l *slog.Logger) scene.Bindings {
	out := scene.DefaultBindings()
	if len(b.Drag) == 0 {
		return out
	}
	drag := map[scene.Modifier]scene.GestureKind{}
	for modStr, gestStr := range b.Drag {
		mods, err := parseModifiers(modStr)
		if err != nil {
			l.Warn("skipping drag binding", slog.String("modifier", modStr), slog.Any("err", err))
			continue
		}
		gest, err := parseGesture(gestStr)
		if err != nil {
			l.Warn("skipping drag binding", slog.String("gesture", gestStr), slog.Any("err", err))
			continue
		}
		drag[mods] = gest
	}
	if len(drag) > 0 {
		out.Drag = drag
	}
	return out
}

func parseModifiers(s string) (scene.Modifier, error) {
	var out scene.Modifier
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		switch strings.TrimSpace(part) {
		case "shift":
			out |= scene.ModShift
		case "ctrl", "control":
			out |= scene.ModCtrl
		case "alt":
			out |= scene.ModAlt
		default:
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
	}
	return out, nil
}

func parseGesture(s string) (scene.GestureKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pan":
		return scene.GesturePan, nil
	case "scale":
		return scene.GestureScale, nil
	case "rotate":
		return scene.GestureRotate, nil
	}
	return 0, fmt.Errorf("unknown gesture %q", s)
}

// Run starts the desktop demo application.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	defer crash.Recover("")
	telemetry.Event("ui_run", nil)

	a := app.NewWithID("transformcanvas")
	w := a.NewWindow("Transform Canvas")

	tc := NewTransformCanvas(cfg)
	BuildDemoScene(tc.View())

	status := widget.NewLabel("shift-drag pans, ctrl-drag scales, alt-drag rotates, wheel zooms")
	tc.View().OnDraw = func() {
		v := tc.View()
		off := v.Offset()
		// rotation is shown counterclockwise-positive, the math convention
		status.SetText(fmt.Sprintf("zoom %.2f   rotation %.1f°   offset (%.0f, %.0f)",
			v.ZoomValue(), -v.Rotation()*180/math.Pi, off.X, off.Y))
		tc.Refresh()
	}
	tc.registerShortcuts(w.Canvas())

	w.SetContent(container.NewBorder(nil, status, nil, nil, tc))
	w.Resize(fyne.NewSize(900, 640))
	l.Info("ui started",
		slog.String("origin", cfg.Canvas.Origin),
		slog.String("direction", cfg.Canvas.Direction))
	w.ShowAndRun()
	return nil
}

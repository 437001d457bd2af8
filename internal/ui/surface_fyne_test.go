//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"
	"testing"

	"fyne.io/fyne/v2/canvas"

	"transformcanvas/internal/geom"
	"transformcanvas/internal/scene"
)

func TestUprightTextStaysNative(t *testing.T) {
	s := newCanvasSurface()
	g := scene.DeviceGeometry{Kind: scene.Text, Text: "hello", Anchor: geom.Pt{X: 50, Y: 40}}
	objs := s.buildObjects(g, scene.Style{})
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	if _, ok := objs[0].(*canvas.Text); !ok {
		t.Fatalf("upright text rendered as %T, want *canvas.Text", objs[0])
	}
}

func TestRotatedTextBecomesBitmap(t *testing.T) {
	s := newCanvasSurface()
	anchor := geom.Pt{X: 50, Y: 40}
	g := scene.DeviceGeometry{Kind: scene.Text, Text: "hello", Anchor: anchor, Angle: math.Pi / 2}
	objs := s.buildObjects(g, scene.Style{})
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	img, ok := objs[0].(*canvas.Image)
	if !ok {
		t.Fatalf("rotated text rendered as %T, want *canvas.Image", objs[0])
	}
	size := img.Size()
	if size.Height <= size.Width {
		t.Fatalf("quarter-turn run not vertical: %v x %v", size.Width, size.Height)
	}
	// the baseline start pivots in place: the bitmap must cover the anchor
	pos := img.Position()
	if float64(pos.X) > anchor.X || anchor.X > float64(pos.X)+float64(size.Width) ||
		float64(pos.Y) > anchor.Y+0.5 || anchor.Y > float64(pos.Y)+float64(size.Height) {
		t.Fatalf("bitmap at %v size %v does not cover the anchor %v", pos, size, anchor)
	}
}

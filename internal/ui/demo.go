/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui contains the desktop widget and the shared demo scene. The demo
// scene builder has no toolkit dependency so the headless export command can
// use it too.
package ui

import (
	"image"
	"image/color"
	"math"

	"transformcanvas/internal/geom"
	"transformcanvas/internal/scene"
)

// BuildDemoScene populates the view with one primitive of every kind, the
// classic exercise scene for trying the gestures out. The caller's omit-draw
// setting is restored afterwards, so a headless caller keeping redraws off
// gets no surface traffic.
func BuildDemoScene(v *scene.View) {
	omit := v.OmitDraw()
	v.SetOmitDraw(true)

	axes := scene.NewLine(geom.Pt{X: -200}, geom.Pt{X: 200})
	axes.SetStyle(scene.Style{"outline": color.RGBA{R: 160, G: 160, B: 160, A: 255}})
	v.Register(axes)
	vert := scene.NewLine(geom.Pt{Y: -200}, geom.Pt{Y: 200})
	vert.SetStyle(scene.Style{"outline": color.RGBA{R: 160, G: 160, B: 160, A: 255}})
	v.Register(vert)

	diamond := scene.NewPolygon(
		geom.Pt{X: 0, Y: -60}, geom.Pt{X: 60, Y: 0},
		geom.Pt{X: 0, Y: 60}, geom.Pt{X: -60, Y: 0},
	)
	diamond.SetStyle(scene.Style{"outline": color.RGBA{B: 200, A: 255}, "width": 2})
	v.Register(diamond)

	rect := scene.NewRectangle(geom.R(80, -40, 70, 50))
	rect.SetStyle(scene.Style{
		"outline": color.RGBA{R: 180, A: 255},
		"fill":    color.RGBA{R: 255, G: 220, B: 220, A: 255},
	})
	rect.SetLocal(geom.Rotate(math.Pi / 12))
	v.Register(rect)

	oval := scene.NewOval(geom.R(-170, 40, 80, 50))
	oval.SetStyle(scene.Style{"outline": color.RGBA{G: 140, A: 255}})
	v.Register(oval)

	arc := scene.NewArc(geom.R(-170, -120, 90, 90), 0, 3*math.Pi/2)
	arc.SetStyle(scene.Style{"outline": color.RGBA{R: 200, G: 120, A: 255}, "width": 2})
	v.Register(arc)

	label := scene.NewText(geom.Pt{X: 20, Y: 90}, "transform canvas")
	label.SetStyle(scene.Style{"outline": color.Black})
	v.Register(label)

	img := scene.NewImage(geom.R(90, 60, 48, 48), demoBitmap(48))
	v.Register(img)

	v.SetOmitDraw(omit)
	v.Redraw()
}

// demoBitmap renders a small diagonal gradient so image rotation is visible.
func demoBitmap(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(255 * (x + y) / (2 * size))
			img.SetRGBA(x, y, color.RGBA{R: v, G: 80, B: 255 - v, A: 255})
		}
	}
	return img
}

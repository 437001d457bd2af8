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
	"image"
	"math"
	"testing"

	"transformcanvas/internal/geom"
)

const testTol = 1e-9

func ptNear(a, b geom.Pt) bool {
	return math.Abs(a.X-b.X) < testTol && math.Abs(a.Y-b.Y) < testTol
}

func TestDeviceLine(t *testing.T) {
	p := NewLine(geom.Pt{}, geom.Pt{X: 10})
	global := geom.Translate(5, 5).Mul(geom.Scale(2, 2))
	g, err := Device(p, global, nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Line {
		t.Fatalf("kind = %v, want line", g.Kind)
	}
	want := []geom.Pt{{X: 5, Y: 5}, {X: 25, Y: 5}}
	for i, w := range want {
		if !ptNear(g.Points[i], w) {
			t.Fatalf("point %d = %v, want %v", i, g.Points[i], w)
		}
	}
}

func TestDevicePolygonRotated(t *testing.T) {
	p := NewPolygon(geom.Pt{}, geom.Pt{X: 10}, geom.Pt{X: 10, Y: 10}, geom.Pt{Y: 10})
	g, err := Device(p, geom.Rotate(math.Pi/2), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	want := []geom.Pt{{}, {Y: 10}, {X: -10, Y: 10}, {X: -10}}
	for i, w := range want {
		if !ptNear(g.Points[i], w) {
			t.Fatalf("point %d = %v, want %v", i, g.Points[i], w)
		}
	}
}

func TestDeviceRectangleUpright(t *testing.T) {
	p := NewRectangle(geom.R(1, 2, 3, 4))
	global := geom.Translate(10, 20).Mul(geom.Scale(2, 2))
	g, err := Device(p, global, nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Rectangle {
		t.Fatalf("kind = %v, want rectangle", g.Kind)
	}
	want := geom.R(12, 24, 6, 8)
	if !ptNear(geom.Pt{X: g.Rect.X, Y: g.Rect.Y}, geom.Pt{X: want.X, Y: want.Y}) ||
		!ptNear(geom.Pt{X: g.Rect.W, Y: g.Rect.H}, geom.Pt{X: want.W, Y: want.H}) {
		t.Fatalf("rect = %+v, want %+v", g.Rect, want)
	}
}

func TestDeviceRectangleRotatedBecomesPolygon(t *testing.T) {
	p := NewRectangle(geom.R(0, 0, 10, 10))
	g, err := Device(p, geom.Rotate(math.Pi/4), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Polygon {
		t.Fatalf("kind = %v, want polygon", g.Kind)
	}
	if len(g.Points) != 4 {
		t.Fatalf("len(points) = %d, want 4", len(g.Points))
	}
}

func TestDeviceOvalRotatedSampled(t *testing.T) {
	p := NewOval(geom.R(0, 0, 20, 10))
	g, err := Device(p, geom.Rotate(math.Pi/6), nil, AdapterOptions{Segments: 64})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Polygon {
		t.Fatalf("kind = %v, want polygon", g.Kind)
	}
	if len(g.Points) != 64 {
		t.Fatalf("len(points) = %d, want 64", len(g.Points))
	}
	// every sample must lie on the rotated ellipse: undo the rotation and
	// check the ellipse equation
	inv := geom.Rotate(-math.Pi / 6)
	for _, dp := range g.Points {
		m := inv.Apply(dp)
		dx, dy := (m.X-10)/10, (m.Y-5)/5
		if r := dx*dx + dy*dy; math.Abs(r-1) > 1e-6 {
			t.Fatalf("sample %v off the ellipse (r=%v)", dp, r)
		}
	}
}

func TestDeviceOvalUpright(t *testing.T) {
	p := NewOval(geom.R(0, 0, 20, 10))
	g, err := Device(p, geom.Scale(2, 3), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Oval {
		t.Fatalf("kind = %v, want oval", g.Kind)
	}
}

func TestDeviceArcFastPath(t *testing.T) {
	p := NewArc(geom.R(0, 0, 10, 10), 0, math.Pi/2)
	g, err := Device(p, geom.Scale(2, 2), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Arc {
		t.Fatalf("kind = %v, want arc", g.Kind)
	}
	if g.Start != 0 || g.Extent != math.Pi/2 {
		t.Fatalf("start/extent = %v/%v", g.Start, g.Extent)
	}
}

func TestDeviceArcFlipSampled(t *testing.T) {
	// a y-flip mirrors the sweep direction, so the native arc path is out
	p := NewArc(geom.R(0, 0, 10, 10), 0, math.Pi/2)
	g, err := Device(p, geom.Scale(1, -1), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Line {
		t.Fatalf("kind = %v, want sampled polyline", g.Kind)
	}
}

func TestDeviceArcPieslice(t *testing.T) {
	p := NewArc(geom.R(0, 0, 10, 10), 0, math.Pi/2)
	p.SetStyle(Style{"arcstyle": "pieslice"})
	g, err := Device(p, geom.Rotate(math.Pi/4), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if g.Kind != Polygon {
		t.Fatalf("kind = %v, want polygon", g.Kind)
	}
	// last point closes to the (transformed) ellipse center
	center := geom.Rotate(math.Pi / 4).Apply(geom.Pt{X: 5, Y: 5})
	if !ptNear(g.Points[len(g.Points)-1], center) {
		t.Fatalf("pieslice does not close at center: %v != %v", g.Points[len(g.Points)-1], center)
	}
}

func TestDeviceTextAngle(t *testing.T) {
	p := NewText(geom.Pt{X: 3, Y: 4}, "hello")
	g, err := Device(p, geom.Rotate(math.Pi/4), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if math.Abs(g.Angle-math.Pi/4) > testTol {
		t.Fatalf("angle = %v, want pi/4", g.Angle)
	}
	if !ptNear(g.Anchor, geom.Rotate(math.Pi/4).Apply(geom.Pt{X: 3, Y: 4})) {
		t.Fatalf("anchor = %v", g.Anchor)
	}
}

func TestDeviceTextShearFallsBack(t *testing.T) {
	p := NewText(geom.Pt{X: 3, Y: 4}, "hello")
	sheared := geom.Identity().Skew(0.5, 0)
	g, err := Device(p, sheared, nil, AdapterOptions{})
	if !errors.Is(err, geom.ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
	// fallback still places the anchor under the full transform
	if g.Angle != 0 {
		t.Fatalf("fallback angle = %v, want 0", g.Angle)
	}
	if !ptNear(g.Anchor, sheared.Apply(geom.Pt{X: 3, Y: 4})) {
		t.Fatalf("anchor = %v", g.Anchor)
	}
}

type fakeRotator struct {
	angles []float64
	out    image.Image
}

func (f *fakeRotator) Rotate(src image.Image, rad float64) image.Image {
	f.angles = append(f.angles, rad)
	if f.out != nil {
		return f.out
	}
	return src
}

func TestDeviceImageRotatedAboutOwnCenter(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p := NewImage(geom.R(0, 0, 10, 10), img)
	rot := &fakeRotator{}

	// rotate the primitive about its own center via the local transform
	center := p.Origin(geom.Anchor{Kind: geom.AnchorCenter})
	p.SetLocal(geom.About(center, geom.Rotate(math.Pi / 4)))

	g, err := Device(p, geom.Identity(), rot, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if len(rot.angles) != 1 || math.Abs(rot.angles[0]-math.Pi/4) > testTol {
		t.Fatalf("rotator angles = %v, want one call at pi/4", rot.angles)
	}
	// the center is a fixpoint of the pivoted rotation
	if !ptNear(g.Anchor, center) {
		t.Fatalf("anchor = %v, want %v", g.Anchor, center)
	}
	// footprint grows to the rotated bounding box: 10*cos+10*sin = 10*sqrt(2)
	want := 10 * math.Sqrt2
	if math.Abs(g.Rect.W-want) > 1e-6 || math.Abs(g.Rect.H-want) > 1e-6 {
		t.Fatalf("footprint = %vx%v, want %v", g.Rect.W, g.Rect.H, want)
	}
}

func TestDeviceImageShearFallsBack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p := NewImage(geom.R(0, 0, 10, 10), img)
	rot := &fakeRotator{}
	g, err := Device(p, geom.Identity().Skew(0.3, 0), rot, AdapterOptions{})
	if !errors.Is(err, geom.ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
	if len(rot.angles) != 0 {
		t.Fatalf("rotator called on fallback")
	}
	if g.Rect.W != 10 || g.Rect.H != 10 {
		t.Fatalf("fallback footprint = %vx%v, want 10x10", g.Rect.W, g.Rect.H)
	}
}

func TestDeviceLocalComposesUnderGlobal(t *testing.T) {
	// global is applied after local: effective = global * local
	p := NewLine(geom.Pt{}, geom.Pt{X: 1})
	p.SetLocal(geom.Translate(10, 0))
	g, err := Device(p, geom.Scale(2, 2), nil, AdapterOptions{})
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if !ptNear(g.Points[0], geom.Pt{X: 20}) || !ptNear(g.Points[1], geom.Pt{X: 22}) {
		t.Fatalf("points = %v", g.Points)
	}
}

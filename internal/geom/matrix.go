/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"errors"
	"math"
)

// Matrix is a 2D affine transform:
// | A C E |
// | B D F |
// | 0 0 1 |
//
// Matrices built through this package compose in the fixed order
// scale -> rotate -> translate (see Compose). Arbitrary affine matrices,
// including sheared ones, can still be represented and applied; only
// Dissect is restricted to the shear-free family.
type Matrix struct{ A, B, C, D, E, F float64 }

// Sentinel errors surfaced by Invert and Dissect. Callers are expected to
// test with errors.Is; a failed dissection on one primitive must not abort
// a redraw pass (the adapter falls back to the unrotated rendering).
var (
	ErrSingular  = errors.New("geom: singular matrix (zero scale component)")
	ErrAmbiguous = errors.New("geom: ambiguous decomposition (shear present)")
)

// dissectTol is the relative tolerance for the shear residue and for
// treating a scale component as zero during dissection.
const dissectTol = 1e-9

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Translate returns a pure translation.
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Scale returns a pure (possibly non-uniform) scale about the origin.
func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Rotate returns a counterclockwise rotation about the origin, in radians.
func Rotate(rad float64) Matrix {
	c, s := math.Cos(rad), math.Sin(rad)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// About re-anchors a transform so that origin maps to itself under it.
func About(origin Pt, m Matrix) Matrix {
	return Translate(origin.X, origin.Y).Mul(m).Mul(Translate(-origin.X, -origin.Y))
}

// Mul composes transforms: n is applied first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyAll transforms a point sequence, returning a new slice.
func (m Matrix) ApplyAll(pts []Pt) []Pt {
	out := make([]Pt, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse transform. It fails with ErrSingular when the
// determinant vanishes (a zero scale component); the error is propagated
// rather than clamped because a clamped inverse would corrupt the view.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Det()
	if math.Abs(det) < dissectTol {
		return Matrix{}, ErrSingular
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, nil
}

// Chaining constructors in the manner of Identity().Translate(5, 7).Rotate(pi, o):
// each step right-multiplies, so later steps in the chain are applied first.

// Translate composes a translation into the chain.
func (m Matrix) Translate(dx, dy float64) Matrix { return m.Mul(Translate(dx, dy)) }

// ScaleAt composes a scale pivoted at origin into the chain.
func (m Matrix) ScaleAt(sx, sy float64, origin Pt) Matrix {
	return m.Mul(About(origin, Scale(sx, sy)))
}

// RotateAt composes a rotation pivoted at origin into the chain.
func (m Matrix) RotateAt(rad float64, origin Pt) Matrix {
	return m.Mul(About(origin, Rotate(rad)))
}

// Skew composes a shear by the given axis angles (radians). Sheared matrices
// draw fine but refuse dissection; see Dissect.
func (m Matrix) Skew(ax, ay float64) Matrix {
	return m.Mul(Matrix{A: 1, B: math.Tan(ay), C: math.Tan(ax), D: 1})
}

// Components is the dissected form of a shear-free matrix.
type Components struct {
	Tx, Ty   float64
	Rotation float64 // radians, counterclockwise
	Sx, Sy   float64 // Sx is normalized non-negative; an axis flip lands in Sy
}

// Compose rebuilds a matrix from components in the documented order
// scale -> rotate -> translate.
func Compose(c Components) Matrix {
	return Translate(c.Tx, c.Ty).Mul(Rotate(c.Rotation)).Mul(Scale(c.Sx, c.Sy))
}

// Dissect recovers translation, rotation and scale from a matrix built via
// this package's composition order. The recovery is unique only for the
// shear-free family with Sx >= 0; a shear residue beyond tolerance fails
// with ErrAmbiguous, a vanishing scale with ErrSingular. This is a
// documented limitation of affine decomposition, not something to mask:
// callers that need an angle (text, images) fall back to unrotated output.
func (m Matrix) Dissect() (Components, error) {
	sx := math.Hypot(m.A, m.B)
	norm := math.Max(math.Abs(m.C), math.Abs(m.D))
	if sx < dissectTol*math.Max(1, norm) {
		return Components{}, ErrSingular
	}
	cos, sin := m.A/sx, m.B/sx
	// For T*R*S the second column is (-sy*sin, sy*cos).
	sy := m.D*cos - m.C*sin
	shear := m.C*cos + m.D*sin
	if math.Abs(sy) < dissectTol*math.Max(1, sx) {
		return Components{}, ErrSingular
	}
	if math.Abs(shear) > dissectTol*math.Max(1, math.Max(sx, math.Abs(sy))) {
		return Components{}, ErrAmbiguous
	}
	return Components{
		Tx:       m.E,
		Ty:       m.F,
		Rotation: math.Atan2(sin, cos),
		Sx:       sx,
		Sy:       sy,
	}, nil
}

// Rotation returns just the rotation angle of a shear-free matrix.
func (m Matrix) Rotation() (float64, error) {
	c, err := m.Dissect()
	if err != nil {
		return 0, err
	}
	return c.Rotation, nil
}

// NormalizeAngle maps an angle into (-pi, pi].
func NormalizeAngle(rad float64) float64 {
	r := math.Mod(rad, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"image"

	"transformcanvas/internal/geom"
)

// DeviceGeometry is what the adapter hands the draw surface: concrete
// device-space coordinates plus whatever extra the emitted kind needs.
// The emitted Kind can differ from the primitive's kind — a rotated oval
// arrives as a Polygon because most 2D surfaces cannot rotate ellipses.
type DeviceGeometry struct {
	Kind   Kind
	Points []geom.Pt // Line, Polygon, Rectangle corners under rotation
	Rect   geom.Rect // Rectangle/Oval/Arc fast path, Image placement box
	Start  float64   // Arc fast path, radians
	Extent float64

	Text  string
	Angle float64 // decomposed rotation for the surface's native text rotation

	Image  image.Image // rotated bitmap, ready to blit
	Anchor geom.Pt     // device-space anchor (text baseline point, image center)
}

// Surface is the draw-surface boundary. Implementations own pixels; the
// scene only pushes device-space geometry at them. Style options pass
// through unmodified.
type Surface interface {
	Create(kind Kind, g DeviceGeometry, style Style) (Handle, error)
	Update(h Handle, g DeviceGeometry) error
	Delete(h Handle) error
}

// Rotator is the bitmap-rotation collaborator: a pure function of
// (bitmap, angle). Implementations may cache by angle bucket; see
// internal/raster.
type Rotator interface {
	Rotate(src image.Image, rad float64) image.Image
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster rotates bitmaps for display. Surfaces that cannot rotate
// images natively get a pre-rotated RGBA to blit instead; the scene layer
// only knows the Rotate(src, rad) contract.
package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotator rotates a bitmap counterclockwise in image coordinates with
// bilinear resampling. The result is sized to the rotated bounding box, so
// nothing is clipped; uncovered corners stay transparent.
type Rotator struct{}

func (Rotator) Rotate(src image.Image, rad float64) image.Image {
	b := src.Bounds()
	if b.Empty() {
		return src
	}
	w, h := float64(b.Dx()), float64(b.Dy())
	sin, cos := math.Sin(rad), math.Cos(rad)
	as, ac := math.Abs(sin), math.Abs(cos)

	// the epsilon keeps sin/cos residue at right angles from ceiling an
	// extra pixel
	dw := int(math.Ceil(w*ac + h*as - 1e-9))
	dh := int(math.Ceil(w*as + h*ac - 1e-9))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	// rotate about the source center, land on the destination center:
	// dst = T(dstCenter) * R(rad) * T(-srcCenter)
	scx := float64(b.Min.X) + w/2
	scy := float64(b.Min.Y) + h/2
	dcx, dcy := float64(dw)/2, float64(dh)/2
	m := f64.Aff3{
		cos, -sin, dcx - cos*scx + sin*scy,
		sin, cos, dcy - sin*scx - cos*scy,
	}
	draw.ApproxBiLinear.Transform(dst, m, src, b, draw.Over, nil)
	return dst
}

// cacheKey buckets angles so a slow interactive rotation does not resample
// on every mouse event. Keying on the source interface value works because
// image implementations are pointers.
type cacheKey struct {
	src    image.Image
	bucket int64
}

// Cache wraps a Rotator and memoizes rotated bitmaps by (source, angle
// bucket). Entries are evicted oldest-first once the cache is full; a
// replaced source bitmap simply stops being hit and ages out.
type Cache struct {
	rot     Rotator
	step    float64
	max     int
	entries map[cacheKey]image.Image
	order   []cacheKey
}

const (
	// DefaultBucket is half a degree, below the resampling blur at typical
	// display sizes.
	DefaultBucket = math.Pi / 360
	defaultMax    = 64
)

// NewCache creates a caching rotator. bucket <= 0 selects DefaultBucket,
// max <= 0 a small default capacity.
func NewCache(bucket float64, max int) *Cache {
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	if max <= 0 {
		max = defaultMax
	}
	return &Cache{step: bucket, max: max, entries: map[cacheKey]image.Image{}}
}

// Rotate returns the source unchanged for angles that round to zero, else a
// cached or freshly computed rotation at the bucketed angle.
func (c *Cache) Rotate(src image.Image, rad float64) image.Image {
	bucket := int64(math.Round(rad / c.step))
	if bucket == 0 {
		return src
	}
	k := cacheKey{src: src, bucket: bucket}
	if img, ok := c.entries[k]; ok {
		return img
	}
	img := c.rot.Rotate(src, float64(bucket)*c.step)
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = img
	c.order = append(c.order, k)
	return img
}

// Len reports the number of cached rotations.
func (c *Cache) Len() int { return len(c.entries) }

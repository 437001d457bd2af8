/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a scene snapshot (device-space geometry, already
// transformed) to files: raster PNG, vector SVG and PDF. Exporters never talk
// to a live surface; they consume what View.Snapshot returns.
package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"transformcanvas/internal/scene"
)

// Style keys honored by the exporters. Values may be a color.Color or a
// "#rrggbb" string for colors, and any numeric type for widths. Unknown keys
// pass through to interactive surfaces untouched and are ignored here.
const (
	styleOutline = "outline"
	styleFill    = "fill"
	styleWidth   = "width"
)

func strokeOf(s scene.Style) (color.RGBA, float64) {
	col := color.RGBA{A: 255} // black
	if c, ok := parseColor(s[styleOutline]); ok {
		col = c
	}
	w := 1.0
	if f, ok := parseFloat(s[styleWidth]); ok && f > 0 {
		w = f
	}
	return col, w
}

func fillOf(s scene.Style) (color.RGBA, bool) {
	return parseColor(s[styleFill])
}

func parseColor(v any) (color.RGBA, bool) {
	switch c := v.(type) {
	case nil:
		return color.RGBA{}, false
	case color.RGBA:
		return c, true
	case color.Color:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}, true
	case string:
		return parseHexColor(c)
	}
	return color.RGBA{}, false
}

func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, true
}

func parseFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	}
	return 0, false
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"fmt"
	"strings"
)

// AnchorKind enumerates the symbolic transform origins: the eight compass
// points and the center of a bounding box, plus an explicit point.
type AnchorKind uint8

const (
	AnchorCenter AnchorKind = iota
	AnchorN
	AnchorNE
	AnchorE
	AnchorSE
	AnchorS
	AnchorSW
	AnchorW
	AnchorNW
	AnchorAt // explicit point, passes through Resolve unchanged
)

// Anchor selects a concrete origin point for scale/rotate operations.
// It is a value, resolved fresh against the current bounds every time;
// nothing is cached.
type Anchor struct {
	Kind AnchorKind
	P    Pt // used only when Kind == AnchorAt
}

// At returns an explicit-point anchor.
func At(p Pt) Anchor { return Anchor{Kind: AnchorAt, P: p} }

// Resolve maps the anchor to a point on (or in) r. Pure function.
func (a Anchor) Resolve(r Rect) Pt {
	switch a.Kind {
	case AnchorN:
		return Pt{r.X + r.W/2, r.Y}
	case AnchorNE:
		return Pt{r.X + r.W, r.Y}
	case AnchorE:
		return Pt{r.X + r.W, r.Y + r.H/2}
	case AnchorSE:
		return Pt{r.X + r.W, r.Y + r.H}
	case AnchorS:
		return Pt{r.X + r.W/2, r.Y + r.H}
	case AnchorSW:
		return Pt{r.X, r.Y + r.H}
	case AnchorW:
		return Pt{r.X, r.Y + r.H/2}
	case AnchorNW:
		return Pt{r.X, r.Y}
	case AnchorAt:
		return a.P
	default: // AnchorCenter
		return r.Center()
	}
}

// ParseAnchor reads the compass shorthand used in config files
// ("center", "n", "ne", "e", "se", "s", "sw", "w", "nw").
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "c", "":
		return Anchor{Kind: AnchorCenter}, nil
	case "n":
		return Anchor{Kind: AnchorN}, nil
	case "ne":
		return Anchor{Kind: AnchorNE}, nil
	case "e":
		return Anchor{Kind: AnchorE}, nil
	case "se":
		return Anchor{Kind: AnchorSE}, nil
	case "s":
		return Anchor{Kind: AnchorS}, nil
	case "sw":
		return Anchor{Kind: AnchorSW}, nil
	case "w":
		return Anchor{Kind: AnchorW}, nil
	case "nw":
		return Anchor{Kind: AnchorNW}, nil
	}
	return Anchor{}, fmt.Errorf("geom: unknown anchor %q", s)
}

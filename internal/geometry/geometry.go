/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry provides the plain value types the canvas model is built
// on. Coordinates are in canvas pixels with the origin at the top-left and Y
// growing downward. The types are JSON-tagged because they are embedded
// verbatim in studio manifests.
package geometry

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a widget extent. Negative extents never appear in stored data;
// they only occur transiently while a marquee or handle drag is in flight.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pt is a shorthand constructor.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sz is a shorthand constructor.
func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

// R is a shorthand constructor.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// RectAt assembles a rectangle from a position and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Add returns p shifted by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the offset from o to p.
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's extent.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Contains reports whether p lies inside r. Points on the edge count as
// inside so that clicks on a widget border still hit the widget.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and o overlap. Rectangles that merely touch
// along an edge or at a corner count as intersecting; marquee selection
// depends on that.
func (r Rect) Intersects(o Rect) bool {
	if r.Right() < o.X || o.Right() < r.X {
		return false
	}
	if r.Bottom() < o.Y || o.Bottom() < r.Y {
		return false
	}
	return true
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Canon normalizes a rectangle with negative extents so that the origin is
// the true top-left corner. Drag gestures can produce such rectangles when
// the pointer moves up or left of the anchor.
func (r Rect) Canon() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Bounds returns the tight bounding box of the given rectangles. ok is false
// when the slice is empty.
func Bounds(rects []Rect) (bb Rect, ok bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	bb = rects[0]
	for _, r := range rects[1:] {
		bb = bb.Union(r)
	}
	return bb, true
}

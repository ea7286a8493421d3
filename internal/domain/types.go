/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain contains the core data model for break-screen studios:
// studios, layouts, and the widget records the designer edits. Types here are
// plain values with JSON tags; they carry no behavior beyond copying and are
// shared by the editor core, storage, export, and the sync backend.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"breakdesigner/internal/geometry"
)

// WidgetType discriminates the widget variants a layout can contain.
// Unknown values are preserved on load so newer studios keep their data when
// opened by an older build.
type WidgetType string

const (
	// TypeBox is a plain colored rectangle.
	TypeBox WidgetType = "box"
	// TypeText is a text block; its content may contain countdown
	// placeholders such as {countdown} or {end-time}.
	TypeText WidgetType = "text"
	// TypeQR is a square QR code referencing a pre-rendered asset.
	TypeQR WidgetType = "qr"
	// TypeImage is a bitmap placed on the canvas.
	TypeImage WidgetType = "image"
	// TypeGroup is a container that moves and scales its children together.
	TypeGroup WidgetType = "group"
)

// FontSpec describes how a text widget renders its content.
type FontSpec struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
}

// Properties is the variant payload of a widget record. Only the fields
// matching the widget's type are populated; everything else stays zero and is
// omitted from the manifest.
type Properties struct {
	// Box
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderRadius    float64 `json:"borderRadius,omitempty"`

	// Text
	Text     string   `json:"text,omitempty"`
	Template string   `json:"template,omitempty"`
	Font     FontSpec `json:"font,omitempty"`
	Align    string   `json:"align,omitempty"` // left, center, right

	// QR
	Payload string `json:"payload,omitempty"`

	// QR and image
	ImageURL string  `json:"imageUrl,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`

	// Group
	ChildIDs []string `json:"childIds,omitempty"`
}

// WidgetData is the serialized form of a single widget. The designer owns the
// id and zIndex invariants: ids are unique per canvas and zIndex values come
// from a monotonic counter so newly added widgets always land on top.
type WidgetData struct {
	ID         string         `json:"id"`
	Type       WidgetType     `json:"type"`
	Position   geometry.Point `json:"position"`
	Size       geometry.Size  `json:"size"`
	ZIndex     int            `json:"zIndex"`
	Properties Properties     `json:"properties,omitempty"`
}

// Rect assembles the widget's logical bounding box.
func (w WidgetData) Rect() geometry.Rect {
	return geometry.RectAt(w.Position, w.Size)
}

// Clone returns a deep copy of the record. ChildIDs is the only reference
// field; it is copied so clipboard contents never alias live widgets.
func (w WidgetData) Clone() WidgetData {
	out := w
	if len(w.Properties.ChildIDs) > 0 {
		out.Properties.ChildIDs = append([]string(nil), w.Properties.ChildIDs...)
	}
	return out
}

// Layout is one break screen: a fixed-size canvas with absolutely positioned
// widgets. BreakType links the layout to a break-type definition.
type Layout struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	BreakType  string        `json:"breakType,omitempty"`
	Canvas     geometry.Size `json:"canvas"`
	Background string        `json:"background,omitempty"`
	Widgets    []WidgetData  `json:"widgets"`
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := l
	out.Widgets = make([]WidgetData, len(l.Widgets))
	for i, w := range l.Widgets {
		out.Widgets[i] = w.Clone()
	}
	return out
}

// Metadata carries studio bookkeeping that has no editing semantics.
type Metadata struct {
	Workspace string `json:"workspace,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Studio is the manifest root stored in studio.json.
type Studio struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Layouts  []Layout `json:"layouts"`
}

// LayoutByID finds a layout by id. ok is false when the id is unknown.
func (s *Studio) LayoutByID(id string) (*Layout, bool) {
	for i := range s.Layouts {
		if s.Layouts[i].ID == id {
			return &s.Layouts[i], true
		}
	}
	return nil, false
}

// DefaultCanvas is the design surface size used for new layouts. Break
// screens target full-screen display; 1920x1080 is the reference resolution
// and other sizes scale at render time.
var DefaultCanvas = geometry.Size{Width: 1920, Height: 1080}

// Color is an 8-bit RGBA color used by the renderers.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// ParseColor parses the color strings stored in widget properties:
// "#rgb", "#rrggbb", or "#rrggbbaa". Anything else returns an error so the
// caller can fall back to a default.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := Color{A: 255}
	if len(hex) == 8 {
		c.A = uint8(v & 0xff)
		v >>= 8
	}
	c.B = uint8(v & 0xff)
	c.G = uint8(v >> 8 & 0xff)
	c.R = uint8(v >> 16 & 0xff)
	return c, nil
}

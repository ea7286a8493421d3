/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package widget implements the canvas scene model: the widget variants a
// break screen is composed of, the factory that hydrates them from stored
// records, and the render port they draw through. Widgets keep the logical
// record (domain.WidgetData) and its visual element in sync; everything above
// this package manipulates widgets only through the Widget interface.
package widget

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// Widget is the capability surface shared by all variants.
type Widget interface {
	// ID returns the canvas-unique widget id.
	ID() string
	// Kind returns the widget's type discriminator.
	Kind() domain.WidgetType
	// Data returns a deep copy of the widget's current record; mutating it
	// does not touch the widget.
	Data() domain.WidgetData
	// Rect returns the widget's bounding box. With rendered=true it reads
	// the surface element's frame, which may diverge from the logical record
	// while the surface animates; rendered=false returns the logical rect.
	Rect(rendered bool) geometry.Rect
	// SetPosition moves the widget's top-left corner.
	SetPosition(p geometry.Point)
	// SetSize resizes the widget. Variants may adjust the requested size
	// (QR widgets stay square).
	SetSize(s geometry.Size)
	// SetZ assigns the stacking order.
	SetZ(z int)
	// SetSelected toggles the selection chrome.
	SetSelected(on bool)
	// SetGrouped marks the widget as a group member: it stops taking part
	// in direct interaction and is visually flagged.
	SetGrouped(on bool)
	// Interactive reports whether the widget takes part in hit testing and
	// selection. Grouped members are not interactive.
	Interactive() bool
	// Destroy releases the widget's surface element.
	Destroy()
}

// Base implements Widget for the variants without extra behavior (box,
// image, and unknown types). The other variants embed it.
type Base struct {
	data        domain.WidgetData
	el          Element
	interactive bool
	selected    bool
}

func newBase(s Surface, data domain.WidgetData) *Base {
	b := &Base{data: data, interactive: true}
	b.el = s.NewElement(data)
	b.el.SetFrame(data.Rect())
	b.el.SetZ(data.ZIndex)
	return b
}

// NewBase creates a plain widget for the given record.
func NewBase(s Surface, data domain.WidgetData) *Base {
	return newBase(s, data)
}

func (b *Base) ID() string              { return b.data.ID }
func (b *Base) Kind() domain.WidgetType { return b.data.Type }

func (b *Base) Data() domain.WidgetData { return b.data.Clone() }

func (b *Base) Rect(rendered bool) geometry.Rect {
	if rendered {
		return b.el.Frame()
	}
	return b.data.Rect()
}

func (b *Base) SetPosition(p geometry.Point) {
	b.data.Position = p
	b.el.SetFrame(b.data.Rect())
}

func (b *Base) SetSize(s geometry.Size) {
	b.data.Size = s
	b.el.SetFrame(b.data.Rect())
}

func (b *Base) SetZ(z int) {
	b.data.ZIndex = z
	b.el.SetZ(z)
}

func (b *Base) SetSelected(on bool) {
	b.selected = on
	b.el.SetState(StateSelected, on)
}

// Selected reports whether the selection chrome is shown.
func (b *Base) Selected() bool { return b.selected }

func (b *Base) SetGrouped(on bool) {
	b.interactive = !on
	b.el.SetState(StateGrouped, on)
}

func (b *Base) Interactive() bool { return b.interactive }

func (b *Base) Destroy() { b.el.Destroy() }

// element exposes the surface element to sibling variants in this package.
func (b *Base) element() Element { return b.el }

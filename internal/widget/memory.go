/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package widget

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// MemorySurface is a headless Surface. It backs the editing core wherever no
// toolkit is attached: unit tests, the CLI's layout checks, and batch
// operations that hydrate a designer without a window.
type MemorySurface struct {
	elements []*MemoryElement
	overlays []*MemoryElement
}

// NewMemorySurface creates an empty headless surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// NewElement records a new element for the given widget record.
func (s *MemorySurface) NewElement(data domain.WidgetData) Element {
	el := &MemoryElement{
		WidgetID: data.ID,
		Data:     data.Clone(),
		Visible:  true,
		States:   map[State]bool{},
	}
	s.elements = append(s.elements, el)
	return el
}

// NewOverlay records a new overlay element.
func (s *MemorySurface) NewOverlay() Element {
	el := &MemoryElement{Visible: true, States: map[State]bool{}}
	s.overlays = append(s.overlays, el)
	return el
}

// Element returns the live element created for the given widget id, or nil.
func (s *MemorySurface) Element(widgetID string) *MemoryElement {
	for _, el := range s.elements {
		if el.WidgetID == widgetID && !el.Destroyed {
			return el
		}
	}
	return nil
}

// Live counts elements that have not been destroyed, overlays included.
func (s *MemorySurface) Live() int {
	n := 0
	for _, el := range s.elements {
		if !el.Destroyed {
			n++
		}
	}
	for _, el := range s.overlays {
		if !el.Destroyed {
			n++
		}
	}
	return n
}

// Overlays returns all overlay elements ever created, destroyed ones
// included, in creation order.
func (s *MemorySurface) Overlays() []*MemoryElement {
	return append([]*MemoryElement(nil), s.overlays...)
}

// MemoryElement records every mutation an Element receives.
type MemoryElement struct {
	WidgetID  string
	Data      domain.WidgetData
	Rect      geometry.Rect
	Z         int
	Visible   bool
	States    map[State]bool
	Destroyed bool

	// drift offsets the reported frame from the logical one, simulating a
	// surface whose rendering lags behind (animations, async layout).
	drift geometry.Point
}

func (el *MemoryElement) SetFrame(r geometry.Rect) { el.Rect = r }
func (el *MemoryElement) SetZ(z int)               { el.Z = z }
func (el *MemoryElement) SetVisible(v bool)        { el.Visible = v }
func (el *MemoryElement) SetState(s State, on bool) {
	el.States[s] = on
}

func (el *MemoryElement) Frame() geometry.Rect {
	return el.Rect.Translate(el.drift.X, el.drift.Y)
}

func (el *MemoryElement) Destroy() { el.Destroyed = true }

// Drift makes Frame report bounds offset from the logical frame until the
// next Drift call. Tests use it to tell rendered reads from logical reads.
func (el *MemoryElement) Drift(dx, dy float64) {
	el.drift = geometry.Pt(dx, dy)
}

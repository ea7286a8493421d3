/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package selection

import (
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/widget"
)

// StartBox begins a marquee drag at the given canvas point. The visual box
// is created as an overlay on the surface and tracks UpdateBox calls until
// EndBox or CancelBox.
func (m *Manager) StartBox(s widget.Surface, at geometry.Point) {
	if m.box != nil {
		m.box.Destroy()
	}
	m.box = s.NewOverlay()
	m.boxStart = at
	m.boxRect = geometry.RectAt(at, geometry.Sz(0, 0))
	m.box.SetFrame(m.boxRect)
	m.box.SetVisible(true)
}

// UpdateBox extends the marquee to the current pointer position. Drags in
// any direction are normalized so the box never has negative extents.
func (m *Manager) UpdateBox(cur geometry.Point) {
	if m.box == nil {
		return
	}
	r := geometry.Rect{
		X:      m.boxStart.X,
		Y:      m.boxStart.Y,
		Width:  cur.X - m.boxStart.X,
		Height: cur.Y - m.boxStart.Y,
	}.Canon()
	m.boxRect = r
	m.box.SetFrame(r)
}

// EndBox finishes the marquee drag, removes the visual box, and returns the
// final rect. ok is false when no marquee was active.
func (m *Manager) EndBox() (geometry.Rect, bool) {
	if m.box == nil {
		return geometry.Rect{}, false
	}
	m.box.Destroy()
	m.box = nil
	return m.boxRect, true
}

// CancelBox discards an in-flight marquee without selecting anything.
func (m *Manager) CancelBox() {
	if m.box == nil {
		return
	}
	m.box.Destroy()
	m.box = nil
}

// BoxActive reports whether a marquee drag is in flight.
func (m *Manager) BoxActive() bool { return m.box != nil }

// SelectInRect selects every target whose bounding box intersects r;
// touching the box edge counts. Without additive the selection is replaced
// first. The per-widget selection rule applies in target order, so targets
// already selected get promoted to reference one after another.
func (m *Manager) SelectInRect(r geometry.Rect, targets []Target, additive bool) {
	if !additive {
		m.Clear()
	}
	for _, t := range targets {
		if r.Intersects(t.Rect(false)) {
			m.Select(t.ID(), true)
		}
	}
}

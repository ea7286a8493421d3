/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"sort"

	"breakdesigner/internal/command"
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/selection"
	"breakdesigner/internal/widget"
)

// Handle identifies a corner resize handle on the selected widget.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

// HandleSize is the edge length of the square hit zone centered on each
// corner of a single-widget selection.
const HandleSize = 8

// minDragSize keeps a handle drag from collapsing a widget to nothing.
const minDragSize = 10

type dragKind int

const (
	dragNone dragKind = iota
	dragMove
	dragResize
	dragMarquee
)

// dragState is the in-flight pointer gesture. Widgets move live while the
// pointer does; only the final transition becomes a command at release, so
// one drag is one undo step.
type dragState struct {
	kind     dragKind
	start    geometry.Point
	handle   Handle
	target   string
	frames   map[string]geometry.Rect
	moved    bool
	additive bool
}

// Modifiers carries the keyboard state of a pointer event.
type Modifiers struct {
	// Additive extends the selection instead of replacing it.
	Additive bool
}

// Dragging reports whether a pointer gesture is in flight.
func (d *Designer) Dragging() bool { return d.drag.kind != dragNone }

// WidgetAt returns the topmost interactive widget whose bounds contain p.
// Group members are skipped; hitting one hits nothing (the group frame is
// what the user drags).
func (d *Designer) WidgetAt(p geometry.Point) (widget.Widget, bool) {
	var best widget.Widget
	bestZ := 0
	for _, w := range d.widgets {
		if !w.Interactive() || !w.Rect(false).Contains(p) {
			continue
		}
		z := w.Data().ZIndex
		if best == nil || z > bestZ || (z == bestZ && w.ID() > best.ID()) {
			best, bestZ = w, z
		}
	}
	return best, best != nil
}

// handleAt reports the resize handle under p. Handles only exist on a
// single-widget selection.
func (d *Designer) handleAt(p geometry.Point) (string, Handle, bool) {
	ids := d.sel.Selected()
	if len(ids) != 1 {
		return "", HandleNone, false
	}
	w, ok := d.widgets[ids[0]]
	if !ok {
		return "", HandleNone, false
	}
	r := w.Rect(false)
	corners := [...]struct {
		h  Handle
		at geometry.Point
	}{
		{HandleNW, r.Origin()},
		{HandleNE, geometry.Pt(r.Right(), r.Y)},
		{HandleSW, geometry.Pt(r.X, r.Bottom())},
		{HandleSE, geometry.Pt(r.Right(), r.Bottom())},
	}
	for _, c := range corners {
		zone := geometry.R(c.at.X-HandleSize/2, c.at.Y-HandleSize/2, HandleSize, HandleSize)
		if zone.Contains(p) {
			return w.ID(), c.h, true
		}
	}
	return "", HandleNone, false
}

// PointerDown starts a gesture: a resize when a corner handle is hit, a move
// when a widget is hit, a marquee on empty canvas. In preview mode pointer
// input is ignored.
func (d *Designer) PointerDown(p geometry.Point, mods Modifiers) {
	if d.preview {
		return
	}
	if d.drag.kind != dragNone {
		d.CancelDrag()
	}
	if id, h, ok := d.handleAt(p); ok {
		d.drag = dragState{
			kind:   dragResize,
			start:  p,
			handle: h,
			target: id,
			frames: map[string]geometry.Rect{id: d.widgets[id].Rect(false)},
		}
		return
	}
	if w, ok := d.WidgetAt(p); ok {
		id := w.ID()
		if mods.Additive {
			d.sel.Select(id, true)
		} else if !d.sel.IsSelected(id) {
			d.sel.Select(id, false)
		}
		frames := map[string]geometry.Rect{}
		for _, sid := range d.sel.Selected() {
			if sw, ok := d.widgets[sid]; ok {
				frames[sid] = sw.Rect(false)
			}
		}
		d.drag = dragState{kind: dragMove, start: p, frames: frames}
		return
	}
	d.sel.StartBox(d.surface, p)
	d.drag = dragState{kind: dragMarquee, start: p, additive: mods.Additive}
}

// PointerMove applies the gesture live: dragged widgets follow the pointer
// (the frame at gesture start plus the total delta, so there is no rounding
// drift), resize tracks the handle, the marquee box grows.
func (d *Designer) PointerMove(p geometry.Point) {
	switch d.drag.kind {
	case dragMove:
		delta := p.Sub(d.drag.start)
		if delta != (geometry.Point{}) {
			d.drag.moved = true
		}
		for _, id := range sortedFrameIDs(d.drag.frames) {
			if w, ok := d.widgets[id]; ok {
				w.SetPosition(d.drag.frames[id].Origin().Add(delta))
			}
		}
	case dragResize:
		from := d.drag.frames[d.drag.target]
		to := resizeRect(from, d.drag.handle, p)
		if to != from {
			d.drag.moved = true
		}
		if w, ok := d.widgets[d.drag.target]; ok {
			w.SetPosition(to.Origin())
			w.SetSize(to.Size())
		}
	case dragMarquee:
		d.sel.UpdateBox(p)
	}
}

// PointerUp finishes the gesture. Moves and resizes that actually changed
// something are recorded as one command; a marquee turns into a selection. A
// click without movement keeps the selection made at PointerDown.
func (d *Designer) PointerUp(p geometry.Point) {
	st := d.drag
	d.drag = dragState{}
	switch st.kind {
	case dragMove:
		if !st.moved {
			return
		}
		delta := p.Sub(st.start)
		entries := make([]command.MoveEntry, 0, len(st.frames))
		for _, id := range sortedFrameIDs(st.frames) {
			from := st.frames[id]
			entries = append(entries, command.MoveEntry{
				ID:   id,
				From: from.Origin(),
				To:   from.Origin().Add(delta),
			})
		}
		cmd, err := command.NewMove(d, entries)
		if err != nil {
			d.log.Warn("move drag dropped", "error", err)
			return
		}
		if err := d.run(cmd); err != nil {
			d.log.Error("move drag failed", "error", err)
		}
	case dragResize:
		if !st.moved {
			return
		}
		from := st.frames[st.target]
		to := resizeRect(from, st.handle, p)
		cmd, err := command.NewResize(d, []command.ResizeEntry{{ID: st.target, From: from, To: to}})
		if err != nil {
			d.log.Warn("resize drag dropped", "error", err)
			return
		}
		if err := d.run(cmd); err != nil {
			d.log.Error("resize drag failed", "error", err)
		}
	case dragMarquee:
		r, ok := d.sel.EndBox()
		if !ok {
			return
		}
		d.sel.SelectInRect(r, d.selectionTargets(), st.additive)
	}
}

// CancelDrag aborts the gesture (Escape): dragged widgets snap back to their
// gesture-start frames without a history entry, a marquee just disappears.
func (d *Designer) CancelDrag() {
	st := d.drag
	d.drag = dragState{}
	switch st.kind {
	case dragMove, dragResize:
		for _, id := range sortedFrameIDs(st.frames) {
			if w, ok := d.widgets[id]; ok {
				r := st.frames[id]
				w.SetPosition(r.Origin())
				w.SetSize(r.Size())
			}
		}
	case dragMarquee:
		d.sel.CancelBox()
	}
}

func (d *Designer) selectionTargets() []selection.Target {
	var out []selection.Target
	for _, w := range d.Widgets() {
		if w.Interactive() {
			out = append(out, w)
		}
	}
	return out
}

func sortedFrameIDs(frames map[string]geometry.Rect) []string {
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// resizeRect computes the dragged frame: the corner under the pointer
// follows it, the opposite corner stays anchored, and extents never drop
// below minDragSize.
func resizeRect(start geometry.Rect, h Handle, p geometry.Point) geometry.Rect {
	r := start
	switch h {
	case HandleSE:
		r.Width = p.X - r.X
		r.Height = p.Y - r.Y
	case HandleSW:
		r.Width = start.Right() - p.X
		r.X = p.X
		r.Height = p.Y - r.Y
	case HandleNE:
		r.Width = p.X - r.X
		r.Height = start.Bottom() - p.Y
		r.Y = p.Y
	case HandleNW:
		r.Width = start.Right() - p.X
		r.Height = start.Bottom() - p.Y
		r.X = p.X
		r.Y = p.Y
	}
	if r.Width < minDragSize {
		if h == HandleNW || h == HandleSW {
			r.X = start.Right() - minDragSize
		}
		r.Width = minDragSize
	}
	if r.Height < minDragSize {
		if h == HandleNW || h == HandleNE {
			r.Y = start.Bottom() - minDragSize
		}
		r.Height = minDragSize
	}
	return r
}

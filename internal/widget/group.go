/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

const (
	// GroupPadding is the margin a group frame keeps around its children.
	GroupPadding = 10
	// GroupMinSide is the smallest group frame; smaller bounding boxes are
	// expanded around their center so the group stays grabbable.
	GroupMinSide = 100
)

// GroupFrame computes the frame a group takes for the given child rects:
// the tight bounding box padded by GroupPadding per side with the origin
// clamped at the canvas edge, then expanded to GroupMinSide around its
// center and re-clamped.
func GroupFrame(children []geometry.Rect) geometry.Rect {
	bb, ok := geometry.Bounds(children)
	if !ok {
		return geometry.R(0, 0, GroupMinSide, GroupMinSide)
	}
	x := bb.X - GroupPadding
	if x < 0 {
		x = 0
	}
	y := bb.Y - GroupPadding
	if y < 0 {
		y = 0
	}
	w := (bb.Right() + GroupPadding) - x
	h := (bb.Bottom() + GroupPadding) - y
	if w < GroupMinSide {
		x -= (GroupMinSide - w) / 2
		w = GroupMinSide
	}
	if h < GroupMinSide {
		y -= (GroupMinSide - h) / 2
		h = GroupMinSide
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return geometry.R(x, y, w, h)
}

// GroupEventKind discriminates group notifications.
type GroupEventKind int

const (
	// GroupMoved fires after the group frame was repositioned.
	GroupMoved GroupEventKind = iota
	// GroupResized fires after the group frame changed size.
	GroupResized
)

// GroupEvent is broadcast to observers after the group frame changes, so the
// owner can move or scale the members in lockstep.
type GroupEvent struct {
	GroupID  string
	Kind     GroupEventKind
	ChildIDs []string

	// Moved
	Offset geometry.Point

	// Resized: children scale around Origin by ScaleX/ScaleY.
	Origin geometry.Point
	ScaleX float64
	ScaleY float64
}

// Group is a container widget. It stores only its member ids; the actual
// member widgets live on the canvas like any other widget, flagged as
// grouped so they stop interacting directly.
type Group struct {
	Base
	observers []func(GroupEvent)
	preview   bool
}

// NewGroup creates a group widget from its record. The record's frame is
// taken as-is; use GroupFrame (or the factory's NewGroupData) to compute it
// from member rects.
func NewGroup(s Surface, data domain.WidgetData) *Group {
	return &Group{Base: *newBase(s, data)}
}

// Notify registers an observer for group move/resize events.
func (g *Group) Notify(fn func(GroupEvent)) {
	g.observers = append(g.observers, fn)
}

// SetPosition moves the group and notifies observers with the offset so
// members can follow.
func (g *Group) SetPosition(p geometry.Point) {
	old := g.data.Position
	if p == old {
		return
	}
	g.Base.SetPosition(p)
	g.emit(GroupEvent{
		GroupID:  g.data.ID,
		Kind:     GroupMoved,
		ChildIDs: g.ChildIDs(),
		Offset:   p.Sub(old),
	})
}

// SetSize resizes the group and notifies observers with the scale factors
// relative to the previous size. Members scale around the group origin.
func (g *Group) SetSize(s geometry.Size) {
	old := g.data.Size
	if s == old {
		return
	}
	g.Base.SetSize(s)
	ev := GroupEvent{
		GroupID:  g.data.ID,
		Kind:     GroupResized,
		ChildIDs: g.ChildIDs(),
		Origin:   g.data.Position,
		ScaleX:   1,
		ScaleY:   1,
	}
	if old.Width != 0 {
		ev.ScaleX = s.Width / old.Width
	}
	if old.Height != 0 {
		ev.ScaleY = s.Height / old.Height
	}
	g.emit(ev)
}

func (g *Group) emit(ev GroupEvent) {
	for _, fn := range g.observers {
		fn(ev)
	}
}

// ChildIDs returns a copy of the member id list.
func (g *Group) ChildIDs() []string {
	return append([]string(nil), g.data.Properties.ChildIDs...)
}

// HasChild reports membership.
func (g *Group) HasChild(id string) bool {
	for _, c := range g.data.Properties.ChildIDs {
		if c == id {
			return true
		}
	}
	return false
}

// AddChild appends a member id. Adding an existing member is a no-op.
func (g *Group) AddChild(id string) {
	if g.HasChild(id) {
		return
	}
	g.data.Properties.ChildIDs = append(g.data.Properties.ChildIDs, id)
}

// RemoveChild removes a member id if present.
func (g *Group) RemoveChild(id string) {
	kids := g.data.Properties.ChildIDs
	for i, c := range kids {
		if c == id {
			g.data.Properties.ChildIDs = append(kids[:i:i], kids[i+1:]...)
			return
		}
	}
}

// SetPreview toggles preview mode for this group: the interaction affordance
// is hidden while a layout is previewed as a real break screen.
func (g *Group) SetPreview(on bool) {
	g.preview = on
	g.element().SetState(StatePreview, on)
}

// Preview reports whether preview mode is active.
func (g *Group) Preview() bool { return g.preview }

var (
	_ Widget = (*Base)(nil)
	_ Widget = (*QR)(nil)
	_ Widget = (*Text)(nil)
	_ Widget = (*Group)(nil)
)

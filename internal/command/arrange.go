/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"errors"
	"fmt"
	"sort"

	"breakdesigner/internal/geometry"
)

// AlignEdge selects which edge or axis widgets align to. The first selected
// widget is the reference: everyone else moves, the reference stays.
type AlignEdge int

const (
	AlignLeft AlignEdge = iota
	AlignRight
	AlignTop
	AlignBottom
	// AlignCenter lines up vertical center lines (x axis movement).
	AlignCenter
	// AlignMiddle lines up horizontal center lines (y axis movement).
	AlignMiddle
)

func (e AlignEdge) String() string {
	switch e {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	case AlignCenter:
		return "center"
	case AlignMiddle:
		return "middle"
	}
	return "unknown"
}

// Align moves widgets so the chosen edge matches the reference widget's.
type Align struct {
	canvas  Canvas
	entries []MoveEntry
	edge    AlignEdge
}

// NewAlign computes the target positions at construction time from the
// widgets' current rects. ids[0] is the reference widget.
func NewAlign(c Canvas, ids []string, edge AlignEdge) (*Align, error) {
	if len(ids) < 2 {
		return nil, errors.New("align: need at least 2 widgets")
	}
	ref, ok := c.WidgetData(ids[0])
	if !ok {
		return nil, fmt.Errorf("align: unknown reference widget %s", ids[0])
	}
	rr := ref.Rect()
	var entries []MoveEntry
	for _, id := range ids[1:] {
		data, ok := c.WidgetData(id)
		if !ok {
			return nil, fmt.Errorf("align: unknown widget %s", id)
		}
		r := data.Rect()
		to := r.Origin()
		switch edge {
		case AlignLeft:
			to.X = rr.X
		case AlignRight:
			to.X = rr.Right() - r.Width
		case AlignTop:
			to.Y = rr.Y
		case AlignBottom:
			to.Y = rr.Bottom() - r.Height
		case AlignCenter:
			to.X = rr.Center().X - r.Width/2
		case AlignMiddle:
			to.Y = rr.Center().Y - r.Height/2
		default:
			return nil, fmt.Errorf("align: unknown edge %d", edge)
		}
		entries = append(entries, MoveEntry{ID: id, From: r.Origin(), To: to})
	}
	return &Align{canvas: c, entries: entries, edge: edge}, nil
}

func (cmd *Align) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.To)
	}
	return nil
}

func (cmd *Align) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.From)
	}
	return nil
}

func (cmd *Align) Description() string {
	return fmt.Sprintf("Align %s", cmd.edge)
}

// Axis selects the direction of a distribute operation.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Distribute spaces three or more widgets with equal gaps. The outermost two
// (by coordinate) stay anchored; the widgets between them move.
type Distribute struct {
	canvas  Canvas
	entries []MoveEntry
	axis    Axis
}

// NewDistribute computes the spacing at construction time.
func NewDistribute(c Canvas, ids []string, axis Axis) (*Distribute, error) {
	if len(ids) < 3 {
		return nil, errors.New("distribute: need at least 3 widgets")
	}
	type item struct {
		id string
		r  geometry.Rect
	}
	items := make([]item, 0, len(ids))
	for _, id := range ids {
		data, ok := c.WidgetData(id)
		if !ok {
			return nil, fmt.Errorf("distribute: unknown widget %s", id)
		}
		items = append(items, item{id: id, r: data.Rect()})
	}
	coord := func(r geometry.Rect) float64 {
		if axis == Horizontal {
			return r.X
		}
		return r.Y
	}
	extent := func(r geometry.Rect) float64 {
		if axis == Horizontal {
			return r.Width
		}
		return r.Height
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := coord(items[i].r), coord(items[j].r)
		if a == b {
			return items[i].id < items[j].id
		}
		return a < b
	})

	first, last := items[0], items[len(items)-1]
	span := (coord(last.r) + extent(last.r)) - coord(first.r)
	var total float64
	for _, it := range items {
		total += extent(it.r)
	}
	gap := (span - total) / float64(len(items)-1)

	var entries []MoveEntry
	cursor := coord(first.r) + extent(first.r) + gap
	for _, it := range items[1 : len(items)-1] {
		to := it.r.Origin()
		if axis == Horizontal {
			to.X = cursor
		} else {
			to.Y = cursor
		}
		entries = append(entries, MoveEntry{ID: it.id, From: it.r.Origin(), To: to})
		cursor += extent(it.r) + gap
	}
	return &Distribute{canvas: c, entries: entries, axis: axis}, nil
}

func (cmd *Distribute) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.To)
	}
	return nil
}

func (cmd *Distribute) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.From)
	}
	return nil
}

func (cmd *Distribute) Description() string {
	if cmd.axis == Horizontal {
		return "Distribute horizontally"
	}
	return "Distribute vertically"
}

// SizeDimension selects which extents MakeSameSize copies.
type SizeDimension int

const (
	SameWidth SizeDimension = iota
	SameHeight
	SameBoth
)

// MakeSameSize copies the reference widget's extent onto the others.
type MakeSameSize struct {
	canvas  Canvas
	entries []ResizeEntry
	dim     SizeDimension
}

// NewMakeSameSize computes the target sizes from the reference widget
// (ids[0]) at construction time. Positions stay put.
func NewMakeSameSize(c Canvas, ids []string, dim SizeDimension) (*MakeSameSize, error) {
	if len(ids) < 2 {
		return nil, errors.New("same size: need at least 2 widgets")
	}
	ref, ok := c.WidgetData(ids[0])
	if !ok {
		return nil, fmt.Errorf("same size: unknown reference widget %s", ids[0])
	}
	var entries []ResizeEntry
	for _, id := range ids[1:] {
		data, ok := c.WidgetData(id)
		if !ok {
			return nil, fmt.Errorf("same size: unknown widget %s", id)
		}
		from := data.Rect()
		to := from
		if dim == SameWidth || dim == SameBoth {
			to.Width = ref.Size.Width
		}
		if dim == SameHeight || dim == SameBoth {
			to.Height = ref.Size.Height
		}
		entries = append(entries, ResizeEntry{ID: id, From: from, To: to})
	}
	return &MakeSameSize{canvas: c, entries: entries, dim: dim}, nil
}

func (cmd *MakeSameSize) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetSize(e.ID, e.To.Size())
	}
	return nil
}

func (cmd *MakeSameSize) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetSize(e.ID, e.From.Size())
	}
	return nil
}

func (cmd *MakeSameSize) Description() string {
	switch cmd.dim {
	case SameWidth:
		return "Make same width"
	case SameHeight:
		return "Make same height"
	}
	return "Make same size"
}

// zEntry is one widget's z transition.
type zEntry struct {
	id       string
	from, to int
}

// ChangeZOrder brings widgets to the front. New z values come from the
// canvas's monotonic counter so repeated fronting keeps a total order.
type ChangeZOrder struct {
	canvas  Canvas
	entries []zEntry
}

// NewBringToFront allocates fresh top z values for the given ids in order.
// The values are fixed at construction so redo reproduces the same stacking.
func NewBringToFront(c Canvas, ids []string) (*ChangeZOrder, error) {
	if len(ids) == 0 {
		return nil, errors.New("bring to front: no widgets")
	}
	var entries []zEntry
	for _, id := range ids {
		data, ok := c.WidgetData(id)
		if !ok {
			return nil, fmt.Errorf("bring to front: unknown widget %s", id)
		}
		entries = append(entries, zEntry{id: id, from: data.ZIndex, to: c.NextZ()})
	}
	return &ChangeZOrder{canvas: c, entries: entries}, nil
}

func (cmd *ChangeZOrder) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetZ(e.id, e.to)
	}
	return nil
}

func (cmd *ChangeZOrder) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetZ(e.id, e.from)
	}
	return nil
}

func (cmd *ChangeZOrder) Description() string { return "Bring to front" }

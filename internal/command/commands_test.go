/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package command

import (
	"fmt"
	"reflect"
	"testing"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// fakeCanvas is a minimal Canvas for exercising commands without a designer.
type fakeCanvas struct {
	data    map[string]domain.WidgetData
	grouped map[string]bool
	z       int
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{
		data:    map[string]domain.WidgetData{},
		grouped: map[string]bool{},
	}
}

func (f *fakeCanvas) add(d domain.WidgetData) {
	if d.ZIndex == 0 {
		d.ZIndex = f.NextZ()
	} else if d.ZIndex > f.z {
		f.z = d.ZIndex
	}
	f.data[d.ID] = d
}

func (f *fakeCanvas) SnapshotWidget(id string) (Snapshot, bool) {
	d, ok := f.data[id]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Data: d.Clone(), Grouped: f.grouped[id]}, true
}

func (f *fakeCanvas) RestoreWidget(s Snapshot) error {
	if _, exists := f.data[s.Data.ID]; exists {
		return fmt.Errorf("widget %s already present", s.Data.ID)
	}
	f.data[s.Data.ID] = s.Data.Clone()
	if s.Data.ZIndex > f.z {
		f.z = s.Data.ZIndex
	}
	f.grouped[s.Data.ID] = s.Grouped
	return nil
}

func (f *fakeCanvas) RemoveWidget(id string) bool {
	if _, ok := f.data[id]; !ok {
		return false
	}
	delete(f.data, id)
	delete(f.grouped, id)
	return true
}

func (f *fakeCanvas) WidgetData(id string) (domain.WidgetData, bool) {
	d, ok := f.data[id]
	return d.Clone(), ok
}

func (f *fakeCanvas) SetWidgetPosition(id string, p geometry.Point) {
	if d, ok := f.data[id]; ok {
		d.Position = p
		f.data[id] = d
	}
}

func (f *fakeCanvas) SetWidgetSize(id string, s geometry.Size) {
	if d, ok := f.data[id]; ok {
		d.Size = s
		f.data[id] = d
	}
}

func (f *fakeCanvas) SetWidgetZ(id string, z int) {
	if d, ok := f.data[id]; ok {
		d.ZIndex = z
		f.data[id] = d
		if z > f.z {
			f.z = z
		}
	}
}

func (f *fakeCanvas) SetWidgetGrouped(id string, on bool) {
	if _, ok := f.data[id]; ok {
		f.grouped[id] = on
	}
}

func (f *fakeCanvas) NextZ() int {
	f.z += 10
	return f.z
}

func box(id string, x, y, w, h float64, z int) domain.WidgetData {
	return domain.WidgetData{
		ID: id, Type: domain.TypeBox,
		Position: geometry.Pt(x, y), Size: geometry.Sz(w, h), ZIndex: z,
	}
}

func TestCreateWidgetExecuteUndo(t *testing.T) {
	c := newFakeCanvas()
	cmd, err := NewCreateWidget(c, Snapshot{Data: box("widget-1-a", 10, 10, 50, 50, 10)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, ok := c.data["widget-1-a"]; !ok {
		t.Fatalf("widget not created")
	}
	if got := cmd.SelectionAfterExecute(); !reflect.DeepEqual(got, []string{"widget-1-a"}) {
		t.Fatalf("selection after execute = %v", got)
	}
	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok := c.data["widget-1-a"]; ok {
		t.Fatalf("widget survived undo")
	}
	if err := cmd.Undo(); err == nil {
		t.Fatalf("undo of a missing widget must fail")
	}
}

func TestDeleteWidgetsExpandsGroups(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("widget-1-a", 0, 0, 20, 20, 10))
	c.add(box("widget-1-b", 40, 0, 20, 20, 20))
	g := domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup,
		Position: geometry.Pt(0, 0), Size: geometry.Sz(100, 100), ZIndex: 40,
		Properties: domain.Properties{ChildIDs: []string{"widget-1-a", "widget-1-b"}}}
	c.add(g)
	c.SetWidgetGrouped("widget-1-a", true)
	c.SetWidgetGrouped("widget-1-b", true)

	cmd, err := NewDeleteWidgets(c, []string{"widget-1-g"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(c.data) != 0 {
		t.Fatalf("group members survived delete: %v", c.data)
	}

	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if len(c.data) != 3 {
		t.Fatalf("restore count = %d", len(c.data))
	}
	if !c.grouped["widget-1-a"] || !c.grouped["widget-1-b"] {
		t.Fatalf("children lost grouped state on restore")
	}
	if c.grouped["widget-1-g"] {
		t.Fatalf("group shell restored as grouped")
	}
	if got := cmd.SelectionAfterUndo(); !reflect.DeepEqual(got, []string{"widget-1-g"}) {
		t.Fatalf("selection after undo = %v", got)
	}
}

func TestMoveAndResizeRoundTrip(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("widget-1-a", 10, 10, 50, 50, 10))

	mv, err := NewMove(c, []MoveEntry{{ID: "widget-1-a", From: geometry.Pt(10, 10), To: geometry.Pt(100, 80)}})
	if err != nil {
		t.Fatalf("new move: %v", err)
	}
	if err := mv.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.data["widget-1-a"].Position != geometry.Pt(100, 80) {
		t.Fatalf("move did not apply: %v", c.data["widget-1-a"].Position)
	}
	if err := mv.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if c.data["widget-1-a"].Position != geometry.Pt(10, 10) {
		t.Fatalf("move undo did not restore: %v", c.data["widget-1-a"].Position)
	}

	rz, err := NewResize(c, []ResizeEntry{{
		ID:   "widget-1-a",
		From: geometry.R(10, 10, 50, 50),
		To:   geometry.R(5, 5, 80, 90),
	}})
	if err != nil {
		t.Fatalf("new resize: %v", err)
	}
	if err := rz.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := c.data["widget-1-a"].Rect(); got != geometry.R(5, 5, 80, 90) {
		t.Fatalf("resize did not apply: %v", got)
	}
	if err := rz.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := c.data["widget-1-a"].Rect(); got != geometry.R(10, 10, 50, 50) {
		t.Fatalf("resize undo did not restore: %v", got)
	}

	if _, err := NewMove(c, nil); err == nil {
		t.Fatalf("empty move must fail construction")
	}
	if _, err := NewMove(c, []MoveEntry{{ID: "ghost"}}); err == nil {
		t.Fatalf("move of unknown widget must fail construction")
	}
}

func TestAlignEdges(t *testing.T) {
	ref := box("ref", 100, 100, 40, 20, 10)
	other := box("w", 10, 10, 20, 10, 20)

	cases := []struct {
		edge AlignEdge
		want geometry.Point
	}{
		{AlignLeft, geometry.Pt(100, 10)},
		{AlignRight, geometry.Pt(120, 10)},
		{AlignTop, geometry.Pt(10, 100)},
		{AlignBottom, geometry.Pt(10, 110)},
		{AlignCenter, geometry.Pt(110, 10)},
		{AlignMiddle, geometry.Pt(10, 105)},
	}
	for _, tc := range cases {
		c := newFakeCanvas()
		c.add(ref)
		c.add(other)
		cmd, err := NewAlign(c, []string{"ref", "w"}, tc.edge)
		if err != nil {
			t.Fatalf("%v: new: %v", tc.edge, err)
		}
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: execute: %v", tc.edge, err)
		}
		if got := c.data["w"].Position; got != tc.want {
			t.Errorf("align %v: position = %v, want %v", tc.edge, got, tc.want)
		}
		if got := c.data["ref"].Position; got != geometry.Pt(100, 100) {
			t.Errorf("align %v: reference moved to %v", tc.edge, got)
		}
		if err := cmd.Undo(); err != nil {
			t.Fatalf("%v: undo: %v", tc.edge, err)
		}
		if got := c.data["w"].Position; got != geometry.Pt(10, 10) {
			t.Errorf("align %v: undo restored %v", tc.edge, got)
		}
	}

	c := newFakeCanvas()
	c.add(ref)
	if _, err := NewAlign(c, []string{"ref"}, AlignLeft); err == nil {
		t.Fatalf("align with one widget must fail construction")
	}
}

func TestDistributeAnchorsEndsAndEqualizesGaps(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("a", 0, 0, 10, 10, 10))
	c.add(box("b", 100, 0, 30, 10, 20))
	c.add(box("m", 15, 0, 20, 10, 30))

	cmd, err := NewDistribute(c, []string{"a", "b", "m"}, Horizontal)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	// span = 130, extents sum = 60, gap = (130-60)/2 = 35.
	if got := c.data["m"].Position.X; got != 45 {
		t.Fatalf("middle widget at x=%v, want 45", got)
	}
	if c.data["a"].Position.X != 0 || c.data["b"].Position.X != 100 {
		t.Fatalf("anchors moved: a=%v b=%v", c.data["a"].Position.X, c.data["b"].Position.X)
	}

	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := c.data["m"].Position.X; got != 15 {
		t.Fatalf("undo restored x=%v, want 15", got)
	}

	if _, err := NewDistribute(c, []string{"a", "b"}, Horizontal); err == nil {
		t.Fatalf("distribute with two widgets must fail construction")
	}
}

func TestMakeSameSize(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("ref", 0, 0, 200, 80, 10))
	c.add(box("w", 300, 300, 40, 40, 20))

	cmd, err := NewMakeSameSize(c, []string{"ref", "w"}, SameBoth)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := c.data["w"].Size; got != geometry.Sz(200, 80) {
		t.Fatalf("size = %v", got)
	}
	if got := c.data["w"].Position; got != geometry.Pt(300, 300) {
		t.Fatalf("same-size moved the widget to %v", got)
	}
	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := c.data["w"].Size; got != geometry.Sz(40, 40) {
		t.Fatalf("undo size = %v", got)
	}

	widthOnly, err := NewMakeSameSize(c, []string{"ref", "w"}, SameWidth)
	if err != nil {
		t.Fatalf("new width-only: %v", err)
	}
	if err := widthOnly.Execute(); err != nil {
		t.Fatalf("execute width-only: %v", err)
	}
	if got := c.data["w"].Size; got != geometry.Sz(200, 40) {
		t.Fatalf("width-only size = %v", got)
	}
}

func TestGroupWidgetsLifecycle(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("widget-1-a", 100, 100, 200, 80, 10))
	c.add(box("widget-1-b", 150, 220, 100, 60, 20))

	cmd, err := NewGroupWidgets(c, []string{"widget-1-a", "widget-1-b"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	gid := cmd.GroupID()
	g, ok := c.data[gid]
	if !ok {
		t.Fatalf("group not created")
	}
	if got, want := g.Rect(), geometry.R(90, 90, 220, 200); got != want {
		t.Fatalf("group frame = %v, want %v", got, want)
	}
	// z = max(child z) + 2*10.
	if g.ZIndex != 40 {
		t.Fatalf("group z = %d, want 40", g.ZIndex)
	}
	if !c.grouped["widget-1-a"] || !c.grouped["widget-1-b"] {
		t.Fatalf("members not marked grouped")
	}
	if got := cmd.SelectionAfterExecute(); !reflect.DeepEqual(got, []string{gid}) {
		t.Fatalf("selection after execute = %v", got)
	}

	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok := c.data[gid]; ok {
		t.Fatalf("group survived undo")
	}
	if c.grouped["widget-1-a"] || c.grouped["widget-1-b"] {
		t.Fatalf("members still grouped after undo")
	}
	if got := c.data["widget-1-a"].Rect(); got != geometry.R(100, 100, 200, 80) {
		t.Fatalf("member rect after undo = %v", got)
	}
	if c.data["widget-1-a"].ZIndex != 10 || c.data["widget-1-b"].ZIndex != 20 {
		t.Fatalf("member z after undo = %d/%d", c.data["widget-1-a"].ZIndex, c.data["widget-1-b"].ZIndex)
	}

	// Redo re-creates the identical group id.
	if err := cmd.Execute(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if _, ok := c.data[gid]; !ok {
		t.Fatalf("redo minted a different group id")
	}
}

func TestUngroupWidgetsLifecycle(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("widget-1-a", 0, 0, 20, 20, 10))
	c.add(box("widget-1-b", 40, 0, 20, 20, 20))
	g := domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup,
		Position: geometry.Pt(0, 0), Size: geometry.Sz(100, 100), ZIndex: 40,
		Properties: domain.Properties{ChildIDs: []string{"widget-1-a", "widget-1-b"}}}
	c.add(g)
	c.SetWidgetGrouped("widget-1-a", true)
	c.SetWidgetGrouped("widget-1-b", true)

	cmd, err := NewUngroupWidgets(c, []string{"widget-1-g"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, ok := c.data["widget-1-g"]; ok {
		t.Fatalf("group shell survived ungroup")
	}
	if c.grouped["widget-1-a"] || c.grouped["widget-1-b"] {
		t.Fatalf("children still grouped")
	}
	if got := cmd.SelectionAfterExecute(); !reflect.DeepEqual(got, []string{"widget-1-a", "widget-1-b"}) {
		t.Fatalf("selection after execute = %v", got)
	}

	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	restored, ok := c.data["widget-1-g"]
	if !ok {
		t.Fatalf("group not restored")
	}
	if !reflect.DeepEqual(restored.Properties.ChildIDs, []string{"widget-1-a", "widget-1-b"}) {
		t.Fatalf("restored childIds = %v", restored.Properties.ChildIDs)
	}
	if restored.Rect() != g.Rect() || restored.ZIndex != 40 {
		t.Fatalf("restored group frame/z mismatch: %+v", restored)
	}
	if !c.grouped["widget-1-a"] || !c.grouped["widget-1-b"] {
		t.Fatalf("children not re-grouped by undo")
	}

	if _, err := NewUngroupWidgets(c, []string{"widget-1-a"}); err == nil {
		t.Fatalf("ungroup of a non-group must fail construction")
	}
}

func TestBringToFrontUsesMonotonicCounter(t *testing.T) {
	c := newFakeCanvas()
	c.add(box("a", 0, 0, 10, 10, 10))
	c.add(box("b", 0, 0, 10, 10, 20))
	c.add(box("c", 0, 0, 10, 10, 30))

	cmd, err := NewBringToFront(c, []string{"a", "b"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	za, zb, zc := c.data["a"].ZIndex, c.data["b"].ZIndex, c.data["c"].ZIndex
	if za <= zc || zb <= za {
		t.Fatalf("z order after front: a=%d b=%d c=%d", za, zb, zc)
	}
	if err := cmd.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if c.data["a"].ZIndex != 10 || c.data["b"].ZIndex != 20 {
		t.Fatalf("undo z = %d/%d", c.data["a"].ZIndex, c.data["b"].ZIndex)
	}

	// Redo applies the same values it applied the first time.
	if err := cmd.Execute(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if c.data["a"].ZIndex != za || c.data["b"].ZIndex != zb {
		t.Fatalf("redo z = %d/%d, want %d/%d", c.data["a"].ZIndex, c.data["b"].ZIndex, za, zb)
	}
}

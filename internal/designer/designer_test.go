/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package designer

import (
	"reflect"
	"testing"

	"breakdesigner/internal/command"
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/widget"
)

func newTestDesigner() (*Designer, *widget.MemorySurface) {
	s := widget.NewMemorySurface()
	return New(Config{Surface: s}), s
}

func boxData(id string, x, y, w, h float64) domain.WidgetData {
	return domain.WidgetData{
		ID:       id,
		Type:     domain.TypeBox,
		Position: geometry.Pt(x, y),
		Size:     geometry.Sz(w, h),
	}
}

func rectOf(t *testing.T, d *Designer, id string) geometry.Rect {
	t.Helper()
	w, ok := d.Widget(id)
	if !ok {
		t.Fatalf("widget %s not on canvas", id)
	}
	return w.Rect(false)
}

func TestAddWidgetAssignsTopZ(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	d.AddWidget(boxData("b", 0, 0, 10, 10))

	da, _ := d.WidgetData("a")
	db, _ := d.WidgetData("b")
	if da.ZIndex != 10 || db.ZIndex != 20 {
		t.Fatalf("z = %d, %d, want 10, 20", da.ZIndex, db.ZIndex)
	}
	// an externally supplied zIndex is replaced, new widgets land on top
	d.AddWidget(domain.WidgetData{ID: "c", Type: domain.TypeBox, ZIndex: 5})
	dc, _ := d.WidgetData("c")
	if dc.ZIndex != 30 {
		t.Fatalf("c z = %d, want 30", dc.ZIndex)
	}
}

func TestAddWidgetMintsID(t *testing.T) {
	d, _ := newTestDesigner()
	id := d.AddWidget(boxData("", 0, 0, 10, 10))
	if id == "" {
		t.Fatalf("expected a minted id")
	}
	if _, ok := d.Widget(id); !ok {
		t.Fatalf("minted widget not on canvas")
	}
}

func TestAddWidgetCollisionIsNoOp(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	if id := d.AddWidget(boxData("a", 50, 50, 10, 10)); id != "" {
		t.Fatalf("collision returned id %q, want empty", id)
	}
	if d.Len() != 1 {
		t.Fatalf("widget count = %d, want 1", d.Len())
	}
	if r := rectOf(t, d, "a"); r.Origin() != geometry.Pt(0, 0) {
		t.Fatalf("existing widget moved to %v", r.Origin())
	}
}

func TestAddWidgetWithIDKeepsZAndAdvancesCounter(t *testing.T) {
	d, _ := newTestDesigner()
	data := boxData("a", 0, 0, 10, 10)
	data.ZIndex = 70
	if !d.AddWidgetWithID(data) {
		t.Fatalf("AddWidgetWithID rejected fresh id")
	}
	da, _ := d.WidgetData("a")
	if da.ZIndex != 70 {
		t.Fatalf("z = %d, want 70", da.ZIndex)
	}
	d.AddWidget(boxData("b", 0, 0, 10, 10))
	db, _ := d.WidgetData("b")
	if db.ZIndex != 80 {
		t.Fatalf("next z = %d, want 80", db.ZIndex)
	}
}

func TestCreateWidgetUndoRedo(t *testing.T) {
	d, s := newTestDesigner()
	id, err := d.CreateWidget(boxData("", 10, 10, 30, 30))
	if err != nil {
		t.Fatalf("CreateWidget: %v", err)
	}
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{id}) {
		t.Fatalf("selection after create = %v, want [%s]", got, id)
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("widget count after undo = %d, want 0", d.Len())
	}
	if got := d.Selection().Len(); got != 0 {
		t.Fatalf("selection after undo has %d entries", got)
	}

	if err := d.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if _, ok := d.Widget(id); !ok {
		t.Fatalf("redo did not restore widget %s", id)
	}
	if el := s.Element(id); el == nil {
		t.Fatalf("no live element for %s after redo", id)
	}
}

func TestDeleteSelectionUndoRestores(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 10, 20, 30, 40))
	d.AddWidget(boxData("b", 50, 60, 70, 80))
	before, _ := d.WidgetData("a")

	d.Selection().Select("a", false)
	if err := d.DeleteSelection(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := d.Widget("a"); ok {
		t.Fatalf("a still on canvas after delete")
	}
	if d.Selection().IsSelected("a") {
		t.Fatalf("a still selected after delete")
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	after, ok := d.WidgetData("a")
	if !ok {
		t.Fatalf("a not restored")
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("restored record differs:\n  before %+v\n  after  %+v", before, after)
	}
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("selection after undo = %v, want [a]", got)
	}
}

func TestGroupSelectionAndUndoRestoresMembers(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	beforeA, _ := d.WidgetData("a")
	beforeB, _ := d.WidgetData("b")

	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	sel := d.Selection().Selected()
	if len(sel) != 1 {
		t.Fatalf("selection after group = %v, want the group", sel)
	}
	gid := sel[0]
	g, ok := d.Widget(gid)
	if !ok || g.Kind() != domain.TypeGroup {
		t.Fatalf("no group widget selected")
	}
	if got, want := g.Rect(false), geometry.R(90, 90, 200, 130); got != want {
		t.Fatalf("group frame = %v, want %v", got, want)
	}
	if got := g.Data().ZIndex; got != 40 {
		t.Fatalf("group z = %d, want 40", got)
	}
	for _, id := range []string{"a", "b"} {
		w, _ := d.Widget(id)
		if w.Interactive() {
			t.Fatalf("member %s still interactive", id)
		}
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, ok := d.Widget(gid); ok {
		t.Fatalf("group still on canvas after undo")
	}
	afterA, _ := d.WidgetData("a")
	afterB, _ := d.WidgetData("b")
	if !reflect.DeepEqual(beforeA, afterA) || !reflect.DeepEqual(beforeB, afterB) {
		t.Fatalf("member records not restored exactly")
	}
	for _, id := range []string{"a", "b"} {
		w, _ := d.Widget(id)
		if !w.Interactive() {
			t.Fatalf("member %s not interactive after undo", id)
		}
	}
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("selection after undo = %v, want members", got)
	}

	if err := d.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if _, ok := d.Widget(gid); !ok {
		t.Fatalf("redo minted a different group id")
	}
}

func TestUngroupUndoRestoresGroup(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]

	if err := d.UngroupSelection(); err != nil {
		t.Fatalf("ungroup: %v", err)
	}
	if _, ok := d.Widget(gid); ok {
		t.Fatalf("group still on canvas after ungroup")
	}
	for _, id := range []string{"a", "b"} {
		w, _ := d.Widget(id)
		if !w.Interactive() {
			t.Fatalf("member %s not interactive after ungroup", id)
		}
	}
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("selection after ungroup = %v, want members", got)
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	g, ok := d.Widget(gid)
	if !ok || g.Kind() != domain.TypeGroup {
		t.Fatalf("undo did not restore the group under its id")
	}
	for _, id := range []string{"a", "b"} {
		w, _ := d.Widget(id)
		if w.Interactive() {
			t.Fatalf("member %s interactive after undo", id)
		}
	}
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{gid}) {
		t.Fatalf("selection after undo = %v, want [%s]", got, gid)
	}
}

func TestGroupMoveCascadesToMembers(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]

	g, _ := d.Widget(gid)
	g.SetPosition(geometry.Pt(190, 140)) // frame was at (90,90): offset (100,50)

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(200, 150) {
		t.Fatalf("a origin = %v, want (200,150)", got)
	}
	if got := rectOf(t, d, "b").Origin(); got != geometry.Pt(300, 200) {
		t.Fatalf("b origin = %v, want (300,200)", got)
	}
}

func TestGroupResizeScalesMembers(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]

	g, _ := d.Widget(gid) // frame (90,90,200,130)
	g.SetSize(geometry.Sz(400, 260))

	if got, want := rectOf(t, d, "a"), geometry.R(110, 110, 100, 100); got != want {
		t.Fatalf("a = %v, want %v", got, want)
	}
	if got, want := rectOf(t, d, "b"), geometry.R(310, 210, 160, 120); got != want {
		t.Fatalf("b = %v, want %v", got, want)
	}
}

func TestNestedGroupMoveCascades(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	d.AddWidget(boxData("b", 20, 0, 10, 10))
	d.AddWidget(boxData("c", 100, 100, 10, 10))

	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("inner group: %v", err)
	}
	inner := d.Selection().Selected()[0]

	d.Selection().Select("c", true)
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("outer group: %v", err)
	}
	outer := d.Selection().Selected()[0]

	g, _ := d.Widget(outer)
	from := g.Rect(false).Origin()
	g.SetPosition(from.Add(geometry.Pt(5, 7)))

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(5, 7) {
		t.Fatalf("a origin = %v, want (5,7)", got)
	}
	if got := rectOf(t, d, "b").Origin(); got != geometry.Pt(25, 7) {
		t.Fatalf("b origin = %v, want (25,7)", got)
	}
	if got := rectOf(t, d, "c").Origin(); got != geometry.Pt(105, 107) {
		t.Fatalf("c origin = %v, want (105,107)", got)
	}
	if _, ok := d.Widget(inner); !ok {
		t.Fatalf("inner group vanished")
	}
}

func TestDeleteGroupRemovesMembersAndUndoRestores(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]

	if err := d.DeleteSelection(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("widget count after delete = %d, want 0", d.Len())
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("widget count after undo = %d, want 3", d.Len())
	}
	for _, id := range []string{"a", "b"} {
		w, _ := d.Widget(id)
		if w.Interactive() {
			t.Fatalf("member %s interactive after undo, want grouped", id)
		}
	}
	if g, ok := d.Widget(gid); !ok || !g.Interactive() {
		t.Fatalf("group not restored interactive")
	}
}

func TestSelectAllSkipsGroupMembers(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	d.AddWidget(boxData("b", 20, 0, 10, 10))
	d.AddWidget(boxData("c", 100, 100, 10, 10))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]

	d.SelectAll()
	got := d.Selection().Selected()
	want := []string{"c", gid} // ascending z: c (30), group (40)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("select all = %v, want %v", got, want)
	}
}

func TestAlignAndDistributeThroughSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("ref", 100, 100, 40, 20))
	d.AddWidget(boxData("w", 10, 10, 20, 10))
	d.Selection().SetSelection([]string{"ref", "w"})
	if err := d.AlignSelection(command.AlignLeft); err != nil {
		t.Fatalf("align: %v", err)
	}
	if got := rectOf(t, d, "w").Origin(); got != geometry.Pt(100, 10) {
		t.Fatalf("aligned origin = %v, want (100,10)", got)
	}
	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := rectOf(t, d, "w").Origin(); got != geometry.Pt(10, 10) {
		t.Fatalf("origin after undo = %v, want (10,10)", got)
	}

	d2, _ := newTestDesigner()
	d2.AddWidget(boxData("a", 0, 0, 10, 10))
	d2.AddWidget(boxData("m", 15, 0, 20, 10))
	d2.AddWidget(boxData("b", 100, 0, 30, 10))
	d2.SelectAll()
	if err := d2.DistributeSelection(command.Horizontal); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if got := rectOf(t, d2, "m").Origin(); got != geometry.Pt(45, 0) {
		t.Fatalf("distributed origin = %v, want (45,0)", got)
	}
}

func TestSameSizeAndBringToFrontThroughSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("ref", 0, 0, 40, 20))
	d.AddWidget(boxData("w", 100, 100, 7, 9))
	d.Selection().SetSelection([]string{"ref", "w"})
	if err := d.MakeSelectionSameSize(command.SameBoth); err != nil {
		t.Fatalf("same size: %v", err)
	}
	if got := rectOf(t, d, "w").Size(); got != geometry.Sz(40, 20) {
		t.Fatalf("size = %v, want (40,20)", got)
	}

	d.AddWidget(boxData("top", 0, 0, 5, 5)) // z 30
	d.Selection().Select("ref", false)
	if err := d.BringSelectionToFront(); err != nil {
		t.Fatalf("bring to front: %v", err)
	}
	refData, _ := d.WidgetData("ref")
	topData, _ := d.WidgetData("top")
	if refData.ZIndex <= topData.ZIndex {
		t.Fatalf("ref z = %d not above top z = %d", refData.ZIndex, topData.ZIndex)
	}
}

func TestInvalidOperationsAreQuietNoOps(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	d.AddWidget(boxData("b", 20, 20, 10, 10))

	d.Selection().Select("a", false)
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group single: %v", err)
	}
	if err := d.AlignSelection(command.AlignLeft); err != nil {
		t.Fatalf("align single: %v", err)
	}
	d.Selection().Select("b", true)
	if err := d.DistributeSelection(command.Horizontal); err != nil {
		t.Fatalf("distribute pair: %v", err)
	}
	if err := d.UngroupSelection(); err != nil {
		t.Fatalf("ungroup non-group: %v", err)
	}
	d.Selection().Clear()
	if err := d.DeleteSelection(); err != nil {
		t.Fatalf("delete empty: %v", err)
	}
	if err := d.Undo(); err != nil {
		t.Fatalf("undo empty history: %v", err)
	}
	if err := d.Redo(); err != nil {
		t.Fatalf("redo empty history: %v", err)
	}
	if d.History().CanUndo() {
		t.Fatalf("no-ops left history entries")
	}
	if d.Len() != 2 {
		t.Fatalf("widget count = %d, want 2", d.Len())
	}
}

func TestSelectionChromeFollowsSelection(t *testing.T) {
	d, s := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 10, 10))
	d.AddWidget(boxData("b", 20, 20, 10, 10))

	d.Selection().Select("a", false)
	if !s.Element("a").States[widget.StateSelected] {
		t.Fatalf("a missing selection state")
	}
	d.Selection().Select("b", false)
	if s.Element("a").States[widget.StateSelected] {
		t.Fatalf("a still carries selection state")
	}
	if !s.Element("b").States[widget.StateSelected] {
		t.Fatalf("b missing selection state")
	}
}

func TestSetPreviewTogglesGroupsAndBlocksPointer(t *testing.T) {
	d, s := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 60, 0, 50, 50))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	gid := d.Selection().Selected()[0]
	d.Selection().Clear()

	d.SetPreview(true)
	if !s.Element(gid).States[widget.StatePreview] {
		t.Fatalf("group missing preview state")
	}
	d.PointerDown(geometry.Pt(10, 10), Modifiers{})
	if d.Dragging() || d.Selection().Len() != 0 {
		t.Fatalf("pointer input not blocked in preview mode")
	}

	d.SetPreview(false)
	if s.Element(gid).States[widget.StatePreview] {
		t.Fatalf("preview state not cleared")
	}
}

func TestEveryCommandUndoneRestoresInitialState(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 0, 50, 50))
	before := d.ExportLayout()

	if _, err := d.CreateWidget(boxData("", 200, 200, 40, 40)); err != nil {
		t.Fatalf("create: %v", err)
	}
	d.PointerDown(geometry.Pt(220, 220), Modifiers{})
	d.PointerMove(geometry.Pt(250, 260))
	d.PointerUp(geometry.Pt(250, 260))
	d.SelectAll()
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}
	if err := d.UngroupSelection(); err != nil {
		t.Fatalf("ungroup: %v", err)
	}

	if got := d.History().Depth(); got != 4 {
		t.Fatalf("history depth = %d, want 4", got)
	}
	for i := 0; i < 4; i++ {
		if err := d.Undo(); err != nil {
			t.Fatalf("undo %d: %v", i+1, err)
		}
	}

	after := d.ExportLayout()
	if !reflect.DeepEqual(before.Widgets, after.Widgets) {
		t.Fatalf("canvas differs from initial state:\n  before %+v\n  after  %+v",
			before.Widgets, after.Widgets)
	}
}

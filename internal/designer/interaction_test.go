/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package designer

import (
	"reflect"
	"testing"

	"breakdesigner/internal/geometry"
)

func TestClickSelectsTopmostWidget(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))
	d.AddWidget(boxData("b", 50, 50, 100, 100))

	d.PointerDown(geometry.Pt(60, 60), Modifiers{})
	d.PointerUp(geometry.Pt(60, 60))
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("overlap click selected %v, want [b]", got)
	}

	d.PointerDown(geometry.Pt(10, 10), Modifiers{})
	d.PointerUp(geometry.Pt(10, 10))
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("click selected %v, want [a]", got)
	}
}

func TestClickOnEmptyCanvasClearsSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))
	d.Selection().Select("a", false)

	d.PointerDown(geometry.Pt(300, 300), Modifiers{})
	d.PointerUp(geometry.Pt(300, 300))
	if got := d.Selection().Len(); got != 0 {
		t.Fatalf("selection has %d entries after empty click, want 0", got)
	}
}

func TestDragMoveIsOneCommand(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))

	d.PointerDown(geometry.Pt(10, 10), Modifiers{})
	d.PointerMove(geometry.Pt(25, 15))
	d.PointerMove(geometry.Pt(40, 30))
	d.PointerUp(geometry.Pt(40, 30))

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(30, 20) {
		t.Fatalf("origin after drag = %v, want (30,20)", got)
	}
	if got := d.History().Depth(); got != 1 {
		t.Fatalf("history depth = %d, want 1", got)
	}
	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(0, 0) {
		t.Fatalf("origin after undo = %v, want (0,0)", got)
	}
	if err := d.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(30, 20) {
		t.Fatalf("origin after redo = %v, want (30,20)", got)
	}
}

func TestDragMovesWholeSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 100, 50, 50))
	d.Selection().SetSelection([]string{"a", "b"})

	d.PointerDown(geometry.Pt(25, 25), Modifiers{})
	d.PointerMove(geometry.Pt(30, 30))
	d.PointerUp(geometry.Pt(30, 30))

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(5, 5) {
		t.Fatalf("a origin = %v, want (5,5)", got)
	}
	if got := rectOf(t, d, "b").Origin(); got != geometry.Pt(105, 105) {
		t.Fatalf("b origin = %v, want (105,105)", got)
	}
	if got := d.History().Depth(); got != 1 {
		t.Fatalf("history depth = %d, want 1", got)
	}
}

func TestClickWithoutMovementKeepsSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 100, 50, 50))
	d.Selection().SetSelection([]string{"a", "b"})

	d.PointerDown(geometry.Pt(25, 25), Modifiers{})
	d.PointerUp(geometry.Pt(25, 25))
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("selection = %v, want [a b]", got)
	}
	if d.History().CanUndo() {
		t.Fatalf("stationary click recorded a command")
	}
}

func TestAdditiveClickExtendsAndPromotes(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 100, 50, 50))

	d.PointerDown(geometry.Pt(10, 10), Modifiers{})
	d.PointerUp(geometry.Pt(10, 10))
	d.PointerDown(geometry.Pt(110, 110), Modifiers{Additive: true})
	d.PointerUp(geometry.Pt(110, 110))
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("selection = %v, want [a b]", got)
	}

	// additive re-click promotes to reference
	d.PointerDown(geometry.Pt(110, 110), Modifiers{Additive: true})
	d.PointerUp(geometry.Pt(110, 110))
	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("selection = %v, want [b a]", got)
	}
}

func TestResizeHandleDrag(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))
	d.Selection().Select("a", false)

	d.PointerDown(geometry.Pt(100, 100), Modifiers{}) // south-east handle
	if !d.Dragging() {
		t.Fatalf("handle hit did not start a drag")
	}
	d.PointerMove(geometry.Pt(150, 130))
	d.PointerUp(geometry.Pt(150, 130))

	if got, want := rectOf(t, d, "a"), geometry.R(0, 0, 150, 130); got != want {
		t.Fatalf("frame = %v, want %v", got, want)
	}
	if got := d.History().Depth(); got != 1 {
		t.Fatalf("history depth = %d, want 1", got)
	}
	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got, want := rectOf(t, d, "a"), geometry.R(0, 0, 100, 100); got != want {
		t.Fatalf("frame after undo = %v, want %v", got, want)
	}
}

func TestResizeNorthWestMovesOrigin(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))
	d.Selection().Select("a", false)

	d.PointerDown(geometry.Pt(0, 0), Modifiers{})
	d.PointerMove(geometry.Pt(20, 30))
	d.PointerUp(geometry.Pt(20, 30))

	if got, want := rectOf(t, d, "a"), geometry.R(20, 30, 80, 70); got != want {
		t.Fatalf("frame = %v, want %v", got, want)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))
	d.Selection().Select("a", false)

	d.PointerDown(geometry.Pt(100, 100), Modifiers{})
	d.PointerMove(geometry.Pt(-50, -50))
	d.PointerUp(geometry.Pt(-50, -50))

	if got, want := rectOf(t, d, "a"), geometry.R(0, 0, minDragSize, minDragSize); got != want {
		t.Fatalf("frame = %v, want %v", got, want)
	}
}

func TestMarqueeSelectsByIntersection(t *testing.T) {
	d, s := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 0, 50, 50))
	d.AddWidget(boxData("c", 300, 300, 10, 10))

	d.PointerDown(geometry.Pt(170, 70), Modifiers{})
	d.PointerMove(geometry.Pt(40, 40)) // up-left drag, box normalizes
	d.PointerUp(geometry.Pt(40, 40))

	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("marquee selected %v, want [a b]", got)
	}
	overlays := s.Overlays()
	if len(overlays) != 1 || !overlays[0].Destroyed {
		t.Fatalf("marquee overlay not cleaned up: %+v", overlays)
	}
	if got, want := overlays[0].Rect, geometry.R(40, 40, 130, 30); got != want {
		t.Fatalf("marquee box = %v, want %v", got, want)
	}
}

func TestMarqueeAdditiveKeepsExistingSelection(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.AddWidget(boxData("b", 100, 0, 50, 50))
	d.AddWidget(boxData("c", 300, 300, 10, 10))
	d.Selection().Select("c", false)

	d.PointerDown(geometry.Pt(170, 70), Modifiers{Additive: true})
	d.PointerMove(geometry.Pt(40, 40))
	d.PointerUp(geometry.Pt(40, 40))

	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("selection = %v, want [c a b]", got)
	}
}

func TestCancelDragRestoresFrames(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 100, 100))

	d.PointerDown(geometry.Pt(10, 10), Modifiers{})
	d.PointerMove(geometry.Pt(60, 60))
	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(50, 50) {
		t.Fatalf("origin during drag = %v, want (50,50)", got)
	}
	d.CancelDrag()

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(0, 0) {
		t.Fatalf("origin after cancel = %v, want (0,0)", got)
	}
	if d.Dragging() {
		t.Fatalf("drag still active after cancel")
	}
	if d.History().CanUndo() {
		t.Fatalf("cancelled drag recorded a command")
	}
}

func TestCancelMarqueeLeavesSelectionAlone(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 0, 0, 50, 50))
	d.Selection().Select("a", false)

	d.PointerDown(geometry.Pt(200, 200), Modifiers{})
	d.PointerMove(geometry.Pt(250, 250))
	d.CancelDrag()

	if got := d.Selection().Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("selection = %v, want [a]", got)
	}
	if d.Selection().BoxActive() {
		t.Fatalf("marquee still active after cancel")
	}
}

func TestGroupDragMovesMembersAndUndoRestores(t *testing.T) {
	d, _ := newTestDesigner()
	d.AddWidget(boxData("a", 100, 100, 50, 50))
	d.AddWidget(boxData("b", 200, 150, 80, 60))
	d.Selection().SetSelection([]string{"a", "b"})
	if err := d.GroupSelection(); err != nil {
		t.Fatalf("group: %v", err)
	}

	// group frame is (90,90,200,130); start away from the corner handles
	d.PointerDown(geometry.Pt(150, 150), Modifiers{})
	d.PointerMove(geometry.Pt(160, 170))
	d.PointerUp(geometry.Pt(160, 170))

	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(110, 120) {
		t.Fatalf("a origin = %v, want (110,120)", got)
	}
	if got := rectOf(t, d, "b").Origin(); got != geometry.Pt(210, 170) {
		t.Fatalf("b origin = %v, want (210,170)", got)
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := rectOf(t, d, "a").Origin(); got != geometry.Pt(100, 100) {
		t.Fatalf("a origin after undo = %v, want (100,100)", got)
	}
	if got := rectOf(t, d, "b").Origin(); got != geometry.Pt(200, 150) {
		t.Fatalf("b origin after undo = %v, want (200,150)", got)
	}
}

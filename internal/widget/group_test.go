/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package widget

import (
	"testing"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

func TestGroupFrame(t *testing.T) {
	cases := []struct {
		name     string
		children []geometry.Rect
		want     geometry.Rect
	}{
		{
			"padding around children",
			[]geometry.Rect{geometry.R(100, 100, 200, 80), geometry.R(150, 220, 100, 60)},
			geometry.R(90, 90, 220, 200),
		},
		{
			"origin clamped at canvas edge",
			[]geometry.Rect{geometry.R(5, 2, 300, 300)},
			geometry.R(0, 0, 315, 312),
		},
		{
			"minimum size expands around center",
			[]geometry.Rect{geometry.R(500, 500, 20, 20)},
			geometry.R(460, 460, 100, 100),
		},
		{
			"minimum size clamped at origin",
			[]geometry.Rect{geometry.R(2, 2, 20, 20)},
			geometry.R(0, 0, 100, 100),
		},
		{
			"no children",
			nil,
			geometry.R(0, 0, 100, 100),
		},
	}
	for _, tc := range cases {
		if got := GroupFrame(tc.children); got != tc.want {
			t.Errorf("%s: GroupFrame = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewGroupDataAppliesFrameRule(t *testing.T) {
	data := NewGroupData([]string{"a", "b"},
		[]geometry.Rect{geometry.R(100, 100, 200, 80), geometry.R(150, 220, 100, 60)})
	if data.Type != domain.TypeGroup {
		t.Fatalf("type = %s", data.Type)
	}
	if got, want := data.Rect(), geometry.R(90, 90, 220, 200); got != want {
		t.Fatalf("frame = %v, want %v", got, want)
	}
	if len(data.Properties.ChildIDs) != 2 {
		t.Fatalf("childIds = %v", data.Properties.ChildIDs)
	}
}

func TestGroupMoveNotifiesOffset(t *testing.T) {
	s := NewMemorySurface()
	g := NewGroup(s, domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup,
		Position: geometry.Pt(100, 100), Size: geometry.Sz(200, 150),
		Properties: domain.Properties{ChildIDs: []string{"a", "b"}}})

	var events []GroupEvent
	g.Notify(func(ev GroupEvent) { events = append(events, ev) })

	g.SetPosition(geometry.Pt(130, 90))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != GroupMoved || ev.GroupID != "widget-1-g" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Offset != geometry.Pt(30, -10) {
		t.Fatalf("offset = %v", ev.Offset)
	}
	if len(ev.ChildIDs) != 2 || ev.ChildIDs[0] != "a" {
		t.Fatalf("childIds = %v", ev.ChildIDs)
	}

	// No event for a no-op move.
	g.SetPosition(geometry.Pt(130, 90))
	if len(events) != 1 {
		t.Fatalf("no-op move emitted an event")
	}
}

func TestGroupResizeNotifiesScale(t *testing.T) {
	s := NewMemorySurface()
	g := NewGroup(s, domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup,
		Position: geometry.Pt(50, 60), Size: geometry.Sz(200, 100)})

	var got []GroupEvent
	g.Notify(func(ev GroupEvent) { got = append(got, ev) })

	g.SetSize(geometry.Sz(400, 150))
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	ev := got[0]
	if ev.Kind != GroupResized {
		t.Fatalf("kind = %v", ev.Kind)
	}
	if ev.ScaleX != 2 || ev.ScaleY != 1.5 {
		t.Fatalf("scale = %v x %v", ev.ScaleX, ev.ScaleY)
	}
	if ev.Origin != geometry.Pt(50, 60) {
		t.Fatalf("origin = %v", ev.Origin)
	}
}

func TestGroupChildManagement(t *testing.T) {
	s := NewMemorySurface()
	g := NewGroup(s, domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup,
		Properties: domain.Properties{ChildIDs: []string{"a"}}})

	g.AddChild("b")
	g.AddChild("b") // duplicate must not double up
	if kids := g.ChildIDs(); len(kids) != 2 || kids[1] != "b" {
		t.Fatalf("childIds = %v", kids)
	}
	if !g.HasChild("a") || g.HasChild("zz") {
		t.Fatalf("HasChild misbehaved")
	}
	g.RemoveChild("a")
	if kids := g.ChildIDs(); len(kids) != 1 || kids[0] != "b" {
		t.Fatalf("childIds after remove = %v", kids)
	}

	// The returned slice is a copy.
	kids := g.ChildIDs()
	kids[0] = "mutated"
	if g.ChildIDs()[0] != "b" {
		t.Fatalf("ChildIDs returned an aliased slice")
	}
}

func TestGroupPreviewTogglesElementState(t *testing.T) {
	s := NewMemorySurface()
	g := NewGroup(s, domain.WidgetData{ID: "widget-1-g", Type: domain.TypeGroup})
	g.SetPreview(true)
	el := s.Element("widget-1-g")
	if !el.States[StatePreview] || !g.Preview() {
		t.Fatalf("preview state not set")
	}
	g.SetPreview(false)
	if el.States[StatePreview] {
		t.Fatalf("preview state not cleared")
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package selection

import (
	"reflect"
	"testing"

	"breakdesigner/internal/geometry"
	"breakdesigner/internal/widget"
)

func TestSelectReplaceAndAdditive(t *testing.T) {
	m := NewManager(nil)

	m.Select("a", false)
	m.Select("b", true)
	m.Select("c", true)
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("selection = %v", got)
	}
	if ref, _ := m.Reference(); ref != "a" {
		t.Fatalf("reference = %q", ref)
	}

	// Additive re-select promotes to reference.
	m.Select("c", true)
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("after promote = %v", got)
	}
	if ref, _ := m.Reference(); ref != "c" {
		t.Fatalf("reference after promote = %q", ref)
	}

	// Non-additive replaces everything.
	m.Select("b", false)
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("after replace = %v", got)
	}
}

func TestDeselectToggleClear(t *testing.T) {
	m := NewManager(nil)
	m.SetSelection([]string{"a", "b", "c"})

	m.Deselect("b")
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("after deselect = %v", got)
	}
	m.Toggle("c")
	m.Toggle("d")
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("after toggles = %v", got)
	}
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("clear left %d ids", m.Len())
	}
	if _, ok := m.Reference(); ok {
		t.Fatalf("reference on empty selection")
	}
}

func TestListenersGetOrderedListAndCanBeRemoved(t *testing.T) {
	m := NewManager(nil)

	var calls [][]string
	remove := m.AddListener(func(ids []string) { calls = append(calls, ids) })
	other := 0
	m.AddListener(func([]string) { other++ })

	m.Select("a", false)
	m.Select("b", true)
	if len(calls) != 2 || !reflect.DeepEqual(calls[1], []string{"a", "b"}) {
		t.Fatalf("listener calls = %v", calls)
	}

	// The delivered slice must be a copy.
	calls[1][0] = "mutated"
	if got := m.Selected(); got[0] != "a" {
		t.Fatalf("listener slice aliased internal state: %v", got)
	}

	remove()
	m.Clear()
	if len(calls) != 2 {
		t.Fatalf("removed listener still called")
	}
	if other != 3 {
		t.Fatalf("remaining listener calls = %d, want 3", other)
	}
}

func TestDropDoesNotNotifyWhenNothingRemoved(t *testing.T) {
	m := NewManager(nil)
	m.SetSelection([]string{"a", "b"})
	calls := 0
	m.AddListener(func([]string) { calls++ })

	m.Drop("zz")
	if calls != 0 {
		t.Fatalf("drop of unknown id notified listeners")
	}
	m.Drop("a")
	if calls != 1 {
		t.Fatalf("drop of selected id did not notify")
	}
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("after drop = %v", got)
	}
}

type target struct {
	id string
	r  geometry.Rect
}

func (t target) ID() string              { return t.id }
func (t target) Rect(bool) geometry.Rect { return t.r }

func mkTargets(ts ...target) []Target {
	out := make([]Target, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func TestMarqueeBoxLifecycle(t *testing.T) {
	m := NewManager(nil)
	s := widget.NewMemorySurface()

	m.StartBox(s, geometry.Pt(100, 100))
	if !m.BoxActive() {
		t.Fatalf("box not active after start")
	}
	m.UpdateBox(geometry.Pt(40, 160)) // drag up-left: must normalize
	overlays := s.Overlays()
	if len(overlays) != 1 {
		t.Fatalf("expected 1 overlay, got %d", len(overlays))
	}
	if got, want := overlays[0].Rect, geometry.R(40, 100, 60, 60); got != want {
		t.Fatalf("overlay frame = %v, want %v", got, want)
	}

	r, ok := m.EndBox()
	if !ok {
		t.Fatalf("EndBox reported no active box")
	}
	if want := geometry.R(40, 100, 60, 60); r != want {
		t.Fatalf("final rect = %v, want %v", r, want)
	}
	if !overlays[0].Destroyed {
		t.Fatalf("overlay not destroyed on end")
	}
	if _, ok := m.EndBox(); ok {
		t.Fatalf("EndBox twice reported an active box")
	}
}

func TestSelectInRectExactMembership(t *testing.T) {
	m := NewManager(nil)
	targets := mkTargets(
		target{"inside", geometry.R(10, 10, 20, 20)},
		target{"overlap", geometry.R(45, 45, 20, 20)},
		target{"touch-edge", geometry.R(50, 10, 20, 20)}, // left edge == box right
		target{"outside", geometry.R(100, 100, 10, 10)},
		target{"above", geometry.R(10, -40, 10, 10)},
	)

	m.SelectInRect(geometry.R(0, 0, 50, 50), targets, false)
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"inside", "overlap", "touch-edge"}) {
		t.Fatalf("selection = %v", got)
	}
}

func TestSelectInRectAdditiveKeepsAndPromotes(t *testing.T) {
	m := NewManager(nil)
	m.SetSelection([]string{"keep", "inside"})
	targets := mkTargets(
		target{"inside", geometry.R(0, 0, 5, 5)},
		target{"new", geometry.R(10, 10, 5, 5)},
	)

	m.SelectInRect(geometry.R(0, 0, 20, 20), targets, true)
	// "inside" was already selected: the per-widget rule promotes it.
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"inside", "keep", "new"}) {
		t.Fatalf("selection = %v", got)
	}

	m2 := NewManager(nil)
	m2.SetSelection([]string{"keep"})
	m2.SelectInRect(geometry.R(0, 0, 20, 20), targets, false)
	if got := m2.Selected(); !reflect.DeepEqual(got, []string{"inside", "new"}) {
		t.Fatalf("non-additive selection = %v", got)
	}
}

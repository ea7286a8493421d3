/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package command

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// Snapshot captures everything needed to bring a widget back: its full
// record and whether it was a grouped (non-interactive) member at the time.
type Snapshot struct {
	Data    domain.WidgetData
	Grouped bool
}

// Canvas is the widget collection commands operate on. The designer
// implements it; commands never hold widget objects directly, only ids and
// snapshots, so replaying them after intermediate edits stays well-defined.
type Canvas interface {
	// SnapshotWidget captures the current state of a widget.
	SnapshotWidget(id string) (Snapshot, bool)
	// RestoreWidget re-creates a widget from a snapshot, keeping its id and
	// zIndex. It fails when the id is already present.
	RestoreWidget(s Snapshot) error
	// RemoveWidget deletes a widget and destroys its element. It reports
	// whether the id existed.
	RemoveWidget(id string) bool
	// WidgetData returns a copy of the widget's current record.
	WidgetData(id string) (domain.WidgetData, bool)

	SetWidgetPosition(id string, p geometry.Point)
	SetWidgetSize(id string, s geometry.Size)
	SetWidgetZ(id string, z int)
	// SetWidgetGrouped toggles group membership: grouped widgets are
	// non-interactive and visually flagged.
	SetWidgetGrouped(id string, on bool)

	// NextZ allocates the next value of the monotonic z counter.
	NextZ() int
}

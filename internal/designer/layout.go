/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package designer

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// LoadLayout replaces the canvas content with the layout's widgets. History,
// selection, and any in-flight gesture are discarded; the z counter resumes
// above the highest loaded zIndex. Duplicate widget ids and group members
// that do not exist are tolerated with a warning so a hand-edited manifest
// still opens.
func (d *Designer) LoadLayout(l domain.Layout) {
	for id, w := range d.widgets {
		w.Destroy()
		delete(d.widgets, id)
	}
	d.drag = dragState{}
	d.sel.Clear()
	d.history.Clear()
	d.zCounter = 0

	cp := l.Clone()
	d.layout = domain.Layout{
		ID:         cp.ID,
		Name:       cp.Name,
		BreakType:  cp.BreakType,
		Canvas:     cp.Canvas,
		Background: cp.Background,
	}
	if d.layout.Canvas == (geometry.Size{}) {
		d.layout.Canvas = domain.DefaultCanvas
	}

	for _, data := range cp.Widgets {
		d.AddWidgetWithID(data)
	}
	// Group membership is marked after every record exists, so member order
	// in the manifest does not matter.
	for _, w := range d.Widgets() {
		if w.Kind() != domain.TypeGroup {
			continue
		}
		for _, cid := range w.Data().Properties.ChildIDs {
			cw, ok := d.widgets[cid]
			if !ok {
				d.log.Warn("layout group references missing member",
					"layout", cp.ID, "group", w.ID(), "member", cid)
				continue
			}
			cw.SetGrouped(true)
		}
	}
	d.log.Info("layout loaded", "layout", cp.ID, "widgets", len(d.widgets))
}

// ExportLayout snapshots the canvas back into a layout record. Widgets are
// emitted in ascending z order, so loading the export reproduces the
// stacking; metadata from the loaded layout rides along untouched.
func (d *Designer) ExportLayout() domain.Layout {
	out := d.layout
	out.Widgets = make([]domain.WidgetData, 0, len(d.widgets))
	for _, w := range d.Widgets() {
		out.Widgets = append(out.Widgets, w.Data())
	}
	return out
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"fmt"

	"breakdesigner/internal/command"
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// The designer is the canvas the command package operates on.
var _ command.Canvas = (*Designer)(nil)

// SnapshotWidget implements command.Canvas.
func (d *Designer) SnapshotWidget(id string) (command.Snapshot, bool) {
	w, ok := d.widgets[id]
	if !ok {
		return command.Snapshot{}, false
	}
	return command.Snapshot{Data: w.Data(), Grouped: !w.Interactive()}, true
}

// RestoreWidget implements command.Canvas. It rebuilds a widget from a
// snapshot, keeping id and zIndex, and re-marks group members non-interactive.
func (d *Designer) RestoreWidget(s command.Snapshot) error {
	if s.Data.ID == "" {
		return fmt.Errorf("restore widget: record without id")
	}
	if _, exists := d.widgets[s.Data.ID]; exists {
		return fmt.Errorf("restore widget: id %s already on canvas", s.Data.ID)
	}
	d.bumpZ(s.Data.ZIndex)
	d.insert(s.Data, s.Grouped)
	return nil
}

// WidgetData implements command.Canvas.
func (d *Designer) WidgetData(id string) (domain.WidgetData, bool) {
	w, ok := d.widgets[id]
	if !ok {
		return domain.WidgetData{}, false
	}
	return w.Data(), true
}

// SetWidgetPosition implements command.Canvas.
func (d *Designer) SetWidgetPosition(id string, p geometry.Point) {
	w, ok := d.widgets[id]
	if !ok {
		d.log.Warn("set position on missing widget", "id", id)
		return
	}
	w.SetPosition(p)
}

// SetWidgetSize implements command.Canvas.
func (d *Designer) SetWidgetSize(id string, s geometry.Size) {
	w, ok := d.widgets[id]
	if !ok {
		d.log.Warn("set size on missing widget", "id", id)
		return
	}
	w.SetSize(s)
}

// SetWidgetZ implements command.Canvas.
func (d *Designer) SetWidgetZ(id string, z int) {
	w, ok := d.widgets[id]
	if !ok {
		d.log.Warn("set z on missing widget", "id", id)
		return
	}
	w.SetZ(z)
}

// SetWidgetGrouped implements command.Canvas.
func (d *Designer) SetWidgetGrouped(id string, grouped bool) {
	w, ok := d.widgets[id]
	if !ok {
		d.log.Warn("set grouped on missing widget", "id", id)
		return
	}
	if grouped {
		d.sel.Drop(id)
	}
	w.SetGrouped(grouped)
}

// NextZ implements command.Canvas: a monotonic counter in steps of 10, so
// whatever is added or raised last sits on top.
func (d *Designer) NextZ() int {
	d.zCounter += zStep
	return d.zCounter
}

// bumpZ keeps the counter above externally supplied zIndex values, so the
// next NextZ still lands on top after hydration or snapshot restore.
func (d *Designer) bumpZ(z int) {
	if z > d.zCounter {
		d.zCounter = z
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"sort"

	"breakdesigner/internal/command"
	"breakdesigner/internal/domain"
)

// collectTransfer gathers the selected widget records plus every group
// member, recursively and deduplicated, ordered by ascending z so members
// precede their group shell.
func (d *Designer) collectTransfer() []domain.WidgetData {
	seen := map[string]bool{}
	var out []domain.WidgetData
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		w, ok := d.widgets[id]
		if !ok {
			d.log.Warn("selection references missing widget", "id", id)
			return
		}
		seen[id] = true
		data := w.Data()
		out = append(out, data)
		for _, cid := range data.Properties.ChildIDs {
			walk(cid)
		}
	}
	for _, id := range d.sel.Selected() {
		walk(id)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ZIndex == out[j].ZIndex {
			return out[i].ID < out[j].ID
		}
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// CopySelection puts the selection on the clipboard, group members included,
// and returns the number of records copied. An empty selection warns and
// leaves the clipboard untouched.
func (d *Designer) CopySelection() int {
	items := d.collectTransfer()
	if len(items) == 0 {
		d.log.Warn("copy requested with empty selection")
		return 0
	}
	d.clip.Copy(items)
	return len(items)
}

// CutSelection copies the selection to the clipboard and deletes it from
// the canvas as one undoable command.
func (d *Designer) CutSelection() error {
	ids := d.sel.Selected()
	if len(ids) == 0 {
		d.log.Warn("cut requested with empty selection")
		return nil
	}
	items := d.collectTransfer()
	cmd, err := command.NewDeleteWidgets(d, ids)
	if err != nil {
		d.log.Warn("cut not possible", "error", err)
		return nil
	}
	if err := d.run(cmd); err != nil {
		return err
	}
	d.clip.Cut(items)
	return nil
}

// PasteFromClipboard inserts clipboard clones as undoable creates and
// selects the top-level pasted widgets. Clones arrive with fresh ids, the
// paste offset already applied, and group childIds rewritten; the designer
// re-bases their z on top of the canvas, keeping relative stacking order.
// An empty clipboard warns and no-ops.
func (d *Designer) PasteFromClipboard() ([]string, error) {
	items := d.clip.Paste()
	if len(items) == 0 {
		d.log.Warn("paste requested with empty clipboard")
		return nil, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ZIndex < items[j].ZIndex
	})
	grouped := map[string]bool{}
	for _, it := range items {
		if it.Type != domain.TypeGroup {
			continue
		}
		for _, cid := range it.Properties.ChildIDs {
			grouped[cid] = true
		}
	}
	var top []string
	for _, it := range items {
		it.ZIndex = d.NextZ()
		cmd, err := command.NewCreateWidget(d, command.Snapshot{Data: it, Grouped: grouped[it.ID]})
		if err != nil {
			return top, err
		}
		if err := d.history.Execute(cmd); err != nil {
			d.log.Error("paste failed", "id", it.ID, "error", err)
			return top, err
		}
		if !grouped[it.ID] {
			top = append(top, it.ID)
		}
	}
	d.sel.SetSelection(top)
	d.log.Debug("pasted", "widgets", len(items))
	return top, nil
}

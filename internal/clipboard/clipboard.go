/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package clipboard holds copied widget records and produces paste-ready
// copies with fresh ids. Each designer receives its own Clipboard instance;
// sharing one across designers is a caller decision, not a global.
package clipboard

import (
	"log/slog"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	applog "breakdesigner/internal/log"
)

// PasteOffset is the per-generation offset applied to pasted widgets so
// consecutive pastes fan out diagonally instead of stacking.
const PasteOffset = 20

// Clipboard stores deep clones of copied records. Contents survive pastes;
// only the next Copy or Cut replaces them.
type Clipboard struct {
	items  []domain.WidgetData
	pastes int
	log    *slog.Logger
}

// New creates an empty clipboard. A nil logger falls back to the
// application logger.
func New(logger *slog.Logger) *Clipboard {
	if logger == nil {
		logger = applog.L()
	}
	return &Clipboard{log: logger.With("component", "clipboard")}
}

// Copy replaces the clipboard contents with deep clones of items and resets
// the paste generation.
func (c *Clipboard) Copy(items []domain.WidgetData) {
	c.items = make([]domain.WidgetData, len(items))
	for i, it := range items {
		c.items[i] = it.Clone()
	}
	c.pastes = 0
	c.log.Debug("copied widgets", "count", len(items))
}

// Cut stores items exactly like Copy. Removing the originals from the
// canvas is the caller's responsibility (the designer wraps it in a delete
// command so it is undoable).
func (c *Clipboard) Cut(items []domain.WidgetData) {
	c.Copy(items)
}

// Paste returns paste-ready copies of the clipboard contents: every record
// gets a freshly minted id, positions shift by PasteOffset per paste
// generation, and group childIds are rewritten through a remap table built
// in the same pass so pasted groups reference their pasted children. Child
// ids without a remap entry (the child was not copied) are dropped instead
// of left dangling. An empty clipboard pastes an empty slice.
func (c *Clipboard) Paste() []domain.WidgetData {
	if len(c.items) == 0 {
		return nil
	}
	c.pastes++
	offset := float64(c.pastes * PasteOffset)

	remap := make(map[string]string, len(c.items))
	for _, it := range c.items {
		remap[it.ID] = domain.NewWidgetID()
	}

	out := make([]domain.WidgetData, len(c.items))
	for i, it := range c.items {
		cp := it.Clone()
		cp.ID = remap[it.ID]
		cp.Position = cp.Position.Add(geometry.Pt(offset, offset))
		if len(cp.Properties.ChildIDs) > 0 {
			kids := cp.Properties.ChildIDs[:0]
			for _, child := range cp.Properties.ChildIDs {
				mapped, ok := remap[child]
				if !ok {
					c.log.Warn("dropping unmapped group child on paste", "child", child)
					continue
				}
				kids = append(kids, mapped)
			}
			cp.Properties.ChildIDs = kids
		}
		out[i] = cp
	}
	c.log.Debug("pasted widgets", "count", len(out), "generation", c.pastes)
	return out
}

// Len returns the number of stored records.
func (c *Clipboard) Len() int { return len(c.items) }

// Empty reports whether the clipboard has no contents.
func (c *Clipboard) Empty() bool { return len(c.items) == 0 }

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection tracks which widgets are selected and in what order. The
// order matters: the first selected widget is the reference widget that
// align and same-size operations measure against.
package selection

import (
	"log/slog"

	"breakdesigner/internal/geometry"
	applog "breakdesigner/internal/log"
	"breakdesigner/internal/widget"
)

// Target is the minimal widget view marquee selection needs. widget.Widget
// satisfies it.
type Target interface {
	ID() string
	Rect(rendered bool) geometry.Rect
}

// Manager holds the ordered selection and notifies listeners on every
// change with the full ordered id list.
type Manager struct {
	ids       []string
	listeners map[int]func(ids []string)
	nextKey   int
	log       *slog.Logger

	box      widget.Element
	boxStart geometry.Point
	boxRect  geometry.Rect
}

// NewManager creates an empty selection. A nil logger falls back to the
// application logger.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = applog.L()
	}
	return &Manager{
		listeners: map[int]func(ids []string){},
		log:       logger.With("component", "selection"),
	}
}

// AddListener registers a callback invoked after every selection change with
// a copy of the ordered id list. The returned function removes the listener.
func (m *Manager) AddListener(fn func(ids []string)) (remove func()) {
	key := m.nextKey
	m.nextKey++
	m.listeners[key] = fn
	return func() { delete(m.listeners, key) }
}

func (m *Manager) notify() {
	ids := m.Selected()
	for _, fn := range m.listeners {
		fn(ids)
	}
}

// Selected returns a copy of the ordered selection. Index 0 is the
// reference widget.
func (m *Manager) Selected() []string {
	return append([]string(nil), m.ids...)
}

// Len returns the selection size.
func (m *Manager) Len() int { return len(m.ids) }

// IsSelected reports whether id is in the selection.
func (m *Manager) IsSelected(id string) bool {
	return m.indexOf(id) >= 0
}

// Reference returns the reference widget id. ok is false when the selection
// is empty.
func (m *Manager) Reference() (string, bool) {
	if len(m.ids) == 0 {
		return "", false
	}
	return m.ids[0], true
}

func (m *Manager) indexOf(id string) int {
	for i, v := range m.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Select adds id to the selection. Without additive the selection is
// replaced. With additive the id is appended; re-selecting an already
// selected id additively promotes it to reference.
func (m *Manager) Select(id string, additive bool) {
	if !additive {
		if len(m.ids) == 1 && m.ids[0] == id {
			return
		}
		m.ids = []string{id}
		m.notify()
		return
	}
	if i := m.indexOf(id); i >= 0 {
		if i == 0 {
			return
		}
		m.ids = append(m.ids[:i], m.ids[i+1:]...)
		m.ids = append([]string{id}, m.ids...)
		m.notify()
		return
	}
	m.ids = append(m.ids, id)
	m.notify()
}

// Deselect removes id from the selection if present.
func (m *Manager) Deselect(id string) {
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.ids = append(m.ids[:i], m.ids[i+1:]...)
	m.notify()
}

// Toggle flips id's membership, additively.
func (m *Manager) Toggle(id string) {
	if m.IsSelected(id) {
		m.Deselect(id)
		return
	}
	m.Select(id, true)
}

// Clear empties the selection.
func (m *Manager) Clear() {
	if len(m.ids) == 0 {
		return
	}
	m.ids = nil
	m.notify()
}

// SetSelection replaces the selection with the given ordered ids. Commands
// report follow-up selections through this.
func (m *Manager) SetSelection(ids []string) {
	m.ids = append([]string(nil), ids...)
	m.notify()
}

// Drop removes ids that no longer exist on the canvas, without treating it
// as a user-driven change when nothing was selected.
func (m *Manager) Drop(ids ...string) {
	changed := false
	for _, id := range ids {
		if i := m.indexOf(id); i >= 0 {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			changed = true
		}
	}
	if changed {
		m.notify()
	}
}

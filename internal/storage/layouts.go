/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"

	"breakdesigner/internal/domain"
)

// ErrNotFound marks lookups of layouts (or other studio records) that do not
// exist. Callers branch on it with errors.Is.
var ErrNotFound = errors.New("not found")

// NextLayoutID returns a unique layout ID like "layout-1", "layout-2", ...
// not used in the given studio.
func NextLayoutID(st *domain.Studio) string {
	if st == nil {
		return "layout-1"
	}
	maxN := 0
	exists := map[string]struct{}{}
	for _, l := range st.Layouts {
		exists[l.ID] = struct{}{}
		var n int
		if _, err := fmt.Sscanf(l.ID, "layout-%d", &n); err == nil {
			if n > maxN {
				maxN = n
			}
		}
	}
	for n := maxN + 1; n < maxN+10000; n++ {
		id := fmt.Sprintf("layout-%d", n)
		if _, ok := exists[id]; !ok {
			return id
		}
	}
	return fmt.Sprintf("layout-%d", maxN+1)
}

// AddLayout appends a new layout to the studio with a default canvas if zero.
// If layout.ID is empty, a unique one will be generated. Returns the created layout.
func AddLayout(h *StudioHandle, layout domain.Layout) (domain.Layout, error) {
	if h == nil {
		return domain.Layout{}, fmt.Errorf("studio handle is nil")
	}
	if layout.ID == "" {
		layout.ID = NextLayoutID(&h.Studio)
	} else {
		for _, l := range h.Studio.Layouts {
			if l.ID == layout.ID {
				return domain.Layout{}, fmt.Errorf("layout id %s already exists", layout.ID)
			}
		}
	}
	if layout.Canvas.Width <= 0 || layout.Canvas.Height <= 0 {
		layout.Canvas = domain.DefaultCanvas
	}
	if layout.Widgets == nil {
		layout.Widgets = []domain.WidgetData{}
	}
	h.Studio.Layouts = append(h.Studio.Layouts, layout)
	return layout, nil
}

// ReplaceLayoutWidgets swaps the widget list of the given layout. This is the
// designer's save path: the editor exports its live state and the handle takes
// it over wholesale.
func ReplaceLayoutWidgets(h *StudioHandle, layoutID string, widgets []domain.WidgetData) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	l, ok := h.Studio.LayoutByID(layoutID)
	if !ok {
		return fmt.Errorf("layout %s: %w", layoutID, ErrNotFound)
	}
	if widgets == nil {
		widgets = []domain.WidgetData{}
	}
	l.Widgets = widgets
	return nil
}

// UpdateLayoutMeta updates layout ID (if non-empty and unique), name, and
// break type. Widgets are preserved.
func UpdateLayoutMeta(h *StudioHandle, layoutID string, newID, name, breakType string) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	l, ok := h.Studio.LayoutByID(layoutID)
	if !ok {
		return fmt.Errorf("layout %s: %w", layoutID, ErrNotFound)
	}
	if newID != "" && newID != l.ID {
		for _, other := range h.Studio.Layouts {
			if other.ID == newID {
				return fmt.Errorf("layout id %s already exists", newID)
			}
		}
		l.ID = newID
	}
	if name != "" {
		l.Name = name
	}
	l.BreakType = breakType
	return nil
}

// RemoveLayout deletes the layout with the given id from the studio.
func RemoveLayout(h *StudioHandle, layoutID string) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	for i := range h.Studio.Layouts {
		if h.Studio.Layouts[i].ID == layoutID {
			h.Studio.Layouts = append(h.Studio.Layouts[:i], h.Studio.Layouts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("layout %s: %w", layoutID, ErrNotFound)
}

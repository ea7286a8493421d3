/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"

	"breakdesigner/internal/domain"
)

// ValidateLayout lints a single layout and returns human-readable problem
// descriptions. An empty slice means the layout holds the invariants the
// designer maintains: unique widget ids, groups referencing existing children
// with each child owned by at most one group, group z above its members,
// square QR widgets, and positive sizes.
func ValidateLayout(l domain.Layout) []string {
	var out []string
	byID := make(map[string]domain.WidgetData, len(l.Widgets))
	for _, w := range l.Widgets {
		if w.ID == "" {
			out = append(out, "widget with empty id")
			continue
		}
		if _, dup := byID[w.ID]; dup {
			out = append(out, fmt.Sprintf("duplicate widget id %q", w.ID))
			continue
		}
		byID[w.ID] = w
	}
	owner := map[string]string{} // child id -> owning group id
	for _, w := range l.Widgets {
		if w.Size.Width <= 0 || w.Size.Height <= 0 {
			out = append(out, fmt.Sprintf("widget %q has non-positive size %gx%g", w.ID, w.Size.Width, w.Size.Height))
		}
		switch w.Type {
		case domain.TypeQR:
			if w.Size.Width != w.Size.Height {
				out = append(out, fmt.Sprintf("qr widget %q is not square (%gx%g)", w.ID, w.Size.Width, w.Size.Height))
			}
		case domain.TypeGroup:
			if len(w.Properties.ChildIDs) == 0 {
				out = append(out, fmt.Sprintf("group %q has no children", w.ID))
			}
			seen := map[string]struct{}{}
			for _, cid := range w.Properties.ChildIDs {
				if cid == w.ID {
					out = append(out, fmt.Sprintf("group %q lists itself as a child", w.ID))
					continue
				}
				if _, dup := seen[cid]; dup {
					out = append(out, fmt.Sprintf("group %q lists child %q twice", w.ID, cid))
					continue
				}
				seen[cid] = struct{}{}
				child, ok := byID[cid]
				if !ok {
					out = append(out, fmt.Sprintf("group %q references missing child %q", w.ID, cid))
					continue
				}
				if prev, taken := owner[cid]; taken {
					out = append(out, fmt.Sprintf("widget %q is a child of both %q and %q", cid, prev, w.ID))
				} else {
					owner[cid] = w.ID
				}
				if child.ZIndex >= w.ZIndex {
					out = append(out, fmt.Sprintf("group %q (z=%d) does not stack above child %q (z=%d)", w.ID, w.ZIndex, cid, child.ZIndex))
				}
			}
		}
	}
	return out
}

// ValidateStudio lints every layout in the studio plus studio-level
// invariants (unique layout ids). Problems are prefixed with the layout id.
func ValidateStudio(st domain.Studio) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, l := range st.Layouts {
		if l.ID == "" {
			out = append(out, "layout with empty id")
		} else if _, dup := seen[l.ID]; dup {
			out = append(out, fmt.Sprintf("duplicate layout id %q", l.ID))
		} else {
			seen[l.ID] = struct{}{}
		}
		for _, p := range ValidateLayout(l) {
			out = append(out, fmt.Sprintf("layout %s: %s", l.ID, p))
		}
	}
	return out
}

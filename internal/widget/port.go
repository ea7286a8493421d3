/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// State is a visual flag an Element can toggle. States map to style classes
// in a concrete surface (selection chrome, grouped dimming, preview mode).
type State int

const (
	// StateSelected shows the selection chrome around the element.
	StateSelected State = iota
	// StateGrouped marks the element as a group member: visually flagged
	// and excluded from direct pointer interaction.
	StateGrouped
	// StatePreview hides editing affordances while preview mode is active.
	StatePreview
)

// Surface creates the visual representation of widgets. The editing core
// never talks to a concrete toolkit; it drives elements through this port so
// the whole editor runs headless in tests and batch tooling.
type Surface interface {
	// NewElement materializes the element for a widget record. Type-specific
	// appearance (colors, text, image sources) is read from the record once;
	// geometry and state changes flow through the Element afterwards.
	NewElement(data domain.WidgetData) Element

	// NewOverlay creates transient chrome that is not a widget, such as the
	// marquee selection box.
	NewOverlay() Element
}

// Element is one visual on the surface.
type Element interface {
	// SetFrame positions and sizes the element in canvas coordinates.
	SetFrame(r geometry.Rect)
	// SetZ sets the stacking order.
	SetZ(z int)
	// SetVisible shows or hides the element.
	SetVisible(v bool)
	// SetState toggles a visual state flag.
	SetState(s State, on bool)
	// Frame reports the rendered bounds. They normally match the last
	// SetFrame but may lag behind while the surface animates.
	Frame() geometry.Rect
	// Destroy removes the element from the surface. The element must not be
	// used afterwards.
	Destroy()
}

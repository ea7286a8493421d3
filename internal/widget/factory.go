/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"log/slog"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	applog "breakdesigner/internal/log"
)

// Factory hydrates Widget values from stored records. It is the single place
// that maps a record's type discriminator to a concrete variant, so loading a
// layout, undoing a delete, and pasting all construct widgets the same way.
type Factory struct {
	surface Surface
	log     *slog.Logger
}

// NewFactory creates a factory bound to a surface. A nil logger falls back
// to the application logger.
func NewFactory(s Surface, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = applog.L()
	}
	return &Factory{surface: s, log: logger.With("component", "widget")}
}

// Create builds the widget for a record. Unknown types are hydrated as plain
// widgets with a warning instead of failing, so a studio written by a newer
// build still opens and round-trips its data.
func (f *Factory) Create(data domain.WidgetData) Widget {
	switch data.Type {
	case domain.TypeBox, domain.TypeImage:
		return NewBase(f.surface, data)
	case domain.TypeText:
		return NewText(f.surface, data)
	case domain.TypeQR:
		return NewQR(f.surface, data)
	case domain.TypeGroup:
		return NewGroup(f.surface, data)
	default:
		f.log.Warn("unknown widget type, hydrating as plain widget", "type", string(data.Type), "id", data.ID)
		return NewBase(f.surface, data)
	}
}

// NewBoxData assembles the record for a colored box.
func NewBoxData(r geometry.Rect, color string) domain.WidgetData {
	return domain.WidgetData{
		Type:       domain.TypeBox,
		Position:   r.Origin(),
		Size:       r.Size(),
		Properties: domain.Properties{BackgroundColor: color},
	}
}

// NewTextData assembles the record for a text block.
func NewTextData(r geometry.Rect, text string, font domain.FontSpec) domain.WidgetData {
	return domain.WidgetData{
		Type:       domain.TypeText,
		Position:   r.Origin(),
		Size:       r.Size(),
		Properties: domain.Properties{Text: text, Font: font},
	}
}

// NewQRData assembles the record for a QR widget. The side is squared up the
// same way a later resize would be.
func NewQRData(pos geometry.Point, side float64, payload string) domain.WidgetData {
	sz := SquareSize(geometry.Sz(side, side))
	return domain.WidgetData{
		Type:       domain.TypeQR,
		Position:   pos,
		Size:       sz,
		Properties: domain.Properties{Payload: payload},
	}
}

// NewImageData assembles the record for an image widget.
func NewImageData(r geometry.Rect, url string) domain.WidgetData {
	return domain.WidgetData{
		Type:       domain.TypeImage,
		Position:   r.Origin(),
		Size:       r.Size(),
		Properties: domain.Properties{ImageURL: url},
	}
}

// NewGroupData assembles the record for a group around the given child
// rects. The frame always follows the padding and minimum-size rule.
func NewGroupData(childIDs []string, childRects []geometry.Rect) domain.WidgetData {
	frame := GroupFrame(childRects)
	return domain.WidgetData{
		Type:     domain.TypeGroup,
		Position: frame.Origin(),
		Size:     frame.Size(),
		Properties: domain.Properties{
			ChildIDs: append([]string(nil), childIDs...),
		},
	}
}

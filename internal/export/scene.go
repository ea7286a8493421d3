/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders layouts to PNG, SVG, and PDF. All three renderers
// share one resolved drawing model (scene) so colors, template text, and
// paint order cannot drift between formats.
package export

import (
	"path/filepath"
	"sort"
	"strings"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/message"
)

// Default colors applied when widget properties are empty or unparsable.
var (
	defaultBackground = domain.Color{R: 255, G: 255, B: 255, A: 255}
	defaultBoxFill    = domain.Color{R: 224, G: 224, B: 224, A: 255}
	defaultTextColor  = domain.Color{R: 0, G: 0, B: 0, A: 255}
	placeholderStroke = domain.Color{R: 136, G: 136, B: 136, A: 255}
)

// scene is the format-independent resolved form of a layout: background and
// widgets in paint order with defaults applied and template text rendered.
type scene struct {
	Layout     domain.Layout
	Background domain.Color
	Widgets    []sceneWidget
}

// sceneWidget pairs a widget record with its resolved visual attributes.
// AssetPath is empty when the widget references no asset or the reference
// escapes the studio root.
type sceneWidget struct {
	W         domain.WidgetData
	Fill      domain.Color
	TextColor domain.Color
	Text      string  // template-rendered content for text widgets
	FontPx    float64 // resolved font size, canvas units
	Align     string  // left, center, right
	Opacity   float64 // 0..1, applied to image/qr pixels
	AssetPath string  // path relative to the studio root, slash form
}

// buildScene resolves a layout into paint order. Group widgets contribute no
// visuals of their own; their children are separate records and render in
// their own z positions.
func buildScene(l domain.Layout, clock message.Clock) scene {
	sc := scene{Layout: l, Background: colorOr(l.Background, defaultBackground)}
	ws := make([]domain.WidgetData, 0, len(l.Widgets))
	for _, w := range l.Widgets {
		if w.Type == domain.TypeGroup {
			continue
		}
		ws = append(ws, w)
	}
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].ZIndex < ws[j].ZIndex })

	for _, w := range ws {
		sw := sceneWidget{
			W:         w,
			Fill:      colorOr(w.Properties.BackgroundColor, defaultBoxFill),
			TextColor: colorOr(w.Properties.Font.Color, defaultTextColor),
			FontPx:    w.Properties.Font.Size,
			Align:     w.Properties.Align,
			Opacity:   w.Properties.Opacity,
		}
		if sw.FontPx <= 0 {
			sw.FontPx = 24
		}
		if sw.Align == "" {
			sw.Align = "left"
		}
		if sw.Opacity <= 0 || sw.Opacity > 1 {
			sw.Opacity = 1
		}
		switch w.Type {
		case domain.TypeText:
			sw.Text = renderText(w.Properties, clock)
		case domain.TypeImage, domain.TypeQR:
			sw.AssetPath = assetPath(w.Properties.ImageURL)
		}
		sc.Widgets = append(sc.Widgets, sw)
	}
	return sc
}

// renderText resolves the widget's template (falling back to plain text)
// against the clock. Unknown placeholders pass through verbatim; lint
// reports them, exports never drop content.
func renderText(p domain.Properties, clock message.Clock) string {
	src := p.Template
	if src == "" {
		src = p.Text
	}
	tpl, _ := message.Parse(src)
	return tpl.Render(clock)
}

// assetPath normalizes a widget imageUrl to a root-relative path, or ""
// when unset or when the reference would escape the studio root.
func assetPath(url string) string {
	if url == "" {
		return ""
	}
	p := filepath.FromSlash(url)
	if filepath.IsAbs(p) || !filepath.IsLocal(p) {
		return ""
	}
	return filepath.ToSlash(p)
}

// colorOr parses a widget color string, falling back to def.
func colorOr(s string, def domain.Color) domain.Color {
	if strings.TrimSpace(s) == "" {
		return def
	}
	c, err := domain.ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// clockOr returns the given clock, or the deterministic sample clock when
// the caller passed a zero value.
func clockOr(c message.Clock) message.Clock {
	if c.Now.IsZero() {
		return message.SampleClock()
	}
	return c
}

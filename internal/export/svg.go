/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/message"
	"breakdesigner/internal/storage"
)

// SVGOptions controls SVG export behavior.
// The coordinate system matches the canvas (pixels at design resolution);
// a viewBox is provided so the document scales.
type SVGOptions struct {
	Clock message.Clock
}

// ExportLayoutSVG renders one layout to <layout-id>.svg under outDir.
// A relative outDir is created under the studio's exports folder. Asset
// references become hrefs relative to the output file.
func ExportLayoutSVG(h *storage.StudioHandle, layoutID, outDir string, opt SVGOptions) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	l, ok := h.Studio.LayoutByID(layoutID)
	if !ok {
		return fmt.Errorf("unknown layout %q", layoutID)
	}

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(h.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	canvas := l.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = domain.DefaultCanvas
	}
	sc := buildScene(*l, clockOr(opt.Clock))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", canvas.Width, canvas.Height, canvas.Width, canvas.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", canvas.Width, canvas.Height, svgColor(sc.Background))

	for _, sw := range sc.Widgets {
		w := sw.W
		x, y := w.Position.X, w.Position.Y
		wd, ht := w.Size.Width, w.Size.Height
		switch w.Type {
		case domain.TypeBox:
			if r := w.Properties.BorderRadius; r > 0 {
				wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\"/>\n", x, y, wd, ht, r, r, svgColor(sw.Fill))
			} else {
				wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", x, y, wd, ht, svgColor(sw.Fill))
			}
		case domain.TypeText:
			writeSVGText(wf, sw)
		case domain.TypeImage, domain.TypeQR:
			if sw.AssetPath != "" {
				href, err := filepath.Rel(outDir, filepath.Join(h.Root, filepath.FromSlash(sw.AssetPath)))
				if err == nil {
					opacity := ""
					if sw.Opacity < 1 {
						opacity = fmt.Sprintf(" opacity=\"%g\"", sw.Opacity)
					}
					wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\" preserveAspectRatio=\"none\"%s/>\n", x, y, wd, ht, escAttr(filepath.ToSlash(href)), opacity)
					continue
				}
			}
			// missing asset placeholder
			pc := svgColor(placeholderStroke)
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#ffffff\" stroke=\"%s\"/>\n", x, y, wd, ht, pc)
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\"/>\n", x, y, x+wd, y+ht, pc)
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\"/>\n", x, y+ht, x+wd, y, pc)
		default:
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\"/>\n", x, y, wd, ht, svgColor(placeholderStroke))
		}
	}

	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	name := filepath.Join(outDir, l.ID+".svg")
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// writeSVGText emits one <text> element per rendered line, stacked at 1.2x
// line height, anchored per the widget's alignment.
func writeSVGText(wf func(string, ...any), sw sceneWidget) {
	if sw.Text == "" {
		return
	}
	family := sw.W.Properties.Font.Family
	if family == "" {
		family = "Helvetica, Arial, sans-serif"
	}
	weight := ""
	if sw.W.Properties.Font.Bold {
		weight = " font-weight=\"700\""
	}
	anchor := "start"
	tx := sw.W.Position.X
	switch sw.Align {
	case "center":
		anchor = "middle"
		tx += sw.W.Size.Width / 2
	case "right":
		anchor = "end"
		tx += sw.W.Size.Width
	}
	fsz := sw.FontPx
	ty := sw.W.Position.Y + fsz // first baseline
	for _, line := range strings.Split(sw.Text, "\n") {
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%g\"%s fill=\"%s\" text-anchor=\"%s\">%s</text>\n",
			tx, ty, escAttr(family), fsz, weight, svgColor(sw.TextColor), anchor, escText(line))
		ty += fsz * 1.2
	}
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

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
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // decode jpeg assets
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/message"
	"breakdesigner/internal/storage"
	"breakdesigner/internal/textlayout"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per canvas unit; 1 renders the canvas 1:1, 0 defaults to 1.
// - Clock: values for countdown placeholders; zero value renders the sample clock.
type PNGOptions struct {
	Scale float64
	Clock message.Clock
}

// ExportLayoutPNG renders one layout to <layout-id>.png under outDir.
// A relative outDir is created under the studio's exports folder.
func ExportLayoutPNG(h *storage.StudioHandle, layoutID, outDir string, opt PNGOptions) error {
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

	data, err := RenderLayoutPNG(h.Root, *l, opt.Scale, opt.Clock)
	if err != nil {
		return err
	}
	name := filepath.Join(outDir, l.ID+".png")
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// RenderLayoutPNG renders a layout to encoded PNG bytes. The preview cache
// and the UI thumbnailer call this directly; ExportLayoutPNG adds the file
// placement on top.
func RenderLayoutPNG(root string, l domain.Layout, scale float64, clock message.Clock) ([]byte, error) {
	img, err := renderLayoutRGBA(root, l, scale, clock)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func renderLayoutRGBA(root string, l domain.Layout, scale float64, clock message.Clock) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	canvas := l.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = domain.DefaultCanvas
	}
	pixW := int(math.Round(canvas.Width * scale))
	pixH := int(math.Round(canvas.Height * scale))
	if pixW <= 0 || pixH <= 0 {
		return nil, fmt.Errorf("layout %s: empty canvas", l.ID)
	}

	sc := buildScene(l, clockOr(clock))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(sc.Background)}, image.Point{}, draw.Src)

	// Studio fonts are optional; the provider falls back to the builtin face.
	lib := textlayout.NewFontLibrary()
	_, _ = lib.LoadStudioFonts(filepath.Join(root, "fonts"))
	prov := textlayout.OTProvider{Lib: lib}

	for _, sw := range sc.Widgets {
		r := widgetRectPx(sw.W, scale)
		switch sw.W.Type {
		case domain.TypeBox:
			fillRect(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, toRGBA(sw.Fill))
		case domain.TypeText:
			drawTextBlock(img, prov, sw, scale)
		case domain.TypeImage, domain.TypeQR:
			if !drawAsset(img, root, sw, r) {
				drawPlaceholder(img, r)
			}
		default:
			// unknown widget types render as their bounding box outline
			strokeRect(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, toRGBA(placeholderStroke))
		}
	}
	return img, nil
}

func widgetRectPx(w domain.WidgetData, scale float64) image.Rectangle {
	x0 := int(math.Round(w.Position.X * scale))
	y0 := int(math.Round(w.Position.Y * scale))
	x1 := int(math.Round((w.Position.X + w.Size.Width) * scale))
	y1 := int(math.Round((w.Position.Y + w.Size.Height) * scale))
	return image.Rect(x0, y0, x1, y1)
}

func drawTextBlock(img *image.RGBA, prov textlayout.Provider, sw sceneWidget, scale float64) {
	if sw.Text == "" {
		return
	}
	spec := textlayout.FontSpec{
		Family: sw.W.Properties.Font.Family,
		SizePt: float32(sw.FontPx * scale),
		Weight: fontWeight(sw.W.Properties.Font.Bold),
	}
	ww := textlayout.NewWordWrap(prov)
	box, err := ww.Layout([]textlayout.Span{{Text: sw.Text, Font: spec}}, float32(sw.W.Size.Width*scale))
	if err != nil {
		return
	}
	face, met := prov.Resolve(spec)
	lineH := float64(met.Ascent + met.Descent + met.LineGap)
	x0 := sw.W.Position.X * scale
	y := sw.W.Position.Y*scale + float64(met.Ascent)
	col := image.NewUniform(toRGBA(sw.TextColor))
	for _, ln := range box.Lines {
		var sb strings.Builder
		for _, sp := range ln.Spans {
			sb.WriteString(sp.Text)
		}
		lx := x0
		switch sw.Align {
		case "center":
			lx += (sw.W.Size.Width*scale - float64(ln.Width)) / 2
		case "right":
			lx += sw.W.Size.Width*scale - float64(ln.Width)
		}
		d := &font.Drawer{Dst: img, Src: col, Face: face, Dot: fixed.P(int(math.Round(lx)), int(math.Round(y)))}
		d.DrawString(sb.String())
		y += lineH
	}
}

// drawAsset decodes the referenced image, scales it into the widget rect, and
// composites it honoring widget opacity. Returns false when the asset cannot
// be used so the caller can draw a placeholder instead.
func drawAsset(img *image.RGBA, root string, sw sceneWidget, r image.Rectangle) bool {
	if sw.AssetPath == "" || r.Empty() {
		return false
	}
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(sw.AssetPath)))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	src, _, err := image.Decode(f)
	if err != nil {
		return false
	}
	scaled := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	alpha := image.NewUniform(color.Alpha{A: uint8(math.Round(sw.Opacity * 255))})
	draw.DrawMask(img, r, scaled, image.Point{}, alpha, image.Point{}, draw.Over)
	return true
}

// drawPlaceholder marks a missing asset: white fill, gray border, crossed
// diagonals.
func drawPlaceholder(img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	col := toRGBA(placeholderStroke)
	fillRect(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, color.RGBA{255, 255, 255, 255})
	strokeRect(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, col)
	drawLine(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, col)
	drawLine(img, r.Min.X, r.Max.Y-1, r.Max.X-1, r.Min.Y, col)
}

func fontWeight(bold bool) int {
	if bold {
		return 700
	}
	return 400
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a 1px segment using integer steps along the longer axis.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetRGBA(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.SetRGBA(x, y, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

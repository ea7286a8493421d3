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
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/storage"
)

func sampleStudio() domain.Studio {
	return domain.Studio{
		Name: "Test Studio",
		Layouts: []domain.Layout{{
			ID:        "layout-1",
			Name:      "Lunch",
			BreakType: "lunch",
			Canvas:    geometry.Size{Width: 200, Height: 100},
			Widgets: []domain.WidgetData{
				{
					ID: "b1", Type: domain.TypeBox,
					Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 200, Height: 100},
					ZIndex:     1,
					Properties: domain.Properties{BackgroundColor: "#336699"},
				},
				{
					ID: "t1", Type: domain.TypeText,
					Position: geometry.Point{X: 10, Y: 10}, Size: geometry.Size{Width: 180, Height: 40},
					ZIndex:     2,
					Properties: domain.Properties{Template: "Back at {end-time}", Align: "center", Font: domain.FontSpec{Size: 12, Color: "#ffffff"}},
				},
				{
					ID: "t2", Type: domain.TypeText,
					Position: geometry.Point{X: 10, Y: 60}, Size: geometry.Size{Width: 180, Height: 30},
					ZIndex:     4,
					Properties: domain.Properties{Text: "Stretch & breathe", Font: domain.FontSpec{Size: 10}},
				},
				{
					ID: "i1", Type: domain.TypeImage,
					Position: geometry.Point{X: 120, Y: 10}, Size: geometry.Size{Width: 60, Height: 60},
					ZIndex:     3,
					Properties: domain.Properties{ImageURL: "assets/logo.png"},
				},
			},
		}},
	}
}

func TestExportLayoutPNG(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	outDir := filepath.Join(root, "exports", "pngtest")
	if err := ExportLayoutPNG(h, "layout-1", outDir, PNGOptions{}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	path := filepath.Join(outDir, "layout-1.png")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("unexpected size: %v", b)
	}
	// Bottom-left is covered by the box only.
	got := color.RGBAModel.Convert(img.At(2, 97)).(color.RGBA)
	if got != (color.RGBA{R: 51, G: 102, B: 153, A: 255}) {
		t.Fatalf("box fill not rendered, got %+v", got)
	}
	// The image asset is missing, so its rect holds the white placeholder.
	got = color.RGBAModel.Convert(img.At(150, 20)).(color.RGBA)
	if got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected placeholder fill at 150,20, got %+v", got)
	}
}

func TestExportLayoutPNG_CompositesAsset(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	// 2x2 solid red asset; scaling fills the widget rect with red.
	asset := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			asset.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, asset); err != nil {
		t.Fatalf("encode asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "assets", "logo.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	outDir := filepath.Join(root, "exports", "pngasset")
	if err := ExportLayoutPNG(h, "layout-1", outDir, PNGOptions{}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "layout-1.png"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := color.RGBAModel.Convert(img.At(150, 40)).(color.RGBA)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Fatalf("asset not composited at 150,40, got %+v", got)
	}
}

func TestExportLayoutSVG(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	outDir := filepath.Join(root, "exports", "svgtest")
	if err := ExportLayoutSVG(h, "layout-1", outDir, SVGOptions{}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "layout-1.svg"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "<svg") {
		t.Fatalf("not an svg document")
	}
	// Sample clock renders the end-time placeholder.
	if !strings.Contains(s, "Back at 12:30") {
		t.Fatalf("template text missing: %s", s)
	}
	if !strings.Contains(s, "Stretch &amp; breathe") {
		t.Fatalf("text not escaped: %s", s)
	}
	if !strings.Contains(s, "assets/logo.png") {
		t.Fatalf("asset href missing: %s", s)
	}
	if !strings.Contains(s, "text-anchor=\"middle\"") {
		t.Fatalf("center alignment missing: %s", s)
	}
}

func TestExportLayoutPNG_UnknownLayout(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	if err := ExportLayoutPNG(h, "layout-404", "x", PNGOptions{}); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/message"
	"breakdesigner/internal/storage"
)

// PDFOptions controls proof sheet export.
// Units are points (pt); the layout canvas is scaled to fit the page.
// Vector text uses built-in Helvetica for portability; font embedding can be
// added later using the studio fonts directory.
type PDFOptions struct {
	Clock    message.Clock
	Annotate bool // draw the header band (studio, layout, break type)
}

// A4 landscape in points.
const (
	proofPageW   = 842.0
	proofPageH   = 595.0
	proofMargin  = 36.0
	proofHeaderH = 28.0
)

// ExportProofSheetPDF writes a multi-page PDF with one layout per page.
// Empty layoutIDs means all layouts in studio order. A relative outPath is
// placed under the studio's exports folder.
func ExportProofSheetPDF(h *storage.StudioHandle, layoutIDs []string, outPath string, opt PDFOptions) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	layouts, err := resolveLayouts(h, layoutIDs)
	if err != nil {
		return err
	}
	if len(layouts) == 0 {
		return fmt.Errorf("studio has no layouts")
	}
	clock := clockOr(opt.Clock)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: proofPageW, Ht: proofPageH},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — layout proof sheet", h.Studio.Name), true)
	pdf.SetAuthor("Break Designer", false)
	pdf.SetFont("Helvetica", "", 12)

	for _, l := range layouts {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: proofPageW, Ht: proofPageH})
		drawProofPage(pdf, h.Root, h.Studio.Name, l, clock, opt.Annotate)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawProofPage(pdf *gofpdf.Fpdf, root, studioName string, l domain.Layout, clock message.Clock, annotate bool) {
	canvas := l.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = domain.DefaultCanvas
	}

	headerH := 0.0
	if annotate {
		headerH = proofHeaderH
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(proofMargin, proofMargin, fmt.Sprintf("%s — %s", studioName, l.Name))
		right := l.ID
		if l.BreakType != "" {
			right = fmt.Sprintf("%s · %s", l.ID, l.BreakType)
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(102, 102, 102)
		pdf.Text(proofPageW-proofMargin-pdf.GetStringWidth(right), proofMargin, right)
		pdf.SetDrawColor(204, 204, 204)
		pdf.SetLineWidth(0.5)
		pdf.Line(proofMargin, proofMargin+8, proofPageW-proofMargin, proofMargin+8)
	}

	// Fit the canvas into the page, preserving aspect.
	availW := proofPageW - 2*proofMargin
	availH := proofPageH - 2*proofMargin - headerH
	s := math.Min(availW/canvas.Width, availH/canvas.Height)
	ox := proofMargin + (availW-canvas.Width*s)/2
	oy := proofMargin + headerH + (availH-canvas.Height*s)/2

	sc := buildScene(l, clock)

	// Canvas background and outline.
	setFillColor(pdf, sc.Background)
	pdf.SetDrawColor(153, 153, 153)
	pdf.SetLineWidth(0.5)
	pdf.Rect(ox, oy, canvas.Width*s, canvas.Height*s, "FD")

	for _, sw := range sc.Widgets {
		w := sw.W
		x := ox + w.Position.X*s
		y := oy + w.Position.Y*s
		wd := w.Size.Width * s
		ht := w.Size.Height * s
		switch w.Type {
		case domain.TypeBox:
			setFillColor(pdf, sw.Fill)
			pdf.Rect(x, y, wd, ht, "F")
		case domain.TypeText:
			drawProofText(pdf, sw, x, y, wd, s)
		case domain.TypeImage, domain.TypeQR:
			if !placeProofImage(pdf, root, sw, x, y, wd, ht) {
				drawProofPlaceholder(pdf, x, y, wd, ht)
			}
		default:
			setDrawColor(pdf, placeholderStroke)
			pdf.SetLineWidth(0.5)
			pdf.Rect(x, y, wd, ht, "D")
		}
	}
}

func drawProofText(pdf *gofpdf.Fpdf, sw sceneWidget, x, y, wd, scale float64) {
	if sw.Text == "" {
		return
	}
	style := ""
	if sw.W.Properties.Font.Bold {
		style = "B"
	}
	fsz := sw.FontPx * scale
	pdf.SetFont("Helvetica", style, fsz)
	pdf.SetTextColor(int(sw.TextColor.R), int(sw.TextColor.G), int(sw.TextColor.B))
	ty := y + fsz // first baseline
	for _, line := range strings.Split(sw.Text, "\n") {
		tx := x
		switch sw.Align {
		case "center":
			tx += (wd - pdf.GetStringWidth(line)) / 2
		case "right":
			tx += wd - pdf.GetStringWidth(line)
		}
		pdf.Text(tx, ty, line)
		ty += fsz * 1.2
	}
}

// placeProofImage embeds the referenced asset when it exists and gofpdf can
// read the format. Returns false so the caller draws a placeholder instead.
func placeProofImage(pdf *gofpdf.Fpdf, root string, sw sceneWidget, x, y, wd, ht float64) bool {
	if sw.AssetPath == "" {
		return false
	}
	path := filepath.Join(root, filepath.FromSlash(sw.AssetPath))
	var itype string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		itype = "PNG"
	case ".jpg", ".jpeg":
		itype = "JPG"
	default:
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	pdf.ImageOptions(path, x, y, wd, ht, false, gofpdf.ImageOptions{ImageType: itype, ReadDpi: false}, 0, "")
	return true
}

func drawProofPlaceholder(pdf *gofpdf.Fpdf, x, y, wd, ht float64) {
	pdf.SetFillColor(255, 255, 255)
	setDrawColor(pdf, placeholderStroke)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x, y, wd, ht, "FD")
	pdf.Line(x, y, x+wd, y+ht)
	pdf.Line(x, y+ht, x+wd, y)
}

// resolveLayouts maps ids to layouts, defaulting to all layouts in studio
// order. Unknown ids are an error so batch runs fail loudly.
func resolveLayouts(h *storage.StudioHandle, ids []string) ([]domain.Layout, error) {
	if len(ids) == 0 {
		return h.Studio.Layouts, nil
	}
	out := make([]domain.Layout, 0, len(ids))
	for _, id := range ids {
		l, ok := h.Studio.LayoutByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown layout %q", id)
		}
		out = append(out, *l)
	}
	return out, nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

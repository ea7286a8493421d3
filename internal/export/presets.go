/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"breakdesigner/internal/message"
	"breakdesigner/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetScreen PresetName = "screen"
	PresetPrint  PresetName = "print"
)

// BatchOptions controls batch export across formats and layouts.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs land under
//     <studio>/exports/<preset>/<format>/.
//   - PNG/SVG write one file per layout named <layout-id>.(png|svg).
//   - PDF writes a single proof-sheet.pdf covering the selected layouts.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: png, svg, pdf; empty means preset defaults
	Layouts []string // layout ids; empty means all layouts
	Scale   float64  // when > 0 overrides the PNG render scale
	Clock   message.Clock
	OutDir  string // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(h *storage.StudioHandle, opt BatchOptions) error {
	if h == nil {
		return fmt.Errorf("studio handle is nil")
	}
	if len(h.Studio.Layouts) == 0 {
		return fmt.Errorf("studio has no layouts")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	// normalize format strings
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	// Resolve output base directory
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(h.Root, "exports", baseOut)
	}

	layouts, err := resolveLayouts(h, opt.Layouts)
	if err != nil {
		return err
	}
	annotate := presetAnnotates(opt.Preset)

	for _, f := range formats {
		switch f {
		case "pdf":
			// Single proof sheet covering all selected layouts
			out := filepath.Join(baseOut, "pdf", "proof-sheet.pdf")
			po := PDFOptions{Clock: opt.Clock, Annotate: annotate}
			if err := ExportProofSheetPDF(h, opt.Layouts, out, po); err != nil {
				return fmt.Errorf("pdf proof sheet: %w", err)
			}
		case "png":
			outDir := filepath.Join(baseOut, "png")
			po := PNGOptions{Scale: opt.Scale, Clock: opt.Clock}
			for _, l := range layouts {
				if err := ExportLayoutPNG(h, l.ID, outDir, po); err != nil {
					return fmt.Errorf("png layout %s: %w", l.ID, err)
				}
			}
		case "svg":
			outDir := filepath.Join(baseOut, "svg")
			so := SVGOptions{Clock: opt.Clock}
			for _, l := range layouts {
				if err := ExportLayoutSVG(h, l.ID, outDir, so); err != nil {
					return fmt.Errorf("svg layout %s: %w", l.ID, err)
				}
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetScreen:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf"}
	default:
		return []string{"png"}
	}
}

// presetAnnotates reports whether the preset draws proof-sheet headers.
func presetAnnotates(p PresetName) bool {
	return p == PresetPrint
}

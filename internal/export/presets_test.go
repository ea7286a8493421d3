/*
 * Copyright (c) 2025
 */
package export

import (
	"os"
	"path/filepath"
	"testing"

	"breakdesigner/internal/storage"
)

func TestBatchExport_ScreenPreset(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	if err := BatchExport(h, BatchOptions{Preset: PresetScreen}); err != nil {
		t.Fatalf("batch export screen: %v", err)
	}
	checks := []string{
		filepath.Join(root, "exports", "screen", "png", "layout-1.png"),
		filepath.Join(root, "exports", "screen", "svg", "layout-1.svg"),
	}
	for _, p := range checks {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
}

func TestBatchExport_PrintPreset(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	if err := BatchExport(h, BatchOptions{Preset: PresetPrint}); err != nil {
		t.Fatalf("batch export print: %v", err)
	}
	p := filepath.Join(root, "exports", "print", "pdf", "proof-sheet.pdf")
	st, err := os.Stat(p)
	if err != nil {
		t.Fatalf("missing %s: %v", p, err)
	}
	if st.Size() <= 0 {
		t.Fatalf("empty file: %s", p)
	}
}

func TestBatchExport_UnknownFormat(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	err = BatchExport(h, BatchOptions{Preset: PresetScreen, Formats: []string{"bmp"}})
	if err == nil {
		t.Fatalf("expected unknown format error")
	}
}

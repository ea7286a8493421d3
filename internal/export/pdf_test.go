/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"testing"

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/storage"
)

func TestExportProofSheetPDF_CreatesFile(t *testing.T) {
	root := t.TempDir()
	st := sampleStudio()
	st.Layouts = append(st.Layouts, domain.Layout{
		ID:        "layout-2",
		Name:      "Stretch",
		BreakType: "stretch",
		Canvas:    geometry.Size{Width: 200, Height: 100},
		Widgets: []domain.WidgetData{{
			ID: "t1", Type: domain.TypeText,
			Position: geometry.Point{X: 10, Y: 10}, Size: geometry.Size{Width: 180, Height: 40},
			ZIndex:     1,
			Properties: domain.Properties{Template: "{countdown} left in {break-name}", Font: domain.FontSpec{Size: 14, Bold: true}},
		}},
	})
	h, err := storage.InitStudio(root, st)
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	out := filepath.Join(root, "exports", "proof-test.pdf")
	if err := ExportProofSheetPDF(h, nil, out, PDFOptions{Annotate: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() <= 0 {
		t.Fatalf("pdf file empty")
	}
}

func TestExportProofSheetPDF_UnknownLayout(t *testing.T) {
	root := t.TempDir()
	h, err := storage.InitStudio(root, sampleStudio())
	if err != nil {
		t.Fatalf("init studio: %v", err)
	}
	err = ExportProofSheetPDF(h, []string{"layout-404"}, "x.pdf", PDFOptions{})
	if err == nil {
		t.Fatalf("expected error for unknown layout id")
	}
}

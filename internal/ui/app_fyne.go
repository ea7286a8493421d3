//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"breakdesigner/internal/command"
	"breakdesigner/internal/crash"
	"breakdesigner/internal/designer"
	"breakdesigner/internal/domain"
	"breakdesigner/internal/export"
	"breakdesigner/internal/geometry"
	applog "breakdesigner/internal/log"
	"breakdesigner/internal/message"
	"breakdesigner/internal/storage"
	"breakdesigner/internal/telemetry"
	"breakdesigner/internal/version"
	wport "breakdesigner/internal/widget"
)

// Run starts the Fyne-based designer shell. h may be nil, in which case the
// dashboard with recent studios is shown until one is opened.
func Run(h *storage.StudioHandle) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting designer UI")
	telemetry.Event("designer_opened", nil)

	sh := h
	defer func() { crash.Recover(sh) }()

	fyneApp := app.NewWithID("breakdesigner")
	w := fyneApp.NewWindow("Break Designer")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 900 {
		winW = 900
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	dc := NewDesignCanvas(l)
	des := dc.Designer()

	currentLayoutID := ""
	dirty := false

	markDirty := func() {
		dirty = true
		if currentLayoutID != "" {
			status.SetText("Edited " + currentLayoutID + " (unsaved)")
		}
	}
	des.History().SetOnChange(func() {
		markDirty()
	})

	// Layout navigation (left)
	layoutsDisplay := []string{}
	layoutIDs := []string{}
	layoutsList := widget.NewList(
		func() int { return len(layoutsDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(layoutsDisplay) {
				o.(*widget.Label).SetText(layoutsDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	refreshLayoutsList := func() {
		layoutsDisplay = layoutsDisplay[:0]
		layoutIDs = layoutIDs[:0]
		if sh != nil {
			for _, lo := range sh.Studio.Layouts {
				label := lo.Name
				if label == "" {
					label = lo.ID
				}
				if lo.BreakType != "" {
					label += "  [" + lo.BreakType + "]"
				}
				layoutsDisplay = append(layoutsDisplay, label)
				layoutIDs = append(layoutIDs, lo.ID)
			}
		}
		layoutsList.Refresh()
	}
	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Layouts"), widget.NewSeparator()),
		nil, nil, nil,
		layoutsList,
	)

	// Selection inspector (right)
	selHeader := widget.NewLabel("Selection")
	selHeader.TextStyle = fyne.TextStyle{Bold: true}
	selInfo := widget.NewLabel("Nothing selected")
	selInfo.Wrapping = fyne.TextWrapWord
	historyInfo := widget.NewLabel("")
	updateInspector := func(ids []string) {
		if len(ids) == 0 {
			selInfo.SetText("Nothing selected")
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d widget(s)\n", len(ids))
		for i, id := range ids {
			data, ok := des.WidgetData(id)
			if !ok {
				continue
			}
			marker := " "
			if i == 0 {
				marker = "*" // reference widget for align/size operations
			}
			fmt.Fprintf(&b, "%s %s (%s) %.0fx%.0f @ %.0f,%.0f z%d\n",
				marker, data.ID, data.Type,
				data.Size.Width, data.Size.Height,
				data.Position.X, data.Position.Y, data.ZIndex)
			switch data.Type {
			case domain.TypeText:
				if s := strings.TrimSpace(data.Properties.Template); s != "" {
					fmt.Fprintf(&b, "   template: %s\n", s)
					fmt.Fprintf(&b, "   preview:  %s\n", message.Preview(s))
				} else if s := strings.TrimSpace(data.Properties.Text); s != "" {
					fmt.Fprintf(&b, "   text: %s\n", s)
				}
			case domain.TypeQR:
				if s := strings.TrimSpace(data.Properties.Payload); s != "" {
					fmt.Fprintf(&b, "   payload: %s\n", s)
				}
			case domain.TypeImage:
				if s := strings.TrimSpace(data.Properties.ImageURL); s != "" {
					fmt.Fprintf(&b, "   image: %s\n", s)
				}
			case domain.TypeGroup:
				fmt.Fprintf(&b, "   members: %d\n", len(data.Properties.ChildIDs))
			}
		}
		selInfo.SetText(strings.TrimRight(b.String(), "\n"))
	}
	des.Selection().AddListener(func(ids []string) {
		updateInspector(ids)
		if u, ok := des.History().UndoDescription(); ok {
			historyInfo.SetText("Undo: " + u)
		} else {
			historyInfo.SetText("")
		}
	})
	right := container.NewVBox(selHeader, widget.NewSeparator(), selInfo, widget.NewSeparator(), historyInfo)

	// Layout loading
	loadLayout := func(id string) {
		if sh == nil {
			return
		}
		lo, ok := sh.Studio.LayoutByID(id)
		if !ok {
			l.Warn("layout not found", slog.String("layout", id))
			return
		}
		dc.LoadLayout(*lo)
		currentLayoutID = id
		dirty = false
		updateInspector(nil)
		status.SetText("Editing " + id)
		l.Info("layout opened in designer", slog.String("layout", id), slog.Int("widgets", len(lo.Widgets)))
	}
	layoutsList.OnSelected = func(i widget.ListItemID) {
		if i < 0 || int(i) >= len(layoutIDs) {
			return
		}
		loadLayout(layoutIDs[i])
	}

	// Save flow: designer state -> studio handle -> manifest + snapshot + index.
	saveCurrentLayout := func() {
		if sh == nil || currentLayoutID == "" {
			status.SetText("No layout open.")
			return
		}
		cur := des.ExportLayout()
		if err := storage.ReplaceLayoutWidgets(sh, currentLayoutID, cur.Widgets); err != nil {
			l.Error("replace layout widgets failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		if err := storage.Save(sh); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		if blob, err := json.Marshal(cur.Widgets); err == nil {
			if serr := storage.SaveSnapshot(context.Background(), sh, currentLayoutID, blob, time.Now()); serr != nil {
				l.Warn("snapshot save failed", slog.Any("err", serr))
			}
		}
		if err := storage.UpdateIndex(context.Background(), sh.Root, sh.Studio); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		dirty = false
		refreshLayoutsList()
		l.Info("layout saved", slog.String("layout", currentLayoutID), slog.String("manifest", sh.ManifestPath))
		telemetry.Event("layout_saved", map[string]any{"widgets": len(cur.Widgets)})
		status.SetText("Saved layout " + currentLayoutID + ".")
	}

	// Studio open/close plumbing shared by menu, dashboard, and auto-open.
	var showDashboard func()
	var showEditor func()
	var closeStudioItem *fyne.MenuItem
	loadStudioIntoUI := func(handle *storage.StudioHandle, root string) {
		sh = handle
		dc.SetStudioRoot(sh.Root)
		name := sh.Studio.Name
		if name == "" {
			name = filepath.Base(sh.Root)
		}
		w.SetTitle("Break Designer — " + name)
		refreshLayoutsList()
		currentLayoutID = ""
		// Unselect first so Select fires even when the previous studio also
		// had row 0 selected.
		layoutsList.UnselectAll()
		if len(sh.Studio.Layouts) > 0 {
			layoutsList.Select(0)
		} else {
			dc.ClearLayout()
			status.SetText("Studio has no layouts yet. Use Layout > New Layout.")
		}
		if closeStudioItem != nil {
			closeStudioItem.Disabled = false
		}
		addRecentStudio(prefs, root)
		showEditor()
	}
	openStudioDir := func(dir string) {
		handle, err := storage.Open(dir)
		if err != nil {
			l.Error("open studio failed", slog.String("dir", dir), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		l.Info("studio opened", slog.String("root", dir), slog.Int("layouts", len(handle.Studio.Layouts)))
		loadStudioIntoUI(handle, dir)
	}

	// Toolbar: arrangement actions over the current selection.
	runArrange := func(name string, fn func() error) {
		if err := fn(); err != nil {
			l.Warn("arrange failed", slog.String("op", name), slog.Any("err", err))
			status.SetText(name + ": " + err.Error())
			return
		}
		status.SetText(name + " applied.")
	}
	previewBtn := widget.NewButton("Preview", nil)
	previewBtn.OnTapped = func() {
		on := !des.Preview()
		dc.SetPreview(on)
		if on {
			previewBtn.SetText("Exit Preview")
			status.SetText("Preview: placeholders rendered with a sample break clock.")
		} else {
			previewBtn.SetText("Preview")
			status.SetText("Editing " + currentLayoutID)
		}
	}
	toolbar := container.NewHBox(
		widget.NewButton("Align Left", func() { runArrange("align left", func() error { return des.AlignSelection(command.AlignLeft) }) }),
		widget.NewButton("Align Right", func() { runArrange("align right", func() error { return des.AlignSelection(command.AlignRight) }) }),
		widget.NewButton("Align Top", func() { runArrange("align top", func() error { return des.AlignSelection(command.AlignTop) }) }),
		widget.NewButton("Align Bottom", func() { runArrange("align bottom", func() error { return des.AlignSelection(command.AlignBottom) }) }),
		widget.NewButton("Center", func() { runArrange("align center", func() error { return des.AlignSelection(command.AlignCenter) }) }),
		widget.NewButton("Middle", func() { runArrange("align middle", func() error { return des.AlignSelection(command.AlignMiddle) }) }),
		widget.NewSeparator(),
		widget.NewButton("Distribute H", func() { runArrange("distribute", func() error { return des.DistributeSelection(command.Horizontal) }) }),
		widget.NewButton("Distribute V", func() { runArrange("distribute", func() error { return des.DistributeSelection(command.Vertical) }) }),
		widget.NewButton("Same Size", func() { runArrange("same size", func() error { return des.MakeSelectionSameSize(command.SameBoth) }) }),
		widget.NewButton("To Front", func() { runArrange("bring to front", func() error { return des.BringSelectionToFront() }) }),
		widget.NewSeparator(),
		previewBtn,
	)

	statusBar := container.NewHBox(status)
	editorContent := container.NewBorder(toolbar, statusBar, left, right, container.NewMax(dc))
	root := container.NewMax(editorContent)
	w.SetContent(root)

	showEditor = func() {
		root.Objects = []fyne.CanvasObject{editorContent}
		root.Refresh()
	}

	// Menus
	newStudioItem := fyne.NewMenuItem("New Studio…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			dir := uri.Path()
			st := domain.Studio{Name: filepath.Base(dir)}
			handle, ierr := storage.InitStudio(dir, st)
			if ierr != nil {
				l.Error("init studio failed", slog.Any("err", ierr))
				dialog.ShowError(ierr, w)
				return
			}
			l.Info("studio created", slog.String("root", dir))
			loadStudioIntoUI(handle, dir)
		}, w)
		fd.Show()
	})
	openStudioItem := fyne.NewMenuItem("Open Studio…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			openStudioDir(uri.Path())
		}, w)
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save Layout", func() { saveCurrentLayout() })
	closeStudioItem = fyne.NewMenuItem("Close Studio", func() {
		if sh == nil {
			return
		}
		l.Info("menu: close studio")
		sh = nil
		currentLayoutID = ""
		dirty = false
		w.SetTitle("Break Designer")
		dc.ClearLayout()
		dc.SetStudioRoot("")
		refreshLayoutsList()
		updateInspector(nil)
		status.SetText("Studio closed.")
		closeStudioItem.Disabled = true
		showDashboard()
	})
	closeStudioItem.Disabled = true
	newStudioItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openStudioItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	closeStudioItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}
	fileMenu := fyne.NewMenu("File", newStudioItem, openStudioItem, saveItem, closeStudioItem)

	reportEditErr := func(op string, err error) {
		if err == nil {
			return
		}
		l.Warn(op+" failed", slog.Any("err", err))
		status.SetText(op + ": " + err.Error())
	}
	undoItem := fyne.NewMenuItem("Undo", func() { reportEditErr("undo", des.Undo()) })
	redoItem := fyne.NewMenuItem("Redo", func() { reportEditErr("redo", des.Redo()) })
	cutItem := fyne.NewMenuItem("Cut", func() { reportEditErr("cut", des.CutSelection()) })
	copyItem := fyne.NewMenuItem("Copy", func() {
		n := des.CopySelection()
		status.SetText(fmt.Sprintf("Copied %d widget(s).", n))
	})
	pasteItem := fyne.NewMenuItem("Paste", func() {
		ids, err := des.PasteFromClipboard()
		if err != nil {
			reportEditErr("paste", err)
			return
		}
		status.SetText(fmt.Sprintf("Pasted %d widget(s).", len(ids)))
	})
	deleteItem := fyne.NewMenuItem("Delete", func() { reportEditErr("delete", des.DeleteSelection()) })
	selectAllItem := fyne.NewMenuItem("Select All", func() { des.SelectAll() })
	groupItem := fyne.NewMenuItem("Group", func() { reportEditErr("group", des.GroupSelection()) })
	ungroupItem := fyne.NewMenuItem("Ungroup", func() { reportEditErr("ungroup", des.UngroupSelection()) })
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	cutItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyX, Modifier: fyne.KeyModifierControl}
	copyItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl}
	pasteItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyV, Modifier: fyne.KeyModifierControl}
	selectAllItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyA, Modifier: fyne.KeyModifierControl}
	groupItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyG, Modifier: fyne.KeyModifierControl}
	ungroupItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyG, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}
	editMenu := fyne.NewMenu("Edit",
		undoItem, redoItem,
		fyne.NewMenuItemSeparator(),
		cutItem, copyItem, pasteItem, deleteItem,
		fyne.NewMenuItemSeparator(),
		selectAllItem, groupItem, ungroupItem,
	)

	newLayoutItem := fyne.NewMenuItem("New Layout…", func() {
		if sh == nil {
			dialog.ShowInformation("New Layout", "No studio open.", w)
			return
		}
		nameEntry := widget.NewEntry()
		nameEntry.SetPlaceHolder("Lunch Screen")
		breakEntry := widget.NewEntry()
		breakEntry.SetPlaceHolder("lunch")
		items := []*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Break type", breakEntry),
		}
		dialog.ShowForm("New Layout", "Create", "Cancel", items, func(ok bool) {
			if !ok {
				return
			}
			lo, err := storage.AddLayout(sh, domain.Layout{
				Name:      strings.TrimSpace(nameEntry.Text),
				BreakType: strings.TrimSpace(breakEntry.Text),
			})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if err := storage.Save(sh); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refreshLayoutsList()
			for i, id := range layoutIDs {
				if id == lo.ID {
					layoutsList.Select(widget.ListItemID(i))
					break
				}
			}
			l.Info("layout created", slog.String("layout", lo.ID))
			status.SetText("Created layout " + lo.ID + ".")
		}, w)
	})
	layoutMetaItem := fyne.NewMenuItem("Layout Properties…", func() {
		if sh == nil || currentLayoutID == "" {
			dialog.ShowInformation("Layout Properties", "No layout open.", w)
			return
		}
		lo, ok := sh.Studio.LayoutByID(currentLayoutID)
		if !ok {
			return
		}
		nameEntry := widget.NewEntry()
		nameEntry.SetText(lo.Name)
		breakEntry := widget.NewEntry()
		breakEntry.SetText(lo.BreakType)
		items := []*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Break type", breakEntry),
		}
		dialog.ShowForm("Layout Properties", "Apply", "Cancel", items, func(ok bool) {
			if !ok {
				return
			}
			if err := storage.UpdateLayoutMeta(sh, currentLayoutID, "", strings.TrimSpace(nameEntry.Text), strings.TrimSpace(breakEntry.Text)); err != nil {
				dialog.ShowError(err, w)
				return
			}
			if err := storage.Save(sh); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refreshLayoutsList()
			status.SetText("Updated layout properties.")
		}, w)
	})
	deleteLayoutItem := fyne.NewMenuItem("Delete Layout…", func() {
		if sh == nil || currentLayoutID == "" {
			dialog.ShowInformation("Delete Layout", "No layout open.", w)
			return
		}
		id := currentLayoutID
		dialog.ShowConfirm("Delete Layout", "Delete layout "+id+" from the studio?", func(ok bool) {
			if !ok {
				return
			}
			if err := storage.RemoveLayout(sh, id); err != nil {
				dialog.ShowError(err, w)
				return
			}
			if err := storage.Save(sh); err != nil {
				dialog.ShowError(err, w)
				return
			}
			currentLayoutID = ""
			dc.ClearLayout()
			refreshLayoutsList()
			if len(layoutIDs) > 0 {
				layoutsList.Select(0)
			}
			status.SetText("Deleted layout " + id + ".")
		}, w)
	})
	layoutMenu := fyne.NewMenu("Layout", newLayoutItem, layoutMetaItem, deleteLayoutItem)

	insertWidgetOfType := func(t domain.WidgetType) {
		if sh == nil || currentLayoutID == "" {
			dialog.ShowInformation("Insert", "Open a layout first.", w)
			return
		}
		id, err := des.CreateWidget(defaultWidgetData(t))
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		des.Selection().Select(id, false)
		status.SetText("Inserted " + string(t) + " widget " + id + ".")
	}
	insertImageItem := fyne.NewMenuItem("Image…", func() {
		if sh == nil || currentLayoutID == "" {
			dialog.ShowInformation("Insert", "Open a layout first.", w)
			return
		}
		fd := dialog.NewFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			rel, rerr := stageAsset(sh.Root, path)
			if rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			data := defaultWidgetData(domain.TypeImage)
			data.Properties.ImageURL = rel
			id, cerr := des.CreateWidget(data)
			if cerr != nil {
				dialog.ShowError(cerr, w)
				return
			}
			des.Selection().Select(id, false)
			status.SetText("Inserted image widget " + id + " (" + rel + ").")
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
		fd.Show()
	})
	insertMenu := fyne.NewMenu("Insert",
		fyne.NewMenuItem("Box", func() { insertWidgetOfType(domain.TypeBox) }),
		fyne.NewMenuItem("Text", func() { insertWidgetOfType(domain.TypeText) }),
		fyne.NewMenuItem("QR Code", func() { insertWidgetOfType(domain.TypeQR) }),
		insertImageItem,
	)

	exportCurrent := func(format string) {
		if sh == nil || currentLayoutID == "" {
			dialog.ShowInformation("Export", "No layout open.", w)
			return
		}
		if dirty {
			status.SetText("Unsaved edits are not exported. Save first (Ctrl+S).")
		}
		var err error
		var out string
		switch format {
		case "png":
			out = filepath.Join(sh.Root, "exports", "png", currentLayoutID+".png")
			err = export.ExportLayoutPNG(sh, currentLayoutID, "png", export.PNGOptions{})
		case "svg":
			out = filepath.Join(sh.Root, "exports", "svg", currentLayoutID+".svg")
			err = export.ExportLayoutSVG(sh, currentLayoutID, "svg", export.SVGOptions{})
		case "pdf":
			out = filepath.Join(sh.Root, "exports", "pdf", "proof-sheet.pdf")
			err = export.ExportProofSheetPDF(sh, []string{currentLayoutID}, filepath.Join("pdf", "proof-sheet.pdf"), export.PDFOptions{Annotate: true})
		}
		if err != nil {
			l.Error("export failed", slog.String("format", format), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		dialog.ShowInformation("Export", "Exported to "+out, w)
	}
	runBatch := func(preset export.PresetName) {
		if sh == nil {
			dialog.ShowInformation("Export", "No studio open.", w)
			return
		}
		if err := export.BatchExport(sh, export.BatchOptions{Preset: preset}); err != nil {
			l.Error("batch export failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		dialog.ShowInformation("Export", "Batch export finished under "+filepath.Join(sh.Root, "exports")+".", w)
	}
	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Layout as PNG", func() { exportCurrent("png") }),
		fyne.NewMenuItem("Layout as SVG", func() { exportCurrent("svg") }),
		fyne.NewMenuItem("Layout Proof Sheet (PDF)", func() { exportCurrent("pdf") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Batch: Screen Preset", func() { runBatch(export.PresetScreen) }),
		fyne.NewMenuItem("Batch: Print Preset", func() { runBatch(export.PresetPrint) }),
	)

	aboutItem := fyne.NewMenuItem("About Break Designer", func() {
		exe, _ := os.Executable()
		cwd, _ := os.Getwd()
		info := fmt.Sprintf("Break Designer\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorking Dir: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cwd)
		dialog.ShowInformation("Installation Environment", info, w)
	})
	copyrightItem := fyne.NewMenuItem("Copyright…", func() {
		currentYear := time.Now().Year()
		msg := fmt.Sprintf("Break Designer\nCopyright © 2025-%d The Break Designer Authors\n\nLicensed under the Apache License, Version 2.0.\nSee the LICENSE file for details.", currentYear)
		dialog.ShowInformation("Copyright", msg, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem, copyrightItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, layoutMenu, insertMenu, exportMenu, aboutMenu))

	// Redo is also on Ctrl+Shift+Z for muscle memory from other tools.
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		reportEditErr("redo", des.Redo())
	})
	// Unmodified keys: delete and escape.
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			reportEditErr("delete", des.DeleteSelection())
		case fyne.KeyEscape:
			if des.Dragging() {
				des.CancelDrag()
				status.SetText("Drag cancelled.")
				dc.Refresh()
				return
			}
			des.Selection().Clear()
		}
	})

	// Dashboard with recent studios
	buildDashboard := func() fyne.CanvasObject {
		title := widget.NewLabel("Studio Dashboard")
		title.TextStyle = fyne.TextStyle{Bold: true}
		title.Alignment = fyne.TextAlignLeading

		newBtn := widget.NewButton("New Studio…", func() { newStudioItem.Action() })
		openBtn := widget.NewButton("Open Studio…", func() { openStudioItem.Action() })

		recent := loadRecentStudios(prefs)
		recList := widget.NewList(
			func() int { return len(recent) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) {
				if i >= 0 && int(i) < len(recent) {
					o.(*widget.Label).SetText(recent[i])
				} else {
					o.(*widget.Label).SetText("")
				}
			},
		)
		recList.OnSelected = func(id widget.ListItemID) {
			if id < 0 || int(id) >= len(recent) {
				return
			}
			openStudioDir(recent[id])
		}
		header := widget.NewLabel("Recent Studios")
		return container.NewBorder(
			container.NewVBox(title, widget.NewSeparator(), container.NewHBox(newBtn, openBtn)),
			nil, nil, nil,
			container.NewBorder(header, nil, nil, nil, recList),
		)
	}
	showDashboard = func() {
		// Rebuilt on every visit so the recent-studios list stays current.
		root.Objects = []fyne.CanvasObject{buildDashboard()}
		root.Refresh()
	}

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	if sh != nil {
		loadStudioIntoUI(sh, sh.Root)
	} else {
		showDashboard()
	}

	w.ShowAndRun()
	return nil
}

// defaultWidgetData builds the record for a freshly inserted widget. New
// widgets land near the canvas origin with sizes that read well at 1920x1080.
func defaultWidgetData(t domain.WidgetType) domain.WidgetData {
	data := domain.WidgetData{
		Type:     t,
		Position: geometry.Pt(120, 120),
	}
	switch t {
	case domain.TypeBox:
		data.Size = geometry.Sz(480, 270)
		data.Properties.BackgroundColor = "#dbe4f0"
		data.Properties.BorderRadius = 12
	case domain.TypeText:
		data.Size = geometry.Sz(720, 140)
		data.Properties.Template = "Back at {end-time}"
		data.Properties.Align = "center"
		data.Properties.Font = domain.FontSpec{Family: "Inter", Size: 64, Color: "#1f2933", Bold: true}
	case domain.TypeQR:
		data.Size = geometry.Sz(280, 280)
		data.Properties.Payload = "https://example.com/break"
	case domain.TypeImage:
		data.Size = geometry.Sz(480, 320)
		data.Properties.Opacity = 1
	}
	return data
}

// stageAsset makes path usable as a widget image source: files already inside
// the studio keep their relative path, anything else is copied into assets/.
func stageAsset(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if rel, rerr := filepath.Rel(root, abs); rerr == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel), nil
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}
	dst := filepath.Join(root, "assets", filepath.Base(abs))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return "", fmt.Errorf("stage asset: %w", err)
	}
	return filepath.ToSlash(filepath.Join("assets", filepath.Base(abs))), nil
}

// DesignCanvas shows one layout at a zoomable scale and feeds pointer events
// into the designer's interaction state machine. All editing semantics live
// in the designer; this widget only maps coordinates and draws elements.
type DesignCanvas struct {
	widget.BaseWidget
	// Interaction
	zoom    float32
	offsetX float32
	offsetY float32
	// Canvas extent in design units (pixels of the target screen)
	canvasW float32
	canvasH float32
	// Canvas fill parsed from the layout background
	background color.NRGBA
	preview    bool

	des     *designer.Designer
	surface *fyneSurface

	panActive bool
	panLast   fyne.Position
}

const designDefaultZoom = 0.4

func NewDesignCanvas(l *slog.Logger) *DesignCanvas {
	dc := &DesignCanvas{
		zoom:       designDefaultZoom,
		canvasW:    float32(domain.DefaultCanvas.Width),
		canvasH:    float32(domain.DefaultCanvas.Height),
		background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	dc.surface = newFyneSurface(func() { dc.Refresh() })
	dc.des = designer.New(designer.Config{Surface: dc.surface, Logger: l})
	dc.ExtendBaseWidget(dc)
	return dc
}

// Designer exposes the editing core driving this canvas.
func (p *DesignCanvas) Designer() *designer.Designer { return p.des }

// SetStudioRoot points the surface at the studio so image widgets can load
// their asset files. An empty root disables asset resolution.
func (p *DesignCanvas) SetStudioRoot(root string) { p.surface.root = root }

// LoadLayout hydrates the designer from a layout record and adopts its
// canvas size and background for rendering.
func (p *DesignCanvas) LoadLayout(lo domain.Layout) {
	p.des.LoadLayout(lo)
	sz := p.des.CanvasSize()
	p.canvasW = float32(sz.Width)
	p.canvasH = float32(sz.Height)
	p.background = nrgbaFromHex(lo.Background, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	p.offsetX, p.offsetY = 0, 0
	p.Refresh()
}

// ClearLayout empties the canvas.
func (p *DesignCanvas) ClearLayout() {
	p.des.LoadLayout(domain.Layout{})
	p.background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	p.Refresh()
}

// SetPreview toggles preview rendering: template text resolves against the
// sample clock and editing chrome disappears.
func (p *DesignCanvas) SetPreview(on bool) {
	p.preview = on
	p.des.SetPreview(on)
	p.Refresh()
}

// Coordinate helpers: canvas <-> screen mapping
func (p *DesignCanvas) canvasOriginAndScale() (cx, cy, scale float32) {
	size := p.Size()
	scaledW := p.canvasW * p.zoom
	scaledH := p.canvasH * p.zoom
	cx = float32(size.Width)/2 - scaledW/2 + p.offsetX
	cy = float32(size.Height)/2 - scaledH/2 + p.offsetY
	return cx, cy, p.zoom
}

func (p *DesignCanvas) toCanvas(pos fyne.Position) geometry.Point {
	cx, cy, s := p.canvasOriginAndScale()
	return geometry.Pt(float64((pos.X-cx)/s), float64((pos.Y-cy)/s))
}

// MouseDown begins a gesture: the secondary button pans, the primary button
// goes to the designer (select, move, resize, or marquee).
func (p *DesignCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		p.panActive = true
		p.panLast = e.Position
		return
	}
	if p.preview {
		return
	}
	p.des.PointerDown(p.toCanvas(e.Position), designer.Modifiers{Additive: e.Modifier&fyne.KeyModifierShift != 0})
	p.Refresh()
}

func (p *DesignCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		p.panActive = false
		return
	}
	if p.preview {
		return
	}
	p.des.PointerUp(p.toCanvas(e.Position))
	p.Refresh()
}

// Dragged feeds pointer motion into the in-flight designer gesture.
func (p *DesignCanvas) Dragged(e *fyne.DragEvent) {
	if p.panActive {
		p.offsetX += float32(e.Dragged.DX)
		p.offsetY += float32(e.Dragged.DY)
		p.Refresh()
		return
	}
	if p.preview {
		return
	}
	p.des.PointerMove(p.toCanvas(e.Position))
	p.Refresh()
}

func (p *DesignCanvas) DragEnd() {}

// Hoverable: pan with the secondary button held (drag events only fire for
// the primary button).
func (p *DesignCanvas) MouseIn(*desktop.MouseEvent) {}
func (p *DesignCanvas) MouseOut()                   { p.panActive = false }
func (p *DesignCanvas) MouseMoved(e *desktop.MouseEvent) {
	if !p.panActive {
		return
	}
	p.offsetX += e.Position.X - p.panLast.X
	p.offsetY += e.Position.Y - p.panLast.Y
	p.panLast = e.Position
	p.Refresh()
}

// Scrolled zooms around the current view center.
func (p *DesignCanvas) Scrolled(e *fyne.ScrollEvent) {
	step := float32(e.Scrolled.DY) * 0.05
	p.zoom += step
	if p.zoom < 0.1 {
		p.zoom = 0.1
	}
	if p.zoom > 4.0 {
		p.zoom = 4.0
	}
	p.Refresh()
}

// PreferredSize sets a decent default size for the widget.
func (p *DesignCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (p *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 30, G: 30, B: 34, A: 255})

	base := canvas.NewRectangle(color.White)
	base.StrokeColor = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	base.StrokeWidth = 2

	// Safe-area guide: display edges are unreliable on TVs and projectors,
	// so content should keep 5% clear on every side.
	safe := canvas.NewRectangle(color.NRGBA{})
	safe.StrokeColor = color.NRGBA{R: 200, G: 0, B: 0, A: 160}
	safe.StrokeWidth = 1

	handles := make([]*canvas.Rectangle, 4)
	for i := range handles {
		handles[i] = canvas.NewRectangle(color.NRGBA{R: 0, G: 170, B: 255, A: 255})
		handles[i].Hide()
	}

	return &designCanvasRenderer{pc: p, bg: bg, base: base, safe: safe, handles: handles}
}

// designCanvasRenderer lays out the canvas chrome, the surface elements in z
// order, and the selection handles.
type designCanvasRenderer struct {
	pc      *DesignCanvas
	objects []fyne.CanvasObject
	bg      *canvas.Rectangle
	base    *canvas.Rectangle
	safe    *canvas.Rectangle
	handles []*canvas.Rectangle
}

func (r *designCanvasRenderer) Destroy()                     {}
func (r *designCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *designCanvasRenderer) MinSize() fyne.Size           { return r.pc.PreferredSize() }
func (r *designCanvasRenderer) Refresh()                     { r.Layout(r.pc.Size()); canvas.Refresh(r.pc) }

func (r *designCanvasRenderer) Layout(size fyne.Size) {
	p := r.pc
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	// Center in the available space, then add pan offset
	s := p.zoom
	scaledW := p.canvasW * s
	scaledH := p.canvasH * s
	cx := float32(size.Width)/2 - scaledW/2 + p.offsetX
	cy := float32(size.Height)/2 - scaledH/2 + p.offsetY

	r.base.FillColor = p.background
	r.base.Resize(fyne.NewSize(scaledW, scaledH))
	r.base.Move(fyne.NewPos(cx, cy))

	inset := float32(0.05)
	r.safe.Resize(fyne.NewSize(scaledW*(1-2*inset), scaledH*(1-2*inset)))
	r.safe.Move(fyne.NewPos(cx+scaledW*inset, cy+scaledH*inset))
	if p.preview {
		r.safe.Hide()
	} else {
		r.safe.Show()
	}

	// Surface elements in paint order, then marquee overlays
	els := p.surface.sorted()
	for _, el := range els {
		el.layout(cx, cy, s, p.preview)
	}
	for _, ov := range p.surface.overlays {
		ov.layout(cx, cy, s, p.preview)
	}

	// Selection handles for a single-widget selection. Their size matches
	// the designer's hit zones, which are defined in canvas units.
	showHandles := false
	if !p.preview {
		ids := p.des.Selection().Selected()
		if len(ids) == 1 {
			if wd, ok := p.des.WidgetData(ids[0]); ok {
				rect := wd.Rect()
				hs := float32(designer.HandleSize) * s
				pts := [4]fyne.Position{
					{X: cx + float32(rect.X)*s, Y: cy + float32(rect.Y)*s},
					{X: cx + float32(rect.X+rect.Width)*s, Y: cy + float32(rect.Y)*s},
					{X: cx + float32(rect.X)*s, Y: cy + float32(rect.Y+rect.Height)*s},
					{X: cx + float32(rect.X+rect.Width)*s, Y: cy + float32(rect.Y+rect.Height)*s},
				}
				for i, h := range r.handles {
					h.Resize(fyne.NewSize(hs, hs))
					h.Move(fyne.NewPos(pts[i].X-hs/2, pts[i].Y-hs/2))
					h.Show()
				}
				showHandles = true
			}
		}
	}
	if !showHandles {
		for _, h := range r.handles {
			h.Hide()
		}
	}

	// Rebuild paint order: chrome, elements by z, overlays, handles.
	objs := make([]fyne.CanvasObject, 0, 3+4+len(els)*2+len(p.surface.overlays))
	objs = append(objs, r.bg, r.base, r.safe)
	for _, el := range els {
		objs = append(objs, el.objects()...)
	}
	for _, ov := range p.surface.overlays {
		objs = append(objs, ov.objects()...)
	}
	for _, h := range r.handles {
		objs = append(objs, h)
	}
	r.objects = objs
}

// fyneSurface implements the designer's render port on Fyne canvas objects.
type fyneSurface struct {
	elements []*fyneElement
	overlays []*fyneElement
	root     string // studio root for asset resolution, may be empty
	seq      int
	refresh  func()
}

func newFyneSurface(refresh func()) *fyneSurface {
	return &fyneSurface{refresh: refresh}
}

func (s *fyneSurface) requestRefresh() {
	if s.refresh != nil {
		s.refresh()
	}
}

// sorted returns the widget elements in paint order: ascending z, creation
// order as the tiebreaker.
func (s *fyneSurface) sorted() []*fyneElement {
	out := make([]*fyneElement, len(s.elements))
	copy(out, s.elements)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].z != out[j].z {
			return out[i].z < out[j].z
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (s *fyneSurface) NewElement(data domain.WidgetData) wport.Element {
	s.seq++
	el := &fyneElement{s: s, kind: data.Type, seq: s.seq, visible: true}
	el.build(data)
	s.elements = append(s.elements, el)
	s.requestRefresh()
	return el
}

func (s *fyneSurface) NewOverlay() wport.Element {
	s.seq++
	el := &fyneElement{s: s, overlay: true, seq: s.seq, visible: true}
	rect := canvas.NewRectangle(color.NRGBA{R: 0, G: 170, B: 255, A: 40})
	rect.StrokeColor = color.NRGBA{R: 0, G: 170, B: 255, A: 255}
	rect.StrokeWidth = 1
	el.rect = rect
	s.overlays = append(s.overlays, el)
	s.requestRefresh()
	return el
}

func (s *fyneSurface) remove(el *fyneElement) {
	list := &s.elements
	if el.overlay {
		list = &s.overlays
	}
	for i, e := range *list {
		if e == el {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
	s.requestRefresh()
}

// fyneElement is one widget visual. The base rectangle exists for every
// kind; text widgets add a canvas.Text, image widgets a canvas.Image when
// their asset file resolves.
type fyneElement struct {
	s       *fyneSurface
	kind    domain.WidgetType
	seq     int
	z       int
	frame   geometry.Rect
	visible bool
	overlay bool

	selected bool
	grouped  bool
	hidden   bool // group frames hide in preview

	rect  *canvas.Rectangle
	img   *canvas.Image
	label *canvas.Text

	stroke     color.NRGBA
	strokeW    float32
	baseRadius float64
	baseFont   float64
	rawText    string
	prevText   string
}

func (el *fyneElement) build(data domain.WidgetData) {
	el.frame = data.Rect()
	el.z = data.ZIndex
	rect := canvas.NewRectangle(color.NRGBA{})
	el.rect = rect

	switch data.Type {
	case domain.TypeBox:
		rect.FillColor = nrgbaFromHex(data.Properties.BackgroundColor, color.NRGBA{R: 224, G: 224, B: 224, A: 255})
		el.stroke = color.NRGBA{R: 60, G: 60, B: 60, A: 120}
		el.strokeW = 1
		el.baseRadius = data.Properties.BorderRadius
	case domain.TypeText:
		rect.FillColor = color.NRGBA{}
		el.stroke = color.NRGBA{R: 120, G: 120, B: 120, A: 80}
		el.strokeW = 1
		el.baseFont = data.Properties.Font.Size
		if el.baseFont <= 0 {
			el.baseFont = 24
		}
		if tpl := strings.TrimSpace(data.Properties.Template); tpl != "" {
			el.rawText = tpl
			el.prevText = message.Preview(tpl)
		} else {
			el.rawText = data.Properties.Text
			el.prevText = data.Properties.Text
		}
		t := canvas.NewText(el.rawText, nrgbaFromHex(data.Properties.Font.Color, color.NRGBA{R: 31, G: 41, B: 51, A: 255}))
		t.TextStyle = fyne.TextStyle{Bold: data.Properties.Font.Bold}
		t.Alignment = textAlign(data.Properties.Align)
		el.label = t
	case domain.TypeQR:
		rect.FillColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		el.stroke = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		el.strokeW = 1
		el.baseFont = 14
		t := canvas.NewText("QR "+strings.TrimSpace(data.Properties.Payload), color.NRGBA{R: 90, G: 90, B: 90, A: 255})
		t.Alignment = fyne.TextAlignCenter
		el.label = t
	case domain.TypeImage:
		rect.FillColor = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
		el.stroke = color.NRGBA{R: 136, G: 136, B: 136, A: 255}
		el.strokeW = 1
		if p := resolveAsset(el.s.root, data.Properties.ImageURL); p != "" {
			img := canvas.NewImageFromFile(p)
			img.FillMode = canvas.ImageFillStretch
			if data.Properties.Opacity > 0 && data.Properties.Opacity < 1 {
				img.Translucency = 1 - data.Properties.Opacity
			}
			el.img = img
		} else {
			el.baseFont = 14
			t := canvas.NewText("missing: "+data.Properties.ImageURL, color.NRGBA{R: 136, G: 136, B: 136, A: 255})
			t.Alignment = fyne.TextAlignCenter
			el.label = t
		}
	case domain.TypeGroup:
		rect.FillColor = color.NRGBA{}
		el.stroke = color.NRGBA{R: 140, G: 120, B: 220, A: 200}
		el.strokeW = 1
	default:
		rect.FillColor = color.NRGBA{}
		el.stroke = color.NRGBA{R: 200, G: 60, B: 60, A: 255}
		el.strokeW = 1
	}
	rect.StrokeColor = el.stroke
	rect.StrokeWidth = el.strokeW
}

// layout positions this element's canvas objects for the current view.
func (el *fyneElement) layout(cx, cy, s float32, preview bool) {
	pos := fyne.NewPos(cx+float32(el.frame.X)*s, cy+float32(el.frame.Y)*s)
	size := fyne.NewSize(float32(el.frame.Width)*s, float32(el.frame.Height)*s)
	show := el.visible && !el.hidden
	if !show {
		el.rect.Hide()
		if el.img != nil {
			el.img.Hide()
		}
		if el.label != nil {
			el.label.Hide()
		}
		return
	}
	el.rect.Show()
	el.rect.Resize(size)
	el.rect.Move(pos)
	el.rect.CornerRadius = float32(el.baseRadius) * s

	// Selection and grouping chrome on the base rectangle
	switch {
	case preview && !el.overlay:
		el.rect.StrokeColor = color.NRGBA{}
		el.rect.StrokeWidth = 0
	case el.selected:
		el.rect.StrokeColor = color.NRGBA{R: 0, G: 170, B: 255, A: 255}
		el.rect.StrokeWidth = 2
	case el.grouped:
		el.rect.StrokeColor = color.NRGBA{R: el.stroke.R, G: el.stroke.G, B: el.stroke.B, A: 60}
		el.rect.StrokeWidth = 1
	default:
		el.rect.StrokeColor = el.stroke
		el.rect.StrokeWidth = el.strokeW
	}
	el.rect.Refresh()

	if el.img != nil {
		el.img.Show()
		el.img.Resize(size)
		el.img.Move(pos)
		el.img.Refresh()
	}
	if el.label != nil {
		el.label.Show()
		txt := el.rawText
		if preview && el.kind == domain.TypeText {
			txt = el.prevText
		}
		if el.label.Text != txt {
			el.label.Text = txt
		}
		el.label.TextSize = float32(el.baseFont) * s
		el.label.Resize(size)
		el.label.Move(pos)
		el.label.Refresh()
	}
}

func (el *fyneElement) objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{el.rect}
	if el.img != nil {
		objs = append(objs, el.img)
	}
	if el.label != nil {
		objs = append(objs, el.label)
	}
	return objs
}

func (el *fyneElement) SetFrame(r geometry.Rect) {
	el.frame = r
	el.s.requestRefresh()
}

func (el *fyneElement) SetZ(z int) {
	el.z = z
	el.s.requestRefresh()
}

func (el *fyneElement) SetVisible(v bool) {
	el.visible = v
	el.s.requestRefresh()
}

func (el *fyneElement) SetState(st wport.State, on bool) {
	switch st {
	case wport.StateSelected:
		el.selected = on
	case wport.StateGrouped:
		el.grouped = on
	case wport.StatePreview:
		// Only group frames receive this state; they vanish in preview.
		el.hidden = on && el.kind == domain.TypeGroup
	}
	el.s.requestRefresh()
}

func (el *fyneElement) Frame() geometry.Rect { return el.frame }

func (el *fyneElement) Destroy() {
	el.s.remove(el)
}

// resolveAsset maps a manifest-relative asset path onto the filesystem.
// Absolute and escaping paths are rejected, matching the export renderers.
func resolveAsset(root, url string) string {
	if root == "" || strings.TrimSpace(url) == "" {
		return ""
	}
	p := filepath.FromSlash(url)
	if filepath.IsAbs(p) || !filepath.IsLocal(p) {
		return ""
	}
	full := filepath.Join(root, p)
	if _, err := os.Stat(full); err != nil {
		return ""
	}
	return full
}

func nrgbaFromHex(s string, fallback color.NRGBA) color.NRGBA {
	c, err := domain.ParseColor(s)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func textAlign(s string) fyne.TextAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return fyne.TextAlignCenter
	case "right":
		return fyne.TextAlignTrailing
	default:
		return fyne.TextAlignLeading
	}
}

// Recent studio persistence helpers for the dashboard
const recentPrefsKey = "recent.studios"
const recentMax = 10

func loadRecentStudios(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	return items
}

func saveRecentStudios(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, err := json.Marshal(items)
	if err != nil {
		return
	}
	p.SetString(recentPrefsKey, string(b))
}

func addRecentStudio(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	items := loadRecentStudios(p)
	out := make([]string, 0, len(items)+1)
	out = append(out, path)
	for _, it := range items {
		if it != path {
			out = append(out, it)
		}
	}
	saveRecentStudios(p, out)
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package designer is the editing engine behind a break-screen canvas. A
// Designer owns the widget map and the monotonic z counter, runs every edit
// through the command manager so it is undoable, keeps selection and visual
// chrome in sync, and cascades group moves and resizes onto group members.
// It talks to the screen only through the widget render port, so the whole
// engine runs headless.
package designer

import (
	"log/slog"
	"sort"

	"breakdesigner/internal/clipboard"
	"breakdesigner/internal/command"
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	applog "breakdesigner/internal/log"
	"breakdesigner/internal/selection"
	"breakdesigner/internal/widget"
)

// zStep is the spacing of the monotonic z counter. The gap leaves room for
// group z margins without ever colliding with counter-assigned values.
const zStep = 10

// Config assembles a Designer. Zero values get sensible defaults: a headless
// surface, a private clipboard, the default canvas size, and the default
// undo depth.
type Config struct {
	Surface   widget.Surface
	Clipboard *clipboard.Clipboard
	Canvas    geometry.Size
	MaxUndo   int
	Logger    *slog.Logger
}

// Designer edits one layout.
type Designer struct {
	log     *slog.Logger
	surface widget.Surface
	factory *widget.Factory
	history *command.Manager
	sel     *selection.Manager
	clip    *clipboard.Clipboard

	widgets  map[string]widget.Widget
	zCounter int
	preview  bool

	// layout metadata retained from LoadLayout so ExportLayout round-trips
	// name, break type, canvas, and background untouched.
	layout domain.Layout

	drag dragState
}

// New creates a designer for an empty canvas.
func New(cfg Config) *Designer {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.L()
	}
	logger = logger.With("component", "designer")
	if cfg.Surface == nil {
		cfg.Surface = widget.NewMemorySurface()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.New(logger)
	}
	canvas := cfg.Canvas
	if canvas == (geometry.Size{}) {
		canvas = domain.DefaultCanvas
	}
	d := &Designer{
		log:     logger,
		surface: cfg.Surface,
		factory: widget.NewFactory(cfg.Surface, logger),
		history: command.NewManager(cfg.MaxUndo),
		sel:     selection.NewManager(logger),
		clip:    cfg.Clipboard,
		widgets: map[string]widget.Widget{},
		layout:  domain.Layout{Canvas: canvas},
	}
	d.sel.AddListener(d.syncSelectionChrome)
	return d
}

// Selection exposes the selection manager (listeners, marquee state).
func (d *Designer) Selection() *selection.Manager { return d.sel }

// History exposes the command manager (menu state, change callback).
func (d *Designer) History() *command.Manager { return d.history }

// Clipboard exposes the injected clipboard.
func (d *Designer) Clipboard() *clipboard.Clipboard { return d.clip }

// Surface exposes the render port the designer draws on.
func (d *Designer) Surface() widget.Surface { return d.surface }

// CanvasSize returns the design surface extent.
func (d *Designer) CanvasSize() geometry.Size { return d.layout.Canvas }

func (d *Designer) syncSelectionChrome(ids []string) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for id, w := range d.widgets {
		w.SetSelected(set[id])
	}
}

// AddWidget inserts a new widget: a blank id gets minted, and the widget
// always lands on top via the z counter. It returns the widget id, or ""
// when the id was already taken (a warning, not an error, so a stray drop
// never crashes an editing session).
func (d *Designer) AddWidget(data domain.WidgetData) string {
	if data.ID == "" {
		data.ID = domain.NewWidgetID()
	}
	if _, exists := d.widgets[data.ID]; exists {
		d.log.Warn("widget id already on canvas, ignoring add", "id", data.ID)
		return ""
	}
	data.ZIndex = d.NextZ()
	d.insert(data, false)
	return data.ID
}

// AddWidgetWithID inserts a widget keeping its id and zIndex, the hydration
// path used by layout loading. On id collision it warns and reports false.
func (d *Designer) AddWidgetWithID(data domain.WidgetData) bool {
	if data.ID == "" {
		d.log.Warn("widget record without id, ignoring add")
		return false
	}
	if _, exists := d.widgets[data.ID]; exists {
		d.log.Warn("widget id already on canvas, ignoring add", "id", data.ID)
		return false
	}
	d.bumpZ(data.ZIndex)
	d.insert(data, false)
	return true
}

func (d *Designer) insert(data domain.WidgetData, grouped bool) {
	w := d.factory.Create(data)
	d.widgets[data.ID] = w
	if g, ok := w.(*widget.Group); ok {
		g.Notify(d.onGroupEvent)
		if d.preview {
			g.SetPreview(true)
		}
	}
	if grouped {
		w.SetGrouped(true)
	}
}

// RemoveWidget deletes a widget and destroys its element. It reports whether
// the id existed.
func (d *Designer) RemoveWidget(id string) bool {
	w, ok := d.widgets[id]
	if !ok {
		return false
	}
	d.sel.Drop(id)
	w.Destroy()
	delete(d.widgets, id)
	return true
}

// Widget returns the live widget for an id.
func (d *Designer) Widget(id string) (widget.Widget, bool) {
	w, ok := d.widgets[id]
	return w, ok
}

// Widgets returns the live widgets ordered by ascending z (ties by id).
func (d *Designer) Widgets() []widget.Widget {
	out := make([]widget.Widget, 0, len(d.widgets))
	for _, w := range d.widgets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		zi, zj := out[i].Data().ZIndex, out[j].Data().ZIndex
		if zi == zj {
			return out[i].ID() < out[j].ID()
		}
		return zi < zj
	})
	return out
}

// WidgetIDs returns the ids ordered by ascending z.
func (d *Designer) WidgetIDs() []string {
	ws := d.Widgets()
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID()
	}
	return ids
}

// Len returns the widget count.
func (d *Designer) Len() int { return len(d.widgets) }

// onGroupEvent cascades a group frame change onto its members, live and
// without touching history: the group's own transition is the undoable part.
func (d *Designer) onGroupEvent(ev widget.GroupEvent) {
	switch ev.Kind {
	case widget.GroupMoved:
		for _, id := range ev.ChildIDs {
			w, ok := d.widgets[id]
			if !ok {
				d.log.Warn("group references missing member", "group", ev.GroupID, "member", id)
				continue
			}
			w.SetPosition(w.Rect(false).Origin().Add(ev.Offset))
		}
	case widget.GroupResized:
		for _, id := range ev.ChildIDs {
			w, ok := d.widgets[id]
			if !ok {
				d.log.Warn("group references missing member", "group", ev.GroupID, "member", id)
				continue
			}
			r := w.Rect(false)
			w.SetPosition(geometry.Pt(
				ev.Origin.X+(r.X-ev.Origin.X)*ev.ScaleX,
				ev.Origin.Y+(r.Y-ev.Origin.Y)*ev.ScaleY,
			))
			w.SetSize(geometry.Sz(r.Width*ev.ScaleX, r.Height*ev.ScaleY))
		}
	}
}

// SetPreview toggles preview mode: group affordances hide and pointer
// editing is suspended while the layout is shown as a real break screen.
func (d *Designer) SetPreview(on bool) {
	d.preview = on
	for _, w := range d.widgets {
		if g, ok := w.(*widget.Group); ok {
			g.SetPreview(on)
		}
	}
}

// Preview reports whether preview mode is active.
func (d *Designer) Preview() bool { return d.preview }

// Undo reverses the latest command and applies its reported selection.
// An empty history is a quiet no-op.
func (d *Designer) Undo() error {
	cmd, err := d.history.Undo()
	if err == command.ErrNothingToUndo {
		return nil
	}
	if err != nil {
		d.log.Error("undo failed", "command", cmd.Description(), "error", err)
		return err
	}
	d.log.Debug("undo", "command", cmd.Description())
	if sr, ok := cmd.(command.SelectionReporter); ok {
		if after := sr.SelectionAfterUndo(); after != nil {
			d.sel.SetSelection(after)
		}
	}
	return nil
}

// Redo re-applies the latest undone command and applies its reported
// selection. An empty redo stack is a quiet no-op.
func (d *Designer) Redo() error {
	cmd, err := d.history.Redo()
	if err == command.ErrNothingToRedo {
		return nil
	}
	if err != nil {
		d.log.Error("redo failed", "command", cmd.Description(), "error", err)
		return err
	}
	d.log.Debug("redo", "command", cmd.Description())
	if sr, ok := cmd.(command.SelectionReporter); ok {
		if after := sr.SelectionAfterExecute(); after != nil {
			d.sel.SetSelection(after)
		}
	}
	return nil
}

// run executes a freshly constructed command and applies its reported
// selection.
func (d *Designer) run(cmd command.Command) error {
	if err := d.history.Execute(cmd); err != nil {
		d.log.Error("command failed", "command", cmd.Description(), "error", err)
		return err
	}
	d.log.Debug("executed", "command", cmd.Description())
	if sr, ok := cmd.(command.SelectionReporter); ok {
		if after := sr.SelectionAfterExecute(); after != nil {
			d.sel.SetSelection(after)
		}
	}
	return nil
}

// CreateWidget inserts a widget as an undoable command and selects it. The
// record gets a fresh id (when blank) and the next z.
func (d *Designer) CreateWidget(data domain.WidgetData) (string, error) {
	if data.ID == "" {
		data.ID = domain.NewWidgetID()
	}
	if _, exists := d.widgets[data.ID]; exists {
		d.log.Warn("widget id already on canvas, ignoring create", "id", data.ID)
		return "", nil
	}
	data.ZIndex = d.NextZ()
	cmd, err := command.NewCreateWidget(d, command.Snapshot{Data: data})
	if err != nil {
		return "", err
	}
	if err := d.run(cmd); err != nil {
		return "", err
	}
	return data.ID, nil
}

// DeleteSelection removes the selected widgets (group members included) as
// one undoable command. An empty selection warns and no-ops.
func (d *Designer) DeleteSelection() error {
	ids := d.sel.Selected()
	if len(ids) == 0 {
		d.log.Warn("delete requested with empty selection")
		return nil
	}
	cmd, err := command.NewDeleteWidgets(d, ids)
	if err != nil {
		d.log.Warn("delete not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// GroupSelection wraps the selected widgets into a group. Fewer than two
// selected widgets warns and no-ops.
func (d *Designer) GroupSelection() error {
	ids := d.sel.Selected()
	if len(ids) < 2 {
		d.log.Warn("group requires at least 2 widgets", "selected", len(ids))
		return nil
	}
	cmd, err := command.NewGroupWidgets(d, ids)
	if err != nil {
		d.log.Warn("group not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// UngroupSelection dissolves every selected group. A selection without a
// group warns and no-ops; non-group widgets in the selection are ignored.
func (d *Designer) UngroupSelection() error {
	var groups []string
	for _, id := range d.sel.Selected() {
		if w, ok := d.widgets[id]; ok && w.Kind() == domain.TypeGroup {
			groups = append(groups, id)
		}
	}
	if len(groups) == 0 {
		d.log.Warn("ungroup requires a selected group")
		return nil
	}
	cmd, err := command.NewUngroupWidgets(d, groups)
	if err != nil {
		d.log.Warn("ungroup not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// AlignSelection aligns the selection to the reference widget's edge.
func (d *Designer) AlignSelection(edge command.AlignEdge) error {
	ids := d.sel.Selected()
	if len(ids) < 2 {
		d.log.Warn("align requires at least 2 widgets", "selected", len(ids))
		return nil
	}
	cmd, err := command.NewAlign(d, ids, edge)
	if err != nil {
		d.log.Warn("align not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// DistributeSelection spaces the selection with equal gaps.
func (d *Designer) DistributeSelection(axis command.Axis) error {
	ids := d.sel.Selected()
	if len(ids) < 3 {
		d.log.Warn("distribute requires at least 3 widgets", "selected", len(ids))
		return nil
	}
	cmd, err := command.NewDistribute(d, ids, axis)
	if err != nil {
		d.log.Warn("distribute not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// MakeSelectionSameSize copies the reference widget's extent onto the rest
// of the selection.
func (d *Designer) MakeSelectionSameSize(dim command.SizeDimension) error {
	ids := d.sel.Selected()
	if len(ids) < 2 {
		d.log.Warn("same size requires at least 2 widgets", "selected", len(ids))
		return nil
	}
	cmd, err := command.NewMakeSameSize(d, ids, dim)
	if err != nil {
		d.log.Warn("same size not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// BringSelectionToFront raises the selection above everything else.
func (d *Designer) BringSelectionToFront() error {
	ids := d.sel.Selected()
	if len(ids) == 0 {
		d.log.Warn("bring to front requested with empty selection")
		return nil
	}
	cmd, err := command.NewBringToFront(d, ids)
	if err != nil {
		d.log.Warn("bring to front not possible", "error", err)
		return nil
	}
	return d.run(cmd)
}

// SelectAll selects every interactive widget in ascending z order.
func (d *Designer) SelectAll() {
	var ids []string
	for _, w := range d.Widgets() {
		if w.Interactive() {
			ids = append(ids, w.ID())
		}
	}
	d.sel.SetSelection(ids)
}

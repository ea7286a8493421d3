/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"errors"
	"fmt"
	"sort"
)

// CreateWidget inserts one widget. Pasting inserts one CreateWidget per
// record so each pasted widget is individually undoable.
type CreateWidget struct {
	canvas Canvas
	snap   Snapshot
}

// NewCreateWidget prepares an insert. The record must already carry its id
// and zIndex (the designer assigns both before constructing the command so
// redo re-creates the identical widget).
func NewCreateWidget(c Canvas, snap Snapshot) (*CreateWidget, error) {
	if snap.Data.ID == "" {
		return nil, errors.New("create: widget id is empty")
	}
	return &CreateWidget{canvas: c, snap: snap}, nil
}

func (cmd *CreateWidget) Execute() error {
	return cmd.canvas.RestoreWidget(cmd.snap)
}

func (cmd *CreateWidget) Undo() error {
	if !cmd.canvas.RemoveWidget(cmd.snap.Data.ID) {
		return fmt.Errorf("create undo: widget %s is gone", cmd.snap.Data.ID)
	}
	return nil
}

func (cmd *CreateWidget) Description() string {
	return fmt.Sprintf("Create %s", cmd.snap.Data.Type)
}

func (cmd *CreateWidget) SelectionAfterExecute() []string {
	if cmd.snap.Grouped {
		return nil
	}
	return []string{cmd.snap.Data.ID}
}

func (cmd *CreateWidget) SelectionAfterUndo() []string { return nil }

// DeleteWidgets removes a set of widgets. Group members are pulled in
// automatically so deleting a group never leaves orphaned children behind.
type DeleteWidgets struct {
	canvas Canvas
	snaps  []Snapshot // ascending zIndex
	topIDs []string   // the ids originally requested
}

// NewDeleteWidgets snapshots the requested widgets plus, for groups, their
// members (recursively). Unknown ids are skipped; at least one widget must
// remain or construction fails.
func NewDeleteWidgets(c Canvas, ids []string) (*DeleteWidgets, error) {
	seen := map[string]bool{}
	var collect func(id string)
	var snaps []Snapshot
	collect = func(id string) {
		if seen[id] {
			return
		}
		snap, ok := c.SnapshotWidget(id)
		if !ok {
			return
		}
		seen[id] = true
		snaps = append(snaps, snap)
		for _, child := range snap.Data.Properties.ChildIDs {
			collect(child)
		}
	}
	for _, id := range ids {
		collect(id)
	}
	if len(snaps) == 0 {
		return nil, errors.New("delete: no widgets to delete")
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Data.ZIndex < snaps[j].Data.ZIndex
	})
	return &DeleteWidgets{
		canvas: c,
		snaps:  snaps,
		topIDs: append([]string(nil), ids...),
	}, nil
}

func (cmd *DeleteWidgets) Execute() error {
	// Remove top-most first so group shells disappear before their members.
	for i := len(cmd.snaps) - 1; i >= 0; i-- {
		cmd.canvas.RemoveWidget(cmd.snaps[i].Data.ID)
	}
	return nil
}

func (cmd *DeleteWidgets) Undo() error {
	// Restore bottom-up so members exist by the time their group re-appears.
	for _, snap := range cmd.snaps {
		if err := cmd.canvas.RestoreWidget(snap); err != nil {
			return fmt.Errorf("delete undo: %w", err)
		}
	}
	return nil
}

func (cmd *DeleteWidgets) Description() string {
	if len(cmd.snaps) == 1 {
		return fmt.Sprintf("Delete %s", cmd.snaps[0].Data.Type)
	}
	return fmt.Sprintf("Delete %d widgets", len(cmd.snaps))
}

func (cmd *DeleteWidgets) SelectionAfterExecute() []string { return nil }

func (cmd *DeleteWidgets) SelectionAfterUndo() []string {
	return append([]string(nil), cmd.topIDs...)
}

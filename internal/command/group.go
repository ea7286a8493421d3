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

	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
	"breakdesigner/internal/widget"
)

// memberState is a grouped widget's rect and z at grouping time, restored
// verbatim on undo.
type memberState struct {
	id   string
	rect geometry.Rect
	z    int
}

// GroupWidgets wraps two or more widgets into a group. The group frame
// follows the padding rule, its z lands above every member with a margin of
// ten per member, and members become non-interactive.
type GroupWidgets struct {
	canvas  Canvas
	members []memberState
	group   domain.WidgetData
}

// NewGroupWidgets captures member rects and z values and mints the group
// record, id included, at construction time. Redo therefore re-creates the
// identical group.
func NewGroupWidgets(c Canvas, ids []string) (*GroupWidgets, error) {
	if len(ids) < 2 {
		return nil, errors.New("group: need at least 2 widgets")
	}
	members := make([]memberState, 0, len(ids))
	rects := make([]geometry.Rect, 0, len(ids))
	maxZ := 0
	for i, id := range ids {
		data, ok := c.WidgetData(id)
		if !ok {
			return nil, fmt.Errorf("group: unknown widget %s", id)
		}
		r := data.Rect()
		members = append(members, memberState{id: id, rect: r, z: data.ZIndex})
		rects = append(rects, r)
		if i == 0 || data.ZIndex > maxZ {
			maxZ = data.ZIndex
		}
	}
	group := widget.NewGroupData(ids, rects)
	group.ID = domain.NewWidgetID()
	group.ZIndex = maxZ + len(ids)*10
	return &GroupWidgets{canvas: c, members: members, group: group}, nil
}

// GroupID returns the id the group widget gets (and keeps across redo).
func (cmd *GroupWidgets) GroupID() string { return cmd.group.ID }

func (cmd *GroupWidgets) Execute() error {
	if err := cmd.canvas.RestoreWidget(Snapshot{Data: cmd.group}); err != nil {
		return fmt.Errorf("group: %w", err)
	}
	for _, m := range cmd.members {
		cmd.canvas.SetWidgetGrouped(m.id, true)
	}
	return nil
}

func (cmd *GroupWidgets) Undo() error {
	if !cmd.canvas.RemoveWidget(cmd.group.ID) {
		return fmt.Errorf("group undo: group %s is gone", cmd.group.ID)
	}
	for _, m := range cmd.members {
		cmd.canvas.SetWidgetGrouped(m.id, false)
		cmd.canvas.SetWidgetPosition(m.id, m.rect.Origin())
		cmd.canvas.SetWidgetSize(m.id, m.rect.Size())
		cmd.canvas.SetWidgetZ(m.id, m.z)
	}
	return nil
}

func (cmd *GroupWidgets) Description() string {
	return fmt.Sprintf("Group %d widgets", len(cmd.members))
}

func (cmd *GroupWidgets) SelectionAfterExecute() []string {
	return []string{cmd.group.ID}
}

func (cmd *GroupWidgets) SelectionAfterUndo() []string {
	ids := make([]string, len(cmd.members))
	for i, m := range cmd.members {
		ids[i] = m.id
	}
	return ids
}

// UngroupWidgets dissolves one or more groups: the shells disappear and the
// members become interactive again. Undo re-creates the groups from their
// snapshots.
type UngroupWidgets struct {
	canvas   Canvas
	groups   []Snapshot
	groupIDs []string
}

// NewUngroupWidgets snapshots each group's full record, child list included,
// before anything changes.
func NewUngroupWidgets(c Canvas, groupIDs []string) (*UngroupWidgets, error) {
	if len(groupIDs) == 0 {
		return nil, errors.New("ungroup: no groups")
	}
	var snaps []Snapshot
	for _, id := range groupIDs {
		snap, ok := c.SnapshotWidget(id)
		if !ok {
			return nil, fmt.Errorf("ungroup: unknown widget %s", id)
		}
		if snap.Data.Type != domain.TypeGroup {
			return nil, fmt.Errorf("ungroup: widget %s is not a group", id)
		}
		snaps = append(snaps, snap)
	}
	return &UngroupWidgets{
		canvas:   c,
		groups:   snaps,
		groupIDs: append([]string(nil), groupIDs...),
	}, nil
}

func (cmd *UngroupWidgets) Execute() error {
	for _, snap := range cmd.groups {
		if !cmd.canvas.RemoveWidget(snap.Data.ID) {
			return fmt.Errorf("ungroup: group %s is gone", snap.Data.ID)
		}
		for _, child := range snap.Data.Properties.ChildIDs {
			cmd.canvas.SetWidgetGrouped(child, false)
		}
	}
	return nil
}

func (cmd *UngroupWidgets) Undo() error {
	for _, snap := range cmd.groups {
		if err := cmd.canvas.RestoreWidget(snap); err != nil {
			return fmt.Errorf("ungroup undo: %w", err)
		}
		for _, child := range snap.Data.Properties.ChildIDs {
			cmd.canvas.SetWidgetGrouped(child, true)
		}
	}
	return nil
}

func (cmd *UngroupWidgets) Description() string {
	if len(cmd.groups) == 1 {
		return "Ungroup"
	}
	return fmt.Sprintf("Ungroup %d groups", len(cmd.groups))
}

func (cmd *UngroupWidgets) SelectionAfterExecute() []string {
	var ids []string
	for _, snap := range cmd.groups {
		ids = append(ids, snap.Data.Properties.ChildIDs...)
	}
	return ids
}

func (cmd *UngroupWidgets) SelectionAfterUndo() []string {
	return append([]string(nil), cmd.groupIDs...)
}

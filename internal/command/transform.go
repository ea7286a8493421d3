/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package command

import (
	"errors"
	"fmt"

	"breakdesigner/internal/geometry"
)

// MoveEntry is one widget's position transition.
type MoveEntry struct {
	ID       string
	From, To geometry.Point
}

// Move repositions widgets. Drag gestures update positions live and wrap
// only the final transition in a Move, so executing it right after
// construction re-applies values that are already in place; that is by
// construction idempotent.
type Move struct {
	canvas  Canvas
	entries []MoveEntry
	label   string
}

// NewMove prepares a move for the given transitions.
func NewMove(c Canvas, entries []MoveEntry) (*Move, error) {
	if len(entries) == 0 {
		return nil, errors.New("move: no entries")
	}
	for _, e := range entries {
		if _, ok := c.WidgetData(e.ID); !ok {
			return nil, fmt.Errorf("move: unknown widget %s", e.ID)
		}
	}
	label := "Move"
	if len(entries) > 1 {
		label = fmt.Sprintf("Move %d widgets", len(entries))
	}
	return &Move{canvas: c, entries: entries, label: label}, nil
}

func (cmd *Move) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.To)
	}
	return nil
}

func (cmd *Move) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.From)
	}
	return nil
}

func (cmd *Move) Description() string { return cmd.label }

// ResizeEntry is one widget's frame transition. Handle drags can move the
// origin while resizing (dragging the north-west handle does), so the whole
// rect is captured.
type ResizeEntry struct {
	ID       string
	From, To geometry.Rect
}

// Resize changes widget frames.
type Resize struct {
	canvas  Canvas
	entries []ResizeEntry
	label   string
}

// NewResize prepares a resize for the given transitions.
func NewResize(c Canvas, entries []ResizeEntry) (*Resize, error) {
	if len(entries) == 0 {
		return nil, errors.New("resize: no entries")
	}
	for _, e := range entries {
		if _, ok := c.WidgetData(e.ID); !ok {
			return nil, fmt.Errorf("resize: unknown widget %s", e.ID)
		}
	}
	label := "Resize"
	if len(entries) > 1 {
		label = fmt.Sprintf("Resize %d widgets", len(entries))
	}
	return &Resize{canvas: c, entries: entries, label: label}, nil
}

func (cmd *Resize) Execute() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.To.Origin())
		cmd.canvas.SetWidgetSize(e.ID, e.To.Size())
	}
	return nil
}

func (cmd *Resize) Undo() error {
	for _, e := range cmd.entries {
		cmd.canvas.SetWidgetPosition(e.ID, e.From.Origin())
		cmd.canvas.SetWidgetSize(e.ID, e.From.Size())
	}
	return nil
}

func (cmd *Resize) Description() string { return cmd.label }

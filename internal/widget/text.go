/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package widget

import "breakdesigner/internal/domain"

// Text is a text block. Its content is either literal text or a countdown
// template with placeholders resolved at render time.
type Text struct {
	Base
}

// NewText creates a text widget.
func NewText(s Surface, data domain.WidgetData) *Text {
	return &Text{Base: *newBase(s, data)}
}

// Content returns what the widget displays: the template when one is set,
// otherwise the literal text.
func (t *Text) Content() string {
	if tpl := t.data.Properties.Template; tpl != "" {
		return tpl
	}
	return t.data.Properties.Text
}

// Font returns the widget's font spec.
func (t *Text) Font() domain.FontSpec { return t.data.Properties.Font }

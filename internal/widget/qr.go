/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package widget

import (
	"breakdesigner/internal/domain"
	"breakdesigner/internal/geometry"
)

// QRMinSide is the smallest rendered QR square. Below this the code is not
// scannable on a break screen, so resizes clamp here.
const QRMinSide = 10

// QR is a square widget referencing a pre-rendered QR asset. Any resize is
// coerced back to a square using the larger requested extent.
type QR struct {
	Base
}

// NewQR creates a QR widget. The stored size is squared up before the
// element is created so the record never persists a non-square QR.
func NewQR(s Surface, data domain.WidgetData) *QR {
	data.Size = SquareSize(data.Size)
	return &QR{Base: *newBase(s, data)}
}

// SetSize keeps the widget square: side = max(width, height), floor QRMinSide.
func (q *QR) SetSize(s geometry.Size) {
	q.Base.SetSize(SquareSize(s))
}

// SquareSize returns the square a QR widget snaps to for a requested size.
func SquareSize(s geometry.Size) geometry.Size {
	side := s.Width
	if s.Height > side {
		side = s.Height
	}
	if side < QRMinSide {
		side = QRMinSide
	}
	return geometry.Sz(side, side)
}

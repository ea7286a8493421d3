/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewWidgetID mints a canvas-unique widget id of the form
// widget-<unix-ms>-<random>. The timestamp keeps ids roughly sortable by
// creation time; the random suffix disambiguates ids minted within the same
// millisecond (bulk paste does exactly that).
func NewWidgetID() string {
	return fmt.Sprintf("widget-%d-%s", time.Now().UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	u := uuid.NewString()
	return strings.ReplaceAll(u, "-", "")[:8]
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package message parses and renders the countdown placeholder templates
// that text widgets carry, e.g. "Back at {end-time} ({countdown} left)".
package message

import "time"

// TokenKind discriminates literal text from placeholders.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenPlaceholder
)

// Token is one segment of a parsed template. Text always holds the raw
// source form; for TokenPlaceholder, Name holds the name without braces.
type Token struct {
	Kind TokenKind
	Text string
	Name string
}

// Template is a parsed countdown message template.
type Template struct {
	Source string
	Tokens []Token
}

// Issue flags a template problem with position context.
// Pos is the 0-based byte offset of the offending token in the source.
type Issue struct {
	Pos     int
	Message string
}

// Clock carries the time values a render substitutes. The designer passes
// canned sample values; the break runtime would pass live ones.
type Clock struct {
	Now       time.Time
	EndsAt    time.Time
	BreakName string
	Location  *time.Location
}

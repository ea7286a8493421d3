/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package message

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Supported placeholder names.
const (
	PhCountdown = "countdown"
	PhMinutes   = "minutes"
	PhSeconds   = "seconds"
	PhEndTime   = "end-time"
	PhBreakName = "break-name"
	PhDate      = "date"
)

var rePlaceholder = regexp.MustCompile(`\{([a-z0-9\-]+)\}`)

var knownPlaceholders = map[string]struct{}{
	PhCountdown: {},
	PhMinutes:   {},
	PhSeconds:   {},
	PhEndTime:   {},
	PhBreakName: {},
	PhDate:      {},
}

// Placeholders returns the supported placeholder names, sorted. The editor
// uses this for its insert menu.
func Placeholders() []string {
	out := make([]string, 0, len(knownPlaceholders))
	for k := range knownPlaceholders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Parse splits a template into literal and placeholder tokens.
// Unknown placeholder names are kept verbatim (they render as written) and
// reported as issues so the editor can flag them without losing data.
func Parse(input string) (Template, []Issue) {
	t := Template{Source: input}
	var issues []Issue
	pos := 0
	for _, m := range rePlaceholder.FindAllStringSubmatchIndex(input, -1) {
		if m[0] > pos {
			t.Tokens = append(t.Tokens, Token{Kind: TokenLiteral, Text: input[pos:m[0]]})
		}
		name := input[m[2]:m[3]]
		if _, ok := knownPlaceholders[name]; !ok {
			issues = append(issues, Issue{Pos: m[0], Message: fmt.Sprintf("unknown placeholder {%s}", name)})
		}
		t.Tokens = append(t.Tokens, Token{Kind: TokenPlaceholder, Text: input[m[0]:m[1]], Name: name})
		pos = m[1]
	}
	if pos < len(input) {
		t.Tokens = append(t.Tokens, Token{Kind: TokenLiteral, Text: input[pos:]})
	}
	return t, issues
}

// Render substitutes clock values into the template.
// Remaining time is clamped at zero so an elapsed break renders 00:00 rather
// than negative values. {minutes} is the total whole minutes remaining,
// {seconds} the zero-padded remainder within the minute, so for breaks under
// an hour "{minutes}:{seconds}" agrees with "{countdown}". {end-time} and
// {date} format in Clock.Location when set, otherwise in Now's location.
func (t Template) Render(c Clock) string {
	loc := c.Location
	if loc == nil {
		loc = c.Now.Location()
	}
	rem := c.EndsAt.Sub(c.Now).Round(time.Second)
	if rem < 0 {
		rem = 0
	}
	total := int(rem / time.Second)
	hrs := total / 3600
	mins := total / 60
	secs := total % 60
	var countdown string
	if hrs > 0 {
		countdown = fmt.Sprintf("%d:%02d:%02d", hrs, mins%60, secs)
	} else {
		countdown = fmt.Sprintf("%02d:%02d", mins, secs)
	}

	var b strings.Builder
	b.Grow(len(t.Source))
	for _, tok := range t.Tokens {
		if tok.Kind != TokenPlaceholder {
			b.WriteString(tok.Text)
			continue
		}
		switch tok.Name {
		case PhCountdown:
			b.WriteString(countdown)
		case PhMinutes:
			b.WriteString(strconv.Itoa(mins))
		case PhSeconds:
			b.WriteString(fmt.Sprintf("%02d", secs))
		case PhEndTime:
			b.WriteString(c.EndsAt.In(loc).Format("15:04"))
		case PhBreakName:
			b.WriteString(c.BreakName)
		case PhDate:
			b.WriteString(c.Now.In(loc).Format("Monday, January 2"))
		default:
			// unknown placeholder, keep the source form
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// SampleClock returns the canned values the editor previews with: a lunch
// break with five minutes left on a fixed reference time.
func SampleClock() Clock {
	now := time.Date(2025, time.March, 14, 12, 25, 0, 0, time.UTC)
	return Clock{Now: now, EndsAt: now.Add(5 * time.Minute), BreakName: "Lunch", Location: time.UTC}
}

// Preview parses and renders src with SampleClock values. Parse issues do
// not block a preview; unknown placeholders simply stay verbatim.
func Preview(src string) string {
	t, _ := Parse(src)
	return t.Render(SampleClock())
}

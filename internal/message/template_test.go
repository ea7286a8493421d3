/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package message

import (
	"testing"
	"time"
)

func TestParseTokenizesLiteralsAndPlaceholders(t *testing.T) {
	tpl, issues := Parse("Back at {end-time} ({countdown} left)")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	want := []Token{
		{Kind: TokenLiteral, Text: "Back at "},
		{Kind: TokenPlaceholder, Text: "{end-time}", Name: "end-time"},
		{Kind: TokenLiteral, Text: " ("},
		{Kind: TokenPlaceholder, Text: "{countdown}", Name: "countdown"},
		{Kind: TokenLiteral, Text: " left)"},
	}
	if len(tpl.Tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tpl.Tokens), tpl.Tokens)
	}
	for i, w := range want {
		if tpl.Tokens[i] != w {
			t.Fatalf("token %d = %+v, want %+v", i, tpl.Tokens[i], w)
		}
	}
}

func TestParseReportsUnknownPlaceholders(t *testing.T) {
	tpl, issues := Parse("Hello {whoami}, back in {minutes} min")
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", issues)
	}
	if issues[0].Pos != 6 || issues[0].Message != "unknown placeholder {whoami}" {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
	// The unknown token survives and renders verbatim
	out := tpl.Render(SampleClock())
	if out != "Hello {whoami}, back in 5 min" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRenderSubstitutesClockValues(t *testing.T) {
	now := time.Date(2025, time.March, 14, 12, 25, 0, 0, time.UTC)
	c := Clock{Now: now, EndsAt: now.Add(5*time.Minute + 30*time.Second), BreakName: "Coffee", Location: time.UTC}

	cases := []struct {
		src  string
		want string
	}{
		{"{countdown}", "05:30"},
		{"{minutes}:{seconds}", "5:30"},
		{"Back at {end-time}", "Back at 12:30"},
		{"{break-name} break", "Coffee break"},
		{"{date}", "Friday, March 14"},
		{"no placeholders here", "no placeholders here"},
	}
	for _, tc := range cases {
		tpl, _ := Parse(tc.src)
		if got := tpl.Render(c); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestRenderClampsElapsedBreakToZero(t *testing.T) {
	now := time.Date(2025, time.March, 14, 13, 0, 0, 0, time.UTC)
	c := Clock{Now: now, EndsAt: now.Add(-2 * time.Minute), Location: time.UTC}
	tpl, _ := Parse("{countdown} / {minutes} / {seconds}")
	if got := tpl.Render(c); got != "00:00 / 0 / 00" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderLongBreakShowsHours(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	c := Clock{Now: now, EndsAt: now.Add(time.Hour + 15*time.Minute + 5*time.Second), Location: time.UTC}
	tpl, _ := Parse("{countdown}")
	if got := tpl.Render(c); got != "1:15:05" {
		t.Fatalf("unexpected render: %q", got)
	}
	// minutes keeps counting whole minutes past the hour
	tpl, _ = Parse("{minutes}")
	if got := tpl.Render(c); got != "75" {
		t.Fatalf("unexpected minutes render: %q", got)
	}
}

func TestPreviewUsesSampleClock(t *testing.T) {
	if got := Preview("{break-name} ends {countdown} from now at {end-time}"); got != "Lunch ends 05:00 from now at 12:30" {
		t.Fatalf("unexpected preview: %q", got)
	}
}

func TestPlaceholdersSorted(t *testing.T) {
	got := Placeholders()
	want := []string{"break-name", "countdown", "date", "end-time", "minutes", "seconds"}
	if len(got) != len(want) {
		t.Fatalf("expected %d placeholders, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placeholder %d = %q, want %q", i, got[i], want[i])
		}
	}
}

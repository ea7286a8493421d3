/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version carries the build identity stamped into binaries and logs.
package version

// Version is the application's semantic version. Release builds override it
// via -ldflags "-X breakdesigner/internal/version.Version=v1.2.3".
var Version = "0.4.0-dev"

// Commit is the VCS revision the binary was built from, if stamped.
var Commit = ""

// Date is the build date, if stamped.
var Date = ""

// String returns the human-readable version, with commit and build date when
// known: "breakdesigner 0.4.0 (abc1234 2025-08-25)".
func String() string {
	s := "breakdesigner " + Version
	switch {
	case Commit != "" && Date != "":
		s += " (" + Commit + " " + Date + ")"
	case Commit != "":
		s += " (" + Commit + ")"
	case Date != "":
		s += " (" + Date + ")"
	}
	return s
}

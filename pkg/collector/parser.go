/*
 * Copyright 2025 The FabricWatch Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collector

import (
	"regexp"
	"strings"
)

// logLinePattern matches one data line:
// timestamp, slot/port (or NA), PID (or NA), port WWN (or NA), node WWN
// (or NA), then free-text event description absorbing the rest of the line.
// The timestamp carries no year: "Wed Jun 28 02:07:20.885".
var logLinePattern = regexp.MustCompile(
	`^([A-Za-z]{3}\s+[A-Za-z]{3}\s+\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+` +
		`(\S+)\s+` +
		`(\S+)\s+` +
		`(\S+)\s+` +
		`(\S+)\s+` +
		`(.+)$`)

// ParseLogLine turns one raw shell output line into an Entry, or nil when the
// line is not a data line. Blank lines, table separators, column headers, and
// summary footers are rejected; anything else that fails the pattern is
// dropped silently, since partial or garbled lines are expected noise on an
// interactive terminal.
func ParseLogLine(line string) *Entry {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "=") {
		return nil
	}

	lower := strings.ToLower(line)
	if strings.Contains(lower, "date/time") {
		return nil
	}

	if strings.Contains(lower, "total number") || strings.Contains(lower, "max number") {
		return nil
	}

	match := logLinePattern.FindStringSubmatch(line)
	if match == nil {
		return nil
	}

	return &Entry{
		Timestamp: strings.TrimSpace(match[1]),
		SlotPort:  strings.TrimSpace(match[2]),
		PID:       strings.TrimSpace(match[3]),
		PortWWN:   strings.TrimSpace(match[4]),
		NodeWWN:   strings.TrimSpace(match[5]),
		Event:     strings.TrimSpace(match[6]),
		RawLine:   line,
	}
}

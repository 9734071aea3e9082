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
	"fmt"
	"strings"
)

var monthNumbers = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// AssignYears deduces absolute years for truncated timestamps. Entries are
// expected most-recent-first; the device emits oldest-first, so callers feed
// a reversed view of the parsed stream. The first entry gets currentYear;
// walking down the list, whenever an entry's month number exceeds the
// previous entry's month number a year boundary was crossed, so the tracked
// year is decremented for that entry and all following (older) ones.
//
// The heuristic assumes the source emits in reverse-time order. Do not
// replace it with a general calendar solver; downstream dedup depends on its
// exact behavior.
func AssignYears(entries []*Entry, currentYear int) {
	if len(entries) == 0 {
		return
	}

	assignedYear := currentYear
	previousMonth := 0

	for i, entry := range entries {
		parts := strings.Fields(entry.Timestamp)
		if len(parts) < 4 {
			// Unparseable timestamps keep the currently-tracked year.
			rewriteEntry(entry, assignedYear, nil)
			continue
		}

		month, known := monthNumbers[parts[1]]
		if !known {
			month = 1
		}

		if i > 0 && previousMonth != 0 && month > previousMonth {
			assignedYear--
		}

		previousMonth = month

		rewriteEntry(entry, assignedYear, parts)
	}
}

// rewriteEntry injects the deduced year into the timestamp, preserving the
// weekday/month/day/time tokens: "Wed Jun 28 02:07:20.885" becomes
// "Wed Jun 28 2024 02:07:20.885".
func rewriteEntry(entry *Entry, year int, parts []string) {
	entry.DeducedYear = year

	if len(parts) < 4 {
		entry.Timestamp = strings.TrimSpace(fmt.Sprintf("%s %d", entry.Timestamp, year))
		return
	}

	entry.Timestamp = fmt.Sprintf("%s %s %s %d %s", parts[0], parts[1], parts[2], year, parts[3])
}

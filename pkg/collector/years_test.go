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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timestamps(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Timestamp
	}

	return out
}

func entriesFor(stamps ...string) []*Entry {
	entries := make([]*Entry, len(stamps))
	for i, ts := range stamps {
		entries[i] = &Entry{Timestamp: ts}
	}

	return entries
}

func TestAssignYearsSingleRollover(t *testing.T) {
	// Most-recent-first spanning one January -> December backward rollover.
	entries := entriesFor(
		"Mon Jan 05 08:15:00.123",
		"Sat Dec 20 23:00:00.000",
		"Thu Dec 18 23:59:01.002",
	)

	AssignYears(entries, 2025)

	assert.Equal(t, []string{
		"Mon Jan 05 2025 08:15:00.123",
		"Sat Dec 20 2024 23:00:00.000",
		"Thu Dec 18 2024 23:59:01.002",
	}, timestamps(entries))

	assert.Equal(t, 2025, entries[0].DeducedYear)
	assert.Equal(t, 2024, entries[1].DeducedYear)
	assert.Equal(t, 2024, entries[2].DeducedYear)
}

func TestAssignYearsFlatList(t *testing.T) {
	entries := entriesFor(
		"Wed Jun 28 02:07:20.885",
		"Wed Jun 28 01:00:00.000",
		"Tue Jun 27 14:30:00.500",
		"Mon May 01 09:00:00.000",
	)

	AssignYears(entries, 2025)

	for i, entry := range entries {
		assert.Equal(t, 2025, entry.DeducedYear, "entry %d", i)
	}

	assert.Equal(t, "Wed Jun 28 2025 02:07:20.885", entries[0].Timestamp)
	assert.Equal(t, "Mon May 01 2025 09:00:00.000", entries[3].Timestamp)
}

func TestAssignYearsMultipleRollovers(t *testing.T) {
	// Two backward rollovers: Feb -> Dec, then Mar -> Nov.
	entries := entriesFor(
		"Sun Feb 02 10:00:00.000",
		"Mon Dec 30 10:00:00.000",
		"Tue Mar 05 10:00:00.000",
		"Wed Nov 20 10:00:00.000",
	)

	AssignYears(entries, 2025)

	assert.Equal(t, 2025, entries[0].DeducedYear)
	assert.Equal(t, 2024, entries[1].DeducedYear)
	assert.Equal(t, 2024, entries[2].DeducedYear)
	assert.Equal(t, 2023, entries[3].DeducedYear)
}

func TestAssignYearsUnparseableKeepsTrackedYear(t *testing.T) {
	entries := entriesFor(
		"Mon Jan 05 08:15:00.123",
		"corrupted",
		"Thu Dec 18 23:59:01.002",
	)

	AssignYears(entries, 2025)

	assert.Equal(t, 2025, entries[0].DeducedYear)
	assert.Equal(t, 2025, entries[1].DeducedYear)
	assert.Equal(t, "corrupted 2025", entries[1].Timestamp)

	// The rollover is still detected across the corrupted entry.
	assert.Equal(t, 2024, entries[2].DeducedYear)
}

func TestAssignYearsEmptyAndSingle(t *testing.T) {
	AssignYears(nil, 2025)

	single := entriesFor("Wed Jun 28 02:07:20.885")
	AssignYears(single, 2025)

	require.Equal(t, "Wed Jun 28 2025 02:07:20.885", single[0].Timestamp)
}

func TestAssignYearsRewrittenTimestampParses(t *testing.T) {
	entries := entriesFor("Wed Jun 28 02:07:20.885")
	AssignYears(entries, 2024)

	ts := ParseTimestamp(entries[0].Timestamp)
	require.False(t, ts.IsZero())
	assert.Equal(t, 2024, ts.Year())
}

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
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the full entry timestamp once a year has been deduced,
// e.g. "Wed Jun 28 2024 02:07:20.885".
const TimestampLayout = "Mon Jan 02 2006 15:04:05.000"

// Entry is one parsed device-connectivity log line. Timestamp starts out
// truncated (no year) and is rewritten in place by AssignYears; RawLine keeps
// the verbatim source line throughout.
type Entry struct {
	Timestamp   string `json:"timestamp"`
	SlotPort    string `json:"slot_port"`
	PID         string `json:"pid"`
	PortWWN     string `json:"port_wwn"`
	NodeWWN     string `json:"node_wwn"`
	Event       string `json:"event"`
	RawLine     string `json:"raw_line"`
	Context     int    `json:"context"`
	SwitchName  string `json:"switch_name"`
	Site        string `json:"site"`
	DeducedYear int    `json:"deduced_year,omitempty"`
}

// ParseTimestamp parses a year-resolved entry timestamp. Anything
// unparseable yields the zero time.
func ParseTimestamp(value string) time.Time {
	ts, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}
	}

	return ts
}

// ExtractSlotPort pulls the numeric slot and port out of a "slot/port"
// composite like "2/14". "NA" and malformed values report ok=false.
func ExtractSlotPort(slotPort string) (slot, port int, ok bool) {
	if !strings.Contains(slotPort, "/") {
		return 0, 0, false
	}

	parts := strings.SplitN(slotPort, "/", 2)

	slot, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}

	port, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}

	return slot, port, true
}

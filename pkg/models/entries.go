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

package models

import "time"

// LogEntry is one persisted device-connectivity event collected from a switch.
// RawLine always carries the verbatim source line, even after the timestamp
// has been rewritten with a deduced year.
type LogEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	SwitchName   string    `json:"switch_name"`
	Site         string    `json:"site"`
	Context      int       `json:"context"`
	EventType    string    `json:"event_type"`
	WWN          string    `json:"wwn"`
	PortInfo     string    `json:"port_info"`
	RawLine      string    `json:"raw_line"`
	Alias        *string   `json:"alias,omitempty"`
	NodeSymbol   *string   `json:"node_symbol,omitempty"`
	CollectionID string    `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Collection run states. A run transitions running -> completed or
// running -> failed, exactly once.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CollectionRun tracks one fleet-wide collection attempt.
type CollectionRun struct {
	ID                string     `json:"id"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	Status            string     `json:"status"`
	SwitchesProcessed []string   `json:"switches_processed,omitempty"`
	TotalEntries      int        `json:"total_entries"`
	NewEntries        int        `json:"new_entries"`
	ErrorMessage      string     `json:"error_message,omitempty"`
}

// Switch health states.
const (
	SwitchStatusActive   = "active"
	SwitchStatusError    = "error"
	SwitchStatusDisabled = "disabled"
)

// SwitchStatus is the per-switch high-water mark row. At most one row exists
// per switch name; LastCollectionDate and the max persisted entry timestamp
// together form the dedup boundary for subsequent collections.
type SwitchStatus struct {
	SwitchName         string    `json:"switch_name"`
	LastCollectionDate time.Time `json:"last_collection_date"`
	LastCollectionID   string    `json:"last_collection_id"`
	LastEntryCount     int       `json:"last_entry_count"`
	Status             string    `json:"status"`
	LastError          string    `json:"last_error,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SwitchResult is the per-switch outcome of one collection run.
type SwitchResult struct {
	SwitchName    string `json:"switch_name"`
	Success       bool   `json:"success"`
	InsertedCount int    `json:"inserted_count"`
	TotalEntries  int    `json:"total_entries"`
	Error         string `json:"error,omitempty"`
}

// CollectionSummary is the structured result returned by the collection
// trigger. It is always returned, never raised past the boundary.
type CollectionSummary struct {
	Success           bool           `json:"success"`
	CollectionID      string         `json:"collection_id"`
	Status            string         `json:"status"`
	SwitchesProcessed int            `json:"switches_processed"`
	TotalEntries      int            `json:"total_entries"`
	NewEntries        int            `json:"new_entries"`
	SwitchNames       []string       `json:"switch_names,omitempty"`
	Results           []SwitchResult `json:"results,omitempty"`
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       time.Time      `json:"completed_at"`
	Error             string         `json:"error,omitempty"`
}

// FailedSwitches counts the per-switch failures recorded in the summary.
func (s *CollectionSummary) FailedSwitches() int {
	failed := 0

	for _, result := range s.Results {
		if !result.Success {
			failed++
		}
	}

	return failed
}

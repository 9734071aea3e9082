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

package devicemap

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// feedRecord mirrors one object in the metadata snapshot feed. The feed has
// historically used two names for the symbolic name field; both are accepted
// and resolved to one canonical value at ingest.
type feedRecord struct {
	PSwitch            string `json:"pSwitch"`
	SlotNumber         int    `json:"slotNumber"`
	PortNumber         int    `json:"portNumber"`
	WWN                string `json:"wwn"`
	PhysicalPortWWN    string `json:"physicalPortWwn"`
	ZoneAlias          string `json:"zoneAlias"`
	SymbolicName       string `json:"symbolicName"`
	DeviceSymbolicName string `json:"deviceSymbolicName"`
}

func (r *feedRecord) symbolic() string {
	if r.SymbolicName != "" {
		return r.SymbolicName
	}

	return r.DeviceSymbolicName
}

// loadFeed reads and decodes the snapshot file, returning the records and the
// file's modification time for staleness comparison.
func loadFeed(path string) ([]feedRecord, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	var records []feedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrFeedMalformed, err)
	}

	return records, info.ModTime(), nil
}

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

// DevicePortRecord is one row of the device metadata index. The natural key
// is (PSwitch, SlotNumber, PortNumber, WWN). PhysicalPortWWN differs from WWN
// only when the port is an NPIV virtual port.
type DevicePortRecord struct {
	PSwitch         string `json:"pSwitch"`
	SlotNumber      int    `json:"slotNumber"`
	PortNumber      int    `json:"portNumber"`
	WWN             string `json:"wwn"`
	PhysicalPortWWN string `json:"physicalPortWwn,omitempty"`
	ZoneAlias       string `json:"zoneAlias,omitempty"`
	SymbolicName    string `json:"symbolicName,omitempty"`
}

// DevicePortStats reports read-only counters over the device metadata index.
type DevicePortStats struct {
	TotalDevices          int `json:"total_devices"`
	DevicesWithAlias      int `json:"devices_with_alias"`
	DevicesWithNodeSymbol int `json:"devices_with_node_symbol"`
	UniqueSwitches        int `json:"unique_switches"`
	NPIVDevices           int `json:"npiv_devices"`
	CacheHits             int `json:"cache_hits"`
	CacheMisses           int `json:"cache_misses"`
}

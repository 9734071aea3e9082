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

package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS log_entries (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		switch_name VARCHAR(100) NOT NULL,
		site VARCHAR(100),
		context INTEGER NOT NULL,
		event_type VARCHAR(255),
		wwn VARCHAR(30),
		port_info VARCHAR(100),
		raw_line TEXT NOT NULL,
		alias VARCHAR(200),
		node_symbol VARCHAR(200),
		collection_id VARCHAR(36) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_timestamp_switch ON log_entries (timestamp, switch_name)`,
	`CREATE INDEX IF NOT EXISTS idx_wwn_timestamp ON log_entries (wwn, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_collection_switch ON log_entries (collection_id, switch_name)`,
	`CREATE INDEX IF NOT EXISTS idx_alias_search ON log_entries (alias)`,
	`CREATE INDEX IF NOT EXISTS idx_node_symbol_search ON log_entries (node_symbol)`,

	`CREATE TABLE IF NOT EXISTS collection_runs (
		id VARCHAR(36) PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at TIMESTAMPTZ,
		status VARCHAR(20) NOT NULL DEFAULT 'running',
		switches_processed JSONB,
		total_entries INTEGER NOT NULL DEFAULT 0,
		new_entries INTEGER NOT NULL DEFAULT 0,
		error_message TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS switch_status (
		id BIGSERIAL PRIMARY KEY,
		switch_name VARCHAR(100) NOT NULL UNIQUE,
		last_collection_date TIMESTAMPTZ NOT NULL,
		last_collection_id VARCHAR(36) NOT NULL,
		last_entry_count INTEGER NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		last_error TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS device_ports (
		id BIGSERIAL PRIMARY KEY,
		p_switch VARCHAR(100) NOT NULL,
		slot_number INTEGER NOT NULL,
		port_number INTEGER NOT NULL,
		wwn VARCHAR(30) NOT NULL,
		physical_port_wwn VARCHAR(30),
		zone_alias VARCHAR(200),
		symbolic_name VARCHAR(200),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_device_lookup
		ON device_ports (p_switch, slot_number, port_number, wwn)`,
	`CREATE INDEX IF NOT EXISTS idx_switch_wwn ON device_ports (p_switch, wwn)`,
	`CREATE INDEX IF NOT EXISTS idx_zone_alias ON device_ports (zone_alias)`,
}

// InitSchema creates the collection tables and indexes when they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInit, err)
		}
	}

	return nil
}

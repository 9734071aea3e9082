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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fabricwatch/fabricwatch/pkg/models"
)

const insertLogEntrySQL = `
INSERT INTO log_entries (
	timestamp,
	switch_name,
	site,
	context,
	event_type,
	wwn,
	port_info,
	raw_line,
	alias,
	node_symbol,
	collection_id
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

// InsertLogEntries appends a batch of log entries. Individual row failures
// are logged and skipped; the batch continues. Returns the number of rows
// actually inserted.
func (db *DB) InsertLogEntries(ctx context.Context, entries []*models.LogEntry) (int, error) {
	inserted := 0
	failed := 0

	for _, entry := range entries {
		_, err := db.pool.Exec(ctx, insertLogEntrySQL,
			entry.Timestamp,
			entry.SwitchName,
			entry.Site,
			entry.Context,
			entry.EventType,
			entry.WWN,
			entry.PortInfo,
			entry.RawLine,
			entry.Alias,
			entry.NodeSymbol,
			entry.CollectionID,
		)
		if err != nil {
			failed++

			db.logger.Error().
				Err(err).
				Str("switch_name", entry.SwitchName).
				Str("raw_line", entry.RawLine).
				Msg("Failed to insert log entry, skipping")

			continue
		}

		inserted++
	}

	if failed > 0 && inserted == 0 && len(entries) > 0 {
		return 0, fmt.Errorf("%w: all %d log entries failed", ErrFailedToInsert, failed)
	}

	return inserted, nil
}

// GetLastEntryTimestamp returns the newest persisted entry timestamp for the
// given switch, or nil when the switch has never been collected.
func (db *DB) GetLastEntryTimestamp(ctx context.Context, switchName string) (*time.Time, error) {
	if switchName == "" {
		return nil, ErrSwitchNameRequired
	}

	var last sql.NullTime

	row := db.pool.QueryRow(ctx,
		`SELECT max(timestamp) FROM log_entries WHERE switch_name = $1`, switchName)

	if err := row.Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	if !last.Valid {
		return nil, nil
	}

	ts := last.Time

	return &ts, nil
}

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

const devicePortBatchSize = 1000

const insertDevicePortSQL = `
INSERT INTO device_ports (
	p_switch,
	slot_number,
	port_number,
	wwn,
	physical_port_wwn,
	zone_alias,
	symbolic_name
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (p_switch, slot_number, port_number, wwn) DO UPDATE SET
	physical_port_wwn = EXCLUDED.physical_port_wwn,
	zone_alias = EXCLUDED.zone_alias,
	symbolic_name = EXCLUDED.symbolic_name,
	created_at = now()`

// ReplaceDevicePorts atomically rebuilds the device metadata index from a
// snapshot: delete-all then batched inserts inside one transaction. The index
// is never patched incrementally so it always matches one feed snapshot.
func (db *DB) ReplaceDevicePorts(ctx context.Context, records []models.DevicePortRecord) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM device_ports`); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	total := 0

	for start := 0; start < len(records); start += devicePortBatchSize {
		end := start + devicePortBatchSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}

		for _, rec := range records[start:end] {
			batch.Queue(insertDevicePortSQL,
				rec.PSwitch,
				rec.SlotNumber,
				rec.PortNumber,
				rec.WWN,
				rec.PhysicalPortWWN,
				rec.ZoneAlias,
				rec.SymbolicName,
			)
		}

		if err = execBatch(ctx, tx, batch, "device_ports"); err != nil {
			return 0, err
		}

		total += end - start
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return total, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, operation string) (err error) {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)

	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%s batch close: %w", operation, closeErr)
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		if _, err = br.Exec(); err != nil {
			return fmt.Errorf("%s batch exec (command %d): %w", operation, i, err)
		}
	}

	return nil
}

// LookupDevicePort fetches the index row for the natural key, or nil when the
// device is unknown.
func (db *DB) LookupDevicePort(
	ctx context.Context, pSwitch string, slot, port int, wwn string) (*models.DevicePortRecord, error) {
	row := db.pool.QueryRow(ctx, `
SELECT p_switch, slot_number, port_number, wwn,
	COALESCE(physical_port_wwn, ''), COALESCE(zone_alias, ''), COALESCE(symbolic_name, '')
FROM device_ports
WHERE p_switch = $1 AND slot_number = $2 AND port_number = $3 AND wwn = $4
LIMIT 1`, pSwitch, slot, port, wwn)

	var rec models.DevicePortRecord

	err := row.Scan(
		&rec.PSwitch,
		&rec.SlotNumber,
		&rec.PortNumber,
		&rec.WWN,
		&rec.PhysicalPortWWN,
		&rec.ZoneAlias,
		&rec.SymbolicName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return &rec, nil
}

// DevicePortStats reports counters over the index. Cache counters are added
// by the devicemap layer.
func (db *DB) DevicePortStats(ctx context.Context) (*models.DevicePortStats, error) {
	row := db.pool.QueryRow(ctx, `
SELECT
	count(*),
	count(*) FILTER (WHERE zone_alias IS NOT NULL AND zone_alias != ''),
	count(*) FILTER (WHERE symbolic_name IS NOT NULL AND symbolic_name != ''),
	count(DISTINCT p_switch),
	count(*) FILTER (WHERE physical_port_wwn IS NOT NULL
		AND physical_port_wwn != '' AND physical_port_wwn != wwn)
FROM device_ports`)

	var stats models.DevicePortStats

	err := row.Scan(
		&stats.TotalDevices,
		&stats.DevicesWithAlias,
		&stats.DevicesWithNodeSymbol,
		&stats.UniqueSwitches,
		&stats.NPIVDevices,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return &stats, nil
}

// LastDevicePortBuildTime returns when the index was last rebuilt, or nil for
// an empty index. Used for staleness comparison against the feed snapshot.
func (db *DB) LastDevicePortBuildTime(ctx context.Context) (*time.Time, error) {
	var last sql.NullTime

	row := db.pool.QueryRow(ctx, `SELECT max(created_at) FROM device_ports`)

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

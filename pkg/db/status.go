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

	"github.com/fabricwatch/fabricwatch/pkg/models"
)

const upsertSwitchStatusSQL = `
INSERT INTO switch_status (
	switch_name,
	last_collection_date,
	last_collection_id,
	last_entry_count,
	status,
	last_error,
	updated_at
) VALUES ($1,$2,$3,$4,$5,NULLIF($6, ''),now())
ON CONFLICT (switch_name) DO UPDATE SET
	last_collection_date = EXCLUDED.last_collection_date,
	last_collection_id = EXCLUDED.last_collection_id,
	last_entry_count = EXCLUDED.last_entry_count,
	status = EXCLUDED.status,
	last_error = EXCLUDED.last_error,
	updated_at = EXCLUDED.updated_at`

// UpsertSwitchStatus writes the per-switch health row, one row per switch
// name. Both success and failure paths go through here after every per-switch
// collection attempt.
func (db *DB) UpsertSwitchStatus(ctx context.Context, status *models.SwitchStatus) error {
	if status == nil || status.SwitchName == "" {
		return ErrSwitchNameRequired
	}

	_, err := db.pool.Exec(ctx, upsertSwitchStatusSQL,
		status.SwitchName,
		status.LastCollectionDate,
		status.LastCollectionID,
		status.LastEntryCount,
		status.Status,
		status.LastError,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

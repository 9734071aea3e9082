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
	"encoding/json"
	"fmt"

	"github.com/fabricwatch/fabricwatch/pkg/models"
)

// CreateCollectionRun records the start of a fleet-wide collection attempt.
func (db *DB) CreateCollectionRun(ctx context.Context, run *models.CollectionRun) error {
	if run == nil || run.ID == "" {
		return ErrRunIDRequired
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO collection_runs (id, started_at, status) VALUES ($1, $2, $3)`,
		run.ID, run.StartedAt, run.Status)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// UpdateCollectionRun finalizes or progresses a run row.
func (db *DB) UpdateCollectionRun(ctx context.Context, run *models.CollectionRun) error {
	if run == nil || run.ID == "" {
		return ErrRunIDRequired
	}

	switchesJSON, err := json.Marshal(run.SwitchesProcessed)
	if err != nil {
		return fmt.Errorf("failed to marshal switches list: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
UPDATE collection_runs SET
	completed_at = $2,
	status = $3,
	switches_processed = $4,
	total_entries = $5,
	new_entries = $6,
	error_message = NULLIF($7, '')
WHERE id = $1`,
		run.ID,
		run.CompletedAt,
		run.Status,
		switchesJSON,
		run.TotalEntries,
		run.NewEntries,
		run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return nil
}

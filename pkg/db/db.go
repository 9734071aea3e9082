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

// Package db implements the PostgreSQL-backed persistent store for collected
// log entries, collection runs, switch status, and the device metadata index.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
)

// DB wraps a pgx pool and implements Service.
type DB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

var _ Service = (*DB)(nil)

// New connects to the configured database and returns the store service.
func New(ctx context.Context, cfg *models.Database, log logger.Logger) (*DB, error) {
	pool, err := NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &DB{pool: pool, logger: log}, nil
}

// NewWithPool wraps an existing pool, used by tests and embedded callers.
func NewWithPool(pool *pgxpool.Pool, log logger.Logger) *DB {
	return &DB{pool: pool, logger: log}
}

func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}

	return nil
}

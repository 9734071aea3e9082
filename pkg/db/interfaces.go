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
	"time"

	"github.com/fabricwatch/fabricwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/fabricwatch/fabricwatch/pkg/db Service

// Service represents all store operations used by the collection pipeline.
type Service interface {
	Close() error
	InitSchema(ctx context.Context) error

	// Log entry operations.

	InsertLogEntries(ctx context.Context, entries []*models.LogEntry) (int, error)
	GetLastEntryTimestamp(ctx context.Context, switchName string) (*time.Time, error)

	// Collection run operations.

	CreateCollectionRun(ctx context.Context, run *models.CollectionRun) error
	UpdateCollectionRun(ctx context.Context, run *models.CollectionRun) error

	// Switch status operations.

	UpsertSwitchStatus(ctx context.Context, status *models.SwitchStatus) error

	// Device metadata index operations.

	ReplaceDevicePorts(ctx context.Context, records []models.DevicePortRecord) (int, error)
	LookupDevicePort(ctx context.Context, pSwitch string, slot, port int, wwn string) (*models.DevicePortRecord, error)
	DevicePortStats(ctx context.Context) (*models.DevicePortStats, error)
	LastDevicePortBuildTime(ctx context.Context) (*time.Time, error)
}

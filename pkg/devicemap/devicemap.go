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

// Package devicemap maintains the indexed device metadata store used to
// enrich collected log entries with aliases and symbolic names, including
// NPIV-aware resolution and a bounded lookup cache.
package devicemap

import (
	"context"
	"fmt"
	"strings"

	"github.com/fabricwatch/fabricwatch/pkg/db"
	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
)

//go:generate mockgen -destination=mock_devicemap.go -package=devicemap github.com/fabricwatch/fabricwatch/pkg/devicemap Service

// Service resolves device metadata for collected log entries.
type Service interface {
	Refresh(ctx context.Context) error
	Lookup(ctx context.Context, switchName string, slot, port int, wwn string) (*Resolution, error)
	Stats(ctx context.Context) (*models.DevicePortStats, error)
}

// Resolution is the outcome of a metadata lookup.
type Resolution struct {
	Alias      string `json:"alias,omitempty"`
	NodeSymbol string `json:"node_symbol,omitempty"`
}

const defaultCacheSize = 4096

// Config tunes the index. Zero values take defaults.
type Config struct {
	FeedPath  string `json:"feed_path"`
	CacheSize int    `json:"cache_size,omitempty"`
}

// Index is the device metadata index. The database holds the authoritative
// records; lookups go through a bounded LRU cache that is cleared in full on
// every refresh.
type Index struct {
	db       db.Service
	feedPath string
	cache    *lruCache
	logger   logger.Logger
}

var _ Service = (*Index)(nil)

func NewIndex(database db.Service, config *Config, log logger.Logger) *Index {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	return &Index{
		db:       database,
		feedPath: cfg.FeedPath,
		cache:    newLRUCache(cfg.CacheSize),
		logger:   log,
	}
}

// CanonicalWWN normalizes a WWN to its canonical form: uppercase with colon
// delimiters. Feeds and switch output disagree on case and sometimes use
// dashes.
func CanonicalWWN(wwn string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(wwn), "-", ":"))
}

// Refresh rebuilds the index from the snapshot feed. The rebuild is skipped
// when the index was built at or after the feed's modification time. On any
// failure the existing index keeps serving.
func (i *Index) Refresh(ctx context.Context) error {
	records, modTime, err := loadFeed(i.feedPath)
	if err != nil {
		return err
	}

	builtAt, err := i.db.LastDevicePortBuildTime(ctx)
	if err != nil {
		i.logger.Warn().Err(err).Msg("Failed to read last index build time, rebuilding")
	} else if builtAt != nil && !modTime.After(*builtAt) {
		i.logger.Debug().
			Time("feed_modified", modTime).
			Time("index_built", *builtAt).
			Msg("Device metadata index is current, skipping rebuild")

		return nil
	}

	rows := make([]models.DevicePortRecord, 0, len(records))

	skipped := 0

	for idx, rec := range records {
		if rec.PSwitch == "" || rec.WWN == "" {
			i.logger.Warn().
				Int("record", idx).
				Str("p_switch", rec.PSwitch).
				Str("wwn", rec.WWN).
				Msg("Skipping feed record with missing switch or WWN")

			skipped++

			continue
		}

		rows = append(rows, models.DevicePortRecord{
			PSwitch:         rec.PSwitch,
			SlotNumber:      rec.SlotNumber,
			PortNumber:      rec.PortNumber,
			WWN:             CanonicalWWN(rec.WWN),
			PhysicalPortWWN: CanonicalWWN(rec.PhysicalPortWWN),
			ZoneAlias:       rec.ZoneAlias,
			SymbolicName:    rec.symbolic(),
		})
	}

	inserted, err := i.db.ReplaceDevicePorts(ctx, rows)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuildFailed, err)
	}

	// All underlying data may have changed.
	i.cache.Clear()

	i.logger.Info().
		Int("inserted", inserted).
		Int("skipped", skipped).
		Time("feed_modified", modTime).
		Msg("Device metadata index rebuilt")

	return nil
}

// Lookup resolves (switch, slot, port, WWN) to an alias and node-symbol.
// Returns nil when no record matches. When the matched record is an NPIV
// virtual port (its physical-port WWN differs from its own WWN), a second
// lookup against the physical-port WWN supersedes the node-symbol when the
// physical record carries one; the alias always stays the virtual port's own.
func (i *Index) Lookup(
	ctx context.Context, switchName string, slot, port int, wwn string) (*Resolution, error) {
	wwn = CanonicalWWN(wwn)

	key := fmt.Sprintf("%s|%d|%d|%s", switchName, slot, port, wwn)

	if cached, ok := i.cache.Get(key); ok {
		return cached, nil
	}

	resolution, err := i.resolve(ctx, switchName, slot, port, wwn)
	if err != nil {
		return nil, err
	}

	i.cache.Put(key, resolution)

	return resolution, nil
}

func (i *Index) resolve(
	ctx context.Context, switchName string, slot, port int, wwn string) (*Resolution, error) {
	record, err := i.db.LookupDevicePort(ctx, switchName, slot, port, wwn)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, nil
	}

	resolution := &Resolution{
		Alias:      record.ZoneAlias,
		NodeSymbol: record.SymbolicName,
	}

	if record.PhysicalPortWWN != "" && record.PhysicalPortWWN != record.WWN {
		physical, err := i.db.LookupDevicePort(ctx, switchName, slot, port, record.PhysicalPortWWN)
		if err != nil {
			return nil, err
		}

		// A physical record with a blank symbolic name supersedes nothing;
		// the virtual port keeps its own node-symbol.
		if physical != nil && physical.SymbolicName != "" {
			resolution.NodeSymbol = physical.SymbolicName
		}
	}

	return resolution, nil
}

// Stats reports index record counts alongside the cache hit/miss counters.
func (i *Index) Stats(ctx context.Context) (*models.DevicePortStats, error) {
	stats, err := i.db.DevicePortStats(ctx)
	if err != nil {
		return nil, err
	}

	hits, misses := i.cache.Counters()
	stats.CacheHits = int(hits)
	stats.CacheMisses = int(misses)

	return stats, nil
}

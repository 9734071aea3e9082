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

// Package fleet orchestrates collection runs across the configured switch
// fleet: bounded concurrent per-switch collection, metadata enrichment,
// high-water-mark dedup, and run bookkeeping.
package fleet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fabricwatch/fabricwatch/pkg/collector"
	"github.com/fabricwatch/fabricwatch/pkg/db"
	"github.com/fabricwatch/fabricwatch/pkg/devicemap"
	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
)

const defaultMaxWorkers = 4

// RosterLoader supplies the switch roster for a run.
type RosterLoader interface {
	LoadSwitchRoster(path string) ([]models.SwitchTarget, error)
}

// EventPublisher emits the terminal run event. Optional.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, summary *models.CollectionSummary) error
}

// Orchestrator runs fleet-wide collections. At most one run is active at a
// time; concurrent triggers are rejected.
type Orchestrator struct {
	config    *models.CollectorConfig
	db        db.Service
	devices   devicemap.Service
	collector collector.Collector
	roster    RosterLoader
	publisher EventPublisher
	logger    logger.Logger

	running atomic.Bool
}

func New(
	cfg *models.CollectorConfig,
	database db.Service,
	devices devicemap.Service,
	col collector.Collector,
	roster RosterLoader,
	publisher EventPublisher,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:    cfg,
		db:        database,
		devices:   devices,
		collector: col,
		roster:    roster,
		publisher: publisher,
		logger:    log,
	}
}

// RunCollection executes one fleet-wide collection run and always returns a
// structured summary; failures are captured into the summary and the
// CollectionRun record, never raised past this boundary. A second call while
// one run is active is rejected without creating a run.
func (o *Orchestrator) RunCollection(ctx context.Context, username, password string) *models.CollectionSummary {
	if !o.running.CompareAndSwap(false, true) {
		return &models.CollectionSummary{
			Success: false,
			Status:  models.RunStatusFailed,
			Error:   ErrCollectionInProgress.Error(),
		}
	}
	defer o.running.Store(false)

	runID := uuid.New().String()
	startedAt := time.Now()

	summary := &models.CollectionSummary{
		CollectionID: runID,
		Status:       models.RunStatusRunning,
		StartedAt:    startedAt,
	}

	log := o.logger.With().Str("collection_id", runID).Logger()
	log.Info().Msg("Starting collection run")

	if err := o.db.CreateCollectionRun(ctx, &models.CollectionRun{
		ID:        runID,
		StartedAt: startedAt,
		Status:    models.RunStatusRunning,
	}); err != nil {
		o.failRun(ctx, summary, fmt.Errorf("failed to create collection run: %w", err))
		return summary
	}

	// A stale metadata index degrades enrichment, not collection.
	if err := o.devices.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Device metadata refresh failed, continuing with existing index")
	}

	targets, err := o.roster.LoadSwitchRoster(o.config.SwitchesFile)
	if err != nil {
		o.failRun(ctx, summary, fmt.Errorf("failed to load switch roster: %w", err))
		return summary
	}

	if len(targets) == 0 {
		o.failRun(ctx, summary, ErrNoSwitchesConfigured)
		return summary
	}

	results := o.collectFleet(ctx, runID, targets, username, password)

	for _, result := range results {
		summary.Results = append(summary.Results, result)
		summary.SwitchNames = append(summary.SwitchNames, result.SwitchName)
		summary.TotalEntries += result.TotalEntries
		summary.NewEntries += result.InsertedCount
	}

	summary.SwitchesProcessed = len(results)
	summary.Status = models.RunStatusCompleted
	summary.Success = true
	summary.CompletedAt = time.Now()

	if err := o.db.UpdateCollectionRun(ctx, &models.CollectionRun{
		ID:                runID,
		StartedAt:         startedAt,
		CompletedAt:       &summary.CompletedAt,
		Status:            models.RunStatusCompleted,
		SwitchesProcessed: summary.SwitchNames,
		TotalEntries:      summary.TotalEntries,
		NewEntries:        summary.NewEntries,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to finalize collection run record")
	}

	o.publishSummary(ctx, summary)

	log.Info().
		Int("switches", summary.SwitchesProcessed).
		Int("failed_switches", summary.FailedSwitches()).
		Int("total_entries", summary.TotalEntries).
		Int("new_entries", summary.NewEntries).
		Msg("Collection run completed")

	return summary
}

// collectFleet fans the per-switch collections out over a bounded worker
// pool and joins their results in roster order.
func (o *Orchestrator) collectFleet(
	ctx context.Context, runID string, targets []models.SwitchTarget, username, password string) []models.SwitchResult {
	maxWorkers := o.config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	if maxWorkers > len(targets) {
		maxWorkers = len(targets)
	}

	sem := make(chan struct{}, maxWorkers)
	results := make([]models.SwitchResult, len(targets))

	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)

		go func(idx int, tgt models.SwitchTarget) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = o.collectSwitch(ctx, runID, tgt, username, password)
		}(i, target)
	}

	wg.Wait()

	return results
}

// collectSwitch runs one switch end to end. All failures, panics included,
// are converted into an error result so one switch can never take down the
// fleet run.
func (o *Orchestrator) collectSwitch(
	ctx context.Context, runID string, target models.SwitchTarget, username, password string) (result models.SwitchResult) {
	result = models.SwitchResult{SwitchName: target.Address}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("panic during collection: %v", r)

			o.logger.Error().
				Str("switch_name", target.Address).
				Interface("panic", r).
				Msg("Recovered from panic during switch collection")

			o.recordSwitchOutcome(ctx, runID, result)
		}
	}()

	entries, err := o.collector.CollectSwitch(ctx, target, username, password)
	if err != nil {
		o.logger.Error().Err(err).Str("switch_name", target.Address).Msg("Switch collection failed")

		result.Error = err.Error()
		o.recordSwitchOutcome(ctx, runID, result)

		return result
	}

	result.TotalEntries = len(entries)

	highWater, err := o.db.GetLastEntryTimestamp(ctx, target.Address)
	if err != nil {
		o.logger.Error().Err(err).Str("switch_name", target.Address).Msg("Failed to read high-water mark")

		result.Error = err.Error()
		o.recordSwitchOutcome(ctx, runID, result)

		return result
	}

	newEntries := o.prepareEntries(ctx, runID, entries, highWater)

	inserted := 0

	if len(newEntries) > 0 {
		inserted, err = o.db.InsertLogEntries(ctx, newEntries)
		if err != nil {
			o.logger.Error().Err(err).Str("switch_name", target.Address).Msg("Failed to persist log entries")

			result.Error = err.Error()
			o.recordSwitchOutcome(ctx, runID, result)

			return result
		}
	}

	result.Success = true
	result.InsertedCount = inserted

	o.recordSwitchOutcome(ctx, runID, result)

	o.logger.Info().
		Str("switch_name", target.Address).
		Int("collected", result.TotalEntries).
		Int("inserted", inserted).
		Msg("Switch processed")

	return result
}

// prepareEntries converts parsed entries to persistable records, keeping only
// those strictly newer than the switch's high-water mark, and enriches them
// with metadata lookups where slot, port, and WWN are all known.
func (o *Orchestrator) prepareEntries(
	ctx context.Context, runID string, entries []*collector.Entry, highWater *time.Time) []*models.LogEntry {
	records := make([]*models.LogEntry, 0, len(entries))

	for _, entry := range entries {
		ts := collector.ParseTimestamp(entry.Timestamp)
		if ts.IsZero() {
			continue
		}

		if highWater != nil && !ts.After(*highWater) {
			continue
		}

		record := &models.LogEntry{
			Timestamp:    ts,
			SwitchName:   entry.SwitchName,
			Site:         entry.Site,
			Context:      entry.Context,
			EventType:    entry.Event,
			PortInfo:     entry.SlotPort,
			RawLine:      entry.RawLine,
			CollectionID: runID,
		}

		if entry.PortWWN != "" && entry.PortWWN != "NA" {
			record.WWN = devicemap.CanonicalWWN(entry.PortWWN)
		}

		o.enrich(ctx, record, entry)

		records = append(records, record)
	}

	return records
}

func (o *Orchestrator) enrich(ctx context.Context, record *models.LogEntry, entry *collector.Entry) {
	if record.WWN == "" {
		return
	}

	slot, port, ok := collector.ExtractSlotPort(entry.SlotPort)
	if !ok {
		return
	}

	resolution, err := o.devices.Lookup(ctx, entry.SwitchName, slot, port, record.WWN)
	if err != nil {
		o.logger.Warn().Err(err).
			Str("switch_name", entry.SwitchName).
			Str("wwn", record.WWN).
			Msg("Metadata lookup failed")

		return
	}

	if resolution == nil {
		return
	}

	if resolution.Alias != "" {
		alias := resolution.Alias
		record.Alias = &alias
	}

	if resolution.NodeSymbol != "" {
		symbol := resolution.NodeSymbol
		record.NodeSymbol = &symbol
	}
}

// recordSwitchOutcome updates the per-switch status row. Bookkeeping errors
// are logged and swallowed; the result already carries the outcome.
func (o *Orchestrator) recordSwitchOutcome(ctx context.Context, runID string, result models.SwitchResult) {
	status := &models.SwitchStatus{
		SwitchName:         result.SwitchName,
		LastCollectionDate: time.Now(),
		LastCollectionID:   runID,
		LastEntryCount:     result.InsertedCount,
		Status:             models.SwitchStatusActive,
		LastError:          result.Error,
	}

	if !result.Success {
		status.Status = models.SwitchStatusError
	}

	if err := o.db.UpsertSwitchStatus(ctx, status); err != nil {
		o.logger.Error().Err(err).Str("switch_name", result.SwitchName).Msg("Failed to update switch status")
	}
}

// failRun finalizes a run that died before per-switch results could be
// aggregated. This is the only path to a failed run status.
func (o *Orchestrator) failRun(ctx context.Context, summary *models.CollectionSummary, cause error) {
	o.logger.Error().Err(cause).Str("collection_id", summary.CollectionID).Msg("Collection run failed")

	summary.Success = false
	summary.Status = models.RunStatusFailed
	summary.Error = cause.Error()
	summary.CompletedAt = time.Now()

	if summary.CollectionID == "" {
		return
	}

	if err := o.db.UpdateCollectionRun(ctx, &models.CollectionRun{
		ID:           summary.CollectionID,
		StartedAt:    summary.StartedAt,
		CompletedAt:  &summary.CompletedAt,
		Status:       models.RunStatusFailed,
		ErrorMessage: cause.Error(),
	}); err != nil {
		o.logger.Error().Err(err).Msg("Failed to finalize failed collection run record")
	}

	o.publishSummary(ctx, summary)
}

func (o *Orchestrator) publishSummary(ctx context.Context, summary *models.CollectionSummary) {
	if o.publisher == nil {
		return
	}

	if err := o.publisher.PublishRunCompleted(ctx, summary); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to publish collection event")
	}
}

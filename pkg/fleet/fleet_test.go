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

package fleet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fabricwatch/fabricwatch/pkg/collector"
	"github.com/fabricwatch/fabricwatch/pkg/db"
	"github.com/fabricwatch/fabricwatch/pkg/devicemap"
	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
)

type staticRoster struct {
	targets []models.SwitchTarget
	err     error
}

func (r *staticRoster) LoadSwitchRoster(string) ([]models.SwitchTarget, error) {
	return r.targets, r.err
}

type capturingPublisher struct {
	mu        sync.Mutex
	summaries []*models.CollectionSummary
}

func (p *capturingPublisher) PublishRunCompleted(_ context.Context, summary *models.CollectionSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.summaries = append(p.summaries, summary)

	return nil
}

type fixture struct {
	db        *db.MockService
	devices   *devicemap.MockService
	collector *collector.MockCollector
	roster    *staticRoster
	publisher *capturingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	return &fixture{
		db:        db.NewMockService(ctrl),
		devices:   devicemap.NewMockService(ctrl),
		collector: collector.NewMockCollector(ctrl),
		roster:    &staticRoster{},
		publisher: &capturingPublisher{},
	}
}

func (f *fixture) orchestrator(cfg *models.CollectorConfig) *Orchestrator {
	if cfg == nil {
		cfg = &models.CollectorConfig{SwitchesFile: "/etc/fabricwatch/switches.conf"}
	}

	return New(cfg, f.db, f.devices, f.collector, f.roster, f.publisher, logger.NewTestLogger())
}

func stamp(t time.Time) string {
	return t.Format(collector.TimestampLayout)
}

func TestRunCollectionDedupAndEnrichment(t *testing.T) {
	f := newFixture(t)

	target := models.SwitchTarget{Site: "dc-east", Address: "swd77", Generation: "gen7"}
	f.roster.targets = []models.SwitchTarget{target}

	highWater := time.Date(2025, time.June, 27, 12, 0, 0, 0, time.UTC)

	entries := []*collector.Entry{
		{
			Timestamp:  stamp(highWater.Add(2 * time.Hour)),
			SlotPort:   "2/14",
			PortWWN:    "10-00-00-00-c9-2f-1e-ef",
			Event:      "Device Online",
			SwitchName: "swd77",
			Site:       "dc-east",
			Context:    1,
		},
		{
			Timestamp:  stamp(highWater.Add(time.Hour)),
			SlotPort:   "NA",
			PortWWN:    "NA",
			Event:      "Zone Change",
			SwitchName: "swd77",
			Site:       "dc-east",
			Context:    128,
		},
		{
			// At the high-water mark: not strictly newer, must be dropped.
			Timestamp:  stamp(highWater),
			SlotPort:   "2/14",
			PortWWN:    "10:00:00:00:C9:2F:1E:EF",
			Event:      "Device Offline",
			SwitchName: "swd77",
			Site:       "dc-east",
			Context:    1,
		},
	}

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil)

	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	f.collector.EXPECT().
		CollectSwitch(gomock.Any(), target, "admin", "secret").
		Return(entries, nil)

	f.db.EXPECT().
		GetLastEntryTimestamp(gomock.Any(), "swd77").
		Return(&highWater, nil)

	f.devices.EXPECT().
		Lookup(gomock.Any(), "swd77", 2, 14, "10:00:00:00:C9:2F:1E:EF").
		Return(&devicemap.Resolution{Alias: "host42_hba0", NodeSymbol: "HostA"}, nil)

	f.db.EXPECT().
		InsertLogEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.LogEntry) (int, error) {
			require.Len(t, records, 2)

			enriched := records[0]
			assert.Equal(t, "Device Online", enriched.EventType)
			assert.Equal(t, "10:00:00:00:C9:2F:1E:EF", enriched.WWN)
			require.NotNil(t, enriched.Alias)
			assert.Equal(t, "host42_hba0", *enriched.Alias)
			require.NotNil(t, enriched.NodeSymbol)
			assert.Equal(t, "HostA", *enriched.NodeSymbol)

			plain := records[1]
			assert.Equal(t, "Zone Change", plain.EventType)
			assert.Empty(t, plain.WWN)
			assert.Nil(t, plain.Alias)

			for _, record := range records {
				assert.True(t, record.Timestamp.After(highWater))
				assert.Equal(t, "swd77", record.SwitchName)
				assert.NotEmpty(t, record.CollectionID)
			}

			return len(records), nil
		})

	f.db.EXPECT().
		UpsertSwitchStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, status *models.SwitchStatus) error {
			assert.Equal(t, "swd77", status.SwitchName)
			assert.Equal(t, models.SwitchStatusActive, status.Status)
			assert.Equal(t, 2, status.LastEntryCount)
			assert.Empty(t, status.LastError)

			return nil
		})

	f.db.EXPECT().
		UpdateCollectionRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *models.CollectionRun) error {
			assert.Equal(t, models.RunStatusCompleted, run.Status)
			assert.Equal(t, 2, run.NewEntries)

			return nil
		})

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	assert.True(t, summary.Success)
	assert.Equal(t, models.RunStatusCompleted, summary.Status)
	assert.Equal(t, 1, summary.SwitchesProcessed)
	assert.Equal(t, 3, summary.TotalEntries)
	assert.Equal(t, 2, summary.NewEntries)
	assert.Zero(t, summary.FailedSwitches())

	require.Len(t, f.publisher.summaries, 1)
	assert.Equal(t, summary.CollectionID, f.publisher.summaries[0].CollectionID)
}

func TestRunCollectionFirstEverCollectionInsertsAll(t *testing.T) {
	f := newFixture(t)

	target := models.SwitchTarget{Address: "swd01"}
	f.roster.targets = []models.SwitchTarget{target}

	entries := []*collector.Entry{
		{Timestamp: stamp(time.Date(2025, time.June, 28, 2, 0, 0, 0, time.UTC)), SlotPort: "NA", PortWWN: "NA", SwitchName: "swd01"},
		{Timestamp: stamp(time.Date(2025, time.June, 27, 2, 0, 0, 0, time.UTC)), SlotPort: "NA", PortWWN: "NA", SwitchName: "swd01"},
	}

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil)
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)
	f.collector.EXPECT().CollectSwitch(gomock.Any(), target, "admin", "secret").Return(entries, nil)

	// No high-water mark yet.
	f.db.EXPECT().GetLastEntryTimestamp(gomock.Any(), "swd01").Return(nil, nil)

	f.db.EXPECT().
		InsertLogEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.LogEntry) (int, error) {
			assert.Len(t, records, 2)
			return len(records), nil
		})

	f.db.EXPECT().UpsertSwitchStatus(gomock.Any(), gomock.Any()).Return(nil)
	f.db.EXPECT().UpdateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	assert.True(t, summary.Success)
	assert.Equal(t, 2, summary.NewEntries)
}

func TestRunCollectionPartialFailureStillCompletes(t *testing.T) {
	f := newFixture(t)

	f.roster.targets = []models.SwitchTarget{
		{Address: "swd01"},
		{Address: "swd02"},
		{Address: "swd03"},
	}

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil)
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	f.collector.EXPECT().
		CollectSwitch(gomock.Any(), models.SwitchTarget{Address: "swd01"}, "admin", "secret").
		Return(nil, errors.New("connection refused"))

	for _, name := range []string{"swd02", "swd03"} {
		f.collector.EXPECT().
			CollectSwitch(gomock.Any(), models.SwitchTarget{Address: name}, "admin", "secret").
			Return([]*collector.Entry{}, nil)
		f.db.EXPECT().GetLastEntryTimestamp(gomock.Any(), name).Return(nil, nil)
	}

	statuses := make(map[string]string)

	var mu sync.Mutex

	f.db.EXPECT().
		UpsertSwitchStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, status *models.SwitchStatus) error {
			mu.Lock()
			statuses[status.SwitchName] = status.Status
			mu.Unlock()

			return nil
		}).
		Times(3)

	f.db.EXPECT().
		UpdateCollectionRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *models.CollectionRun) error {
			assert.Equal(t, models.RunStatusCompleted, run.Status)
			return nil
		})

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	// One switch down must not fail the run.
	assert.True(t, summary.Success)
	assert.Equal(t, models.RunStatusCompleted, summary.Status)
	assert.Equal(t, 3, summary.SwitchesProcessed)
	assert.Equal(t, 1, summary.FailedSwitches())

	assert.Equal(t, models.SwitchStatusError, statuses["swd01"])
	assert.Equal(t, models.SwitchStatusActive, statuses["swd02"])
	assert.Equal(t, models.SwitchStatusActive, statuses["swd03"])
}

func TestRunCollectionRosterFailureFailsRun(t *testing.T) {
	f := newFixture(t)
	f.roster.err = errors.New("roster file missing")

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil)
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	f.db.EXPECT().
		UpdateCollectionRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *models.CollectionRun) error {
			assert.Equal(t, models.RunStatusFailed, run.Status)
			assert.Contains(t, run.ErrorMessage, "roster file missing")

			return nil
		})

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	assert.False(t, summary.Success)
	assert.Equal(t, models.RunStatusFailed, summary.Status)
	assert.Contains(t, summary.Error, "roster file missing")
}

func TestRunCollectionRefreshFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)

	target := models.SwitchTarget{Address: "swd01"}
	f.roster.targets = []models.SwitchTarget{target}

	f.devices.EXPECT().Refresh(gomock.Any()).Return(errors.New("feed unreachable"))
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)
	f.collector.EXPECT().CollectSwitch(gomock.Any(), target, "admin", "secret").Return(nil, nil)
	f.db.EXPECT().GetLastEntryTimestamp(gomock.Any(), "swd01").Return(nil, nil)
	f.db.EXPECT().UpsertSwitchStatus(gomock.Any(), gomock.Any()).Return(nil)
	f.db.EXPECT().UpdateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	assert.True(t, summary.Success)
}

func TestRunCollectionRejectsConcurrentRuns(t *testing.T) {
	f := newFixture(t)

	target := models.SwitchTarget{Address: "swd01"}
	f.roster.targets = []models.SwitchTarget{target}

	started := make(chan struct{})
	release := make(chan struct{})

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().GetLastEntryTimestamp(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.db.EXPECT().UpsertSwitchStatus(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().UpdateCollectionRun(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.collector.EXPECT().
		CollectSwitch(gomock.Any(), target, "admin", "secret").
		DoAndReturn(func(context.Context, models.SwitchTarget, string, string) ([]*collector.Entry, error) {
			close(started)
			<-release

			return nil, nil
		})

	orchestrator := f.orchestrator(nil)

	var wg sync.WaitGroup

	wg.Add(1)

	var first *models.CollectionSummary

	go func() {
		defer wg.Done()

		first = orchestrator.RunCollection(context.Background(), "admin", "secret")
	}()

	<-started

	second := orchestrator.RunCollection(context.Background(), "admin", "secret")
	assert.False(t, second.Success)
	assert.Equal(t, ErrCollectionInProgress.Error(), second.Error)

	close(release)
	wg.Wait()

	assert.True(t, first.Success)
}

func TestRunCollectionPanicInWorkerIsContained(t *testing.T) {
	f := newFixture(t)

	target := models.SwitchTarget{Address: "swd01"}
	f.roster.targets = []models.SwitchTarget{target}

	f.devices.EXPECT().Refresh(gomock.Any()).Return(nil)
	f.db.EXPECT().CreateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	f.collector.EXPECT().
		CollectSwitch(gomock.Any(), target, "admin", "secret").
		DoAndReturn(func(context.Context, models.SwitchTarget, string, string) ([]*collector.Entry, error) {
			panic("unexpected parser state")
		})

	f.db.EXPECT().
		UpsertSwitchStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, status *models.SwitchStatus) error {
			assert.Equal(t, models.SwitchStatusError, status.Status)
			assert.Contains(t, status.LastError, "panic")

			return nil
		})

	f.db.EXPECT().UpdateCollectionRun(gomock.Any(), gomock.Any()).Return(nil)

	summary := f.orchestrator(nil).RunCollection(context.Background(), "admin", "secret")

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.FailedSwitches())
}

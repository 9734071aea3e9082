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

// Package collector parses switch device-connectivity logs and collects them
// across the logical contexts of a single switch.
package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
	"github.com/fabricwatch/fabricwatch/pkg/shell"
)

//go:generate mockgen -destination=mock_collector.go -package=collector github.com/fabricwatch/fabricwatch/pkg/collector Collector

// Collector gathers all log entries of one switch.
type Collector interface {
	CollectSwitch(ctx context.Context, target models.SwitchTarget, username, password string) ([]*Entry, error)
}

const (
	defaultConnectTimeout = 30 * time.Second
	defaultContextPause   = time.Second

	summaryCountMarker = "Total number of Entries displayed"
)

// The logical partitions each switch reports independently. Context 128 is
// the physical-switch partition.
var defaultContexts = []int{1, 2, 3, 4, 5, 128}

// LogDumpCommand is the per-context command issued on the shell.
func LogDumpCommand(fid int) string {
	return fmt.Sprintf(`fosexec --fid %d -cmd "nsdevlog --show"`, fid)
}

// Config tunes per-switch collection. Zero values take defaults.
type Config struct {
	ConnectTimeout time.Duration       `json:"connect_timeout,omitempty"`
	ContextPause   time.Duration       `json:"context_pause,omitempty"`
	Contexts       []int               `json:"contexts,omitempty"`
	Driver         *shell.DriverConfig `json:"driver,omitempty"`
}

// SwitchCollector drives one switch: a single connection reused across its
// contexts, one command/response cycle per context.
type SwitchCollector struct {
	dialer         shell.Dialer
	driver         *shell.Driver
	connectTimeout time.Duration
	contextPause   time.Duration
	contexts       []int
	logger         logger.Logger
}

var _ Collector = (*SwitchCollector)(nil)

func New(dialer shell.Dialer, config *Config, log logger.Logger) *SwitchCollector {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	if cfg.ContextPause == 0 {
		cfg.ContextPause = defaultContextPause
	}

	if len(cfg.Contexts) == 0 {
		cfg.Contexts = defaultContexts
	}

	return &SwitchCollector{
		dialer:         dialer,
		driver:         shell.NewDriver(cfg.Driver, log),
		connectTimeout: cfg.ConnectTimeout,
		contextPause:   cfg.ContextPause,
		contexts:       cfg.Contexts,
		logger:         log,
	}
}

// CollectSwitch connects to the switch, iterates its contexts sequentially,
// parses and verifies each context's output, deduces years per context, and
// returns all entries sorted newest-first. A transport failure aborts this
// switch only.
func (c *SwitchCollector) CollectSwitch(
	ctx context.Context, target models.SwitchTarget, username, password string) ([]*Entry, error) {
	log := c.logger.With().
		Str("switch_name", target.Address).
		Str("site", target.Site).
		Logger()

	log.Info().Str("generation", target.Generation).Msg("Starting switch collection")

	client, err := c.dialer(ctx, target.Address, username, password, c.connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to switch %s: %w", target.Address, err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close switch connection")
		}
	}()

	var allEntries []*Entry

	for i, fid := range c.contexts {
		entries, err := c.collectContext(ctx, client, target, fid)
		if err != nil {
			return nil, err
		}

		log.Info().Int("context", fid).Int("entries", len(entries)).Msg("Context collected")

		allEntries = append(allEntries, entries...)

		// Brief pause between contexts so the device is not overloaded.
		if i < len(c.contexts)-1 {
			select {
			case <-ctx.Done():
				return allEntries, ctx.Err()
			case <-time.After(c.contextPause):
			}
		}
	}

	sort.SliceStable(allEntries, func(i, j int) bool {
		return ParseTimestamp(allEntries[i].Timestamp).After(ParseTimestamp(allEntries[j].Timestamp))
	})

	log.Info().Int("total_entries", len(allEntries)).Msg("Switch collection finished")

	return allEntries, nil
}

func (c *SwitchCollector) collectContext(
	ctx context.Context, client shell.Client, target models.SwitchTarget, fid int) ([]*Entry, error) {
	sess, err := client.OpenShell()
	if err != nil {
		return nil, fmt.Errorf("failed to open shell for context %d: %w", fid, err)
	}

	defer func() {
		_ = sess.Close()
	}()

	raw, err := c.driver.Run(ctx, sess, LogDumpCommand(fid))
	if err != nil {
		return nil, fmt.Errorf("log dump failed on context %d: %w", fid, err)
	}

	entries := c.parseWithVerification(raw, target.Address, fid)

	for _, entry := range entries {
		entry.Site = target.Site
	}

	// The device prints each context's log oldest-first, so the year walk
	// runs over the reversed view, newest entry first. Years are deduced per
	// context, never across the concatenated result; output order is
	// untouched.
	reversed := make([]*Entry, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}

	AssignYears(reversed, time.Now().Year())

	return entries, nil
}

// parseWithVerification parses every line of the raw dump and compares the
// parsed count against the switch-declared total from the footer. A mismatch
// is surfaced as a warning, not a failure: partial results are still used.
func (c *SwitchCollector) parseWithVerification(raw, switchName string, fid int) []*Entry {
	var entries []*Entry

	expected := -1

	for _, line := range strings.Split(raw, "\n") {
		if expected < 0 && strings.Contains(line, summaryCountMarker) {
			if n, ok := parseDeclaredCount(line); ok {
				expected = n
			}
		}

		entry := ParseLogLine(line)
		if entry == nil {
			continue
		}

		entry.Context = fid
		entry.SwitchName = switchName
		entries = append(entries, entry)
	}

	switch {
	case expected < 0:
		c.logger.Warn().
			Str("switch_name", switchName).
			Int("context", fid).
			Int("parsed", len(entries)).
			Msg("No switch-declared entry count found in output")
	case expected != len(entries):
		c.logger.Warn().
			Str("switch_name", switchName).
			Int("context", fid).
			Int("parsed", len(entries)).
			Int("declared", expected).
			Msg("Parsed entry count does not match switch-declared total")
	default:
		c.logger.Debug().
			Str("switch_name", switchName).
			Int("context", fid).
			Int("entries", expected).
			Msg("Entry count verified against switch-declared total")
	}

	return entries
}

func parseDeclaredCount(line string) (int, bool) {
	_, value, found := strings.Cut(line, "=")
	if !found {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}

	return n, true
}

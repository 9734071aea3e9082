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

// Command collectord runs one fleet-wide device-connectivity log collection
// and exits. Scheduling repeated runs is left to cron or an external
// supervisor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fabricwatch/fabricwatch/pkg/collector"
	"github.com/fabricwatch/fabricwatch/pkg/config"
	"github.com/fabricwatch/fabricwatch/pkg/db"
	"github.com/fabricwatch/fabricwatch/pkg/devicemap"
	"github.com/fabricwatch/fabricwatch/pkg/events"
	"github.com/fabricwatch/fabricwatch/pkg/fleet"
	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
	"github.com/fabricwatch/fabricwatch/pkg/shell"
	"github.com/fabricwatch/fabricwatch/pkg/version"
)

func main() {
	configPath := flag.String("config", "/etc/fabricwatch/collectord.json", "Path to collectord config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "collectord: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bootstrapLogger, err := logger.New(logger.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	var cfg models.CollectorConfig

	cfgLoader := config.NewConfig(bootstrapLogger)
	if err := cfgLoader.LoadAndValidate(ctx, configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrapLogger

	if cfg.Logging != nil {
		log, err = logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to configure logger: %w", err)
		}
	}

	log.Info().Str("version", version.GetFullVersion()).Msg("Starting collectord")

	username, password := credentials(&cfg)
	if username == "" || password == "" {
		return errMissingCredentials
	}

	database, err := db.New(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close database")
		}
	}()

	if err := database.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	devices := devicemap.NewIndex(database, &devicemap.Config{FeedPath: cfg.DevicePortFile}, log)

	var publisher fleet.EventPublisher

	if cfg.NATS != nil && cfg.NATS.URL != "" {
		p, err := events.NewPublisher(cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("Event publisher unavailable, continuing without events")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	orchestrator := fleet.New(
		&cfg,
		database,
		devices,
		collector.New(shell.DialSSH, nil, log),
		config.NewConfig(log),
		publisher,
		log,
	)

	summary := orchestrator.RunCollection(ctx, username, password)
	if !summary.Success {
		return fmt.Errorf("%w: %s", errRunFailed, summary.Error)
	}

	log.Info().
		Str("collection_id", summary.CollectionID).
		Int("switches", summary.SwitchesProcessed).
		Int("new_entries", summary.NewEntries).
		Msg("Collection finished")

	return nil
}

// credentials resolves switch credentials from config, falling back to the
// environment so secrets can stay out of config files.
func credentials(cfg *models.CollectorConfig) (username, password string) {
	username = cfg.Username
	if username == "" {
		username = os.Getenv("SWITCH_USERNAME")
	}

	password = cfg.Password
	if password == "" {
		password = os.Getenv("SWITCH_PASSWORD")
	}

	return username, password
}

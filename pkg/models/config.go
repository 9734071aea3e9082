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

package models

import (
	"errors"
	"strings"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
)

var (
	ErrDatabaseRequired = errors.New("database configuration is required")
	ErrSwitchesRequired = errors.New("switches_file is required")
	ErrEmptyTarget      = errors.New("switch target is empty")
)

// Database holds the PostgreSQL connection settings.
type Database struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Database         string `json:"database"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	SSLMode          string `json:"ssl_mode,omitempty"`
	ApplicationName  string `json:"application_name,omitempty"`
	MaxConnections   int32  `json:"max_connections,omitempty"`
	MinConnections   int32  `json:"min_connections,omitempty"`
	StatementTimeout int64  `json:"statement_timeout_ms,omitempty"`
}

// NATSConfig configures the optional run-event publisher.
type NATSConfig struct {
	URL     string `json:"url"`
	Stream  string `json:"stream,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// CollectorConfig is the top-level service configuration.
type CollectorConfig struct {
	Database       *Database      `json:"database"`
	SwitchesFile   string         `json:"switches_file"`
	DevicePortFile string         `json:"device_port_file,omitempty"`
	MaxWorkers     int            `json:"max_workers,omitempty"`
	Username       string         `json:"username,omitempty"`
	Password       string         `json:"password,omitempty"`
	NATS           *NATSConfig    `json:"nats,omitempty"`
	Logging        *logger.Config `json:"logging,omitempty"`
}

func (c *CollectorConfig) Validate() error {
	if c.Database == nil {
		return ErrDatabaseRequired
	}

	if c.SwitchesFile == "" {
		return ErrSwitchesRequired
	}

	return nil
}

const defaultGeneration = "gen7"

// SwitchTarget identifies one switch in the roster.
type SwitchTarget struct {
	Site       string `json:"site"`
	Address    string `json:"address"`
	Generation string `json:"generation"`
}

// ParseSwitchTarget parses a "site:switchAddress:generation" roster triple.
// Generation defaults to gen7 when omitted; a bare address is accepted with
// an empty site.
func ParseSwitchTarget(raw string) (SwitchTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SwitchTarget{}, ErrEmptyTarget
	}

	parts := strings.Split(raw, ":")

	target := SwitchTarget{Generation: defaultGeneration}

	switch {
	case len(parts) >= 3 && strings.TrimSpace(parts[2]) != "":
		target.Generation = strings.TrimSpace(parts[2])
		fallthrough
	case len(parts) >= 2:
		target.Site = strings.TrimSpace(parts[0])
		target.Address = strings.TrimSpace(parts[1])
	default:
		target.Address = parts[0]
	}

	if target.Address == "" {
		return SwitchTarget{}, ErrEmptyTarget
	}

	return target, nil
}

func (t SwitchTarget) String() string {
	return t.Site + ":" + t.Address + ":" + t.Generation
}

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

package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fabricwatch/fabricwatch/pkg/models"
)

// LoadSwitchRoster reads the switch roster file: one "site:address:generation"
// triple per line, blank lines and #-comments skipped. Lines that fail to
// parse are dropped with a warning rather than failing the whole roster.
func (c *Config) LoadSwitchRoster(path string) ([]models.SwitchTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open switch roster '%s': %w", path, err)
	}
	defer f.Close()

	var targets []models.SwitchTarget

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		target, err := models.ParseSwitchTarget(line)
		if err != nil {
			c.logger.Warn().Str("line", line).Err(err).Msg("Skipping unparseable roster line")
			continue
		}

		targets = append(targets, target)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read switch roster '%s': %w", path, err)
	}

	return targets, nil
}

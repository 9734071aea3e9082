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

// Package config loads service configuration from JSON files and the switch
// roster from its line-oriented configuration file.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
)

// Validator is implemented by config types that can validate themselves
// after loading.
type Validator interface {
	Validate() error
}

// FileConfigLoader loads configuration from a local JSON file.
type FileConfigLoader struct{}

// Load implements ConfigLoader by reading and unmarshaling a JSON file.
func (*FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	err = json.Unmarshal(data, dst)
	if err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	return nil
}

// Config holds the configuration loading dependencies.
type Config struct {
	loader *FileConfigLoader
	logger logger.Logger
}

func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Config{
		loader: &FileConfigLoader{},
		logger: log,
	}
}

// LoadAndValidate loads the config at path into dst and validates it when the
// target implements Validator.
func (c *Config) LoadAndValidate(ctx context.Context, path string, dst interface{}) error {
	if err := c.loader.Load(ctx, path, dst); err != nil {
		return err
	}

	if v, ok := dst.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid configuration in '%s': %w", path, err)
		}
	}

	return nil
}

/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads deployment.yaml relative to home, expanding environment variables, on top of Default().
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	fillEmpty(cfg, Default())
	return cfg, nil
}

// fillEmpty restores defaults for selector values that expanded to empty strings because their environment
// variable was unset.
func fillEmpty(cfg, defaults *Config) {
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = defaults.Log.LogLevel
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = defaults.Storage.Type
	}
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = defaults.RateLimit.Backend
	}
	if cfg.Geo.CountryHeader == "" {
		cfg.Geo.CountryHeader = defaults.Geo.CountryHeader
	}
}

// ParseDuration parses a duration string, returning fallback when it is empty or invalid.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"` // text or json
}

type AuthConfig struct {
	CORSAllowedOrigins []string            `yaml:"cors_allowed_origins"`
	JWTSecret          string              `yaml:"jwt_secret"`
	Issuer             string              `yaml:"issuer"`
	RequiredScopes     map[string][]string `yaml:"required_scopes"`
}

// LicenseConfig carries the signed license token the plan tier is derived from.
type LicenseConfig struct {
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
}

type StorageConfig struct {
	Type string `yaml:"type"` // postgres, mongodb or memory
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RateLimitConfig struct {
	Backend string `yaml:"backend"` // memory or redis
	Limit   int    `yaml:"limit"`
	Window  string `yaml:"window"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GeoConfig struct {
	CountryHeader     string `yaml:"country_header"`
	TrustProxyHeaders bool   `yaml:"trust_proxy_headers"`
}

type ConsentConfig struct {
	IncludeMessageInHash bool   `yaml:"include_message_in_hash"`
	RecentLogsCacheTTL   string `yaml:"recent_logs_cache_ttl"`
	PruneInterval        string `yaml:"prune_interval"`
	RetentionSchedule    string `yaml:"retention_schedule"`
}

// JurisdictionRule maps visitors to a law tag when the CEL expression evaluates to true.
type JurisdictionRule struct {
	Law  string `yaml:"law"`
	Expr string `yaml:"expr"`
}

type Config struct {
	Addr          AddrConfig         `yaml:"addr"`
	Log           LogConfig          `yaml:"log"`
	Auth          AuthConfig         `yaml:"auth"`
	License       LicenseConfig      `yaml:"license"`
	Storage       StorageConfig      `yaml:"storage"`
	DataSource    DataSourceConfig   `yaml:"datasource"`
	MongoDB       MongoDBConfig      `yaml:"mongodb"`
	RateLimit     RateLimitConfig    `yaml:"rate_limit"`
	Redis         RedisConfig        `yaml:"redis"`
	Geo           GeoConfig          `yaml:"geo"`
	Consent       ConsentConfig      `yaml:"consent"`
	Jurisdictions []JurisdictionRule `yaml:"jurisdictions"`
}

// Default returns the configuration used when deployment.yaml leaves a section out.
func Default() *Config {
	return &Config{
		Addr: AddrConfig{Host: "0.0.0.0", Port: 8900},
		Log:  LogConfig{LogLevel: "INFO", Format: "text"},
		Storage: StorageConfig{
			Type: "postgres",
		},
		DataSource: DataSourceConfig{
			Hostname: "localhost",
			Port:     5432,
			Name:     "consent",
			SSLMode:  "disable",
		},
		MongoDB: MongoDBConfig{Database: "consent"},
		RateLimit: RateLimitConfig{
			Backend: "memory",
			Limit:   5,
			Window:  "1s",
		},
		Geo: GeoConfig{CountryHeader: "CF-IPCountry"},
		Consent: ConsentConfig{
			RecentLogsCacheTTL: "60s",
			PruneInterval:      "1h",
			RetentionSchedule:  "24h",
		},
		Jurisdictions: []JurisdictionRule{
			{Law: "ccpa", Expr: `country == "US"`},
		},
	}
}

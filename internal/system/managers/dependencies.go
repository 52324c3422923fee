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

package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	consentService "github.com/cookieconsent/consent-service/internal/consent/service"
	consentLogService "github.com/cookieconsent/consent-service/internal/consent_log/service"
	consentLogStore "github.com/cookieconsent/consent-service/internal/consent_log/store"
	fingerprintService "github.com/cookieconsent/consent-service/internal/fingerprint/service"
	healthService "github.com/cookieconsent/consent-service/internal/health_check/service"
	settingsService "github.com/cookieconsent/consent-service/internal/settings/service"
	settingsStore "github.com/cookieconsent/consent-service/internal/settings/store"
	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/database/lock"
	"github.com/cookieconsent/consent-service/internal/system/database/mongodb"
	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/system/license"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/ratelimit"
	"github.com/cookieconsent/consent-service/internal/system/security"
)

// Dependencies is the wired object graph shared by the HTTP server and the admin CLI.
type Dependencies struct {
	Settings     *settingsService.SettingsService
	Fingerprints *fingerprintService.FingerprintService
	ConsentLogs  *consentLogService.ConsentLogService
	Consent      *consentService.ConsentService
	Health       *healthService.HealthCheckService
	Auth         *security.Authenticator
	License      *license.Provider
	closers      []func(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// BuildDependencies connects the configured backends and wires every service on top of them.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {

	deps := &Dependencies{
		Auth:    security.NewAuthenticator(cfg.Auth),
		License: license.NewProvider(cfg.License),
	}
	logger := log.GetLogger()

	var (
		settings  settingsStore.SettingsStoreInterface
		logs      consentLogStore.ConsentLogStoreInterface
		pruneLock lock.DistributedLock
	)
	switch cfg.Storage.Type {
	case constants.StoragePostgres:
		dbProvider := provider.NewDBProvider()
		if _, err := dbProvider.GetDBClient(); err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		settings = settingsStore.NewPostgresSettingsStore(dbProvider)
		logs = consentLogStore.NewPostgresConsentLogStore(dbProvider)
		pruneLock = lock.NewPostgresLock(dbProvider)
		deps.closers = append(deps.closers, func(context.Context) error { return provider.Close() })
	case constants.StorageMongoDB:
		db, err := mongodb.ConnectMongoDB(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		settings = settingsStore.NewMongoSettingsStore(db.Database)
		logs = consentLogStore.NewMongoConsentLogStore(db.Database)
		deps.closers = append(deps.closers, db.Disconnect)
	case constants.StorageMemory:
		logger.Warn("Using in-memory storage. Settings and consent records are lost on restart.")
		settings = settingsStore.NewInMemorySettingsStore()
		logs = consentLogStore.NewInMemoryConsentLogStore()
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}

	pingers := map[string]healthService.Pinger{"settings": settings, "consent_logs": logs}

	window := config.ParseDuration(cfg.RateLimit.Window, constants.SubmissionRateWindow)
	limit := cfg.RateLimit.Limit
	if limit <= 0 {
		limit = constants.SubmissionRateLimit
	}
	var limiter ratelimit.Limiter
	switch cfg.RateLimit.Backend {
	case constants.RateLimitRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			deps.Close(ctx)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		limiter = ratelimit.NewRedis(client, limit, window)
		pingers["redis"] = redisPinger{client: client}
		deps.closers = append(deps.closers, func(context.Context) error { return client.Close() })
	case constants.RateLimitMemory, "":
		limiter = ratelimit.NewInMemory(limit, window)
	default:
		deps.Close(ctx)
		return nil, fmt.Errorf("unsupported rate limit backend %q", cfg.RateLimit.Backend)
	}

	jurisdictions, err := consentService.NewJurisdictionResolver(cfg.Jurisdictions)
	if err != nil {
		deps.Close(ctx)
		return nil, fmt.Errorf("compile jurisdiction rules: %w", err)
	}

	deps.Settings = settingsService.NewSettingsService(settings)
	deps.Fingerprints = fingerprintService.NewFingerprintService(deps.Settings, cfg.Consent.IncludeMessageInHash)
	deps.ConsentLogs = consentLogService.NewConsentLogService(logs, pruneLock,
		config.ParseDuration(cfg.Consent.RecentLogsCacheTTL, time.Minute),
		config.ParseDuration(cfg.Consent.PruneInterval, time.Hour))
	deps.Consent = consentService.NewConsentService(deps.Settings, deps.Fingerprints, deps.ConsentLogs, limiter,
		jurisdictions)
	deps.Health = healthService.NewHealthCheckService(pingers)

	logger.Info("Dependencies initialized", log.String("storage", cfg.Storage.Type),
		log.String("rate_limit", cfg.RateLimit.Backend), log.String("tier", string(deps.License.Current())))
	return deps, nil
}

// Close releases every backend connection. It is safe to call on a partially built graph.
func (d *Dependencies) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			log.GetLogger().Warn("Error while closing dependency", log.Error(err))
		}
	}
	d.closers = nil
}

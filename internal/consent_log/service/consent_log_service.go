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

package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	"github.com/cookieconsent/consent-service/internal/consent_log/store"
	"github.com/cookieconsent/consent-service/internal/system/cache"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/database/lock"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"
)

const (
	recentRecordsKey = "consent_log:recent"
	lastPruneKey     = "consent_log:last_prune"
	pruneLockKey     = "consent_log:prune"
)

// csvHeader is the column order of the log export.
var csvHeader = []string{"ip", "country", "consent", "created_at"}

// euLikeCountries are the countries counted as GDPR territory in statistics: the EU, the EEA, the UK and
// Switzerland.
var euLikeCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true, "DK": true, "EE": true, "FI": true,
	"FR": true, "DE": true, "GR": true, "HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true, "SI": true, "ES": true, "SE": true,
	"IS": true, "LI": true, "NO": true, "GB": true, "CH": true,
}

// ConsentLogServiceInterface is the append-only decision log.
type ConsentLogServiceInterface interface {
	Append(ctx context.Context, record model.ConsentRecord) (model.ConsentRecord, error)
	Recent(ctx context.Context, count int, t tier.Tier, mode string) ([]model.ConsentRecordView, error)
	Prune(ctx context.Context, retentionDays int, t tier.Tier) (model.PruneResult, error)
	PruneIfDue(ctx context.Context, retentionDays int, t tier.Tier)
	Stats(ctx context.Context, from, to *time.Time) (model.Stats, error)
	ExportCSV(ctx context.Context, w io.Writer, t tier.Tier) (int, error)
}

// ConsentLogService masks every record it hands out; nothing above it sees raw rows.
type ConsentLogService struct {
	store         store.ConsentLogStoreInterface
	cache         *cache.Cache
	pruneLock     lock.DistributedLock
	pruneInterval time.Duration
	now           func() time.Time
}

// NewConsentLogService creates the service. recentTTL is how long cached mode serves a snapshot of the newest
// records; pruneInterval is the minimum gap between opportunistic prunes. pruneLock keeps instances sharing a
// store from pruning at the same time; nil means a process local lock.
func NewConsentLogService(logStore store.ConsentLogStoreInterface, pruneLock lock.DistributedLock, recentTTL,
	pruneInterval time.Duration) *ConsentLogService {
	return newConsentLogService(logStore, pruneLock, recentTTL, pruneInterval, time.Now)
}

func newConsentLogService(logStore store.ConsentLogStoreInterface, pruneLock lock.DistributedLock, recentTTL,
	pruneInterval time.Duration, now func() time.Time) *ConsentLogService {
	if pruneLock == nil {
		pruneLock = lock.NewLocalLock()
	}
	return &ConsentLogService{
		store:         logStore,
		cache:         cache.NewCacheWithClock(recentTTL, now),
		pruneLock:     pruneLock,
		pruneInterval: pruneInterval,
		now:           now,
	}
}

// Append validates and stores a record. A record missing consent, ip or country is refused and nothing is
// written.
func (s *ConsentLogService) Append(ctx context.Context, record model.ConsentRecord) (model.ConsentRecord, error) {

	var missing []string
	if strings.TrimSpace(record.Consent) == "" {
		missing = append(missing, "consent")
	}
	if strings.TrimSpace(record.IP) == "" {
		missing = append(missing, "ip")
	}
	if strings.TrimSpace(record.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return model.ConsentRecord{}, errors2.NewClientError(errors2.INVALID_RECORD.WithDescription(
			fmt.Sprintf("Missing fields: %s", strings.Join(missing, ", "))), http.StatusBadRequest)
	}
	if !constants.AllowedConsentValues[record.Consent] {
		return model.ConsentRecord{}, errors2.NewClientError(errors2.INVALID_CONSENT, http.StatusBadRequest)
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	if record.Categories == nil {
		record.Categories = []string{}
	}

	if err := s.store.Insert(ctx, record); err != nil {
		return model.ConsentRecord{}, err
	}
	log.GetLogger().Debug("Consent recorded", log.String("id", record.ID),
		log.String("ip", MaskIP(record.IP, tier.Basic)), log.String("consent", record.Consent))
	return record, nil
}

// Recent returns the newest count records, masked for t. In cached mode the records come from a snapshot that is
// refreshed once it expires; in live mode storage is read every time.
func (s *ConsentLogService) Recent(ctx context.Context, count int, t tier.Tier,
	mode string) ([]model.ConsentRecordView, error) {

	if count < constants.MinRecentLogCount || count > constants.MaxRecentLogCount {
		return nil, errors2.NewClientError(errors2.INVALID_COUNT, http.StatusBadRequest)
	}

	var records []model.ConsentRecord
	live := mode == constants.LoggingModeLive && tier.Allow(t, tier.LoggingMode)
	if !live {
		if cached, ok := s.cache.Get(recentRecordsKey); ok {
			records = cached.([]model.ConsentRecord)
		} else {
			fetched, err := s.store.Find(ctx, model.RecordQuery{Limit: constants.MaxRecentLogCount})
			if err != nil {
				return nil, err
			}
			s.cache.Set(recentRecordsKey, fetched)
			records = fetched
		}
	} else {
		fetched, err := s.store.Find(ctx, model.RecordQuery{Limit: count})
		if err != nil {
			return nil, err
		}
		records = fetched
	}

	if len(records) > count {
		records = records[:count]
	}
	views := make([]model.ConsentRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, Mask(record, t))
	}
	return views, nil
}

// Prune deletes records older than the retention period, clamped to the tier ceiling. Running it again deletes
// nothing more.
func (s *ConsentLogService) Prune(ctx context.Context, retentionDays int, t tier.Tier) (model.PruneResult, error) {

	days := tier.ClampLogRetention(t, retentionDays)
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	deleted, err := s.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return model.PruneResult{}, err
	}
	s.cache.Delete(recentRecordsKey)
	if deleted > 0 {
		log.GetLogger().Info("Pruned consent records", log.Int64("deleted", deleted), log.Int("retention_days", days))
	}
	return model.PruneResult{RetentionDays: days, Cutoff: cutoff, Deleted: deleted}, nil
}

// PruneIfDue prunes at most once per prune interval. Failures are logged and otherwise ignored so that they
// never fail the write that triggered them.
func (s *ConsentLogService) PruneIfDue(ctx context.Context, retentionDays int, t tier.Tier) {
	if s.pruneInterval <= 0 || s.cache.Increment(lastPruneKey, s.pruneInterval) != 1 {
		return
	}
	logger := log.GetLogger()
	acquired, err := s.pruneLock.Acquire(ctx, pruneLockKey)
	if err != nil {
		logger.Warn("Unable to take the prune lock", log.Error(err))
		return
	}
	if !acquired {
		logger.Debug("Another instance is pruning consent records")
		return
	}
	defer func() {
		if err := s.pruneLock.Release(ctx, pruneLockKey); err != nil {
			logger.Warn("Unable to release the prune lock", log.Error(err))
		}
	}()
	if _, err := s.Prune(ctx, retentionDays, t); err != nil {
		logger.Warn("Opportunistic prune failed", log.Error(err))
	}
}

// Stats counts outcomes between from and to. Records without a usable timestamp are left out whenever a bound
// is given.
func (s *ConsentLogService) Stats(ctx context.Context, from, to *time.Time) (model.Stats, error) {

	if from != nil && to != nil && from.After(*to) {
		return model.Stats{}, errors2.NewClientError(
			errors2.INVALID_RANGE.WithDescription("from must not be after to"), http.StatusBadRequest)
	}
	records, err := s.store.Find(ctx, model.RecordQuery{From: from, To: to})
	if err != nil {
		return model.Stats{}, err
	}

	var stats model.Stats
	bounded := from != nil || to != nil
	for _, record := range records {
		if bounded && record.CreatedAt.IsZero() {
			continue
		}
		stats.Total++
		switch record.Consent {
		case constants.ConsentFull:
			stats.Full++
		case constants.ConsentPartial:
			stats.Partial++
		case constants.ConsentNone:
			stats.None++
		}
		country := strings.ToUpper(record.Country)
		if euLikeCountries[country] {
			stats.SeenEU = true
		}
		if country == "US" {
			stats.SeenUS = true
		}
	}
	return stats, nil
}

// ExportCSV writes every record, newest first, masked for t, and returns how many rows were written.
func (s *ConsentLogService) ExportCSV(ctx context.Context, w io.Writer, t tier.Tier) (int, error) {

	records, err := s.store.Find(ctx, model.RecordQuery{})
	if err != nil {
		return 0, err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, errors2.NewServerError(errors2.EXPORT_FAILED, err)
	}
	for _, record := range records {
		view := Mask(record, t)
		if err := writer.Write([]string{view.IP, view.Country, view.Consent, view.CreatedAt}); err != nil {
			return 0, errors2.NewServerError(errors2.EXPORT_FAILED, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, errors2.NewServerError(errors2.EXPORT_FAILED, err)
	}
	return len(records), nil
}

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

package schedulers

import (
	"context"
	"time"

	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"

	consentLogModel "github.com/cookieconsent/consent-service/internal/consent_log/model"
	settingsModel "github.com/cookieconsent/consent-service/internal/settings/model"
)

// SettingsReader supplies the configured retention window.
type SettingsReader interface {
	Effective(ctx context.Context, t tier.Tier) (settingsModel.Settings, error)
}

// Pruner deletes consent records past their retention.
type Pruner interface {
	Prune(ctx context.Context, retentionDays int, t tier.Tier) (consentLogModel.PruneResult, error)
}

// StartRetentionScheduler prunes the consent log once at startup and then every interval until ctx is done.
func StartRetentionScheduler(ctx context.Context, settings SettingsReader, pruner Pruner, tiers tier.Source,
	interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once at startup
	runRetention(ctx, settings, pruner, tiers)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runRetention(ctx, settings, pruner, tiers)
		}
	}
}

func runRetention(ctx context.Context, settings SettingsReader, pruner Pruner, tiers tier.Source) {
	logger := log.GetLogger()
	plan := tiers.Current()

	current, err := settings.Effective(ctx, plan)
	if err != nil {
		logger.Error("Failed to read retention settings", log.Error(err))
		return
	}
	result, err := pruner.Prune(ctx, current.Int(constants.SettingLogRetentionDays), plan)
	if err != nil {
		logger.Error("Scheduled consent log prune failed", log.Error(err))
		return
	}
	logger.Debug("Scheduled consent log prune finished", log.Int64("deleted", result.Deleted),
		log.Int("retention_days", result.RetentionDays))
}

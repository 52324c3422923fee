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

package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	"github.com/cookieconsent/consent-service/internal/consent_log/service"
	settingsModel "github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	cdscontext "github.com/cookieconsent/consent-service/internal/system/context"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/pagination"
	"github.com/cookieconsent/consent-service/internal/system/security"
	"github.com/cookieconsent/consent-service/internal/system/utils"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// SettingsReader supplies the logging mode and retention window.
type SettingsReader interface {
	Effective(ctx context.Context, t tier.Tier) (settingsModel.Settings, error)
}

type recentResponse struct {
	OK      bool                      `json:"ok"`
	Records []model.ConsentRecordView `json:"records"`
}

type pruneRequest struct {
	Days int `json:"days"`
}

// ConsentLogHandler serves the admin consent log endpoints.
type ConsentLogHandler struct {
	service  service.ConsentLogServiceInterface
	settings SettingsReader
	auth     *security.Authenticator
	tiers    tier.Source
}

func NewConsentLogHandler(logService service.ConsentLogServiceInterface, settings SettingsReader,
	auth *security.Authenticator, tiers tier.Source) *ConsentLogHandler {
	return &ConsentLogHandler{service: logService, settings: settings, auth: auth, tiers: tiers}
}

// GetRecentLogs handles GET /consent-logs?count=
func (h *ConsentLogHandler) GetRecentLogs(w http.ResponseWriter, r *http.Request) {

	if _, err := h.auth.AuthnAndAuthz(r, constants.OperationConsentLogsView); err != nil {
		utils.HandleError(w, err)
		return
	}

	count, err := pagination.ParseCount(r, constants.MaxRecentLogCount)
	if err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.INVALID_COUNT, http.StatusBadRequest))
		return
	}

	plan := h.tiers.Current()
	settings, err := h.settings.Effective(r.Context(), plan)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	records, err := h.service.Recent(r.Context(), count, plan, settings.String(constants.SettingLoggingMode))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, recentResponse{OK: true, Records: records})
}

// ExportLogs handles GET /consent-logs/export
func (h *ConsentLogHandler) ExportLogs(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthnAndAuthz(r, constants.OperationConsentLogsView)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var buffer bytes.Buffer
	rows, err := h.service.ExportCSV(r.Context(), &buffer, h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="consent-logs.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buffer.WriteTo(w); err != nil {
		log.GetLogger().Warn("Consent log export interrupted", log.Error(err))
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      "consent-logs",
		TargetType:    log.TargetTypeConsentLog,
		ActionID:      log.ActionExportConsentLogs,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          map[string]int{"rows": rows},
	})
}

// GetStats handles GET /consent-logs/stats?from=&to=
func (h *ConsentLogHandler) GetStats(w http.ResponseWriter, r *http.Request) {

	if _, err := h.auth.AuthnAndAuthz(r, constants.OperationConsentLogsView); err != nil {
		utils.HandleError(w, err)
		return
	}

	from, err := parseBound(r.URL.Query().Get("from"), false)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	to, err := parseBound(r.URL.Query().Get("to"), true)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), from, to)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// PruneLogs handles POST /consent-logs/prune
func (h *ConsentLogHandler) PruneLogs(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationConsentLogsPrune)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request pruneRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSONBody(r, &request, "prune"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}

	plan := h.tiers.Current()
	days := request.Days
	if days <= 0 {
		settings, err := h.settings.Effective(r.Context(), plan)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		days = settings.Int(constants.SettingLogRetentionDays)
	}

	result, err := h.service.Prune(r.Context(), days, plan)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      "consent-logs",
		TargetType:    log.TargetTypeConsentLog,
		ActionID:      log.ActionPruneConsentLogs,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          result,
	})
	utils.WriteJSON(w, http.StatusOK, result)
}

// parseBound reads an RFC3339 instant or a calendar date. A bare date used as an upper bound covers the whole day.
func parseBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errors2.NewClientError(
			errors2.INVALID_RANGE.WithDescription(fmt.Sprintf("Unrecognised date: %s", raw)), http.StatusBadRequest)
	}
	if upper {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

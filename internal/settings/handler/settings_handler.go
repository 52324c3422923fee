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
	"net/http"

	fingerprintModel "github.com/cookieconsent/consent-service/internal/fingerprint/model"
	fingerprintService "github.com/cookieconsent/consent-service/internal/fingerprint/service"
	"github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/settings/service"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	cdscontext "github.com/cookieconsent/consent-service/internal/system/context"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/security"
	"github.com/cookieconsent/consent-service/internal/system/utils"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// ConfigView is the admin read of the configuration: the policy the fingerprint is derived from plus every
// setting in its effective form.
type ConfigView struct {
	Tier         tier.Tier                        `json:"tier"`
	Capabilities tier.Summary                     `json:"capabilities"`
	Fingerprint  string                           `json:"fingerprint"`
	Policy       fingerprintModel.EffectivePolicy `json:"policy"`
	Settings     map[string]interface{}           `json:"settings"`
}

type updateResponse struct {
	OK    bool        `json:"ok"`
	Key   string      `json:"key"`
	Value model.Value `json:"value"`
}

type settingsResponse struct {
	OK bool `json:"ok"`
	Settings map[string]interface{} `json:"settings"`
}

// SettingsHandler serves the admin configuration endpoints.
type SettingsHandler struct {
	service      service.SettingsServiceInterface
	fingerprints fingerprintService.FingerprintServiceInterface
	auth         *security.Authenticator
	tiers        tier.Source
}

func NewSettingsHandler(settingsService service.SettingsServiceInterface,
	fingerprints fingerprintService.FingerprintServiceInterface, auth *security.Authenticator,
	tiers tier.Source) *SettingsHandler {
	return &SettingsHandler{
		service:      settingsService,
		fingerprints: fingerprints,
		auth:         auth,
		tiers:        tiers,
	}
}

// GetConfig handles GET /config
func (h *SettingsHandler) GetConfig(w http.ResponseWriter, r *http.Request) {

	if _, err := h.auth.AuthnAndAuthz(r, constants.OperationSettingsView); err != nil {
		utils.HandleError(w, err)
		return
	}
	plan := h.tiers.Current()
	settings, err := h.service.Effective(r.Context(), plan)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConfigView{
		Tier:         plan,
		Capabilities: tier.Describe(plan),
		Fingerprint:  h.fingerprints.EffectiveFrom(settings),
		Policy:       h.fingerprints.CurrentPolicy(settings),
		Settings:     settings.Raw(),
	})
}

// UpdateSetting handles PUT /config/{key}
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationSettingsUpdate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	key := r.PathValue("key")

	var request model.SettingUpdateRequest
	if err := utils.DecodeJSONBody(r, &request, "setting"); err != nil {
		utils.HandleError(w, err)
		return
	}

	value, err := h.service.Set(r.Context(), key, request.Value, h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      key,
		TargetType:    log.TargetTypeSetting,
		ActionID:      log.ActionUpdateSetting,
		TraceID:       cdscontext.GetTraceID(r.Context()),
	})
	utils.WriteJSON(w, http.StatusOK, updateResponse{OK: true, Key: key, Value: value})
}

// ExportConfig handles GET /config/export
func (h *SettingsHandler) ExportConfig(w http.ResponseWriter, r *http.Request) {

	if _, err := h.auth.AuthnAndAuthz(r, constants.OperationSettingsView); err != nil {
		utils.HandleError(w, err)
		return
	}
	doc, err := h.service.Export(r.Context(), h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="consent-config.json"`)
	utils.WriteJSON(w, http.StatusOK, doc)
}

// ImportConfig handles POST /config/import
func (h *SettingsHandler) ImportConfig(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationSettingsUpdate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var doc model.ImportDocument
	if err := utils.DecodeJSONBody(r, &doc, "configuration import"); err != nil {
		utils.HandleError(w, err)
		return
	}

	result, err := h.service.Import(r.Context(), doc, h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      "configuration",
		TargetType:    log.TargetTypeSetting,
		ActionID:      log.ActionImportSettings,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          result,
	})
	utils.WriteJSON(w, http.StatusOK, result)
}

// ApplySetupStep handles POST /setup/{step}
func (h *SettingsHandler) ApplySetupStep(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationSettingsUpdate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	step := r.PathValue("step")

	var input map[string]interface{}
	if err := utils.DecodeJSONBody(r, &input, "setup step"); err != nil {
		utils.HandleError(w, err)
		return
	}

	applied, err := h.service.ApplySetupStep(r.Context(), step, input, h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      step,
		TargetType:    log.TargetTypeSetting,
		ActionID:      log.ActionApplySetupStep,
		TraceID:       cdscontext.GetTraceID(r.Context()),
	})
	utils.WriteJSON(w, http.StatusOK, settingsResponse{OK: true, Settings: applied.Raw()})
}

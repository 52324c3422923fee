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

	"github.com/cookieconsent/consent-service/internal/fingerprint/service"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	cdscontext "github.com/cookieconsent/consent-service/internal/system/context"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/security"
	"github.com/cookieconsent/consent-service/internal/system/utils"
	"github.com/cookieconsent/consent-service/internal/tier"
)

type lockResponse struct {
	OK          bool   `json:"ok"`
	Fingerprint string `json:"fingerprint"`
	Locked      bool   `json:"locked"`
}

// FingerprintHandler exposes the policy fingerprint to administrators.
type FingerprintHandler struct {
	service service.FingerprintServiceInterface
	auth    *security.Authenticator
	tiers   tier.Source
}

func NewFingerprintHandler(fingerprintService service.FingerprintServiceInterface, auth *security.Authenticator,
	tiers tier.Source) *FingerprintHandler {
	return &FingerprintHandler{service: fingerprintService, auth: auth, tiers: tiers}
}

// GetFingerprint handles GET /fingerprint
func (h *FingerprintHandler) GetFingerprint(w http.ResponseWriter, r *http.Request) {

	if _, err := h.auth.AuthnAndAuthz(r, constants.OperationFingerprintView); err != nil {
		utils.HandleError(w, err)
		return
	}
	status, err := h.service.Status(r.Context(), h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, status)
}

// LockFingerprint handles POST /fingerprint/lock
func (h *FingerprintHandler) LockFingerprint(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationFingerprintUpdate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	fingerprint, err := h.service.Lock(r.Context(), h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	h.audit(r, principal, fingerprint, log.ActionLockFingerprint)
	utils.WriteJSON(w, http.StatusOK, lockResponse{OK: true, Fingerprint: fingerprint, Locked: true})
}

// UnlockFingerprint handles POST /fingerprint/unlock
func (h *FingerprintHandler) UnlockFingerprint(w http.ResponseWriter, r *http.Request) {

	principal, err := h.auth.AuthorizeMutation(r, constants.OperationFingerprintUpdate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	fingerprint, err := h.service.Unlock(r.Context(), h.tiers.Current())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	h.audit(r, principal, fingerprint, log.ActionUnlockFingerprint)
	utils.WriteJSON(w, http.StatusOK, lockResponse{OK: true, Fingerprint: fingerprint})
}

func (h *FingerprintHandler) audit(r *http.Request, principal security.Principal, fingerprint, action string) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      fingerprint,
		TargetType:    log.TargetTypeFingerprint,
		ActionID:      action,
		TraceID:       cdscontext.GetTraceID(r.Context()),
	})
}

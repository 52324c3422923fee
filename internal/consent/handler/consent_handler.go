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
	"mime"
	"net/http"

	"github.com/cookieconsent/consent-service/internal/consent/model"
	"github.com/cookieconsent/consent-service/internal/consent/service"
	"github.com/cookieconsent/consent-service/internal/system/config"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/system/utils"
	"github.com/cookieconsent/consent-service/internal/tier"
)

type submitResponse struct {
	OK bool `json:"ok"`
	model.Decision
}

// ConsentHandler serves the public visitor endpoints. Nothing here requires authentication.
type ConsentHandler struct {
	service service.ConsentServiceInterface
	geo     config.GeoConfig
	tiers   tier.Source
}

func NewConsentHandler(consentService service.ConsentServiceInterface, geo config.GeoConfig,
	tiers tier.Source) *ConsentHandler {
	return &ConsentHandler{service: consentService, geo: geo, tiers: tiers}
}

// GetBanner handles GET /banner
func (h *ConsentHandler) GetBanner(w http.ResponseWriter, r *http.Request) {

	view, err := h.service.Banner(r.Context(), h.requestContext(r))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, http.StatusOK, view)
}

// SubmitConsent handles /consent. Any method is routed here so non-POST requests get a structured rejection.
func (h *ConsentHandler) SubmitConsent(w http.ResponseWriter, r *http.Request) {

	var submission model.Submission
	if r.Method == http.MethodPost {
		parsed, err := decodeSubmission(r)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		submission = parsed
	}

	decision, err := h.service.Submit(r.Context(), h.requestContext(r), submission)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	cookie, err := decision.Cookie.HTTPCookie(decision.DurationDays)
	if err != nil {
		// The decision is already recorded; the visitor is simply asked again next time.
		log.GetLogger().Warn("Unable to encode consent cookie", log.Error(err))
	} else {
		http.SetCookie(w, cookie)
	}
	utils.WriteJSON(w, http.StatusOK, submitResponse{OK: true, Decision: decision})
}

func (h *ConsentHandler) requestContext(r *http.Request) model.RequestContext {
	return model.RequestContext{
		Method:  r.Method,
		IP:      utils.ClientIP(r, h.geo.TrustProxyHeaders),
		Country: utils.Country(r, h.geo.CountryHeader),
		Tier:    h.tiers.Current(),
		Cookie:  model.ReadConsentCookie(r),
	}
}

// decodeSubmission accepts a JSON body or a form post. Categories in a form may be comma joined or repeated.
func decodeSubmission(r *http.Request) (model.Submission, error) {

	var submission model.Submission
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := utils.DecodeJSONBody(r, &submission, "consent"); err != nil {
			return model.Submission{}, err
		}
		return submission, nil
	}

	if err := r.ParseForm(); err != nil {
		return model.Submission{}, errors2.NewClientError(
			errors2.INVALID_CONSENT.WithDescription("Request body could not be read."), http.StatusBadRequest)
	}
	submission.Consent = r.PostForm.Get("consent")
	submission.ConfigVersion = r.PostForm.Get("config_version")
	for _, joined := range r.PostForm["categories"] {
		submission.Categories = append(submission.Categories, model.SplitSlugs(joined)...)
	}
	return submission, nil
}

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

package services

import (
	"net/http"

	"github.com/cookieconsent/consent-service/internal/consent/handler"
)

// ConsentService routes the public visitor endpoints.
type ConsentService struct {
	handler *handler.ConsentHandler
}

func NewConsentService(consentHandler *handler.ConsentHandler) *ConsentService {
	return &ConsentService{
		handler: consentHandler,
	}
}

func (s *ConsentService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc("GET "+apiBasePath+"/banner", s.handler.GetBanner)
	// Every method reaches the handler so that non-POST submissions are answered with method_not_allowed.
	mux.HandleFunc(apiBasePath+"/consent", s.handler.SubmitConsent)
}

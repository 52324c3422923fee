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

	"github.com/cookieconsent/consent-service/internal/fingerprint/handler"
)

// FingerprintService routes the fingerprint status and lock endpoints.
type FingerprintService struct {
	handler *handler.FingerprintHandler
}

func NewFingerprintService(fingerprintHandler *handler.FingerprintHandler) *FingerprintService {
	return &FingerprintService{
		handler: fingerprintHandler,
	}
}

func (s *FingerprintService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc("GET "+apiBasePath+"/fingerprint", s.handler.GetFingerprint)
	mux.HandleFunc("POST "+apiBasePath+"/fingerprint/lock", s.handler.LockFingerprint)
	mux.HandleFunc("POST "+apiBasePath+"/fingerprint/unlock", s.handler.UnlockFingerprint)
}

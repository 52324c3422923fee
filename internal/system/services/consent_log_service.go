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

	"github.com/cookieconsent/consent-service/internal/consent_log/handler"
)

// ConsentLogService routes the admin consent log endpoints.
type ConsentLogService struct {
	handler *handler.ConsentLogHandler
}

func NewConsentLogService(consentLogHandler *handler.ConsentLogHandler) *ConsentLogService {
	return &ConsentLogService{
		handler: consentLogHandler,
	}
}

func (s *ConsentLogService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc("GET "+apiBasePath+"/consent-logs", s.handler.GetRecentLogs)
	mux.HandleFunc("GET "+apiBasePath+"/consent-logs/export", s.handler.ExportLogs)
	mux.HandleFunc("GET "+apiBasePath+"/consent-logs/stats", s.handler.GetStats)
	mux.HandleFunc("POST "+apiBasePath+"/consent-logs/prune", s.handler.PruneLogs)
}

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

	"github.com/cookieconsent/consent-service/internal/settings/handler"
)

// SettingsService routes the admin configuration endpoints.
type SettingsService struct {
	handler *handler.SettingsHandler
}

func NewSettingsService(settingsHandler *handler.SettingsHandler) *SettingsService {
	return &SettingsService{
		handler: settingsHandler,
	}
}

func (s *SettingsService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc("GET "+apiBasePath+"/config", s.handler.GetConfig)
	mux.HandleFunc("GET "+apiBasePath+"/config/export", s.handler.ExportConfig)
	mux.HandleFunc("POST "+apiBasePath+"/config/import", s.handler.ImportConfig)
	mux.HandleFunc("PUT "+apiBasePath+"/config/{key}", s.handler.UpdateSetting)
	mux.HandleFunc("POST "+apiBasePath+"/setup/{step}", s.handler.ApplySetupStep)
}

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

package managers

import (
	"net/http"

	consentHandler "github.com/cookieconsent/consent-service/internal/consent/handler"
	consentLogHandler "github.com/cookieconsent/consent-service/internal/consent_log/handler"
	fingerprintHandler "github.com/cookieconsent/consent-service/internal/fingerprint/handler"
	healthHandler "github.com/cookieconsent/consent-service/internal/health_check/handler"
	settingsHandler "github.com/cookieconsent/consent-service/internal/settings/handler"
	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type routeRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, apiBasePath string)
}

type ServiceManager struct {
	mux  *http.ServeMux
	deps *Dependencies
	cfg  *config.Config
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) ServiceManagerInterface {

	return &ServiceManager{
		mux:  mux,
		deps: deps,
		cfg:  cfg,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	deps := sm.deps
	registrars := []routeRegistrar{
		services.NewHealthService(healthHandler.NewHealthHandler(deps.Health)),
		services.NewConsentService(consentHandler.NewConsentHandler(deps.Consent, sm.cfg.Geo, deps.License)),
		services.NewSettingsService(settingsHandler.NewSettingsHandler(deps.Settings, deps.Fingerprints, deps.Auth,
			deps.License)),
		services.NewFingerprintService(fingerprintHandler.NewFingerprintHandler(deps.Fingerprints, deps.Auth,
			deps.License)),
		services.NewConsentLogService(consentLogHandler.NewConsentLogHandler(deps.ConsentLogs, deps.Settings,
			deps.Auth, deps.License)),
	}
	for _, registrar := range registrars {
		registrar.RegisterRoutes(sm.mux, apiBasePath)
	}
	return nil
}

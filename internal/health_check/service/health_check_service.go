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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

const readinessTimeout = 3 * time.Second

// Pinger is any backing dependency that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// HealthCheckService pings every registered dependency.
type HealthCheckService struct {
	dependencies map[string]Pinger
}

// NewHealthCheckService returns a service that checks the given named dependencies.
func NewHealthCheckService(dependencies map[string]Pinger) *HealthCheckService {
	return &HealthCheckService{dependencies: dependencies}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	for name, dependency := range h.dependencies {
		if err := dependency.Ping(ctx); err != nil {
			log.GetLogger().Warn("Readiness check failed", log.String("dependency", name), log.Error(err))
			return fmt.Errorf("%s connectivity check failed", name)
		}
	}
	return nil
}

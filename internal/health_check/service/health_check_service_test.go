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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCheckReadiness(t *testing.T) {
	log.Init("DEBUG")

	healthy := new(MockPinger)
	healthy.On("Ping", mock.Anything).Return(nil)
	svc := NewHealthCheckService(map[string]Pinger{"settings": healthy})
	assert.NoError(t, svc.CheckReadiness(context.Background()))

	broken := new(MockPinger)
	broken.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	svc = NewHealthCheckService(map[string]Pinger{"settings": healthy, "consent_logs": broken})
	err := svc.CheckReadiness(context.Background())
	assert.EqualError(t, err, "consent_logs connectivity check failed")
	broken.AssertExpectations(t)
}

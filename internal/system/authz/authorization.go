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

package authz

import (
	"slices"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

// ValidatePermission checks the granted scopes cover every scope the operation requires. An operation with no
// configured scopes requires a scope named after itself.
func ValidatePermission(granted []string, operation string, requiredScopes map[string][]string) bool {

	logger := log.GetLogger()
	if len(granted) == 0 {
		logger.Debug("No scopes provided", log.String("operation", operation))
		return false
	}

	expected, ok := requiredScopes[operation]
	if !ok || len(expected) == 0 {
		expected = []string{operation}
	}
	for _, scope := range expected {
		if !slices.Contains(granted, scope) {
			logger.Debug("Missing scope", log.String("operation", operation), log.String("scope", scope))
			return false
		}
	}
	return true
}

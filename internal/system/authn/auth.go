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

package authn

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cookieconsent/consent-service/internal/system/config"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

// ValidateTokenAndReturnClaims verifies an HS256 signed admin token and returns its claims. The token must carry
// an expiry and, when an issuer is configured, that issuer.
func ValidateTokenAndReturnClaims(tokenString string, cfg config.AuthConfig) (jwt.MapClaims, error) {

	logger := log.GetLogger()
	if cfg.JWTSecret == "" {
		logger.Debug("Admin token received but no signing secret is configured.")
		return nil, unauthorizedError()
	}
	if strings.Count(tokenString, ".") != 2 {
		logger.Debug("Expecting a JWT token but received an opaque token.")
		return nil, unauthorizedError()
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, options...)
	if err != nil {
		logger.Debug("Admin token rejected.", log.Error(err))
		return nil, unauthorizedError()
	}
	return claims, nil
}

// ScopesFromClaims reads the space separated `scope` claim, falling back to a `scopes` array.
func ScopesFromClaims(claims jwt.MapClaims) []string {
	if scope, ok := claims["scope"].(string); ok {
		return strings.Fields(scope)
	}
	var scopes []string
	if list, ok := claims["scopes"].([]interface{}); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				scopes = append(scopes, s)
			}
		}
	}
	return scopes
}

// StringClaim returns a string claim or "".
func StringClaim(claims jwt.MapClaims, name string) string {
	value, _ := claims[name].(string)
	return value
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.NO_PERMS, http.StatusUnauthorized)
}

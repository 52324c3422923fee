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

package security

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cookieconsent/consent-service/internal/system/authn"
	"github.com/cookieconsent/consent-service/internal/system/authz"
	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	cdscontext "github.com/cookieconsent/consent-service/internal/system/context"
	"github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

// Principal is the authenticated administrator behind a request.
type Principal struct {
	Subject string
	Scopes  []string
	Nonce   string
}

// Authenticator checks admin bearer tokens against the configured secret and scopes.
type Authenticator struct {
	cfg config.AuthConfig
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg}
}

// AuthnAndAuthz performs authentication and authorization for the given HTTP request and operation.
func (a *Authenticator) AuthnAndAuthz(r *http.Request, operation string) (Principal, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		auditFailure(r, operation, "missing bearer token")
		return Principal{}, errors.NewClientError(
			errors.NO_PERMS.WithDescription("Missing or invalid Authorization header"), http.StatusUnauthorized)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := authn.ValidateTokenAndReturnClaims(token, a.cfg)
	if err != nil {
		auditFailure(r, operation, "invalid token")
		return Principal{}, err
	}

	principal := Principal{
		Subject: authn.StringClaim(claims, "sub"),
		Scopes:  authn.ScopesFromClaims(claims),
		Nonce:   authn.StringClaim(claims, "nonce"),
	}
	if !authz.ValidatePermission(principal.Scopes, operation, a.cfg.RequiredScopes) {
		auditFailure(r, operation, "insufficient scope")
		return Principal{}, errors.NewClientError(
			errors.NO_PERMS.WithDescription("Do not have permission to perform this operation"), http.StatusForbidden)
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.Subject,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      operation,
		TargetType:    log.TargetTypeOperation,
		ActionID:      log.ActionAuthenticationSuccess,
		TraceID:       cdscontext.GetTraceID(r.Context()),
	})
	return principal, nil
}

// AuthorizeMutation is AuthnAndAuthz plus the forgery check: the request must echo the token's nonce in the
// nonce header.
func (a *Authenticator) AuthorizeMutation(r *http.Request, operation string) (Principal, error) {

	principal, err := a.AuthnAndAuthz(r, operation)
	if err != nil {
		return Principal{}, err
	}
	nonce := r.Header.Get(constants.NonceHeader)
	if principal.Nonce == "" || nonce == "" ||
		subtle.ConstantTimeCompare([]byte(nonce), []byte(principal.Nonce)) != 1 {
		auditFailure(r, operation, "nonce mismatch")
		return Principal{}, errors.NewClientError(errors.BAD_NONCE, http.StatusForbidden)
	}
	return principal, nil
}

func auditFailure(r *http.Request, operation, reason string) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      operation,
		TargetType:    log.TargetTypeOperation,
		ActionID:      log.ActionAuthenticationFailure,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          map[string]string{"reason": reason},
	})
}

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

package utils

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/cookieconsent/consent-service/internal/system/constants"
	customerrors "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

type errorResponse struct {
	OK          bool   `json:"ok"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	TraceID     string `json:"trace_id,omitempty"`
}

// HandleError sends an HTTP error response based on the provided error. Server errors are logged with their cause
// and reach the caller as a bare storage error.
func HandleError(w http.ResponseWriter, err error) {
	traceID := w.Header().Get(constants.TraceIDHeader)

	var clientError *customerrors.ClientError
	if ok := errors.As(err, &clientError); ok {
		WriteJSON(w, clientError.StatusCode, errorResponse{
			Code:        clientError.Code,
			Message:     clientError.Message,
			Description: clientError.Description,
			TraceID:     traceID,
		})
		return
	}

	logger := log.GetLogger()
	code := customerrors.StorageErrorCode
	var serverError *customerrors.ServerError
	if ok := errors.As(err, &serverError); ok {
		code = serverError.Code
		logger.Error(serverError.Message, log.String("traceId", traceID), log.String("description",
			serverError.Description), log.Error(serverError.Err))
	} else {
		logger.Error("Unhandled error", log.String("traceId", traceID), log.Error(err))
	}
	WriteJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    code,
		Message: "Internal server error",
		TraceID: traceID,
	})
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ClientIP returns the visitor address. Forwarding headers are honoured only when the service sits behind a
// trusted proxy.
func ClientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(realIP) != nil {
			return realIP
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Country reads the visitor's country from the geolocation header set by the edge.
func Country(r *http.Request, header string) string {
	if header == "" {
		return ""
	}
	return r.Header.Get(header)
}

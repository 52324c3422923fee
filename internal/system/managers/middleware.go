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
	"slices"
	"strings"

	"github.com/cookieconsent/consent-service/internal/system/constants"
	cdscontext "github.com/cookieconsent/consent-service/internal/system/context"
)

// WithTrace stamps every request with a trace id, both in its context and on the response.
func WithTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := cdscontext.TraceIDFromRequest(r)
		w.Header().Set(constants.TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(cdscontext.WithTraceID(r.Context(), traceID)))
	})
}

// WithCORS allows the configured origins. An empty list or "*" allows any origin without credentials.
func WithCORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAny := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	allowedHeaders := strings.Join([]string{"Authorization", "Content-Type", constants.NonceHeader,
		constants.TraceIDHeader}, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case allowAny:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Expose-Headers", constants.TraceIDHeader)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

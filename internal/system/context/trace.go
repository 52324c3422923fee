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

package context

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cookieconsent/consent-service/internal/system/constants"
)

// TraceIDFromRequest reuses a well formed inbound trace header and otherwise mints a new one.
func TraceIDFromRequest(r *http.Request) string {
	if inbound := r.Header.Get(constants.TraceIDHeader); inbound != "" {
		if parsed, err := uuid.Parse(inbound); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}

// GetTraceID extracts the trace ID from the context, returns empty string if not found
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(constants.TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, constants.TraceIDContextKey, traceID)
}

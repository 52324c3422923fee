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
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	"github.com/cookieconsent/consent-service/internal/tier"
)

const maskedIP = "***"

// MaskIP hides the middle of an address on the basic tier. IPv4 keeps the first and last octet, IPv6 the first
// and last group. Anything unparseable is hidden entirely.
func MaskIP(ip string, t tier.Tier) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return maskedIP
	}
	if t == tier.Pro {
		return parsed.String()
	}
	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.***.***.%d", v4[0], v4[3])
	}
	v6 := parsed.To16()
	first := uint16(v6[0])<<8 | uint16(v6[1])
	last := uint16(v6[14])<<8 | uint16(v6[15])
	return fmt.Sprintf("%x:***:%x", first, last)
}

// FormatTimestamp renders a creation time. The basic tier sees the date only.
func FormatTimestamp(createdAt time.Time, t tier.Tier) string {
	if createdAt.IsZero() {
		return ""
	}
	if t == tier.Pro {
		return createdAt.UTC().Format(time.RFC3339)
	}
	return createdAt.UTC().Format(time.DateOnly)
}

// Mask converts a stored record into what a caller at tier t may see.
func Mask(record model.ConsentRecord, t tier.Tier) model.ConsentRecordView {
	categories := append([]string{}, record.Categories...)
	return model.ConsentRecordView{
		ID:            record.ID,
		IP:            MaskIP(record.IP, t),
		Country:       record.Country,
		Consent:       record.Consent,
		Categories:    categories,
		ConfigVersion: record.ConfigVersion,
		CreatedAt:     FormatTimestamp(record.CreatedAt, t),
	}
}

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

package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespace = regexp.MustCompile(`\s+`)

// EffectivePolicy is everything a visitor consents to. Categories are "slug|1" for required and "slug|0" for
// optional categories.
type EffectivePolicy struct {
	Categories   []string `json:"categories"`
	DurationDays int      `json:"duration"`
	Features     []string `json:"features"`
	Message      *string  `json:"message,omitempty"`
}

// Status describes the fingerprint presented to visitors and where it comes from.
type Status struct {
	Effective string `json:"effective"`
	Computed  string `json:"computed"`
	Locked    bool   `json:"locked"`
	Drifted   bool   `json:"drifted"`
}

// CategoryEntry renders one category for the policy.
func CategoryEntry(slug string, required bool) string {
	if required {
		return slug + "|1"
	}
	return slug + "|0"
}

// NormalizeMessage composes the text to NFC and collapses whitespace runs to a single space.
func NormalizeMessage(message string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(norm.NFC.String(message), " "))
}

// Canonicalize returns a copy of p with categories and features deduplicated and sorted and the message
// normalized.
func Canonicalize(p EffectivePolicy) EffectivePolicy {
	canonical := EffectivePolicy{
		Categories:   sortedSet(p.Categories),
		DurationDays: p.DurationDays,
		Features:     sortedSet(p.Features),
	}
	if p.Message != nil {
		message := NormalizeMessage(*p.Message)
		canonical.Message = &message
	}
	return canonical
}

// ComputeFingerprint hashes the canonical JSON form of p. Non-ASCII text is hashed as UTF-8, never escaped.
func ComputeFingerprint(p EffectivePolicy) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	// Encoding a struct of strings and ints cannot fail.
	_ = encoder.Encode(Canonicalize(p))
	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(sum[:])
}

func sortedSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	sort.Strings(result)
	return result
}

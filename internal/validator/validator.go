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

// Package validator holds the pure sanitization and normalization functions applied to every value
// before it is persisted. Nothing here performs I/O.
package validator

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagPattern    = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	javascriptPattern   = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
	hexColorPattern     = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)
	rgbColorPattern     = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*(0|1|0?\.\d+|1\.0+)\s*)?\)$`)
	localePattern       = regexp.MustCompile(`^([A-Za-z]{2,3})(?:[-_]([A-Za-z]{2}))?$`)
	forbiddenURLMarkers = []string{"javascript:", "data:", "vbscript:", "file:", "ftp:"}
)

var namedColors = map[string]bool{
	"black": true, "white": true, "red": true, "green": true, "blue": true, "yellow": true,
	"orange": true, "purple": true, "pink": true, "gray": true, "grey": true, "silver": true,
	"navy": true, "teal": true, "maroon": true, "olive": true, "lime": true, "aqua": true,
	"fuchsia": true, "transparent": true,
}

// SanitizeText strips control characters, script blocks, javascript: URLs and inline event handlers, then trims.
// The result is a fixed point: SanitizeText(SanitizeText(s)) == SanitizeText(s).
func SanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	// Removing one pattern can splice together another, so repeat until nothing changes.
	for {
		next := scriptBlockPattern.ReplaceAllString(s, "")
		next = scriptTagPattern.ReplaceAllString(next, "")
		next = javascriptPattern.ReplaceAllString(next, "")
		next = eventHandlerPattern.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// SanitizeColor accepts #rgb, #rrggbb, a small set of CSS color names, or rgb()/rgba().
// It returns the lowercased color, or "" when the input is not acceptable.
func SanitizeColor(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	if c == "" {
		return ""
	}
	if hexColorPattern.MatchString(c) || namedColors[c] {
		return c
	}
	m := rgbColorPattern.FindStringSubmatch(c)
	if m == nil {
		return ""
	}
	for _, component := range m[1:4] {
		v, err := strconv.Atoi(component)
		if err != nil || v > 255 {
			return ""
		}
	}
	return c
}

// SanitizeURL returns s when it is an absolute http(s) URL carrying none of the forbidden scheme markers,
// in plain or percent-encoded form. Otherwise it returns "".
func SanitizeURL(s string) string {
	u := strings.TrimSpace(s)
	if u == "" {
		return ""
	}
	for _, r := range u {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ""
		}
	}
	if containsForbiddenMarker(u) {
		return ""
	}
	if decoded, err := url.PathUnescape(u); err == nil && containsForbiddenMarker(decoded) {
		return ""
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return ""
	}
	return u
}

func containsForbiddenMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range forbiddenURLMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// NormalizeLocale turns ll, ll-RR, ll_RR or a three letter language code into "ll" or "ll_RR".
// It returns "" for anything else.
func NormalizeLocale(code string) string {
	m := localePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return ""
	}
	lang := strings.ToLower(m[1])
	if m[2] == "" {
		return lang
	}
	return lang + "_" + strings.ToUpper(m[2])
}

// SanitizeCategories keeps the known slugs from list, lowercased, deduplicated, in first-seen order.
func SanitizeCategories(list []string, known []string) []string {
	allowed := make(map[string]bool, len(known))
	for _, slug := range known {
		allowed[slug] = true
	}
	seen := make(map[string]bool, len(list))
	result := make([]string, 0, len(list))
	for _, item := range list {
		slug := strings.ToLower(strings.TrimSpace(item))
		if !allowed[slug] || seen[slug] {
			continue
		}
		seen[slug] = true
		result = append(result, slug)
	}
	return result
}

// SanitizeLanguages normalizes each locale, drops invalid and duplicate entries, and keeps at most maxCount
// of them in input order. A maxCount of zero or less means no limit.
func SanitizeLanguages(list []string, maxCount int) []string {
	seen := make(map[string]bool, len(list))
	result := make([]string, 0, len(list))
	for _, item := range list {
		locale := NormalizeLocale(item)
		if locale == "" || seen[locale] {
			continue
		}
		seen[locale] = true
		result = append(result, locale)
		if maxCount > 0 && len(result) == maxCount {
			break
		}
	}
	return result
}

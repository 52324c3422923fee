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

// Settings is a complete view of the configuration keyed by setting name. Getters fall back to the schema
// default for keys that are missing or hold the wrong kind.
type Settings map[string]Value

func (s Settings) value(key string, kind Kind) Value {
	if v, ok := s[key]; ok && v.Kind == kind {
		return v
	}
	if entry, ok := Lookup(key); ok && entry.Kind == kind {
		return entry.Default.clone()
	}
	return Value{Kind: kind}
}

func (s Settings) String(key string) string {
	return s.value(key, KindString).Str
}

func (s Settings) Bool(key string) bool {
	return s.value(key, KindBool).Bool
}

func (s Settings) Int(key string) int {
	return s.value(key, KindInt).Int
}

func (s Settings) List(key string) []string {
	return append([]string{}, s.value(key, KindList).List...)
}

func (s Settings) Theme(key string) Theme {
	return s.value(key, KindTheme).Theme
}

// Raw flattens the settings into plain values for serialization.
func (s Settings) Raw() map[string]interface{} {
	raw := make(map[string]interface{}, len(s))
	for key, v := range s {
		raw[key] = v.Interface()
	}
	return raw
}

// ExportDocument is the portable configuration dump.
type ExportDocument struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Settings  map[string]interface{} `json:"settings"`
}

// ImportDocument is the body accepted by configuration import. Version and timestamp are informational.
type ImportDocument struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Settings  map[string]interface{} `json:"settings"`
}

// SettingUpdateRequest is the body of a single setting update.
type SettingUpdateRequest struct {
	Value interface{} `json:"value"`
}

// ImportResult summarises an import.
type ImportResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

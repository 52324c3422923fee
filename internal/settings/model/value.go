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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the shapes a setting value can take.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindList
	KindTheme
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindTheme:
		return "theme"
	default:
		return "unknown"
	}
}

// Theme is the banner appearance.
type Theme struct {
	Color      string `json:"color" bson:"color"`
	Background string `json:"bg" bson:"bg"`
	Font       string `json:"font" bson:"font"`
	FontSize   int    `json:"font_size" bson:"font_size"`
}

// Value is a tagged union over the setting kinds. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int
	List  []string
	Theme Theme
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func IntValue(i int) Value { return Value{Kind: KindInt, Int: i} }

func ListValue(l []string) Value {
	if l == nil {
		l = []string{}
	}
	return Value{Kind: KindList, List: l}
}

func ThemeValue(t Theme) Value { return Value{Kind: KindTheme, Theme: t} }

// Interface returns the plain Go value held by v.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindList:
		if v.List == nil {
			return []string{}
		}
		return v.List
	case KindTheme:
		return v.Theme
	default:
		return v.Str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	default:
		return v.Interface() == other.Interface()
	}
}

// Encode serializes v for storage.
func Encode(v Value) (string, error) {
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode coerces stored text into the entry's kind. It never fails: list and theme entries holding anything other
// than an array or an object read back as an empty list or an empty theme, and unreadable scalars fall back to the
// entry default.
func Decode(entry Entry, stored string) Value {
	var raw interface{}
	if err := json.Unmarshal([]byte(stored), &raw); err != nil {
		// Legacy rows may hold bare, unquoted text.
		raw = stored
	}
	switch entry.Kind {
	case KindList:
		items, ok := raw.([]interface{})
		if !ok {
			return ListValue(nil)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return ListValue(list)
	case KindTheme:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return ThemeValue(Theme{})
		}
		return ThemeValue(themeFromMap(obj))
	default:
		v, err := coerceScalar(entry.Kind, raw)
		if err != nil {
			return entry.Default
		}
		return v
	}
}

// FromInput converts a value supplied by an administrator into the entry's kind. Unlike Decode it reports shape
// mismatches instead of coercing them away.
func FromInput(entry Entry, input interface{}) (Value, error) {
	switch entry.Kind {
	case KindList:
		switch in := input.(type) {
		case []string:
			return ListValue(append([]string{}, in...)), nil
		case []interface{}:
			list := make([]string, 0, len(in))
			for _, item := range in {
				s, ok := item.(string)
				if !ok {
					return Value{}, fmt.Errorf("%s must be a list of strings", entry.Key)
				}
				list = append(list, s)
			}
			return ListValue(list), nil
		case string:
			list := []string{}
			for _, part := range strings.Split(in, ",") {
				if part = strings.TrimSpace(part); part != "" {
					list = append(list, part)
				}
			}
			return ListValue(list), nil
		default:
			return Value{}, fmt.Errorf("%s must be a list", entry.Key)
		}
	case KindTheme:
		switch in := input.(type) {
		case Theme:
			return ThemeValue(in), nil
		case map[string]interface{}:
			return ThemeValue(themeFromMap(in)), nil
		default:
			return Value{}, fmt.Errorf("%s must be an object", entry.Key)
		}
	default:
		v, err := coerceScalar(entry.Kind, input)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", entry.Key, err)
		}
		return v, nil
	}
}

func coerceScalar(kind Kind, raw interface{}) (Value, error) {
	switch kind {
	case KindBool:
		switch in := raw.(type) {
		case bool:
			return BoolValue(in), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(in))
			if err != nil {
				return Value{}, fmt.Errorf("expected a boolean")
			}
			return BoolValue(b), nil
		case float64:
			return BoolValue(in != 0), nil
		case int:
			return BoolValue(in != 0), nil
		}
		return Value{}, fmt.Errorf("expected a boolean")
	case KindInt:
		switch in := raw.(type) {
		case float64:
			i, ok := saturatingInt(in)
			if !ok {
				return Value{}, fmt.Errorf("expected an integer")
			}
			return IntValue(i), nil
		case int:
			return IntValue(in), nil
		case string:
			i, ok := parseSaturatingInt(in)
			if !ok {
				return Value{}, fmt.Errorf("expected an integer")
			}
			return IntValue(i), nil
		}
		return Value{}, fmt.Errorf("expected an integer")
	default:
		switch in := raw.(type) {
		case string:
			return StringValue(in), nil
		case float64:
			return StringValue(strconv.FormatFloat(in, 'f', -1, 64)), nil
		case bool:
			return StringValue(strconv.FormatBool(in)), nil
		}
		return Value{}, fmt.Errorf("expected a string")
	}
}

func themeFromMap(obj map[string]interface{}) Theme {
	var theme Theme
	if s, ok := obj["color"].(string); ok {
		theme.Color = s
	}
	if s, ok := obj["bg"].(string); ok {
		theme.Background = s
	}
	if s, ok := obj["font"].(string); ok {
		theme.Font = s
	}
	switch size := obj["font_size"].(type) {
	case float64:
		theme.FontSize, _ = saturatingInt(size)
	case int:
		theme.FontSize = size
	case string:
		theme.FontSize, _ = parseSaturatingInt(size)
	}
	return theme
}

// saturatingInt converts a JSON number to an int, pinning anything outside the int32 range to its bounds so
// oversized input clamps to a tier ceiling instead of wrapping. NaN is rejected.
func saturatingInt(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt32:
		return math.MaxInt32, true
	case f <= math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

func parseSaturatingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		// ParseInt returns the nearest bound on overflow.
		return saturatingInt(float64(i))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return saturatingInt(f)
}

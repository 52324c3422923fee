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
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFingerprint_Deterministic(t *testing.T) {
	policy := EffectivePolicy{
		Categories:   []string{"necessary|1", "analytics|0"},
		DurationDays: 180,
		Features:     []string{},
	}
	first := ComputeFingerprint(policy)
	assert.Equal(t, first, ComputeFingerprint(policy))
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), first)

	withFunctional := EffectivePolicy{
		Categories:   []string{"necessary|1", "analytics|0", "functional|0"},
		DurationDays: 180,
		Features:     []string{},
	}
	assert.NotEqual(t, first, ComputeFingerprint(withFunctional))
}

func TestComputeFingerprint_OrderInvariant(t *testing.T) {
	a := EffectivePolicy{
		Categories:   []string{"necessary|1", "analytics|0", "advertising|0"},
		DurationDays: 365,
		Features:     []string{"gcm", "ccpa", "reject_all"},
	}
	b := EffectivePolicy{
		Categories:   []string{"advertising|0", "necessary|1", "analytics|0", "analytics|0"},
		DurationDays: 365,
		Features:     []string{"reject_all", "gcm", "ccpa"},
	}
	assert.Equal(t, ComputeFingerprint(a), ComputeFingerprint(b))
}

func TestComputeFingerprint_NilAndEmptyFeaturesMatch(t *testing.T) {
	a := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180}
	b := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Features: []string{}}
	assert.Equal(t, ComputeFingerprint(a), ComputeFingerprint(b))
}

func TestComputeFingerprint_SensitiveToPolicyFields(t *testing.T) {
	base := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Features: []string{}}
	longer := base
	longer.DurationDays = 181
	flagged := base
	flagged.Features = []string{"gcm"}
	required := EffectivePolicy{Categories: []string{"necessary|0"}, DurationDays: 180}

	assert.NotEqual(t, ComputeFingerprint(base), ComputeFingerprint(longer))
	assert.NotEqual(t, ComputeFingerprint(base), ComputeFingerprint(flagged))
	assert.NotEqual(t, ComputeFingerprint(base), ComputeFingerprint(required))
}

func TestComputeFingerprint_MessageWhitespaceCollapsed(t *testing.T) {
	message := func(s string) *string { return &s }
	a := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Message: message("We use  cookies.\n")}
	b := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Message: message(" We use\tcookies.")}
	c := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Message: message("We use biscuits.")}
	none := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180}

	assert.Equal(t, ComputeFingerprint(a), ComputeFingerprint(b))
	assert.NotEqual(t, ComputeFingerprint(a), ComputeFingerprint(c))
	assert.NotEqual(t, ComputeFingerprint(a), ComputeFingerprint(none))
}

func TestComputeFingerprint_UnicodeNormalized(t *testing.T) {
	composed := "Caf\u00e9 <cookies> & more"
	decomposed := "Cafe\u0301 <cookies> & more"
	a := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Message: &composed}
	b := EffectivePolicy{Categories: []string{"necessary|1"}, DurationDays: 180, Message: &decomposed}
	assert.Equal(t, ComputeFingerprint(a), ComputeFingerprint(b))
}

func TestNormalizeMessage(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeMessage("  a \n\n b\t\tc "))
	assert.Equal(t, "", NormalizeMessage(" \t "))
}

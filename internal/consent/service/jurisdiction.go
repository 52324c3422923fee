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

	"github.com/google/cel-go/cel"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

type jurisdictionRule struct {
	law  string
	expr string
	prog cel.Program
}

// JurisdictionResolver maps a visitor's country to the law that governs the banner. Rules are CEL expressions
// over the variable `country`, tried in order; the first that evaluates to true wins and GDPR applies when none
// does.
type JurisdictionResolver struct {
	rules []jurisdictionRule
}

// NewJurisdictionResolver compiles the rules. An expression that does not compile to a boolean is an error.
func NewJurisdictionResolver(rules []config.JurisdictionRule) (*JurisdictionResolver, error) {

	env, err := cel.NewEnv(cel.Variable("country", cel.StringType))
	if err != nil {
		return nil, err
	}

	resolver := &JurisdictionResolver{}
	for _, rule := range rules {
		ast, iss := env.Compile(rule.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("jurisdiction rule for %s: %w", rule.Law, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("jurisdiction rule for %s must evaluate to a bool", rule.Law)
		}
		prog, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("jurisdiction rule for %s: %w", rule.Law, err)
		}
		resolver.rules = append(resolver.rules, jurisdictionRule{law: rule.Law, expr: rule.Expr, prog: prog})
	}
	return resolver, nil
}

// Resolve returns the law tag for a normalized country code.
func (r *JurisdictionResolver) Resolve(country string) string {
	for _, rule := range r.rules {
		out, _, err := rule.prog.Eval(map[string]interface{}{"country": country})
		if err != nil {
			log.GetLogger().Warn("Jurisdiction rule failed", log.String("law", rule.law), log.Error(err))
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return rule.law
		}
	}
	return constants.LawGDPR
}

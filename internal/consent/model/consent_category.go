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

import "github.com/cookieconsent/consent-service/internal/system/constants"

// ConsentCategory is one purpose a visitor can accept. Slug is the identity key.
type ConsentCategory struct {
	Slug              string `json:"slug" bson:"slug"`
	Name              string `json:"name" bson:"name"`
	Description       string `json:"description" bson:"description"`
	Required          bool   `json:"required" bson:"required"`
	DefaultExpiryDays int    `json:"default_expiry_days" bson:"default_expiry_days"`
}

var catalog = []ConsentCategory{
	{
		Slug:              constants.CategoryNecessary,
		Name:              "Necessary",
		Description:       "Required for the site to work. These cannot be switched off.",
		Required:          true,
		DefaultExpiryDays: 365,
	},
	{
		Slug:              constants.CategoryFunctional,
		Name:              "Functional",
		Description:       "Remember choices such as language and region.",
		DefaultExpiryDays: 180,
	},
	{
		Slug:              constants.CategoryAnalytics,
		Name:              "Analytics",
		Description:       "Help us understand how visitors use the site.",
		DefaultExpiryDays: 180,
	},
	{
		Slug:              constants.CategoryAdvertising,
		Name:              "Advertising",
		Description:       "Used to show relevant advertising.",
		DefaultExpiryDays: 180,
	},
	{
		Slug:              constants.CategoryChatbot,
		Name:              "Chatbot",
		Description:       "Enable the support chat assistant.",
		DefaultExpiryDays: 180,
	},
	{
		Slug:              constants.CategoryDoNotSell,
		Name:              "Do Not Sell My Personal Information",
		Description:       "Opt out of the sale or sharing of personal information.",
		DefaultExpiryDays: 365,
	},
}

// Catalog returns every known category in presentation order.
func Catalog() []ConsentCategory {
	return append([]ConsentCategory{}, catalog...)
}

// CatalogSlugs returns the known slugs in presentation order.
func CatalogSlugs() []string {
	slugs := make([]string, 0, len(catalog))
	for _, category := range catalog {
		slugs = append(slugs, category.Slug)
	}
	return slugs
}

// LookupCategory finds a category by slug.
func LookupCategory(slug string) (ConsentCategory, bool) {
	for _, category := range catalog {
		if category.Slug == slug {
			return category, true
		}
	}
	return ConsentCategory{}, false
}

// IsRequired reports whether the slug can never be declined.
func IsRequired(slug string) bool {
	category, ok := LookupCategory(slug)
	return ok && category.Required
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieve

import (
	"strings"
	"time"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
)

// GeneralProduct is assigned to tenant records when the query names no product.
const GeneralProduct = "general"

var (
	breakingTerms   = []string{"breaking", "deprecat", "retir", "remov"}
	newFeatureTerms = []string{"new", "feature", "preview", "announc"}

	// Tenant answers use looser wording.
	tenantBreakingTerms   = []string{"end of", "sunset"}
	tenantNewFeatureTerms = []string{"launch", "general availability"}
)

// inferDocSeverity classifies a documentation hit by its title.
func inferDocSeverity(title string) core.Severity {
	return inferSeverity(strings.ToLower(title), breakingTerms, newFeatureTerms)
}

// inferTenantSeverity classifies a tenant item by its title and description.
func inferTenantSeverity(title, description string) core.Severity {
	text := strings.ToLower(title + " " + description)
	return inferSeverity(text,
		append(append([]string{}, breakingTerms...), tenantBreakingTerms...),
		append(append([]string{}, newFeatureTerms...), tenantNewFeatureTerms...))
}

func inferSeverity(lower string, breaking, newFeature []string) core.Severity {
	if containsAny(lower, breaking) {
		return core.SeverityBreaking
	}
	if containsAny(lower, newFeature) {
		return core.SeverityNewFeature
	}
	return core.SeverityImprovement
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func actionFor(severity core.Severity) string {
	switch severity {
	case core.SeverityBreaking:
		return "Review the impact and prepare a migration plan."
	case core.SeverityNewFeature:
		return "Review the new capability and evaluate whether to adopt it."
	default:
		return "Review for awareness."
	}
}

// normalizeDate returns the ISO date of s, or fallback when s is empty or unparseable.
func normalizeDate(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if t, err := time.Parse(core.DateLayout, s); err == nil {
		return t.Format(core.DateLayout)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(core.DateLayout)
	}
	return fallback
}

// lastSegment returns the final path segment of a URL.
func lastSegment(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}

// docHitToRecord converts a documentation hit found for productID.
func docHitToRecord(hit core.DocHit, productID string, cat *catalog.Catalog, today string) *core.UpdateRecord {
	severity := inferDocSeverity(hit.Title)
	return &core.UpdateRecord{
		ID:             "learn-" + core.IDFromContent(hit.URL).String(),
		Title:          hit.Title,
		Summary:        hit.Description,
		Impact:         "Microsoft Learn documentation update. See " + hit.URL + " for details.",
		ActionRequired: actionFor(severity),
		Severity:       severity,
		Product:        productID,
		ProductFamily:  cat.Family(productID),
		Source:         core.SourceLearn,
		SourceRef:      lastSegment(hit.URL),
		SourceURL:      hit.URL,
		Date:           normalizeDate(hit.LastUpdated, today),
	}
}

// tenantItemToRecord converts a tenant item attributed to productID.
func tenantItemToRecord(item core.TenantItem, productID string, cat *catalog.Catalog, today string) *core.UpdateRecord {
	severity := inferTenantSeverity(item.Title, item.Description)
	id := core.IDFromContent(item.Title).String()

	summary := item.Description
	if summary == "" {
		summary = "No description provided."
	}
	impact := "Reported by tenant data."
	if item.URL != "" {
		impact += " See " + item.URL + " for details."
	}

	return &core.UpdateRecord{
		ID:             "workiq-" + id,
		Title:          item.Title,
		Summary:        summary,
		Impact:         impact,
		ActionRequired: actionFor(severity),
		Severity:       severity,
		Product:        productID,
		ProductFamily:  cat.Family(productID),
		Source:         core.SourceTenant,
		SourceRef:      "workiq-" + id,
		SourceURL:      item.URL,
		Date:           normalizeDate(item.Date, today),
	}
}

package retrieve

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/briefing/core"
)

const dedupKeyRunes = 50

// dedupKey canonicalizes a title for cross-source deduplication.
func dedupKey(title string) string {
	key := strings.ToLower(title)
	if utf8.RuneCountInString(key) > dedupKeyRunes {
		key = string([]rune(key)[:dedupKeyRunes])
	}
	return key
}

// merge concatenates record sets in order and drops later records whose
// dedup key was already seen.
func merge(sets ...[]*core.UpdateRecord) []*core.UpdateRecord {
	seen := make(map[string]bool)
	var merged []*core.UpdateRecord
	for _, set := range sets {
		for _, r := range set {
			key := dedupKey(r.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}
	return merged
}

// filterLocal keeps records where any keyword occurs in the record's text,
// removes duplicate IDs and orders the rest by severity priority.
func filterLocal(records []*core.UpdateRecord, keywords []string) []*core.UpdateRecord {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	seen := make(map[string]bool)
	out := make([]*core.UpdateRecord, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		if len(lowered) > 0 && !containsAny(searchText(r), lowered) {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b *core.UpdateRecord) int {
		return a.Severity.Priority() - b.Severity.Priority()
	})
	return out
}

func searchText(r *core.UpdateRecord) string {
	return strings.ToLower(strings.Join([]string{r.Title, r.Summary, r.Impact, r.Product, r.ActionRequired}, " "))
}

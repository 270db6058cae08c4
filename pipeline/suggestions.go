package pipeline

import (
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
)

const maxSuggestions = 3

var emptyResultSuggestions = []string{
	"Azure の最新アップデートを教えて",
	"D365 の Breaking Changes は？",
	"今月の全製品アップデート",
}

// suggest proposes up to three follow-up queries.
func suggest(q *core.StructuredQuery, updates []*core.UpdateRecord, cat *catalog.Catalog) []string {
	if len(updates) == 0 {
		return append([]string{}, emptyResultSuggestions...)
	}

	suggestions := []string{}
	if q.Severity == core.SeverityNone {
		suggestions = append(suggestions, updates[0].ProductFamily+" の Breaking Changes だけ見せて")
	}
	if len(q.ProductIDs) <= 1 {
		for _, p := range cat.Products() {
			if !q.HasProduct(p.ID) {
				suggestions = append(suggestions, p.Name+" のアップデートも確認")
				break
			}
		}
	}
	if q.Source == core.SourceNone {
		suggestions = append(suggestions, "Message Center の通知だけ表示")
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

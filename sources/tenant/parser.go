package tenant

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/briefing/core"
)

const (
	maxItems         = 10
	maxDescription   = 500
	minTitleRunes    = 11
	defaultItemTitle = "Untitled"
)

var (
	// "## Title", "#### Title" or "**Title**"
	headerPattern = regexp.MustCompile(`^(?:#{1,4}\s+|\*\*)(.*?)(?:\*\*)?$`)
	// "- **Title**: description" or "* **Title** description"
	listPattern = regexp.MustCompile(`^[-*]\s+\*\*(.*?)\*\*[:\s]+(.*)`)
)

// ParseResponse extracts items from a loosely structured markdown answer.
// Headings and bold lines longer than ten characters start a new item, bold
// list entries either describe the current item or start a new one, and other
// text lines extend the current description. Table rows and rules are skipped.
// At most ten items are returned; descriptions are capped at 500 characters.
// today is used as the date of every item.
func ParseResponse(text, today string) []core.TenantItem {
	var (
		items   []core.TenantItem
		current *core.TenantItem
	)
	flush := func() {
		if current != nil && current.Title != "" {
			items = append(items, finalize(*current, today))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := headerPattern.FindStringSubmatch(trimmed); m != nil && utf8.RuneCountInString(m[1]) >= minTitleRunes {
			flush()
			current = &core.TenantItem{
				Title: strings.TrimSpace(strings.ReplaceAll(m[1], "**", "")),
				Date:  today,
			}
			continue
		}

		if m := listPattern.FindStringSubmatch(trimmed); m != nil {
			switch {
			case current != nil && current.Title != "" && current.Description == "":
				current.Description = strings.TrimSpace(m[2])
			case utf8.RuneCountInString(m[1]) >= minTitleRunes:
				flush()
				current = &core.TenantItem{
					Title:       strings.TrimSpace(m[1]),
					Description: strings.TrimSpace(m[2]),
					Date:        today,
				}
			}
			continue
		}

		if current != nil && trimmed != "" && !strings.HasPrefix(trimmed, "---") && !strings.HasPrefix(trimmed, "|") {
			current.Description = strings.TrimSpace(current.Description + " " + trimmed)
		}
	}
	flush()

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func finalize(item core.TenantItem, today string) core.TenantItem {
	if item.Title == "" {
		item.Title = defaultItemTitle
	}
	if item.Date == "" {
		item.Date = today
	}
	item.Description = truncateRunes(item.Description, maxDescription)
	return item
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

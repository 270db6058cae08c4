package interpret

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Japanese request phrases and time words that carry no search meaning.
// The final class strips single particles.
var stopPatterns = []*regexp.Regexp{
	regexp.MustCompile(`教えて`),
	regexp.MustCompile(`見せて`),
	regexp.MustCompile(`知りたい`),
	regexp.MustCompile(`ください`),
	regexp.MustCompile(`ほしい`),
	regexp.MustCompile(`確認`),
	regexp.MustCompile(`一覧`),
	regexp.MustCompile(`情報`),
	regexp.MustCompile(`アップデート`),
	regexp.MustCompile(`更新`),
	regexp.MustCompile(`今月`),
	regexp.MustCompile(`今週`),
	regexp.MustCompile(`最近`),
	regexp.MustCompile(`最新`),
	regexp.MustCompile(`直近`),
	regexp.MustCompile(`先月`),
	regexp.MustCompile(`[のにはをがでともやてたする]`),
}

// Stop words to drop after tokenizing (compared case-insensitively)
var stopWords = map[string]bool{
	"update": true, "updates": true, "show": true, "tell": true, "me": true,
	"about": true, "what": true, "are": true, "the": true, "please": true,
	"list": true, "all": true, "recent": true, "latest": true, "new": true,
	"this": true, "last": true,
	"ある": true, "いる": true, "から": true, "まで": true, "より": true,
	"など": true, "こと": true, "もの": true, "ため": true,
	"について": true, "に関する": true,
}

var tokenSplit = regexp.MustCompile(`[\s、,。.!?！？]+`)

// extractKeywords strips stop patterns, splits on whitespace and punctuation,
// and keeps tokens longer than one character that are not stop words.
// Keywords keep their original case.
func extractKeywords(text string) []string {
	cleaned := text
	for _, pat := range stopPatterns {
		cleaned = pat.ReplaceAllString(cleaned, " ")
	}

	parts := tokenSplit.Split(cleaned, -1)
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		word := strings.TrimSpace(part)
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if stopWords[strings.ToLower(word)] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

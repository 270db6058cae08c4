package tenant

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlToMarkdown flattens an HTML answer into the markdown shapes ParseResponse
// understands: headings become "## ", list items with a bold lead become
// "- **lead**: rest", and paragraphs become plain lines.
func htmlToMarkdown(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var lines []string
	doc.Find("h1, h2, h3, h4, li, p").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4":
			lines = append(lines, "## "+text)
		case "li":
			lead := collapseSpace(s.Find("strong, b").First().Text())
			if lead == "" {
				lines = append(lines, text)
				return
			}
			rest := strings.TrimSpace(strings.TrimPrefix(text, lead))
			rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			lines = append(lines, "- **"+lead+"**: "+rest)
		case "p":
			if s.ParentsFiltered("li").Length() > 0 {
				return
			}
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n"), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

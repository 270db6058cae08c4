package tenant

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2025-03-01"

func TestParseResponse_Headings(t *testing.T) {
	text := `Here is what I found:

## Teams classic client retirement
The classic client reaches end of support on July 1.
Plan the migration.

---

### **Copilot in Outlook general availability**
| Product | Date |
|---|---|
Rolling out to all tenants.`

	items := ParseResponse(text, today)
	require.Len(t, items, 2)

	assert.Equal(t, "Teams classic client retirement", items[0].Title)
	assert.Equal(t, "The classic client reaches end of support on July 1. Plan the migration.", items[0].Description)
	assert.Equal(t, today, items[0].Date)

	assert.Equal(t, "Copilot in Outlook general availability", items[1].Title)
	assert.Equal(t, "Rolling out to all tenants.", items[1].Description)
}

func TestParseResponse_BoldLines(t *testing.T) {
	items := ParseResponse("**Exchange Online basic auth removal**\nDisable legacy protocols.", today)
	require.Len(t, items, 1)
	assert.Equal(t, "Exchange Online basic auth removal", items[0].Title)
	assert.Equal(t, "Disable legacy protocols.", items[0].Description)
}

func TestParseResponse_ListItems(t *testing.T) {
	text := `- **SharePoint alerts retirement**: Alerts are replaced by rules.
- **Power BI dataset rename**: Datasets become semantic models.
- **Short**: ignored because the title is short`

	items := ParseResponse(text, today)
	require.Len(t, items, 2)
	assert.Equal(t, "SharePoint alerts retirement", items[0].Title)
	assert.Equal(t, "Alerts are replaced by rules.", items[0].Description)
	assert.Equal(t, "Power BI dataset rename", items[1].Title)
	assert.Equal(t, "Datasets become semantic models.", items[1].Description)
}

func TestParseResponse_ListDescribesHeading(t *testing.T) {
	text := `## Azure AD Graph retirement notice
- **Summary**: Migrate applications to Microsoft Graph.
- **Severity**: breaking`

	items := ParseResponse(text, today)
	require.Len(t, items, 1)
	assert.Equal(t, "Migrate applications to Microsoft Graph.", items[0].Description)
}

func TestParseResponse_ShortHeadingIgnored(t *testing.T) {
	items := ParseResponse("## Updates\nNothing here.", today)
	assert.Empty(t, items)
}

func TestParseResponse_Caps(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&sb, "## Update number %02d for tenant\n%s\n", i, strings.Repeat("x", 600))
	}

	items := ParseResponse(sb.String(), today)
	require.Len(t, items, 10)
	assert.Equal(t, "Update number 00 for tenant", items[0].Title)
	for _, item := range items {
		assert.Len(t, []rune(item.Description), 500)
	}
}

func TestParseResponse_Empty(t *testing.T) {
	assert.Empty(t, ParseResponse("", today))
	assert.Empty(t, ParseResponse("I could not find anything.", today))
}

func TestHTMLToMarkdown(t *testing.T) {
	html := `<html><body>
<h2>Defender for Endpoint agent retirement</h2>
<p>The legacy agent is removed next quarter.</p>
<ul>
  <li><strong>Entra ID sign-in changes</strong>: New MFA prompts roll out.</li>
  <li>plain item</li>
</ul>
</body></html>`

	md, err := htmlToMarkdown(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "## Defender for Endpoint agent retirement\n"+
		"The legacy agent is removed next quarter.\n"+
		"- **Entra ID sign-in changes**: New MFA prompts roll out.\n"+
		"plain item", md)

	items := ParseResponse(md, today)
	require.Len(t, items, 2)
	assert.Equal(t, "Defender for Endpoint agent retirement", items[0].Title)
	assert.Equal(t, "The legacy agent is removed next quarter.", items[0].Description)
	assert.Equal(t, "Entra ID sign-in changes", items[1].Title)
	assert.Equal(t, "New MFA prompts roll out. plain item", items[1].Description)
}

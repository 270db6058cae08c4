package interpret

import (
	"fmt"
	"strings"

	"github.com/poiesic/briefing/catalog"
)

const analysisPromptHeader = `You are a query analysis agent for a Microsoft technology update briefing service.
Your task is to analyze user queries about Microsoft product updates using a 5-step Chain-of-Thought reasoning process.

Available products and their IDs:
`

const analysisPromptBody = `
Respond ONLY with a valid JSON object (no markdown, no code fences) with this exact structure:
{
  "steps": [
    {
      "step": "Intent Classification",
      "description": "Classify the query intent",
      "result": "browse|search|compare|summarize",
      "confidence": 0.0-1.0
    },
    {
      "step": "Entity Extraction",
      "description": "Extract products, period, severity, keywords",
      "result": "JSON string of extracted entities",
      "confidence": 0.0-1.0
    },
    {
      "step": "Query Expansion",
      "description": "Expand abbreviations and resolve ambiguity",
      "result": "Expanded interpretation",
      "confidence": 0.0-1.0
    },
    {
      "step": "Confidence Scoring",
      "description": "Overall confidence assessment",
      "result": "Assessment summary",
      "confidence": 0.0-1.0
    },
    {
      "step": "Reasoning Summary",
      "description": "Why this analysis was chosen",
      "result": "Natural language explanation",
      "confidence": 0.0-1.0
    }
  ],
  "parsed": {
    "intent": "browse|search|compare|summarize",
    "products": ["product-id-1"],
    "keywords": ["keyword1"],
    "severity": "breaking|new-feature|improvement|null",
    "period": "1w|1m|3m|6m|null",
    "source": "message-center|microsoft-learn|null"
  }
}`

// buildAnalysisPrompt lists the catalog's product ids grouped by family.
func buildAnalysisPrompt(cat *catalog.Catalog) string {
	var families []string
	ids := make(map[string][]string)
	for _, p := range cat.Products() {
		if _, ok := ids[p.Family]; !ok {
			families = append(families, p.Family)
		}
		ids[p.Family] = append(ids[p.Family], p.ID)
	}

	var sb strings.Builder
	sb.WriteString(analysisPromptHeader)
	for _, family := range families {
		fmt.Fprintf(&sb, "- %s (%s)\n", family, strings.Join(ids[family], ", "))
	}
	sb.WriteString(analysisPromptBody)
	return sb.String()
}

func buildAnalysisUserPrompt(text string) string {
	return fmt.Sprintf("Analyze this query: %q", text)
}

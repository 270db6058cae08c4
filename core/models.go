package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DateLayout is the ISO date layout used by UpdateRecord.Date.
const DateLayout = "2006-01-02"

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as 16 lowercase hex characters.
func (id ID) String() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return hex.EncodeToString(buf[:])
}

// Severity is the urgency classification of an update record.
type Severity string

const (
	SeverityNone        Severity = ""
	SeverityBreaking    Severity = "breaking"
	SeverityNewFeature  Severity = "new-feature"
	SeverityImprovement Severity = "improvement"
)

// Priority orders severities for display: breaking first.
// Unknown severities sort last.
func (s Severity) Priority() int {
	switch s {
	case SeverityBreaking:
		return 0
	case SeverityNewFeature:
		return 1
	case SeverityImprovement:
		return 2
	default:
		return 3
	}
}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s == SeverityBreaking || s == SeverityNewFeature || s == SeverityImprovement
}

// Period is a relative time window hint.
type Period string

const (
	PeriodNone     Period = ""
	PeriodWeek     Period = "1w"
	PeriodMonth    Period = "1m"
	PeriodQuarter  Period = "3m"
	PeriodHalfYear Period = "6m"
)

// Duration returns the length of the window, or zero for PeriodNone.
func (p Period) Duration() time.Duration {
	day := 24 * time.Hour
	switch p {
	case PeriodWeek:
		return 7 * day
	case PeriodMonth:
		return 30 * day
	case PeriodQuarter:
		return 90 * day
	case PeriodHalfYear:
		return 180 * day
	default:
		return 0
	}
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	return p.Duration() > 0
}

// SourceID identifies the system a record originated from.
type SourceID string

const (
	SourceNone          SourceID = ""
	SourceMessageCenter SourceID = "message-center"
	SourceLearn         SourceID = "microsoft-learn"
	SourceTenant        SourceID = "workiq"
)

// Valid reports whether s is a known source identifier.
func (s SourceID) Valid() bool {
	return s == SourceMessageCenter || s == SourceLearn || s == SourceTenant
}

// UpdateRecord is a single technology update notice.
// Records are treated as immutable once constructed.
type UpdateRecord struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Summary        string   `json:"summary" yaml:"summary"`
	Impact         string   `json:"impact" yaml:"impact"`
	ActionRequired string   `json:"actionRequired" yaml:"actionRequired"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Product        string   `json:"product" yaml:"product"`
	ProductFamily  string   `json:"productFamily" yaml:"productFamily"`
	Source         SourceID `json:"source" yaml:"source"`
	SourceRef      string   `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
	SourceURL      string   `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
	Date           string   `json:"date,omitempty" yaml:"date,omitempty"`
	Deadline       string   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// ParsedDate parses Date. It accepts plain ISO dates and RFC 3339 timestamps.
func (r *UpdateRecord) ParsedDate() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, r.Date); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ReasoningStep is one step of an enriched interpretation.
type ReasoningStep struct {
	Step        string  `json:"step"`
	Description string  `json:"description"`
	Result      string  `json:"result"`
	Confidence  float64 `json:"confidence"`
}

// Intent classifies what the user wants to do with the results.
type Intent string

const (
	IntentBrowse    Intent = "browse"
	IntentSearch    Intent = "search"
	IntentCompare   Intent = "compare"
	IntentSummarize Intent = "summarize"
)

// StructuredQuery is the machine-usable interpretation of a free-text query.
type StructuredQuery struct {
	ProductIDs   []string `json:"products"`
	Keywords     []string `json:"keywords"`
	Severity     Severity `json:"severity,omitempty"`
	Period       Period   `json:"period,omitempty"`
	Source       SourceID `json:"source,omitempty"`
	OriginalText string   `json:"originalQuery"`

	// Populated only by the enriched interpreter.
	Intent         Intent          `json:"intent,omitempty"`
	ReasoningSteps []ReasoningStep `json:"reasoningSteps,omitempty"`
	Confidence     float64         `json:"confidenceScore,omitempty"`
}

// HasProduct reports whether id is one of the query's candidate products.
func (q *StructuredQuery) HasProduct(id string) bool {
	for _, p := range q.ProductIDs {
		if p == id {
			return true
		}
	}
	return false
}

// RankedResult pairs a record with its relevance for one ranking pass.
type RankedResult struct {
	Record         *UpdateRecord `json:"record"`
	RelevanceScore float64       `json:"relevanceScore"`
	MatchReasons   []string      `json:"matchReasons"`
}

// EvaluationOutcome is the evaluator's verdict on a ranked result set.
type EvaluationOutcome struct {
	QualityScore     float64          `json:"qualityScore"`
	Passed           bool             `json:"passed"`
	RewrittenQuery   string           `json:"rewrittenQuery,omitempty"`
	ImprovedQuery    *StructuredQuery `json:"improvedQuery,omitempty"`
	ImprovementNotes []string         `json:"improvementNotes"`
	ReasoningText    string           `json:"reasoningText"`
}

// StageStatus is the outcome of one pipeline stage.
type StageStatus string

const (
	StageSuccess  StageStatus = "success"
	StageFallback StageStatus = "fallback"
	StageSkipped  StageStatus = "skipped"
)

// InterpretationMethod records which interpreter produced the structured query.
type InterpretationMethod string

const (
	MethodEnriched  InterpretationMethod = "llm-chain-of-thought"
	MethodRuleBased InterpretationMethod = "rule-based"
)

// StageRecord is one entry in a pipeline trace.
type StageRecord struct {
	Stage      string      `json:"agent"`
	Status     StageStatus `json:"status"`
	DurationMs int64       `json:"durationMs"`
	Details    string      `json:"details"`
}

// PipelineTrace is the per-request diagnostic record.
type PipelineTrace struct {
	RequestID       string               `json:"requestId"`
	Stages          []StageRecord        `json:"steps"`
	TotalDurationMs int64                `json:"totalDurationMs"`
	Method          InterpretationMethod `json:"queryMethod"`
	ReasoningSteps  []ReasoningStep      `json:"reasoningSteps,omitempty"`
}

// Product is a catalog entry.
type Product struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Family      string     `json:"family" yaml:"family"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Sources     []SourceID `json:"sources" yaml:"sources"`
}

// DocHit is one result from an external documentation search.
type DocHit struct {
	Title       string
	Description string
	URL         string
	LastUpdated string
}

// TenantItem is one item parsed from a tenant data response.
type TenantItem struct {
	Title       string
	Description string
	URL         string
	Date        string
}

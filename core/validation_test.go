package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *UpdateRecord {
	return &UpdateRecord{
		ID:       "mc-100",
		Title:    "Retirement of classic pipelines",
		Severity: SeverityBreaking,
		Product:  "azure",
		Source:   SourceMessageCenter,
		Date:     "2025-01-10",
	}
}

func TestValidateUpdateRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *UpdateRecord)
		wantErr error
	}{
		{name: "valid record", mutate: func(r *UpdateRecord) {}},
		{name: "valid record without date", mutate: func(r *UpdateRecord) { r.Date = "" }},
		{name: "empty id", mutate: func(r *UpdateRecord) { r.ID = " " }, wantErr: ErrEmptyID},
		{name: "empty title", mutate: func(r *UpdateRecord) { r.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "empty product", mutate: func(r *UpdateRecord) { r.Product = "" }, wantErr: ErrEmptyProduct},
		{name: "bad severity", mutate: func(r *UpdateRecord) { r.Severity = "urgent" }, wantErr: ErrInvalidSeverity},
		{name: "missing severity", mutate: func(r *UpdateRecord) { r.Severity = SeverityNone }, wantErr: ErrInvalidSeverity},
		{name: "bad source", mutate: func(r *UpdateRecord) { r.Source = "rss" }, wantErr: ErrInvalidSource},
		{name: "bad date", mutate: func(r *UpdateRecord) { r.Date = "14/03/2025" }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(r)
			err := ValidateUpdateRecord(r)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidUpdateRecord)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("nil record", func(t *testing.T) {
		assert.ErrorIs(t, ValidateUpdateRecord(nil), ErrInvalidUpdateRecord)
	})
}

func TestValidateProduct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := &Product{ID: "azure", Name: "Azure", Family: "Azure", Sources: []SourceID{SourceMessageCenter}}
		assert.NoError(t, ValidateProduct(p))
	})
	t.Run("missing name", func(t *testing.T) {
		assert.ErrorIs(t, ValidateProduct(&Product{ID: "azure"}), ErrInvalidProduct)
	})
	t.Run("unknown source", func(t *testing.T) {
		p := &Product{ID: "azure", Name: "Azure", Sources: []SourceID{"fax"}}
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})
	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateProduct(nil), ErrInvalidProduct)
	})
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"breaking", SeverityBreaking, false},
		{" New-Feature ", SeverityNewFeature, false},
		{"improvement", SeverityImprovement, false},
		{"null", SeverityNone, false},
		{"", SeverityNone, false},
		{"critical", SeverityNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeverity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriodAndSource(t *testing.T) {
	p, err := ParsePeriod("3M")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, p)

	_, err = ParsePeriod("custom")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	s, err := ParseSource("null")
	require.NoError(t, err)
	assert.Equal(t, SourceNone, s)

	s, err = ParseSource("microsoft-learn")
	require.NoError(t, err)
	assert.Equal(t, SourceLearn, s)

	_, err = ParseSource("twitter")
	assert.ErrorIs(t, err, ErrInvalidSource)
}

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout of a seed file:
//
//	updates:
//	  - title: AKS retires Kubernetes 1.27
//	    product: aks
//	    severity: breaking
//	    date: 2026-02-10
type SeedFile struct {
	Updates []*core.UpdateRecord `yaml:"updates"`
}

// ParseSeed decodes a seed document. An empty document yields no records.
func ParseSeed(data []byte) ([]*core.UpdateRecord, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return seed.Updates, nil
}

// normalize fills defaults on a seed record: a content-derived ID, the
// Message Center source, the catalog family and a lowercase severity.
func normalize(record *core.UpdateRecord, cat *catalog.Catalog) {
	record.Title = strings.TrimSpace(record.Title)
	record.Product = strings.TrimSpace(record.Product)
	if record.Source == core.SourceNone {
		record.Source = core.SourceMessageCenter
	}
	if sev, err := core.ParseSeverity(string(record.Severity)); err == nil {
		record.Severity = sev
	}
	if record.ProductFamily == "" {
		record.ProductFamily = cat.Family(record.Product)
	}
	if strings.TrimSpace(record.ID) == "" && record.Title != "" {
		record.ID = "mc-" + core.IDFromContent(record.Product+"\x00"+record.Title).String()
	}
}

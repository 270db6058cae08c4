package retrieve

import (
	"context"

	"github.com/poiesic/briefing/core"
)

// LocalDataset is the offline record store.
type LocalDataset interface {
	QueryLocal(ctx context.Context, productIDs []string, severity core.Severity, source core.SourceID) ([]*core.UpdateRecord, error)
}

// DocSearch is an external documentation search backend.
type DocSearch interface {
	Search(ctx context.Context, queryText, productHint string, maxResults int) ([]core.DocHit, error)
}

// TenantSearch is the tenant data backend.
type TenantSearch interface {
	Search(ctx context.Context, query string) ([]core.TenantItem, error)
}

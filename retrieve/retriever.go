// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
)

const (
	defaultPoolSize      = 16
	defaultMaxLookups    = 3
	defaultMaxDocResults = 5
	defaultDocTimeout    = 12 * time.Second
	defaultTenantTimeout = 15 * time.Second
)

var (
	// ErrLocalRequired is returned when a Retriever is built without a local dataset.
	ErrLocalRequired = errors.New("local dataset is required")

	// ErrCatalogRequired is returned when a Retriever is built without a catalog.
	ErrCatalogRequired = errors.New("catalog is required")
)

// Counts reports how many records each source contributed.
// Total counts records after deduplication.
type Counts struct {
	Local  int `json:"local"`
	Learn  int `json:"learn"`
	Tenant int `json:"tenant"`
	Total  int `json:"total"`
}

// Result is the merged candidate set for one query.
type Result struct {
	Candidates []*core.UpdateRecord
	Counts     Counts
}

// Retriever gathers candidate records from the local dataset and, on request,
// from external backends.
type Retriever struct {
	local         LocalDataset
	docs          DocSearch
	tenant        TenantSearch
	catalog       *catalog.Catalog
	pool          *ants.Pool
	maxLookups    int
	maxDocResults int
	docTimeout    time.Duration
	tenantTimeout time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithDocSearch enables documentation search for external retrieval.
func WithDocSearch(docs DocSearch) Option {
	return func(r *Retriever) error {
		r.docs = docs
		return nil
	}
}

// WithTenantSearch enables tenant data search for external retrieval.
func WithTenantSearch(tenant TenantSearch) Option {
	return func(r *Retriever) error {
		r.tenant = tenant
		return nil
	}
}

// WithPoolSize sets the size of the worker pool shared by all requests.
// Default is 16, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Retriever) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithMaxProductLookups caps the documentation lookups per query.
func WithMaxProductLookups(n int) Option {
	return func(r *Retriever) error {
		if n < 1 {
			return fmt.Errorf("max product lookups must be positive: %d", n)
		}
		r.maxLookups = n
		return nil
	}
}

// WithDocTimeout bounds each documentation lookup, retries included.
func WithDocTimeout(timeout time.Duration) Option {
	return func(r *Retriever) error {
		if timeout > 0 {
			r.docTimeout = timeout
		}
		return nil
	}
}

// WithTenantTimeout bounds the tenant lookup.
func WithTenantTimeout(timeout time.Duration) Option {
	return func(r *Retriever) error {
		if timeout > 0 {
			r.tenantTimeout = timeout
		}
		return nil
	}
}

// WithClock sets the time source used to date external records.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) error {
		r.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a Retriever. Call Close to release its worker pool.
func NewRetriever(local LocalDataset, cat *catalog.Catalog, opts ...Option) (*Retriever, error) {
	if local == nil {
		return nil, ErrLocalRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	r := &Retriever{
		local:         local,
		catalog:       cat,
		maxLookups:    defaultMaxLookups,
		maxDocResults: defaultMaxDocResults,
		docTimeout:    defaultDocTimeout,
		tenantTimeout: defaultTenantTimeout,
		now:           time.Now,
		logger:        slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Close()
			return nil, err
		}
	}
	if r.pool == nil {
		pool, err := ants.NewPool(defaultPoolSize)
		if err != nil {
			return nil, err
		}
		r.pool = pool
	}
	return r, nil
}

// Close releases the worker pool.
func (r *Retriever) Close() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Retrieve returns merged candidates for q. External backends are consulted
// only when includeExternal is set and q names at least one product; their
// failures contribute no records and never fail the call.
func (r *Retriever) Retrieve(ctx context.Context, q *core.StructuredQuery, includeExternal bool) (*Result, error) {
	start := time.Now()

	stored, err := r.local.QueryLocal(ctx, q.ProductIDs, q.Severity, q.Source)
	if err != nil {
		return nil, fmt.Errorf("query local dataset: %w", err)
	}
	local := filterLocal(stored, q.Keywords)

	var docs, tenant []*core.UpdateRecord
	if includeExternal && len(q.ProductIDs) > 0 {
		docs, tenant = r.fetchExternal(ctx, q)
	}

	merged := merge(local, docs, tenant)
	result := &Result{
		Candidates: merged,
		Counts: Counts{
			Local:  len(local),
			Learn:  len(docs),
			Tenant: len(tenant),
			Total:  len(merged),
		},
	}
	r.logger.Info("retrieval completed", "local", len(local), "learn", len(docs), "tenant", len(tenant),
		"merged", len(merged), "duration", time.Since(start))
	return result, nil
}

// fetchExternal runs the documentation lookups and the tenant lookup
// concurrently and waits for all of them.
func (r *Retriever) fetchExternal(ctx context.Context, q *core.StructuredQuery) (docs, tenant []*core.UpdateRecord) {
	today := r.now().Format(core.DateLayout)

	products := q.ProductIDs
	if len(products) > r.maxLookups {
		products = products[:r.maxLookups]
	}

	var wg sync.WaitGroup
	docSlots := make([][]*core.UpdateRecord, len(products))

	if r.docs != nil {
		for i, productID := range products {
			r.submit(&wg, "learn", func() {
				docSlots[i] = r.searchDocs(ctx, q, productID, today)
			})
		}
	}
	if r.tenant != nil {
		r.submit(&wg, "tenant", func() {
			tenant = r.searchTenant(ctx, q, today)
		})
	}
	wg.Wait()

	for _, slot := range docSlots {
		docs = append(docs, slot...)
	}
	return docs, tenant
}

func (r *Retriever) submit(wg *sync.WaitGroup, source string, task func()) {
	wg.Add(1)
	err := r.pool.Submit(func() {
		defer wg.Done()
		task()
	})
	if err != nil {
		wg.Done()
		r.logger.Warn("external lookup not scheduled", "source", source, "err", err)
	}
}

func (r *Retriever) searchDocs(ctx context.Context, q *core.StructuredQuery, productID, today string) []*core.UpdateRecord {
	ctx, cancel := context.WithTimeout(ctx, r.docTimeout)
	defer cancel()

	name := r.catalog.Name(productID)
	queryText := strings.Join(q.Keywords, " ")
	if queryText == "" {
		queryText = name + " what's new update"
	}

	hits, err := r.docs.Search(ctx, queryText, name, r.maxDocResults)
	if err != nil {
		r.logger.Warn("documentation lookup failed", "product", productID, "err", err)
		return nil
	}
	records := make([]*core.UpdateRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, docHitToRecord(hit, productID, r.catalog, today))
	}
	return records
}

func (r *Retriever) searchTenant(ctx context.Context, q *core.StructuredQuery, today string) []*core.UpdateRecord {
	ctx, cancel := context.WithTimeout(ctx, r.tenantTimeout)
	defer cancel()

	items, err := r.tenant.Search(ctx, tenantQuery(q, r.catalog))
	if err != nil {
		r.logger.Warn("tenant lookup failed", "err", err)
		return nil
	}

	primary := GeneralProduct
	if len(q.ProductIDs) > 0 {
		primary = q.ProductIDs[0]
	}
	records := make([]*core.UpdateRecord, 0, len(items))
	for _, item := range items {
		records = append(records, tenantItemToRecord(item, primary, r.catalog, today))
	}
	return records
}

// tenantQuery is the keywords, or the product names followed by "updates".
func tenantQuery(q *core.StructuredQuery, cat *catalog.Catalog) string {
	if len(q.Keywords) > 0 {
		return strings.Join(q.Keywords, " ")
	}
	names := make([]string, 0, len(q.ProductIDs))
	for _, id := range q.ProductIDs {
		names = append(names, cat.Name(id))
	}
	return strings.Join(names, ", ") + " updates"
}

package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/briefing/core"
)

const questionTemplate = "Find Microsoft technology updates, Message Center notifications, or field advisory emails about: %s. " +
	"List each item with its title, summary, affected products, severity (breaking/new-feature/improvement), and date. " +
	"Format as structured data."

// Searcher turns a search phrase into tenant items by asking the backend and
// parsing its answer.
type Searcher struct {
	asker   Asker
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithSearchTimeout bounds a single Search call.
func WithSearchTimeout(timeout time.Duration) SearcherOption {
	return func(s *Searcher) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidTimeout, timeout)
		}
		s.timeout = timeout
		return nil
	}
}

// WithClock sets the time source used to date parsed items.
func WithClock(now func() time.Time) SearcherOption {
	return func(s *Searcher) error {
		s.now = now
		return nil
	}
}

// NewSearcher creates a Searcher.
func NewSearcher(asker Asker, opts ...SearcherOption) (*Searcher, error) {
	if asker == nil {
		return nil, ErrAskerRequired
	}
	s := &Searcher{
		asker:   asker,
		timeout: defaultAskTimeout,
		now:     time.Now,
		logger:  slog.Default().With("component", "tenant-search"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search asks the backend about query and parses up to ten items from the answer.
func (s *Searcher) Search(ctx context.Context, query string) ([]core.TenantItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.asker.Ask(ctx, BuildQuestion(query))
	if err != nil {
		return nil, err
	}
	items := ParseResponse(answer, s.now().Format(core.DateLayout))
	s.logger.Debug("tenant search completed", "query", query, "items", len(items))
	return items, nil
}

// BuildQuestion wraps a search phrase in the question sent to the backend.
func BuildQuestion(query string) string {
	return fmt.Sprintf(questionTemplate, query)
}

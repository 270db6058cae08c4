package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type askerFunc func(ctx context.Context, question string) (string, error)

func (f askerFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

func TestSearcher_Search(t *testing.T) {
	var asked string
	asker := askerFunc(func(ctx context.Context, question string) (string, error) {
		asked = question
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return "## Teams Premium license change\nNew SKU required.", nil
	})
	clock := func() time.Time { return time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC) }

	s, err := NewSearcher(asker, WithClock(clock))
	require.NoError(t, err)

	items, err := s.Search(context.Background(), "Teams premium")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Teams Premium license change", items[0].Title)
	assert.Equal(t, "2025-04-02", items[0].Date)
	assert.Equal(t, BuildQuestion("Teams premium"), asked)
	assert.Contains(t, asked, "about: Teams premium. List each item")
}

func TestSearcher_AskerError(t *testing.T) {
	s, err := NewSearcher(askerFunc(func(context.Context, string) (string, error) {
		return "", ErrUnavailable
	}))
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "q")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestNewSearcher_Validation(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrAskerRequired)
}

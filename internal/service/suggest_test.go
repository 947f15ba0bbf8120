package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopverse/storefront/internal/domain"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

type stubSuggestCatalog struct {
	mu      sync.Mutex
	queries []string
}

func (s *stubSuggestCatalog) Suggestions(ctx context.Context, query string) ([]string, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return []string{query + " amp", query + " strap"}, nil
}

func (s *stubSuggestCatalog) SuggestionsDetailed(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	return []domain.Product{{ID: 1, Name: query}}, nil
}

func (s *stubSuggestCatalog) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func TestSuggest_ReturnsAfterDebounceWindow(t *testing.T) {
	catalog := &stubSuggestCatalog{}
	svc := NewSuggestService(catalog, 20*time.Millisecond, newTestLogger())

	suggestions, err := svc.Suggest(context.Background(), "sess-1", "guitar")

	require.NoError(t, err)
	assert.Equal(t, []string{"guitar amp", "guitar strap"}, suggestions)
	assert.Equal(t, []string{"guitar"}, catalog.calls())
}

func TestSuggest_NewerKeystrokeSupersedesPending(t *testing.T) {
	catalog := &stubSuggestCatalog{}
	svc := NewSuggestService(catalog, 60*time.Millisecond, newTestLogger())

	var (
		wg    sync.WaitGroup
		first []string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _ = svc.Suggest(context.Background(), "sess-1", "gui")
	}()

	// Let the first request enter its debounce window, then supersede it.
	time.Sleep(15 * time.Millisecond)
	second, err := svc.Suggest(context.Background(), "sess-1", "guitar")
	wg.Wait()

	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Equal(t, []string{"guitar amp", "guitar strap"}, second)
	// Only the latest query reached the catalog.
	assert.Equal(t, []string{"guitar"}, catalog.calls())
}

func TestSuggest_SessionsDebounceIndependently(t *testing.T) {
	catalog := &stubSuggestCatalog{}
	svc := NewSuggestService(catalog, 20*time.Millisecond, newTestLogger())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.Suggest(context.Background(), "sess-1", "drums")
	}()
	go func() {
		defer wg.Done()
		_, _ = svc.Suggest(context.Background(), "sess-2", "keys")
	}()
	wg.Wait()

	assert.ElementsMatch(t, []string{"drums", "keys"}, catalog.calls())
}

func TestSuggest_EmptyQuery(t *testing.T) {
	svc := NewSuggestService(&stubSuggestCatalog{}, time.Millisecond, newTestLogger())

	_, err := svc.Suggest(context.Background(), "sess-1", "  ")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSuggestDetailed_SkipsDebounce(t *testing.T) {
	catalog := &stubSuggestCatalog{}
	svc := NewSuggestService(catalog, time.Hour, newTestLogger())

	start := time.Now()
	products, err := svc.SuggestDetailed(context.Background(), "guitar", 5)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Less(t, time.Since(start), time.Second)
}

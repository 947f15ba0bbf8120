package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopverse/storefront/internal/domain"
	"github.com/shopverse/storefront/pkg/debounce"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

// DefaultSuggestDelay is the trailing debounce window for typeahead
// suggestion requests.
const DefaultSuggestDelay = 200 * time.Millisecond

// SuggestCatalog is the slice of the catalog client the suggest service
// consumes.
type SuggestCatalog interface {
	Suggestions(ctx context.Context, query string) ([]string, error)
	SuggestionsDetailed(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

type suggestOutcome struct {
	suggestions []string
	err         error
}

// pendingSuggest is one waiting suggestion request. A newer keystroke from
// the same session supersedes it before its debounce window elapses.
type pendingSuggest struct {
	query string
	ch    chan suggestOutcome
}

type sessionSuggest struct {
	debouncer *debounce.Debouncer
	pending   *pendingSuggest
}

// SuggestService serves typeahead suggestions with per-session debouncing:
// rapid keystrokes from one session coalesce so only the latest query reaches
// the catalog. Superseded requests resolve with no suggestions rather than an
// error, since the client only renders the latest response anyway.
type SuggestService struct {
	catalog SuggestCatalog
	delay   time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionSuggest
}

// NewSuggestService creates a suggest service with the given debounce delay.
func NewSuggestService(catalog SuggestCatalog, delay time.Duration, logger *slog.Logger) *SuggestService {
	if delay <= 0 {
		delay = DefaultSuggestDelay
	}
	return &SuggestService{
		catalog:  catalog,
		delay:    delay,
		logger:   logger,
		sessions: make(map[string]*sessionSuggest),
	}
}

// Suggest returns suggestion strings for a partial query. The call blocks for
// the debounce window; if a newer call for the same session arrives in that
// window, this one returns empty and the newer one proceeds.
func (s *SuggestService) Suggest(ctx context.Context, sessionID, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.InvalidInput("query is required")
	}
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	pending := &pendingSuggest{
		query: query,
		ch:    make(chan suggestOutcome, 1),
	}

	s.mu.Lock()
	entry := s.sessions[sessionID]
	if entry == nil {
		entry = &sessionSuggest{debouncer: debounce.New(s.delay)}
		s.sessions[sessionID] = entry
	}
	if entry.pending != nil {
		// The newer keystroke wins; resolve the superseded waiter empty.
		entry.pending.ch <- suggestOutcome{}
	}
	entry.pending = pending
	entry.debouncer.Schedule(func() {
		s.mu.Lock()
		if entry.pending == pending {
			entry.pending = nil
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()

		suggestions, err := s.catalog.Suggestions(ctx, pending.query)
		pending.ch <- suggestOutcome{suggestions: suggestions, err: err}
	})
	s.mu.Unlock()

	select {
	case out := <-pending.ch:
		return out.suggestions, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SuggestDetailed returns full product records for a partial query. Detailed
// suggestions back explicit user actions rather than keystrokes, so they skip
// the debounce window.
func (s *SuggestService) SuggestDetailed(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.InvalidInput("query is required")
	}

	return s.catalog.SuggestionsDetailed(ctx, query, limit)
}

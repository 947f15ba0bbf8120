package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopverse/storefront/internal/catalog"
	"github.com/shopverse/storefront/internal/domain"
	apperrors "github.com/shopverse/storefront/pkg/errors"
)

// ChatCatalog is the slice of the catalog client the assistant consumes.
type ChatCatalog interface {
	Chat(ctx context.Context, message string) (*catalog.ChatResult, error)
}

// AssistantReply is the storefront's answer to a shopper's chat message: a
// rendered reply, the products the assistant found, and the browse criteria
// equivalent to the filters it extracted, so the UI can jump straight to a
// filtered product page.
type AssistantReply struct {
	Message  string                `json:"message"`
	Products []domain.Product      `json:"products"`
	Filters  catalog.ChatFilters   `json:"filters"`
	Criteria domain.FilterCriteria `json:"criteria"`
}

// AssistantService turns free-form shopper messages into product
// recommendations via the catalog's chat endpoint.
type AssistantService struct {
	catalog ChatCatalog
	logger  *slog.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(catalog ChatCatalog, logger *slog.Logger) *AssistantService {
	return &AssistantService{
		catalog: catalog,
		logger:  logger,
	}
}

// Chat sends the shopper's message to the catalog assistant and renders the
// reply.
func (s *AssistantService) Chat(ctx context.Context, message string) (*AssistantReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	result, err := s.catalog.Chat(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("assistant chat: %w", err)
	}

	reply := &AssistantReply{
		Message:  formatReply(result.Results),
		Products: result.Results,
		Filters:  result.Filters,
		Criteria: criteriaFromFilters(result.Filters),
	}

	s.logger.InfoContext(ctx, "assistant reply",
		slog.Int("results", len(result.Results)),
		slog.String("category", result.Filters.Category),
		slog.String("brand", result.Filters.Brand),
	)

	return reply, nil
}

// criteriaFromFilters maps the assistant's extracted filters onto browse
// criteria. Price caps and attributes the pipeline has no filter for (size,
// color) are already applied by the catalog and are not mapped.
func criteriaFromFilters(filters catalog.ChatFilters) domain.FilterCriteria {
	return domain.FilterCriteria{
		Category:     filters.Category,
		Manufacturer: filters.Brand,
	}
}

// formatReply renders the assistant's reply text: a numbered list of the
// matched products, or a nudge to rephrase when nothing matched.
func formatReply(products []domain.Product) string {
	if len(products) == 0 {
		return "I couldn't find any products matching your criteria. Could you try a different search?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d products matching your criteria. Here are the top results:\n\n", len(products))
	for i, p := range products {
		name := strings.TrimSpace(p.Manufacturer + " " + p.Name)
		fmt.Fprintf(&b, "%d. %s - $%.2f", i+1, name, p.Price.Float64())
		if i < len(products)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

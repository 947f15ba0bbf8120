package http

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopverse/storefront/internal/catalog"
	"github.com/shopverse/storefront/internal/service"
	apperrors "github.com/shopverse/storefront/pkg/errors"
	"github.com/shopverse/storefront/pkg/httputil"
	"github.com/shopverse/storefront/pkg/pagination"
)

// maxUploadBytes bounds image and audio uploads.
const maxUploadBytes = 10 << 20

// MediaSearcher is the slice of the catalog client backing uploads.
type MediaSearcher interface {
	ImageSearch(ctx context.Context, filename string, file io.Reader) (*catalog.ImageSearchResult, error)
	VoiceSearch(ctx context.Context, filename string, file io.Reader) (*catalog.VoiceSearchResult, error)
}

// SearchHandler handles HTTP requests for text, typeahead, image, and voice
// search.
type SearchHandler struct {
	browse  *service.BrowseService
	suggest *service.SuggestService
	media   MediaSearcher
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(browse *service.BrowseService, suggest *service.SuggestService, media MediaSearcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		browse:  browse,
		suggest: suggest,
		media:   media,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	params := pagination.FromRequest(r)

	view, err := h.browse.Search(r.Context(), query, criteriaFromQuery(r), params.Page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// Suggestions handles GET /api/v1/search/suggestions
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	sessionID := sessionIDFromContext(r.Context())

	suggestions, err := h.suggest.Suggest(r.Context(), sessionID, query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}

// SuggestionsDetailed handles GET /api/v1/search/suggestions-detailed
func (h *SearchHandler) SuggestionsDetailed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.suggest.SuggestDetailed(r.Context(), query, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ImageSearch handles POST /api/v1/search/image
func (h *SearchHandler) ImageSearch(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.formFile(w, r, "file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.media.ImageSearch(r.Context(), header.Filename, file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// VoiceSearch handles POST /api/v1/search/voice
func (h *SearchHandler) VoiceSearch(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.formFile(w, r, "audio_file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.media.VoiceSearch(r.Context(), header.Filename, file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// formFile extracts a single uploaded file, writing the error response itself
// when the upload is missing or oversized.
func (h *SearchHandler) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart upload: "+err.Error()), h.logger)
		return nil, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing "+field+" upload"), h.logger)
		return nil, nil, false
	}

	return file, header, true
}

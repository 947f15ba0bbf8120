package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/shopverse/storefront/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. The caller should only invoke this when
// resp.StatusCode indicates an error. The response body is fully consumed and
// closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(serviceName, string(bodyBytes))
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", serviceName, string(bodyBytes)))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.Unavailable(fmt.Sprintf("%s unavailable", serviceName))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, string(bodyBytes))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: fmt.Sprintf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes)),
			Status:  resp.StatusCode,
		}
	}
}

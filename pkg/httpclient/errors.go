package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx HTTP response from an
// external provider and translates it into an appropriate AppError.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, providerName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", providerName, resp.StatusCode, err)
	}

	message := fmt.Sprintf("%s returned status %d: %s", providerName, resp.StatusCode, string(bodyBytes))

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.Unavailable(message)
	case resp.StatusCode >= 500:
		return apperrors.DispatchFailed(message)
	case IsClientError(resp.StatusCode):
		return apperrors.DispatchFailed(message)
	default:
		return fmt.Errorf("%s: %s", providerName, message)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

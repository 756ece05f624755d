package shopsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned by Session methods once the access token
// has passed its expiry.
var ErrSessionExpired = errors.New("shopsdk: session expired, log in again")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Detail     string
	// RetryAfter is set from the Retry-After header on 429 responses.
	RetryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopsdk: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsRateLimited reports whether err is a 429 from the server.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// parseErrorResponse builds an APIError from a response body. Bodies that are
// not {"detail": "..."} keep their raw text as the detail.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RetryAfter: resp.Header.Get("Retry-After"),
	}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Detail != "" {
		apiErr.Detail = er.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}

package gitlab

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrWriteDisabled is returned for any mutating operation while the
// server runs in read-only mode. It is produced locally and never
// reaches the network.
var ErrWriteDisabled = errors.New("Write operations are disabled (GITLAB_READ_ONLY=true)")

// APIError is a non-success HTTP outcome, or a success response that
// could not be decoded.
type APIError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitLab API Error %d %s: %s", e.StatusCode, e.StatusText, e.Body)
}

// AuthError is a 401 or 403 response.
type AuthError struct {
	APIError
}

func (e *AuthError) Error() string { return e.APIError.Error() }

// NotFoundError is a 404 response.
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Error() string { return e.APIError.Error() }

// AsAPIError extracts the HTTP detail from any of the three API error
// kinds in err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return &authErr.APIError, true
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return &notFound.APIError, true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

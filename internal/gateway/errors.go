package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
)

// APIError is returned for any non-2xx final response from the GitHub API,
// REST and GraphQL alike. Err keeps the go-github error it was built from.
type APIError struct {
	Path       string
	Status     int
	StatusText string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (%d %s) for %s: %s", e.Status, e.StatusText, e.Path, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// GraphQLError is returned when a GraphQL response carries a top-level errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// toAPIError maps the go-github response errors to *APIError. Other errors
// (network, context) are returned as is.
func toAPIError(err error) error {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		errResp  *github.ErrorResponse
		resp     *http.Response
		message  string
	)
	switch {
	case errors.As(err, &rateErr):
		resp, message = rateErr.Response, rateErr.Message
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	case errors.As(err, &errResp):
		resp, message = errResp.Response, errResp.Message
	default:
		return err
	}
	if resp == nil {
		return err
	}

	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       message,
		Err:        err,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.Path = resp.Request.URL.RequestURI()
	}
	return apiErr
}

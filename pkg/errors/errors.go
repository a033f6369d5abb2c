package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Standard error types
var (
	ErrAuthentication = errors.New("authentication error")
	ErrConfiguration  = errors.New("configuration error")
	ErrHTTPRequest    = errors.New("HTTP request error")
	ErrHTTPResponse   = errors.New("HTTP response error")
	ErrPagination     = errors.New("pagination error")
	ErrExtraction     = errors.New("data extraction error")

	// ErrMissingCredentials is the configuration error for an absent shop
	// url or access token.
	ErrMissingCredentials = fmt.Errorf("%w: missing credentials", ErrConfiguration)

	// Upstream failure classes for the catalog fetch
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("upstream server error")

	// Export failures
	ErrMapping = errors.New("mapping error")
	ErrOutput  = errors.New("output error")
)

// WrapError wraps an error with a standard error type
func WrapError(err error, errType error, message string) error {
	return fmt.Errorf("%w: %s: %w", errType, message, err)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As provides a convenience wrapper around errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}

// HTTPError is a non-2xx answer from the store API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto one of the upstream failure classes.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return ErrHTTPResponse
	}
}

// NewHTTPError builds an HTTPError, pulling the message out of the
// response body's "errors" field when there is one.
func NewHTTPError(statusCode int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: upstreamMessage(body)}
}

// upstreamMessage understands the three shapes the Admin API uses:
// {"errors":"..."}, {"errors":["...", ...]} and {"errors":{"field":["..."]}}.
func upstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}

	res := gjson.GetBytes(body, "errors")
	switch {
	case !res.Exists():
		return ""
	case res.IsArray():
		var parts []string
		for _, v := range res.Array() {
			parts = append(parts, v.String())
		}
		return strings.Join(parts, "; ")
	case res.IsObject():
		var parts []string
		res.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() {
				for _, v := range value.Array() {
					parts = append(parts, key.String()+" "+v.String())
				}
			} else {
				parts = append(parts, key.String()+" "+value.String())
			}
			return true
		})
		return strings.Join(parts, "; ")
	default:
		return res.String()
	}
}

// Classify returns the operator-facing description of a fetch failure.
func Classify(err error) string {
	var httpErr *HTTPError
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "SHOP_URL and SHOPIFY_ACCESS_TOKEN are required."
	case errors.Is(err, ErrConfiguration):
		return "Invalid configuration."
	case errors.Is(err, ErrForbidden):
		return "Authentication failed or insufficient permissions."
	case errors.Is(err, ErrNotFound):
		return "Resource not found. Check Shopify URL or API version."
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized access. Check SHOPIFY_ACCESS_TOKEN."
	case errors.Is(err, ErrServer) && errors.As(err, &httpErr):
		return fmt.Sprintf("Shopify server error: %s", httpErr.Message)
	default:
		return "Unexpected error during Shopify API call."
	}
}

package rest

import (
	"fmt"
	"io"
	"net/http"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// HTTPDoer is a minimal interface for HTTP clients
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// maxBodyBytes caps how much of a single response is buffered
const maxBodyBytes = 64 << 20

// ReadBody reads and closes the response body, turning non-2xx answers
// into *errors.HTTPError.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPResponse, "failed to read response body")
	}
	if len(body) > maxBodyBytes {
		return nil, errors.WrapError(
			fmt.Errorf("response larger than %d bytes", maxBodyBytes),
			errors.ErrHTTPResponse,
			"failed to read response body",
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewHTTPError(resp.StatusCode, body)
	}
	return body, nil
}

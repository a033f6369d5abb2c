// pkg/transport/rest/builder.go
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/errors"
)

// Builder builds REST HTTP requests.
type Builder struct {
	BaseURL     string
	Path        string
	Method      string
	Headers     map[string]string
	QueryParams url.Values
	AuthHandler auth.Handler
}

// NewBuilder constructs a Builder.
// Method defaults to GET if empty.
func NewBuilder(
	baseURL, path, method string,
	headers map[string]string,
	params url.Values,
	authHandler auth.Handler,
) *Builder {
	if method == "" {
		method = http.MethodGet
	}
	return &Builder{
		BaseURL:     baseURL,
		Path:        path,
		Method:      method,
		Headers:     headers,
		QueryParams: params,
		AuthHandler: authHandler,
	}
}

// URL joins BaseURL and Path and appends the query string.
func (b *Builder) URL() (string, error) {
	base, err := url.Parse(strings.TrimSuffix(b.BaseURL, "/"))
	if err != nil {
		return "", errors.WrapError(err, errors.ErrConfiguration, "parse base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return "", errors.WrapError(
			fmt.Errorf("invalid base url %q", b.BaseURL),
			errors.ErrConfiguration,
			"base url needs a scheme and host",
		)
	}

	u := base.JoinPath(b.Path)
	if len(b.QueryParams) > 0 {
		u.RawQuery = b.QueryParams.Encode()
	}
	return u.String(), nil
}

// Build creates an HTTP request.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	target, err := b.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, b.Method, target, nil)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "create request")
	}

	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}

	if b.AuthHandler != nil {
		if err := b.AuthHandler.ApplyAuth(req); err != nil {
			return nil, err
		}
	}

	return req, nil
}

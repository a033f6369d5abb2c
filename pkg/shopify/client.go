package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/pagination"
	"github.com/saturnines/catalog-export/pkg/transport/rest"
)

// Client reads the product catalog of the shop a Session points at
type Client struct {
	httpClient rest.HTTPDoer
	baseURL    string
	fields     []string
	pageSize   int
	logger     *slog.Logger
}

// ClientOption defines config for Client
type ClientOption func(*Client)

// NewClient creates a new Client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		fields:   []string{"id"},
		pageSize: 250,
		logger:   slog.Default(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithHTTPClient replaces the HTTP client entirely
func WithHTTPClient(doer rest.HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the timeout when the client is an *http.Client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if hc, ok := c.httpClient.(*http.Client); ok {
			hc.Timeout = timeout
		}
	}
}

// WithBaseURL overrides the https://{shop} base, e.g. for a proxy
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithFields sets the product field projection
func WithFields(fields ...string) ClientOption {
	return func(c *Client) {
		c.fields = fields
	}
}

// WithPageSize sets the limit query parameter
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		c.pageSize = n
	}
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Products fetches every product of the session's shop. Pages are followed
// through the Link header; any failure discards what was read so far. An
// empty shop yields an empty, non-nil slice.
func (c *Client) Products(ctx context.Context, sess *Session) ([]Product, error) {
	if !sess.Active() {
		return nil, errors.WrapError(
			fmt.Errorf("session is closed or missing"),
			errors.ErrAuthentication,
			"fetch products",
		)
	}

	builder := rest.NewBuilder(
		c.base(sess),
		fmt.Sprintf("/admin/api/%s/products.json", sess.APIVersion),
		http.MethodGet,
		map[string]string{"Accept": "application/json"},
		c.query(),
		sess.Auth(),
	)
	first, err := builder.Build(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "build request")
	}

	var pager pagination.Pager = pagination.NewLinkPager(first)
	all := make([]Product, 0)

	for page := 1; ; page++ {
		req, err := pager.NextRequest()
		if err != nil {
			return nil, err
		}
		if req == nil {
			break
		}

		c.logger.Debug("requesting products page", "page", page, "url", req.URL.Redacted())
		batch, resp, err := c.fetchPage(req)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if err := pager.UpdateState(resp); err != nil {
			return nil, err
		}
	}

	return all, nil
}

func (c *Client) fetchPage(req *http.Request) ([]Product, *http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrHTTPRequest, "http do")
	}

	body, err := rest.ReadBody(resp)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrHTTPResponse, "fetch products")
	}

	var page productsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrHTTPResponse, "failed to decode response JSON")
	}
	if page.Products == nil {
		return nil, nil, errors.WrapError(
			fmt.Errorf("response has no products field"),
			errors.ErrExtraction,
			"invalid response structure",
		)
	}

	return *page.Products, resp, nil
}

func (c *Client) base(sess *Session) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + sess.ShopURL
}

func (c *Client) query() url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	if len(c.fields) > 0 {
		q.Set("fields", strings.Join(c.fields, ","))
	}
	return q
}

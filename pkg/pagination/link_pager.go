package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// LinkPager follows rel="next" in the Link header. The Admin API REST
// endpoints page this way, carrying a page_info cursor in the next URL.
type LinkPager struct {
	BaseReq *http.Request
	nextURL string
	done    bool
}

var _ Pager = (*LinkPager)(nil)

// NewLinkPager builds a LinkPager starting at req.
func NewLinkPager(req *http.Request) *LinkPager {
	return &LinkPager{BaseReq: req, nextURL: req.URL.String()}
}

// NextRequest returns the next request or nil when done.
func (p *LinkPager) NextRequest() (*http.Request, error) {
	if p.done || p.nextURL == "" {
		return nil, nil
	}

	var u *url.URL
	var err error

	// Handle relative URLs by resolving against base URL
	if strings.HasPrefix(p.nextURL, "/") {
		u, err = p.BaseReq.URL.Parse(p.nextURL)
	} else {
		u, err = url.Parse(p.nextURL)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrPagination, "parse next link")
	}

	req := p.BaseReq.Clone(p.BaseReq.Context())
	req.URL = u
	req.Host = u.Host
	return req, nil
}

// UpdateState parses Link header and saves next URL.
func (p *LinkPager) UpdateState(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.WrapError(
			fmt.Errorf("pagination: unexpected status %d", resp.StatusCode),
			errors.ErrPagination,
			"update link state",
		)
	}

	next := parseLinkHeader(resp.Header.Get("Link"))["next"]
	if next == "" {
		p.done = true
		p.nextURL = ""
		return nil
	}
	if next == p.nextURL {
		return errors.WrapError(
			fmt.Errorf("next link repeats current page: %s", next),
			errors.ErrPagination,
			"update link state",
		)
	}
	p.nextURL = next
	return nil
}

// parseLinkHeader maps each rel to its target. Targets are read between
// <...> first, so commas inside a URL (e.g. fields=id,title) survive.
func parseLinkHeader(header string) map[string]string {
	links := make(map[string]string)
	for {
		start := strings.IndexByte(header, '<')
		if start < 0 {
			break
		}
		end := strings.IndexByte(header[start:], '>')
		if end < 0 {
			break
		}
		end += start
		target := strings.TrimSpace(header[start+1 : end])

		rest := header[end+1:]
		params := rest
		if next := strings.IndexByte(rest, '<'); next >= 0 {
			params = rest[:next]
		}
		header = rest[len(params):]
		if comma := strings.IndexByte(params, ','); comma >= 0 {
			params = params[:comma]
		}

		for _, param := range strings.Split(params, ";") {
			kv := strings.SplitN(strings.TrimSpace(param), "=", 2)
			if len(kv) != 2 || !strings.EqualFold(strings.TrimSpace(kv[0]), "rel") {
				continue
			}
			for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(kv[1]), `"`)) {
				links[rel] = target
			}
		}
	}
	return links
}

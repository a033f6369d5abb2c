package pagination

import "net/http"

// Pager drives one pagination strategy.
type Pager interface {
	NextRequest() (*http.Request, error)
	UpdateState(resp *http.Response) error
}

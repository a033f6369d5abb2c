package shopify

import (
	"fmt"
	"strings"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/logger"
)

// Session binds a shop to an API version and access token. It is passed
// explicitly to the calls that need it and is unusable after Close.
type Session struct {
	ShopURL    string
	APIVersion string

	auth   *auth.APIKeyAuth
	closed bool
}

// NewSession validates the credentials without touching the network.
func NewSession(shopURL, apiVersion, accessToken string) (*Session, error) {
	shopURL = normalizeShopURL(shopURL)
	if shopURL == "" || accessToken == "" {
		return nil, errors.WrapError(
			fmt.Errorf("shop url and access token are required"),
			errors.ErrMissingCredentials,
			"open session",
		)
	}
	if apiVersion == "" {
		return nil, errors.WrapError(
			fmt.Errorf("api version is required"),
			errors.ErrConfiguration,
			"open session",
		)
	}

	return &Session{
		ShopURL:    shopURL,
		APIVersion: apiVersion,
		auth:       auth.NewAccessTokenAuth(accessToken),
	}, nil
}

// Auth returns the handler that signs requests for this session.
func (s *Session) Auth() auth.Handler {
	return s.auth
}

// Active reports whether the session can still sign requests.
func (s *Session) Active() bool {
	return s != nil && !s.closed
}

// Close clears the credential. Safe to call more than once.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.auth.Clear()
	s.closed = true
}

// WithSession opens a session, runs fn with it and always closes it
// afterwards, including when fn fails or panics.
func WithSession(shopURL, apiVersion, accessToken string, fn func(*Session) error) error {
	sess, err := NewSession(shopURL, apiVersion, accessToken)
	if err != nil {
		return err
	}
	defer sess.Close()

	logger.WithComponent("shopify").Info("Connecting to shop", "shop", sess.ShopURL, "api_version", sess.APIVersion)
	return fn(sess)
}

func normalizeShopURL(shopURL string) string {
	shopURL = strings.TrimSpace(shopURL)
	shopURL = strings.TrimPrefix(shopURL, "https://")
	shopURL = strings.TrimPrefix(shopURL, "http://")
	return strings.TrimSuffix(shopURL, "/")
}

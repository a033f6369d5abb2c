package config

import "time"

// Config is everything one export run needs
type Config struct {
	ShopURL     string        `yaml:"shop_url"`              // Required: store hostname, e.g. example.myshopify.com
	AccessToken string        `yaml:"access_token"`          // Required: Admin API access token
	APIVersion  string        `yaml:"api_version,omitempty"` // Admin API version (default 2024-04)
	OutputFile  string        `yaml:"output_file,omitempty"` // NDJSON destination (default shopify_products.json)
	Endpoint    string        `yaml:"endpoint,omitempty"`    // Optional base URL override, defaults to https://{shop_url}
	Fields      []string      `yaml:"fields,omitempty"`      // Product field projection
	PageSize    int           `yaml:"page_size,omitempty"`   // Products per request
	Timeout     time.Duration `yaml:"timeout,omitempty"`     // HTTP client timeout
	Log         Log           `yaml:"log,omitempty"`
}

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

const (
	DefaultAPIVersion = "2024-04"
	DefaultOutputFile = "shopify_products.json"
	DefaultPageSize   = 250
	MaxPageSize       = 250
	DefaultTimeout    = 30 * time.Second
)

// DefaultFields is the product projection requested from the store
var DefaultFields = []string{
	"id", "title", "handle", "body_html", "product_type", "vendor", "tags",
	"published_at", "updated_at", "images", "variants",
}

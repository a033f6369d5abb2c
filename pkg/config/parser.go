package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/saturnines/catalog-export/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names an optional YAML file that replaces the built-in config
const ConfigEnvVar = "EXPORT_CONFIG"

//go:embed default.yaml
var defaultDocument []byte

type ValidationError struct {
	Field   string
	Message string
	Kind    error // optional, narrows errors.ErrConfiguration
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator interface {
	Validate(cfg *Config) []ValidationError
}

// DefaultValueSetter fills in values the document left empty
type DefaultValueSetter interface {
	SetDefaults(cfg *Config)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}

// Loader turns a YAML document into a validated Config
type Loader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewLoader creates a new Loader with the given components
func NewLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *Loader {
	return &Loader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires env expansion, defaults and every validator
func NewDefaultLoader() *Loader {
	return NewLoader(
		&EnvExpander{},
		&ExportDefaults{},
		&RequiredFieldValidator{},
		&ProjectionValidator{},
	)
}

// FromEnvironment loads the file named by EXPORT_CONFIG, or the built-in
// document when it is unset.
func FromEnvironment() (*Config, error) {
	loader := NewDefaultLoader()
	if path := os.Getenv(ConfigEnvVar); path != "" {
		return loader.Load(path)
	}
	return loader.Parse(defaultDocument)
}

// Load a config from a YAML file
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read config file")
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *Loader) Parse(data []byte) (*Config, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse YAML")
	}

	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&cfg)
	}

	var allErrors []ValidationError
	for _, validator := range l.validators {
		allErrors = append(allErrors, validator.Validate(&cfg)...)
	}

	if len(allErrors) > 0 {
		kind := errors.ErrConfiguration
		for _, e := range allErrors {
			if e.Kind != nil {
				kind = e.Kind
			}
		}
		return nil, errors.WrapError(
			fmt.Errorf("%v", allErrors),
			kind,
			"validation errors",
		)
	}

	return &cfg, nil
}

// ExportDefaults implements DefaultValueSetter
type ExportDefaults struct{}

// SetDefaults sets default values for Config
func (d *ExportDefaults) SetDefaults(cfg *Config) {
	cfg.ShopURL = strings.TrimSpace(cfg.ShopURL)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)

	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = DefaultOutputFile
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = append([]string(nil), DefaultFields...)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// RequiredFieldValidator checks the credentials needed before any network call
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.ShopURL == "" {
		errs = append(errs, ValidationError{
			Field:   "shop_url",
			Message: "is required (SHOP_URL)",
			Kind:    errors.ErrMissingCredentials,
		})
	}
	if cfg.AccessToken == "" {
		errs = append(errs, ValidationError{
			Field:   "access_token",
			Message: "is required (SHOPIFY_ACCESS_TOKEN)",
			Kind:    errors.ErrMissingCredentials,
		})
	}

	return errs
}

// ProjectionValidator validates the request shape and logging options
type ProjectionValidator struct{}

// Validate checks page size, field projection and log format
func (v *ProjectionValidator) Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		errs = append(errs, ValidationError{
			Field:   "page_size",
			Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize),
		})
	}

	hasID := false
	for _, f := range cfg.Fields {
		if f == "id" {
			hasID = true
		}
		if strings.TrimSpace(f) == "" || strings.Contains(f, ",") {
			errs = append(errs, ValidationError{Field: "fields", Message: fmt.Sprintf("invalid field name %q", f)})
		}
	}
	if !hasID {
		errs = append(errs, ValidationError{Field: "fields", Message: "must include id"})
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format: %s", cfg.Log.Format)})
	}

	return errs
}

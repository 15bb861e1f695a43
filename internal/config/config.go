package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is read from the process environment. Keys are the lower-cased
// variable names, so RAW_DATA_BUCKET lands in raw_data_bucket.
type Config struct {
	RawDataBucket       string `koanf:"raw_data_bucket" validate:"required"`
	ProcessedDataBucket string `koanf:"processed_data_bucket" validate:"required"`

	LogLevel  string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=json console"`

	S3 S3Config `koanf:",squash"`
}

// S3Config selects the object store. Endpoint is only set for S3-compatible
// stores (MinIO, Akave O3); AWS itself resolves endpoint and credentials from
// the default chain.
type S3Config struct {
	Region    string `koanf:"aws_region"`
	Endpoint  string `koanf:"s3_endpoint" validate:"omitempty,url"`
	AccessKey string `koanf:"s3_access_key"`
	SecretKey string `koanf:"s3_secret_key"`
}

const (
	DefaultRegion    = "us-east-1"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

var knownKeys = map[string]bool{
	"raw_data_bucket":       true,
	"processed_data_bucket": true,
	"log_level":             true,
	"log_format":            true,
	"aws_region":            true,
	"s3_endpoint":           true,
	"s3_access_key":         true,
	"s3_secret_key":         true,
}

// Load reads the environment (and an optional .env file for local runs) into
// a Config with defaults applied. It does not check required fields; callers
// run Validate when they need the buckets.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !knownKeys[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.RawDataBucket = strings.TrimSpace(c.RawDataBucket)
	c.ProcessedDataBucket = strings.TrimSpace(c.ProcessedDataBucket)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.S3.Region == "" {
		c.S3.Region = DefaultRegion
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return strings.ToUpper(name)
	})
	return v
}

// RequireBuckets checks only the two bucket names, the settings an
// invocation cannot run without.
func (c *Config) RequireBuckets() error {
	if c == nil {
		return errors.New("configuration not loaded")
	}
	return describe(validate.StructPartial(c, "RawDataBucket", "ProcessedDataBucket"))
}

// Validate checks every setting, including the optional ones. The error
// names the offending environment variables, e.g. "RAW_DATA_BUCKET is required".
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("configuration not loaded")
	}
	return describe(validate.Struct(c))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

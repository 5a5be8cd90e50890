package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/pioneer/pkg/relay"
	"github.com/haivivi/pioneer/pkg/timeline"
)

const (
	relayFile = "relay.yaml"
	dataDir   = "data"
)

// RelayConfig is the per-context relay.yaml file. Zero values fall back to
// the relay package defaults.
type RelayConfig struct {
	URL              string   `yaml:"url,omitempty" json:"url,omitempty"`
	Greeting         string   `yaml:"greeting,omitempty" json:"greeting,omitempty"`
	ReconnectDelay   string   `yaml:"reconnect_delay,omitempty" json:"reconnect_delay,omitempty"`
	RequestTimeout   string   `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
	LegacyEventNames bool     `yaml:"legacy_event_names,omitempty" json:"legacy_event_names,omitempty"`
	DataDir          string   `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	S3               S3Config `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// S3Config is the export target used by "timeline export s3://...".
type S3Config struct {
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
	UsePathStyle    bool   `yaml:"use_path_style,omitempty" json:"use_path_style,omitempty"`
}

// Keys lists the settable keys of relay.yaml, in display order.
var Keys = []string{
	"url",
	"greeting",
	"reconnect_delay",
	"request_timeout",
	"legacy_event_names",
	"data_dir",
	"s3.region",
	"s3.endpoint",
	"s3.access_key_id",
	"s3.secret_access_key",
	"s3.use_path_style",
}

// RelayPath returns the relay.yaml path of a context.
func (c *Config) RelayPath(context string) string {
	return filepath.Join(c.ContextDir(context), relayFile)
}

// LoadRelay reads relay.yaml of the named context. An empty context name or
// a missing file yields an empty config.
func (c *Config) LoadRelay(context string) (*RelayConfig, error) {
	rc := &RelayConfig{}
	if context == "" {
		return rc, nil
	}
	path := c.RelayPath(context)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rc, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// SaveRelay writes relay.yaml of the named context.
func (c *Config) SaveRelay(context string, rc *RelayConfig) error {
	dir := c.ContextDir(context)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("context %q not found", context)
	}
	data, err := yaml.Marshal(rc)
	if err != nil {
		return fmt.Errorf("marshal relay config: %w", err)
	}
	// May hold S3 credentials.
	if err := os.WriteFile(c.RelayPath(context), data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", c.RelayPath(context), err)
	}
	return nil
}

// DataDir returns the directory holding local state for a context. An
// explicit data_dir wins; otherwise it is <config>/data/<context>, with
// "default" standing in for no context.
func (c *Config) DataDir(context string, rc *RelayConfig) string {
	if rc != nil && rc.DataDir != "" {
		return rc.DataDir
	}
	if context == "" {
		context = "default"
	}
	return filepath.Join(c.Dir, dataDir, context)
}

// Validate checks the duration fields.
func (rc *RelayConfig) Validate() error {
	if _, err := parseDuration("reconnect_delay", rc.ReconnectDelay); err != nil {
		return err
	}
	if _, err := parseDuration("request_timeout", rc.RequestTimeout); err != nil {
		return err
	}
	return nil
}

// Set assigns one key from its string form.
func (rc *RelayConfig) Set(key, value string) error {
	switch key {
	case "url":
		rc.URL = value
	case "greeting":
		rc.Greeting = value
	case "reconnect_delay":
		if _, err := parseDuration(key, value); err != nil {
			return err
		}
		rc.ReconnectDelay = value
	case "request_timeout":
		if _, err := parseDuration(key, value); err != nil {
			return err
		}
		rc.RequestTimeout = value
	case "legacy_event_names":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		rc.LegacyEventNames = b
	case "data_dir":
		rc.DataDir = value
	case "s3.region":
		rc.S3.Region = value
	case "s3.endpoint":
		rc.S3.Endpoint = value
	case "s3.access_key_id":
		rc.S3.AccessKeyID = value
	case "s3.secret_access_key":
		rc.S3.SecretAccessKey = value
	case "s3.use_path_style":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		rc.S3.UsePathStyle = b
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// RelayOptions converts the config into relay options. Durations were
// checked by Validate or Set; unparsable values are skipped.
func (rc *RelayConfig) RelayOptions() []relay.Option {
	var opts []relay.Option
	if rc.URL != "" {
		opts = append(opts, relay.WithURL(rc.URL))
	}
	if rc.Greeting != "" {
		opts = append(opts, relay.WithGreeting(rc.Greeting))
	}
	if d, err := parseDuration("reconnect_delay", rc.ReconnectDelay); err == nil && d > 0 {
		opts = append(opts, relay.WithReconnectDelay(d))
	}
	if d, err := parseDuration("request_timeout", rc.RequestTimeout); err == nil && d > 0 {
		opts = append(opts, relay.WithRequestTimeout(d))
	}
	return opts
}

// TimelineS3 converts the s3 section into a timeline.S3Config.
func (rc *RelayConfig) TimelineS3() timeline.S3Config {
	return timeline.S3Config{
		Region:          rc.S3.Region,
		Endpoint:        rc.S3.Endpoint,
		AccessKeyID:     rc.S3.AccessKeyID,
		SecretAccessKey: rc.S3.SecretAccessKey,
		UsePathStyle:    rc.S3.UsePathStyle,
	}
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

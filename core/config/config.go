/*
Package config loads folio's YAML configuration and exposes it as a
schuko.Configuration.

A configuration file looks like this:

	tracing:
	  adapter: go
	  destination: Stderr
	  levels:
	    root: Error
	    folio.flow: Debug
	checkpoint:
	  store: ./folio.db
	  busy_timeout: 5000
	page:
	  auto_width: true
	  auto_height: true

Keys are flattened with dots, trace levels are found under prefix "trace",
e.g. "trace.folio.flow". This is the layout trace2go expects.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'folio.config'.
func tracer() tracing.Trace {
	return tracing.Select("folio.config")
}

// TracePrefix is the key prefix for trace levels.
const TracePrefix = "trace"

// Keys of well-known configuration values.
const (
	KeyTracingAdapter = "tracing.adapter"
	KeyTracingDest    = "tracing.destination"
	KeyStore          = "checkpoint.store"
	KeyBusyTimeout    = "checkpoint.busy_timeout"
	KeyAutoPageWidth  = "page.auto_width"
	KeyAutoPageHeight = "page.auto_height"
)

type fileFormat struct {
	Tracing struct {
		Adapter     string            `yaml:"adapter"`
		Destination string            `yaml:"destination"`
		Levels      map[string]string `yaml:"levels"`
	} `yaml:"tracing"`
	Checkpoint struct {
		Store       string `yaml:"store"`
		BusyTimeout *int   `yaml:"busy_timeout"`
	} `yaml:"checkpoint"`
	Page struct {
		AutoWidth  *bool `yaml:"auto_width"`
		AutoHeight *bool `yaml:"auto_height"`
	} `yaml:"page"`
}

// Config is a flat key/value configuration. It implements schuko.Configuration.
type Config struct {
	values map[string]string
}

var _ schuko.Configuration = (*Config)(nil)

// New creates a configuration holding the defaults only.
func New() *Config {
	c := &Config{values: make(map[string]string)}
	c.InitDefaults()
	return c
}

// Load reads a YAML configuration file. Missing values are set to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read configuration %s", path)
	}
	return Parse(data)
}

// Parse reads a YAML configuration from data.
func Parse(data []byte) (*Config, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "malformed configuration")
	}
	c := &Config{values: make(map[string]string)}
	c.set(KeyTracingAdapter, f.Tracing.Adapter)
	c.set(KeyTracingDest, f.Tracing.Destination)
	for key, level := range f.Tracing.Levels {
		c.set(TracePrefix+"."+key, level)
	}
	c.set(KeyStore, f.Checkpoint.Store)
	if f.Checkpoint.BusyTimeout != nil {
		c.set(KeyBusyTimeout, strconv.Itoa(*f.Checkpoint.BusyTimeout))
	}
	if f.Page.AutoWidth != nil {
		c.set(KeyAutoPageWidth, strconv.FormatBool(*f.Page.AutoWidth))
	}
	if f.Page.AutoHeight != nil {
		c.set(KeyAutoPageHeight, strconv.FormatBool(*f.Page.AutoHeight))
	}
	c.InitDefaults()
	return c, nil
}

func (c *Config) set(key, value string) {
	if value != "" {
		c.values[key] = value
	}
}

// Set overrides the value for key.
func (c *Config) Set(key, value string) {
	c.values[key] = value
}

// InitDefaults sets defaults for all keys not yet set.
func (c *Config) InitDefaults() {
	defaults := map[string]string{
		KeyTracingAdapter:     "go",
		TracePrefix + ".root": "Error",
		KeyStore:              "folio.db",
		KeyBusyTimeout:        "5000",
		KeyAutoPageWidth:      "true",
		KeyAutoPageHeight:     "true",
	}
	for k, v := range defaults {
		if _, ok := c.values[k]; !ok {
			c.values[k] = v
		}
	}
}

// IsSet is part of interface schuko.Configuration.
func (c *Config) IsSet(key string) bool {
	_, ok := c.values[key]
	return ok
}

// GetString is part of interface schuko.Configuration.
func (c *Config) GetString(key string) string {
	return c.values[key]
}

// GetInt is part of interface schuko.Configuration.
func (c *Config) GetInt(key string) int {
	n, err := strconv.Atoi(c.values[key])
	if err != nil {
		return 0
	}
	return n
}

// GetBool is part of interface schuko.Configuration.
func (c *Config) GetBool(key string) bool {
	b, _ := strconv.ParseBool(c.values[key])
	return b
}

// IsInteractive is part of interface schuko.Configuration. Always false.
func (c *Config) IsInteractive() bool {
	return false
}

// TraceKeys returns all tracer keys with a configured level.
func (c *Config) TraceKeys() []string {
	var keys []string
	for k := range c.values {
		if strings.HasPrefix(k, TracePrefix+".") {
			keys = append(keys, strings.TrimPrefix(k, TracePrefix+"."))
		}
	}
	return keys
}

// SetupTracing installs tracers configured from c. The Go log adapter is
// registered under key "go".
func SetupTracing(c *Config) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(c, TracePrefix, trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("tracing configured with adapter %q", c.GetString(KeyTracingAdapter))
	return nil
}

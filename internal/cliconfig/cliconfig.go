// Package cliconfig loads cmd/jp's optional YAML configuration file of
// named, reusable JMESPath queries, in the style of internal/rq/yaml's
// goccy/go-yaml encode/decode idiom and internal/config's sentinel-error
// CLI-mistake reporting.
package cliconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

var (
	// ErrNoSuchQuery is returned by Config.Lookup when the requested name is
	// not present in the config file.
	ErrNoSuchQuery = errors.New("no saved query with that name")
	// ErrEmptyQueryName is returned by Lookup when called with an empty name.
	ErrEmptyQueryName = errors.New("saved query name cannot be empty")
)

// Config is the decoded shape of cmd/jp's --config YAML file:
//
//	queries:
//	  names: "people[*].name"
//	  adults: "people[?age >= `18`]"
type Config struct {
	Queries map[string]string `yaml:"queries"`
}

// Load reads and decodes the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Lookup resolves a saved query by name.
func (c *Config) Lookup(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyQueryName
	}
	expr, ok := c.Queries[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoSuchQuery, name)
	}
	return expr, nil
}

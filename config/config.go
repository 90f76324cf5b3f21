// Package config assembles evaluator configuration from environment
// variables (spec.md §6) and an optional YAML overlay file, grounded on
// the teacher's yaml/unmarshal.go use of gopkg.in/yaml.v2 (there
// decoding YAML into the value universe; here decoding it into a plain
// config struct, since a config file has none of the context-propagation
// concerns a first-class fromYAML primop has).
package config

import (
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config holds every environment-variable and file-based knob spec.md
// and SPEC_FULL.md name.
type Config struct {
	// UnsafeEqualityDisabled mirrors NIX_NO_UNSAFE_EQ (spec.md §6):
	// present and non-empty disables a permissive equality mode. Reserved
	// per spec.md §9 ("allowUnsafeEquality flag ... not consulted").
	UnsafeEqualityDisabled bool `yaml:"-"`

	// ShowStats mirrors NIX_SHOW_STATS=1 (spec.md §6).
	ShowStats bool `yaml:"-"`

	// ReadOnlyStore selects computeStorePathForPath over addToStore
	// during path coercion (spec.md §4.5).
	ReadOnlyStore bool `yaml:"readOnlyStore"`

	// MaxCallDepth bounds logical dispatcher recursion (SPEC_FULL.md §5's
	// stack-depth guard). Zero means "no explicit limit beyond the host
	// stack", matching spec.md §4.1's "bounded by the host stack" note.
	MaxCallDepth int `yaml:"maxCallDepth"`

	// SearchPath is decoded from the overlay but is not read by the
	// evaluator: store.Store.ResolveSearchPath uses the search path the
	// store itself was built with (e.g. store.NewMemStore's searchPath).
	SearchPath []string `yaml:"searchPath"`

	// MinLangVersion, if set, is checked against langversion.Current at
	// startup (SPEC_FULL.md §5).
	MinLangVersion string `yaml:"minLangVersion"`
}

// FromEnv reads the two environment variables spec.md §6 defines.
func FromEnv() *Config {
	c := &Config{}
	if v := os.Getenv(`NIX_NO_UNSAFE_EQ`); v != `` {
		c.UnsafeEqualityDisabled = true
	}
	if os.Getenv(`NIX_SHOW_STATS`) == `1` {
		c.ShowStats = true
	}
	return c
}

// LoadOverlay decodes the YAML file at path over c, leaving c untouched
// on any read/parse error other than the file simply not existing (which
// is not an error: the overlay is optional).
func (c *Config) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	overlay := struct {
		ReadOnlyStore  bool     `yaml:"readOnlyStore"`
		MaxCallDepth   int      `yaml:"maxCallDepth"`
		SearchPath     []string `yaml:"searchPath"`
		MinLangVersion string   `yaml:"minLangVersion"`
	}{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	c.ReadOnlyStore = overlay.ReadOnlyStore
	c.MaxCallDepth = overlay.MaxCallDepth
	c.SearchPath = overlay.SearchPath
	c.MinLangVersion = overlay.MinLangVersion
	return nil
}

// FromEnvAndFile is the usual construction path: environment variables
// first, then an optional NIX_EVAL_CONFIG-pointed YAML overlay.
func FromEnvAndFile() (*Config, error) {
	c := FromEnv()
	if path := os.Getenv(`NIX_EVAL_CONFIG`); path != `` {
		if err := c.LoadOverlay(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

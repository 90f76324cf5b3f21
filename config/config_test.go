package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvReadsBothVariables(t *testing.T) {
	t.Setenv(`NIX_NO_UNSAFE_EQ`, `1`)
	t.Setenv(`NIX_SHOW_STATS`, `1`)
	c := FromEnv()
	if !c.UnsafeEqualityDisabled || !c.ShowStats {
		t.Errorf(`expected both flags set, got %+v`, c)
	}
}

func TestFromEnvLeavesFlagsUnsetByDefault(t *testing.T) {
	t.Setenv(`NIX_NO_UNSAFE_EQ`, ``)
	t.Setenv(`NIX_SHOW_STATS`, ``)
	c := FromEnv()
	if c.UnsafeEqualityDisabled || c.ShowStats {
		t.Errorf(`expected both flags unset, got %+v`, c)
	}
}

func TestLoadOverlayMissingFileIsNotAnError(t *testing.T) {
	c := &Config{}
	if err := c.LoadOverlay(filepath.Join(t.TempDir(), `nope.yaml`)); err != nil {
		t.Errorf(`expected a missing overlay file to be a no-op, got %v`, err)
	}
}

func TestLoadOverlayDecodesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), `overlay.yaml`)
	body := "readOnlyStore: true\nmaxCallDepth: 250\nsearchPath: [\"/a\", \"/b\"]\nminLangVersion: \"1.2.0\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Config{}
	if err := c.LoadOverlay(path); err != nil {
		t.Fatal(err)
	}
	if !c.ReadOnlyStore || c.MaxCallDepth != 250 || len(c.SearchPath) != 2 || c.MinLangVersion != `1.2.0` {
		t.Errorf(`unexpected overlay result: %+v`, c)
	}
}

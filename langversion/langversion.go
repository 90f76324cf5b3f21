// Package langversion stamps this evaluator with a semver version,
// grounded on the teacher's semver/version.go (ParseVersion, CompareTo,
// String), used by primops.NewBaseEnvironment to bind
// builtins.langVersion and by evaluator.New to check
// config.Config.MinLangVersion.
package langversion

import (
	"fmt"

	"github.com/lyraproj/semver/semver"
)

// Current is this evaluator's own language version.
var Current = mustParse(`0.1.0`)

func mustParse(s string) semver.Version {
	v, err := semver.ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders Current the way builtins.langVersion should appear.
func String() string { return Current.String() }

// CheckMinimum returns an error if Current is older than the minimum
// version string min (SPEC_FULL.md §5's minLangVersion pin). An empty
// min always passes.
func CheckMinimum(min string) error {
	if min == `` {
		return nil
	}
	required, err := semver.ParseVersion(min)
	if err != nil {
		return fmt.Errorf(`invalid minLangVersion %q: %w`, min, err)
	}
	if Current.CompareTo(required) < 0 {
		return fmt.Errorf(`language version %s is older than required minimum %s`, Current, required)
	}
	return nil
}

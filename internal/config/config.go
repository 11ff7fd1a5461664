// Package config loads the target platform parameters the resolver needs
// for sizeof/alignof computation (spec.md §4.3.2): pointer width and the
// platform's native int size. Grounded on the
// teacher's internal/config/config.go (env-var defaults layered under
// overrides) and internal/config/cli.go (pflag-based flag parsing), with a
// YAML base file added the way pack repos load structured config (see
// DESIGN.md).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/thelilylang/lily-sub004/internal/resolver"
)

// Target describes one target platform's layout parameters, serialized as
// YAML (`pointer_size`, `int_size`).
type Target struct {
	PointerSize uint64 `yaml:"pointer_size"`
	IntSize     uint64 `yaml:"int_size"`
}

// Platform converts t into the resolver.Platform the layout engine expects.
func (t Target) Platform() resolver.Platform {
	return resolver.Platform{PointerSize: t.PointerSize, IntSize: t.IntSize}
}

// Config holds the fully resolved compiler configuration: the effective
// target layout plus any toolchain-level flags the driver needs.
type Config struct {
	Target  Target
	Verbose bool
	JSON    bool
}

// defaultTarget matches resolver.DefaultPlatform (8-byte pointers, 4-byte
// int), the teacher's config.go pattern of hardcoded defaults applied
// before any override source is consulted.
var defaultTarget = Target{PointerSize: 8, IntSize: 4}

// LoadFile reads a YAML target-platform file at path. A missing file is not
// an error — the caller falls back to defaultTarget, mirroring the
// teacher's "defaults first, overrides layered on top" convention.
func LoadFile(path string) (Target, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultTarget, nil
	}
	if err != nil {
		return Target{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Target{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if t.PointerSize == 0 {
		t.PointerSize = defaultTarget.PointerSize
	}
	if t.IntSize == 0 {
		t.IntSize = defaultTarget.IntSize
	}
	return t, nil
}

// LoadEnv applies LILYC_* environment-variable overrides on top of t,
// loading a .env file first via godotenv (a missing .env file is
// silently ignored).
func LoadEnv(t Target) Target {
	_ = godotenv.Load()

	if v := os.Getenv("LILYC_POINTER_SIZE"); v != "" {
		if n, err := parseUint(v); err == nil && n > 0 {
			t.PointerSize = n
		}
	}
	if v := os.Getenv("LILYC_INT_SIZE"); v != "" {
		if n, err := parseUint(v); err == nil && n > 0 {
			t.IntSize = n
		}
	}
	return t
}

func parseUint(s string) (uint64, error) {
	var n uint64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

// BuildFromFlags parses args with pflag and produces the final Config,
// layering flag overrides on top of the YAML+env target — the same
// defaults-then-env-then-flags order the teacher's
// internal/config/cli.go's BuildConfigFromFlags follows.
func BuildFromFlags(args []string, configPath string) (*Config, error) {
	target, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	target = LoadEnv(target)

	fs := pflag.NewFlagSet("lilyc", pflag.ContinueOnError)
	pointerSize := fs.Uint64("pointer-size", target.PointerSize, "Target pointer width in bytes.")
	intSize := fs.Uint64("int-size", target.IntSize, "Target native int width in bytes.")
	verbose := fs.BoolP("verbose", "v", false, "Enable verbose output.")
	jsonOut := fs.BoolP("json", "j", false, "Emit machine-readable diagnostics.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Target:  Target{PointerSize: *pointerSize, IntSize: *intSize},
		Verbose: *verbose,
		JSON:    *jsonOut,
	}, nil
}

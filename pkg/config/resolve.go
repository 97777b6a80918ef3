package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// configFileNames are tried, in order, when no explicit path is given.
var configFileNames = []string{"_config.yml", "_config.yaml", "_config.toml"}

// Resolve loads one or more configuration files in declaration order,
// deep-merging later files over earlier ones, applies the environment-named
// override file (if present), fills unspecified keys from DefaultConfig,
// and finally applies JEKYLLGO_-prefixed environment variable overrides.
// This is the sole entry point for configuration; per spec.md §4.1 later
// stages must not read configuration files themselves.
func Resolve(source string, explicitPaths []string, env string) (*model.Config, error) {
	paths := explicitPaths
	if len(paths) == 0 {
		if p, ok := discover(source); ok {
			paths = []string{p}
		}
	}

	raw := map[string]interface{}{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, model.NewBuildError(model.ConfigError, model.Location{Path: p}, err)
		}
		format, err := FormatFromPath(p)
		if err != nil {
			return nil, model.NewBuildError(model.ConfigError, model.Location{Path: p}, err)
		}
		parsed, err := ParseFile(data, format)
		if err != nil {
			if be, ok := err.(*model.BuildError); ok {
				be.Location.Path = p
				return nil, be
			}
			return nil, model.NewBuildError(model.ConfigError, model.Location{Path: p}, err)
		}
		raw = MergeRaw(raw, parsed)
	}

	if env != "" {
		for _, base := range paths {
			envPath := envConfigPath(base, env)
			data, err := os.ReadFile(envPath)
			if err != nil {
				continue // environment override file is optional
			}
			format, ferr := FormatFromPath(envPath)
			if ferr != nil {
				continue
			}
			parsed, perr := ParseFile(data, format)
			if perr != nil {
				return nil, perr
			}
			raw = MergeRaw(raw, parsed)
		}
	}

	cfg := ApplyRaw(DefaultConfig(), raw)
	if cfg.Source == "." && source != "" {
		cfg.Source = source
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, model.NewBuildError(model.ConfigError, model.Location{}, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// discover searches source for the first recognized config file name.
func discover(source string) (string, bool) {
	for _, name := range configFileNames {
		p := filepath.Join(source, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// envConfigPath derives "_config.<env>.yml" from "_config.yml" (spec.md
// §6: "_config.<env>.<yml|toml>").
func envConfigPath(base, env string) string {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return fmt.Sprintf("%s.%s%s", stem, env, ext)
}

// validate rejects configuration combinations the spec treats as fatal
// (§9 Open Question: pagination keys are v1-shaped; unknown keys reject).
func validate(cfg *model.Config) error {
	// paginate and paginate_path are consumed by ApplyRaw, so any pagination
	// key left in Variables (paginate_v2, pagination, ...) is unknown.
	for k := range cfg.Variables {
		if strings.HasPrefix(k, "paginat") {
			return model.NewBuildError(model.ConfigError, model.Location{}, fmt.Errorf("unknown pagination key %q (paginate_v2-style keys are not supported); use paginate/paginate_path", k))
		}
	}
	if cfg.Paginate < 0 {
		return model.NewBuildError(model.ConfigError, model.Location{}, fmt.Errorf("paginate must be >= 0"))
	}
	return nil
}

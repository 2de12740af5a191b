// Package config loads dtkit settings. Sources are applied in order, each
// overriding the last: built-in defaults, the YAML config file, DTKIT_*
// environment variables, and explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/go-drift/dtkit/pkg/core"
	dterrors "github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/storage"
	"github.com/go-drift/dtkit/pkg/theme"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "dtkit.yaml"

// EnvPrefix prefixes environment overrides: DTKIT_TOAST_DURATION sets
// toast.duration.
const EnvPrefix = "DTKIT_"

// Config is the resolved configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Render  RenderConfig  `koanf:"render"`
	Theme   ThemeConfig   `koanf:"theme"`
	Toast   ToastConfig   `koanf:"toast"`
	Tooltip TooltipConfig `koanf:"tooltip"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Human bool   `koanf:"human"`
}

type RenderConfig struct {
	ReentrancyCap int `koanf:"reentrancy_cap" validate:"min=1,max=16"`
}

type ThemeConfig struct {
	Key     string `koanf:"key" validate:"required"`
	Default string `koanf:"default" validate:"oneof=light dark"`
	Store   string `koanf:"store" validate:"oneof=memory file sqlite"`
	Path    string `koanf:"path" validate:"required_unless=Store memory"`
}

type ToastConfig struct {
	Duration     time.Duration `koanf:"duration" validate:"min=0"`
	RemovalDelay time.Duration `koanf:"removal_delay" validate:"gt=0"`
}

type TooltipConfig struct {
	ShowDelay time.Duration `koanf:"show_delay" validate:"min=0"`
	HideDelay time.Duration `koanf:"hide_delay" validate:"gt=0"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	timing := core.DefaultTiming()
	return map[string]any{
		"log.level":             "info",
		"log.human":             false,
		"render.reentrancy_cap": 3,
		"theme.key":             theme.DefaultKey,
		"theme.default":         string(theme.BrightnessLight),
		"theme.store":           string(storage.KindMemory),
		"theme.path":            "",
		"toast.duration":        timing.ToastDuration.String(),
		"toast.removal_delay":   timing.ToastRemovalDelay.String(),
		"tooltip.show_delay":    timing.TooltipShowDelay.String(),
		"tooltip.hide_delay":    timing.TooltipHideDelay.String(),
	}
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are ignored by the loader.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-human":      "log.human",
	"reentrancy-cap": "render.reentrancy_cap",
	"theme-store":    "theme.store",
	"theme-path":     "theme.path",
}

// Loader assembles a Config from its sources.
type Loader struct {
	// Path is the config file. Empty means DefaultPath; a missing file is
	// not an error.
	Path string
	// Flags are merged last. Only flags the user set override other sources.
	Flags *pflag.FlagSet
}

// Load reads every source and validates the result.
func (l Loader) Load() (*Config, error) {
	k := koanf.New(".")
	for key, v := range Defaults() {
		if err := k.Set(key, v); err != nil {
			return nil, configError("defaults", err)
		}
	}

	path := l.Path
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, configError("file", fmt.Errorf("loading config file %s: %w", path, err))
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, configError("file", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, configError("env", fmt.Errorf("loading environment variables: %w", err))
	}

	if l.Flags != nil {
		provider := posflag.ProviderWithFlag(l.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(l.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, configError("flags", fmt.Errorf("loading command flags: %w", err))
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, configError("unmarshal", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envValue maps DTKIT_TOAST_REMOVAL_DELAY to toast.removal_delay: the first
// underscore after the prefix separates the section.
func envKey(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.Replace(key, "_", ".", 1), value
}

// Load is Loader{Path: path, Flags: flags}.Load().
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	return Loader{Path: path, Flags: flags}.Load()
}

// Timing returns the component timing the config selects. A toast duration
// or tooltip show delay of 0 means none, not the default.
func (c *Config) Timing() core.Timing {
	return core.Timing{
		ToastDuration:     orOff(c.Toast.Duration),
		ToastRemovalDelay: c.Toast.RemovalDelay,
		TooltipShowDelay:  orOff(c.Tooltip.ShowDelay),
		TooltipHideDelay:  c.Tooltip.HideDelay,
	}
}

func orOff(d time.Duration) time.Duration {
	if d == 0 {
		return core.Off
	}
	return d
}

// Logging returns logger options for the config.
func (c *Config) Logging() logging.Options {
	return logging.Options{Level: c.Log.Level, HumanReadable: c.Log.Human}
}

// OpenStore opens the theme store the config names.
func (c *Config) OpenStore() (storage.KV, error) {
	return storage.Open(storage.Kind(c.Theme.Store), c.Theme.Path)
}

func configError(op string, err error) error {
	return &dterrors.RuntimeError{Op: "config." + op, Kind: dterrors.KindConfig, Err: err}
}

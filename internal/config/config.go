// Package config loads CLI settings from formstate.yaml, FORMSTATE_*
// environment variables and bound command flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

const (
	// FileName is the config file base name searched for in SearchPaths.
	FileName = "formstate"
	// EnvPrefix prefixes environment overrides, e.g. FORMSTATE_OUTPUT.
	EnvPrefix = "FORMSTATE"
)

// Keys shared between the config file, env vars and cobra flags.
const (
	KeyOutput   = "output"
	KeyLocale   = "locale"
	KeyMessages = "messages"
	KeyTheme    = "theme"
	KeyVariant  = "variant"
	KeyMode     = "mode"
	KeyDebug    = "debug"
	KeyLogFile  = "log.file"
	KeyLogLevel = "log.level"
)

// Config is the resolved CLI configuration.
type Config struct {
	Output   string    `mapstructure:"output"`
	Locale   string    `mapstructure:"locale"`
	Messages string    `mapstructure:"messages"`
	Theme    string    `mapstructure:"theme"`
	Variant  string    `mapstructure:"variant"`
	Mode     string    `mapstructure:"mode"`
	Debug    bool      `mapstructure:"debug"`
	Log      LogConfig `mapstructure:"log"`
}

// LogConfig configures internal/log.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Format returns the parsed submission format.
func (c Config) Format() render.Format {
	format, err := render.ParseFormat(c.Output)
	if err != nil {
		return render.FormatJSON
	}
	return format
}

// Validate rejects values the commands cannot act on.
func (c Config) Validate() error {
	var errs []error
	if _, err := render.ParseFormat(c.Output); err != nil {
		errs = append(errs, err)
	}
	if c.Mode != "" {
		if _, err := formstate.ParseMode(c.Mode); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// New returns a viper instance with defaults, env binding and the standard
// search paths applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutput, string(render.FormatJSON))
	v.SetDefault(KeyLocale, "en")
	v.SetDefault(KeyMessages, "")
	v.SetDefault(KeyTheme, render.DefaultThemeName)
	v.SetDefault(KeyVariant, "")
	v.SetDefault(KeyMode, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	for _, dir := range SearchPaths() {
		v.AddConfigPath(dir)
	}
	return v
}

// SearchPaths lists the directories searched for formstate.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "formstate"))
	}
	return paths
}

// Load reads the config file (an explicit path wins over the search paths)
// and decodes the merged settings. A missing file in the search paths is
// not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	} else {
		log.Debug(log.CatConfig, "loaded config", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

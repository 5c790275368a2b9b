package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "chalkup/internal/platform/errors"
)

const (
	FileName  = "chalkup.yaml"
	envPrefix = "CHALKUP"
)

// Config is read from <data>/chalkup.yaml with CHALKUP_* overrides.
// Nested keys map to env names with underscores, e.g. CHALKUP_AUTO_REST_SECONDS.
type Config struct {
	DataPath    string `mapstructure:"-"`
	DBPath      string `mapstructure:"-"`
	CatalogPath string `mapstructure:"-"`
	LogPath     string `mapstructure:"-"`

	WeightUnit  string         `mapstructure:"weight_unit"`
	AutoRest    AutoRestConfig `mapstructure:"auto_rest"`
	RestPresets []int          `mapstructure:"rest_presets"`
	Cue         CueConfig      `mapstructure:"cue"`
	Log         LogConfig      `mapstructure:"log"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

type AutoRestConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Seconds int  `mapstructure:"seconds"`
}

type CueConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Bell       bool   `mapstructure:"bell"`
	PluginPath string `mapstructure:"plugin_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

func New(dataPath string) (Config, error) {
	return Load(dataPath)
}

// Load resolves the configuration under dataPath. A missing config file is
// not an error; defaults and environment overrides still apply.
func Load(dataPath string) (Config, error) {
	if strings.TrimSpace(dataPath) == "" {
		return Config{}, fmt.Errorf("data path is required")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(dataPath, FileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataPath = dataPath
	cfg.DBPath = filepath.Join(dataPath, ".chalkup", "chalkup.db")
	cfg.CatalogPath = filepath.Join(dataPath, "catalog.yaml")
	cfg.LogPath = filepath.Join(dataPath, ".chalkup", "chalkup.log")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("weight_unit", "kg")
	v.SetDefault("auto_rest.enabled", true)
	v.SetDefault("auto_rest.seconds", 120)
	v.SetDefault("rest_presets", []int{60, 120, 180})
	v.SetDefault("cue.enabled", true)
	v.SetDefault("cue.bell", true)
	v.SetDefault("cue.plugin_path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.endpoint", "")
	v.SetDefault("metrics.insecure", false)
}

func (c Config) Validate() error {
	switch c.WeightUnit {
	case "kg", "lbs":
	default:
		return fmt.Errorf("%w: weight_unit must be kg or lbs, got %q", apperrors.ErrInvalidConfiguration, c.WeightUnit)
	}
	if c.AutoRest.Seconds <= 0 {
		return fmt.Errorf("%w: auto_rest.seconds must be positive", apperrors.ErrInvalidConfiguration)
	}
	for _, seconds := range c.RestPresets {
		if seconds <= 0 {
			return fmt.Errorf("%w: rest presets must be positive", apperrors.ErrInvalidConfiguration)
		}
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Endpoint) == "" {
		return fmt.Errorf("%w: metrics.endpoint is required when metrics are enabled", apperrors.ErrInvalidConfiguration)
	}
	return nil
}

package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SourceType identifies where feed pages come from
type SourceType string

const (
	SourceTypeHTTP    SourceType = "http"
	SourceTypeFixture SourceType = "fixture"
)

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig selects and configures the feed backend
type SourceConfig struct {
	Type     SourceType    `mapstructure:"type"`      // "http" or "fixture"
	BaseURL  string        `mapstructure:"base_url"`  // link-draw API root
	FeedFile string        `mapstructure:"feed_file"` // YAML feed for the fixture source
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LayoutConfig holds the waterfall parameters, in terminal cells
type LayoutConfig struct {
	Columns     int     `mapstructure:"columns"`
	Gap         int     `mapstructure:"gap"`          // blank cells between columns and rows
	Buffer      int     `mapstructure:"buffer"`       // rows kept mounted beyond the viewport
	LoadAhead   int     `mapstructure:"load_ahead"`   // rows before the end that request more
	PageSize    int     `mapstructure:"page_size"`
	CaptionRows int     `mapstructure:"caption_rows"` // title and author lines under the picture
	CellAspect  float64 `mapstructure:"cell_aspect"`  // cell width divided by cell height
}

// ViewerConfig holds the image viewer configuration
type ViewerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// CacheConfig holds page cache configuration
type CacheConfig struct {
	Dir string        `mapstructure:"dir"` // empty keeps pages in memory only
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:    SourceTypeHTTP,
			BaseURL: "https://api.vc.bilibili.com",
			Timeout: 30 * time.Second,
		},
		Layout: LayoutConfig{
			Columns:     2,
			Gap:         1,
			Buffer:      10,
			LoadAhead:   4,
			PageSize:    20,
			CaptionRows: 4,
			CellAspect:  0.5,
		},
		Viewer: ViewerConfig{
			Args: []string{},
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
			TTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Validate rejects layouts the waterfall cannot build
func (c *Config) Validate() error {
	var errs []error
	if c.Layout.Columns <= 0 {
		errs = append(errs, fmt.Errorf("layout.columns must be greater than zero, got %d", c.Layout.Columns))
	}
	if c.Layout.Gap < 0 {
		errs = append(errs, fmt.Errorf("layout.gap must not be negative, got %d", c.Layout.Gap))
	}
	if c.Layout.Buffer < 0 {
		errs = append(errs, fmt.Errorf("layout.buffer must not be negative, got %d", c.Layout.Buffer))
	}
	if c.Layout.LoadAhead < 0 {
		errs = append(errs, fmt.Errorf("layout.load_ahead must not be negative, got %d", c.Layout.LoadAhead))
	}
	if c.Layout.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("layout.page_size must be greater than zero, got %d", c.Layout.PageSize))
	}
	if c.Layout.CellAspect <= 0 {
		errs = append(errs, fmt.Errorf("layout.cell_aspect must be positive, got %v", c.Layout.CellAspect))
	}
	switch c.Source.Type {
	case SourceTypeHTTP:
		if c.Source.BaseURL == "" {
			errs = append(errs, errors.New("source.base_url is required for the http source"))
		}
	case SourceTypeFixture:
		if c.Source.FeedFile == "" {
			errs = append(errs, errors.New("source.feed_file is required for the fixture source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source type: %q", c.Source.Type))
	}
	return errors.Join(errs...)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mosaic", "mosaic.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mosaic", "mosaic.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mosaic")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mosaic")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "mosaic", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mosaic", "cache")
	}
}

// envKeyReplacer maps nested keys to environment names (layout.columns -> LAYOUT_COLUMNS)
var envKeyReplacer = strings.NewReplacer(".", "_")

// LoadConfigFrom loads configuration from file, or searches the default
// locations when file is empty. MOSAIC_* environment variables override both.
func LoadConfigFrom(file string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. MOSAIC_LAYOUT_COLUMNS
	v.SetEnvPrefix("MOSAIC")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file
func bindDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.SetDefault(key, value)
	}
}

// configValues flattens the config into viper keys (snake_case)
func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"source.type":         string(cfg.Source.Type),
		"source.base_url":     cfg.Source.BaseURL,
		"source.feed_file":    cfg.Source.FeedFile,
		"source.timeout":      cfg.Source.Timeout.String(),
		"layout.columns":      cfg.Layout.Columns,
		"layout.gap":          cfg.Layout.Gap,
		"layout.buffer":       cfg.Layout.Buffer,
		"layout.load_ahead":   cfg.Layout.LoadAhead,
		"layout.page_size":    cfg.Layout.PageSize,
		"layout.caption_rows": cfg.Layout.CaptionRows,
		"layout.cell_aspect":  cfg.Layout.CellAspect,
		"viewer.command":      cfg.Viewer.Command,
		"viewer.args":         cfg.Viewer.Args,
		"cache.dir":           cfg.Cache.Dir,
		"cache.ttl":           cfg.Cache.TTL.String(),
		"logging.file":        cfg.Logging.File,
		"logging.level":       cfg.Logging.Level,
	}
}

// DefaultConfigFile is the file LoadConfigFrom finds first when no file is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// SaveConfigTo writes the configuration to file
func SaveConfigTo(cfg *Config, file string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached pages
func ClearCache(dir string) error {
	if dir == "" {
		dir = defaultCachePath()
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the default cache directory path
func GetCachePath() string {
	return defaultCachePath()
}

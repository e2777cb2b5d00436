package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSampleDt = 0.1
	DefaultDuration = 60.0
	DefaultFPS      = 30
	DefaultTheme    = "cyberpunk"
	DefaultDataDir  = ".symcycle"
	DefaultAddr     = ":8080"
	DefaultWidth    = 480
	DefaultHeight   = 480

	EnvPrefix = "SYMCYCLE_"
)

var ErrInvalid = errors.New("config: invalid value")

// Config covers everything around the animation. The symbol catalog and the
// phase timings are fixed and deliberately absent.
type Config struct {
	Seed    int64        `yaml:"seed"`
	DataDir string       `yaml:"data_dir"`
	Trace   TraceConfig  `yaml:"trace"`
	View    ViewConfig   `yaml:"view"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
}

type TraceConfig struct {
	SampleDt float64 `yaml:"sample_dt"`
	Duration float64 `yaml:"duration"`
}

type ViewConfig struct {
	FPS    int    `yaml:"fps"`
	Theme  string `yaml:"theme"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Trace: TraceConfig{
			SampleDt: DefaultSampleDt,
			Duration: DefaultDuration,
		},
		View: ViewConfig{
			FPS:    DefaultFPS,
			Theme:  DefaultTheme,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			AllowOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads environment variables from path. Missing files are ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from SYMCYCLE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q", ErrInvalid, EnvPrefix, v)
		}
		c.Seed = seed
	}
	if v, ok := lookup("FPS"); ok {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sFPS=%q", ErrInvalid, EnvPrefix, v)
		}
		c.View.FPS = fps
	}
	if v, ok := lookup("DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := lookup("THEME"); ok {
		c.View.Theme = v
	}
	if v, ok := lookup("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("ALLOW_ORIGINS"); ok {
		c.Server.AllowOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := lookup("LOG_FILE"); ok {
		c.Log.File = v
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Trace.SampleDt <= 0 {
		return fmt.Errorf("%w: trace.sample_dt must be positive, got %f", ErrInvalid, c.Trace.SampleDt)
	}
	if c.Trace.Duration <= 0 {
		return fmt.Errorf("%w: trace.duration must be positive, got %f", ErrInvalid, c.Trace.Duration)
	}
	if c.View.FPS <= 0 || c.View.FPS > 240 {
		return fmt.Errorf("%w: view.fps must be in 1..240, got %d", ErrInvalid, c.View.FPS)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

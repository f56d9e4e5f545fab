package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/liuscraft/tonegen/internal/tone"
)

const (
	DefaultPath       = "config/tonegen.json"
	DefaultOutputPath = "build/sine_220hz.wav"
	DefaultDotEnvPath = ".env"
)

type AppConfig struct {
	Logging LoggingConfig `json:"logging"`
	Tone    ToneConfig    `json:"tone"`
	Output  OutputConfig  `json:"output"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type ToneConfig struct {
	SampleRate int     `json:"sample_rate"`
	Frequency  float64 `json:"frequency"`
	Duration   float64 `json:"duration"`
	Amplitude  float64 `json:"amplitude"`
}

type OutputConfig struct {
	Path string `json:"path"`
}

func DefaultConfig() *AppConfig {
	p := tone.DefaultParams()
	return &AppConfig{
		Logging: LoggingConfig{},
		Tone: ToneConfig{
			SampleRate: p.SampleRate,
			Frequency:  p.Frequency,
			Duration:   p.Duration,
			Amplitude:  p.Amplitude,
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
	}
}

func (c ToneConfig) Params() tone.Params {
	return tone.Params{
		SampleRate: c.SampleRate,
		Frequency:  c.Frequency,
		Duration:   c.Duration,
		Amplitude:  c.Amplitude,
	}
}

// Load 不做校验，调用方叠加命令行参数后再调用 Validate
func Load(path string) (*AppConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadDotEnv 文件不存在时什么也不做，已有的环境变量不会被覆盖
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) ApplyEnv() {
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		c.Logging.Level = level
	}
	if format := strings.TrimSpace(os.Getenv("LOG_FORMAT")); format != "" {
		c.Logging.Format = format
	}
	if output := strings.TrimSpace(os.Getenv("TONEGEN_OUTPUT")); output != "" {
		c.Output.Path = output
	}
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Output.Path) == "" {
		return errors.New("output.path is required")
	}
	if err := c.Tone.Params().Validate(); err != nil {
		return fmt.Errorf("tone: %w", err)
	}
	return nil
}

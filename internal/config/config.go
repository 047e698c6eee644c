package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Google  GoogleConfig  `yaml:"google"`
	Speech  SpeechConfig  `yaml:"speech"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Paths   PathsConfig   `yaml:"paths"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
	Watcher WatcherConfig `yaml:"watcher"`
	Tracing TracingConfig `yaml:"tracing"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`
	Port         int           `yaml:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" validate:"gte=0"`
}

type GoogleConfig struct {
	ProjectID string `yaml:"project_id" validate:"required"`
	Location  string `yaml:"location" validate:"required"`
}

type SpeechConfig struct {
	LanguageCode string        `yaml:"language_code"`
	MinSpeakers  int32         `yaml:"min_speakers" validate:"gte=0"`
	MaxSpeakers  int32         `yaml:"max_speakers" validate:"gtefield=MinSpeakers"`
	Timeout      time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
	Inbox   string `yaml:"inbox"`
	Reports string `yaml:"reports"`
}

type UploadConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"omitempty,oneof=text json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
}

type WatcherConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" validate:"gte=0"`
}

// TracingConfig enables OTLP trace export. Tracing is off when Endpoint is
// empty.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" validate:"gte=0,lte=1"`
	ServiceName string  `yaml:"service_name"`
}

// DefaultAllowedExtensions are the upload suffixes accepted when the config
// file does not list its own.
var DefaultAllowedExtensions = []string{"wav", "mp3", "m4a", "ogg", "webm", "flac"}

// Load reads the YAML file at path, applies .env and environment overrides,
// then validates the result. A missing file is not an error: the defaults
// plus environment are enough to run the service.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "config.yaml"

func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.Google.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_LOCATION"); v != "" {
		c.Google.Location = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate fills defaults for optional settings and rejects configurations
// the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	// Covers the speech bound plus the model call.
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Minute
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 100
	}
	if c.Google.Location == "" {
		c.Google.Location = "us-central1"
	}
	if c.Speech.LanguageCode == "" {
		c.Speech.LanguageCode = "id-ID"
	}
	if c.Speech.MinSpeakers == 0 {
		c.Speech.MinSpeakers = 2
	}
	if c.Speech.MaxSpeakers == 0 {
		c.Speech.MaxSpeakers = 10
	}
	if c.Speech.Timeout == 0 {
		c.Speech.Timeout = 300 * time.Second
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash-001"
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 120 * time.Second
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "uploads"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Reports == "" {
		c.Paths.Reports = "data/reports"
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = append([]string(nil), DefaultAllowedExtensions...)
	}
	for i, ext := range c.Upload.AllowedExtensions {
		c.Upload.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.File == "" {
		c.Logging.File = "app.log"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 5
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Watcher.MaxConcurrent == 0 {
		c.Watcher.MaxConcurrent = 2
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "medscribe"
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server listens on.
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// MaxUploadBytes returns the upload cap in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SpeechProviderGemini = "gemini"
	SpeechProviderCloud  = "cloud"
)

type ServerConfig struct {
	Address         string        `yaml:"address"`         // :8000
	AllowedOrigins  []string      `yaml:"allowed_origins"` // frontend URLs for CORS
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GeminiConfig struct {
	APIKey    string        `yaml:"api_key"`
	NewsModel string        `yaml:"news_model"`
	TTSModel  string        `yaml:"tts_model"`
	Voice     string        `yaml:"voice"`   // prebuilt voice name
	Timeout   time.Duration `yaml:"timeout"` // per call, 0 = none
}

type SpeechConfig struct {
	Provider        string `yaml:"provider"`    // gemini | cloud
	CloudVoice      string `yaml:"cloud_voice"` // e.g. es-ES-Standard-A
	LanguageCode    string `yaml:"language_code"`
	CredentialsFile string `yaml:"credentials_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Gemini GeminiConfig `yaml:"gemini"`
	Speech SpeechConfig `yaml:"speech"`
	Log    LogConfig    `yaml:"log"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8000",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Gemini: GeminiConfig{
			NewsModel: "gemini-3-flash-preview",
			TTSModel:  "gemini-2.5-flash-preview-tts",
			Voice:     "Kore",
		},
		Speech: SpeechConfig{
			Provider:     SpeechProviderGemini,
			CloudVoice:   "es-ES-Standard-A",
			LanguageCode: "es-ES",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the .env file (if any), the YAML file at path (if any) on top of
// the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	c.applyEnv()
	return c, c.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("SPEECH_PROVIDER"); v != "" {
		c.Speech.Provider = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.Speech.CredentialsFile == "" {
		c.Speech.CredentialsFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, v)
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return errors.New("gemini api key is required (gemini.api_key or GEMINI_API_KEY)")
	}
	switch c.Speech.Provider {
	case SpeechProviderGemini, SpeechProviderCloud:
	default:
		return fmt.Errorf("unsupported speech provider: %q", c.Speech.Provider)
	}
	if c.Server.Address == "" {
		return errors.New("server address is required")
	}
	return nil
}

// Logger builds the slog logger described by the log section.
func (l LogConfig) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

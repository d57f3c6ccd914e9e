package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for settings not provided by the environment or a config file.
const (
	DefaultEnv         = "development"
	DefaultProvider    = "gemini"
	DefaultTemperature = 0.7
	DefaultMaxSteps    = 15
	DefaultOutputDir   = "output"
	DefaultLogLevel    = "info"
	DefaultMaxRetries  = 3
)

// Settings is the runtime configuration of the contentflow CLI.
type Settings struct {
	Env string

	// LLM
	Provider    string
	Model       string
	Temperature float64
	AnswerFAQ   bool
	MaxRetries  int

	// API keys
	GeminiKey    string
	OpenAIKey    string
	AnthropicKey string

	// Run
	MaxSteps    int
	OutputDir   string
	PromptsPath string
	JournalPath string

	// Observability
	LogLevel     string
	Telemetry    bool
	OTelEndpoint string
}

// LoadSettings reads settings from the environment. The named .env files
// (default ".env") are loaded first if present; variables already set in
// the environment win.
func LoadSettings(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("GOOGLE_API_KEY")
	}

	return &Settings{
		Env:          getEnvOrDefault("CONTENTFLOW_ENV", DefaultEnv),
		Provider:     strings.ToLower(getEnvOrDefault("LLM_PROVIDER", DefaultProvider)),
		Model:        os.Getenv("LLM_MODEL"),
		Temperature:  getEnvFloatOrDefault("LLM_TEMPERATURE_DEFAULT", DefaultTemperature),
		AnswerFAQ:    getEnvBoolOrDefault("CONTENTFLOW_FAQ_ANSWERS", false),
		MaxRetries:   getEnvIntOrDefault("LLM_MAX_RETRIES", DefaultMaxRetries),
		GeminiKey:    geminiKey,
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		MaxSteps:     getEnvIntOrDefault("CONTENTFLOW_MAX_STEPS", DefaultMaxSteps),
		OutputDir:    getEnvOrDefault("CONTENTFLOW_OUTPUT_DIR", DefaultOutputDir),
		PromptsPath:  os.Getenv("CONTENTFLOW_PROMPTS"),
		JournalPath:  os.Getenv("CONTENTFLOW_JOURNAL"),
		LogLevel:     strings.ToLower(getEnvOrDefault("CONTENTFLOW_LOG_LEVEL", DefaultLogLevel)),
		Telemetry:    getEnvBoolOrDefault("ENABLE_TELEMETRY", true),
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

// Apply overlays values present in a config file onto s.
//
// Layout:
//
//	env: production
//	llm:
//	  provider: openai
//	  model: gpt-4o-mini
//	  temperature: 0.3
//	  answer_faq: true
//	  max_retries: 5
//	run:
//	  max_steps: 20
//	  output_dir: out
//	  prompts: prompts.yaml
//	  journal: journal.db
//	log_level: debug
//	telemetry: false
//	otel_endpoint: http://localhost:4318
func (s *Settings) Apply(cfg Config) {
	s.Env = cfg.String("env", s.Env)
	s.LogLevel = strings.ToLower(cfg.String("log_level", s.LogLevel))
	s.Telemetry = cfg.Bool("telemetry", s.Telemetry)
	s.OTelEndpoint = cfg.String("otel_endpoint", s.OTelEndpoint)

	s.Provider = strings.ToLower(cfg.String("llm.provider", s.Provider))
	s.Model = cfg.String("llm.model", s.Model)
	s.Temperature = cfg.Float("llm.temperature", s.Temperature)
	s.AnswerFAQ = cfg.Bool("llm.answer_faq", s.AnswerFAQ)
	s.MaxRetries = cfg.Int("llm.max_retries", s.MaxRetries)

	s.MaxSteps = cfg.Int("run.max_steps", s.MaxSteps)
	s.OutputDir = cfg.String("run.output_dir", s.OutputDir)
	s.PromptsPath = cfg.String("run.prompts", s.PromptsPath)
	s.JournalPath = cfg.String("run.journal", s.JournalPath)
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	switch s.Provider {
	case "gemini":
		if s.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) is required for gemini provider")
		}
	case "openai":
		if s.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "anthropic":
		if s.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (gemini, openai, anthropic, or mock)", s.Provider)
	}

	if s.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", s.MaxSteps)
	}
	if s.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive, got %d", s.MaxRetries)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", s.Temperature)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (s *Settings) APIKey() string {
	switch s.Provider {
	case "gemini":
		return s.GeminiKey
	case "openai":
		return s.OpenAIKey
	case "anthropic":
		return s.AnthropicKey
	default:
		return ""
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return defaultVal
}

/*
Package config loads contentflow settings.

Settings come from three layers, later ones winning:
  - built-in defaults
  - environment variables, with an optional .env file
  - a YAML or JSON config file passed to the CLI

# Environment

	CONTENTFLOW_ENV          deployment label (default "development")
	LLM_PROVIDER             gemini, openai, anthropic, or mock
	LLM_MODEL                provider model name (provider default if empty)
	LLM_TEMPERATURE_DEFAULT  sampling temperature for creative calls (0.7)
	LLM_MAX_RETRIES          attempts per model call, including the first (3)
	GEMINI_API_KEY           also read from GOOGLE_API_KEY
	OPENAI_API_KEY
	ANTHROPIC_API_KEY
	CONTENTFLOW_MAX_STEPS    dispatch bound per run (15)
	CONTENTFLOW_OUTPUT_DIR   artifact directory ("output")
	CONTENTFLOW_PROMPTS      prompt override file
	CONTENTFLOW_JOURNAL      SQLite journal path (journal disabled if empty)
	CONTENTFLOW_FAQ_ANSWERS  "true" to answer FAQ questions with the model
	CONTENTFLOW_LOG_LEVEL    debug, info, warn, error
	ENABLE_TELEMETRY         "true" enables OpenTelemetry metrics and spans
	OTEL_EXPORTER_OTLP_ENDPOINT  OTLP/HTTP endpoint for span export

# Config Files

Config wraps a map[string]any with typed accessors that fall back to a
default on missing keys or type mismatches:

	cfg, err := config.FromFile("contentflow.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	settings.Apply(cfg)
*/
package config

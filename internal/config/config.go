package config

import (
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Port         string
	DatabaseURL  string
	AIServiceURL string
	TemplatesURL string
	AIRetryMax   int
	AITimeout    time.Duration

	AutosaveWindow time.Duration
	DefaultTheme   string

	ChromePath   string
	PDFPaper     string
	MinifyExport bool

	LogLevel  slog.Level
	LogFormat string
}

// Load reads the configuration. An empty DatabaseURL selects the in-memory
// store.
func Load() Config {
	return Config{
		Port:           GetEnv("PORT", "8080"),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		AIServiceURL:   GetEnv("AI_SERVICE_URL", "http://ai-service:8000"),
		TemplatesURL:   GetEnv("TEMPLATES_URL", ""),
		AIRetryMax:     GetIntEnv("AI_RETRY_MAX", 3),
		AITimeout:      GetDurationEnv("AI_TIMEOUT", 60*time.Second),
		AutosaveWindow: GetDurationEnv("AUTOSAVE_WINDOW", 750*time.Millisecond),
		DefaultTheme:   GetEnv("DEFAULT_THEME", "classic"),
		ChromePath:     GetEnv("CHROME_PATH", ""),
		PDFPaper:       strings.ToUpper(GetEnv("PDF_PAPER", "A4")),
		MinifyExport:   GetBoolEnv("MINIFY_EXPORT", true),
		LogLevel:       parseLevel(GetEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(GetEnv("LOG_FORMAT", "text")),
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

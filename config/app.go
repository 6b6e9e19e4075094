package config

import (
	"os"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	// Cutting-plan source service.
	SourceBaseURL  string
	ThrottlePhrase string
	ErrorLogPath   string
	SuccessLogPath string

	// Push service.
	Port       string
	APISecret  string
	TokensFile string

	// Market sentiment notifier.
	CMCAPIKey    string
	GreedAlertAt float64
	FearAlertAt  float64
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			SourceBaseURL:  getenv("SOURCE_BASE_URL", "http://10.30.0.36:3100"),
			ThrottlePhrase: getenv("SOURCE_THROTTLE_PHRASE", "come back in 3 mi"),
			ErrorLogPath:   getenv("ERROR_LOG_PATH", "error-log.txt"),
			SuccessLogPath: getenv("SUCCESS_LOG_PATH", "success-log.txt"),
			Port:           getenv("PORT", "3000"),
			APISecret:      os.Getenv("API_SECRET"),
			TokensFile:     getenv("TOKENS_FILE", "tokens.json"),
			CMCAPIKey:      os.Getenv("CMC_API_KEY"),
			GreedAlertAt:   80,
			FearAlertAt:    30,
		}
	})
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

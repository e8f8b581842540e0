package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the CLI needs to talk to the backend and to find
// its local session file.
type Config struct {
	APIURL      string
	SessionFile string
	HTTPTimeout time.Duration
	LogLevel    string
	Retry       bool
}

// Load reads configuration from the environment, honoring a .env file in the
// working directory first. Every value has a usable default.
func Load() Config {
	_ = godotenv.Load()

	apiURL := os.Getenv("DONORTRACK_API_URL")

	sessionFile := os.Getenv("DONORTRACK_SESSION_FILE")
	if sessionFile == "" {
		sessionFile = defaultSessionFile()
	}

	timeout := 15 * time.Second
	if timeoutStr := os.Getenv("DONORTRACK_HTTP_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil {
			timeout = d
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		APIURL:      apiURL,
		SessionFile: sessionFile,
		HTTPTimeout: timeout,
		LogLevel:    logLevel,
		Retry:       os.Getenv("DONORTRACK_NO_RETRY") == "",
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".donortrack-session.json"
		}
		return filepath.Join(home, ".donortrack-session.json")
	}
	return filepath.Join(dir, "donortrack", "session.json")
}

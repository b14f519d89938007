package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinSecretLength is the shortest token secret accepted without
	// EVENTBOARD_ALLOW_INSECURE_SECRET.
	MinSecretLength = 32

	minBcryptCost = 4
	maxBcryptCost = 31
)

// Config captures environment driven configuration values for the event board service.
type Config struct {
	HTTPPort            int
	SQLiteDSN           string
	TokenSecret         string
	TokenTTL            time.Duration
	TokenIssuer         string
	BcryptCost          int
	LogLevel            string
	LogFormat           string
	AllowInsecureSecret bool
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win. Defaults apply to optional fields, and
// every missing or invalid key is reported in a single error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:    3000,
		SQLiteDSN:   "eventboard.db",
		TokenTTL:    24 * time.Hour,
		TokenIssuer: "eventboard",
		BcryptCost:  10,
		LogLevel:    "info",
		LogFormat:   "json",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	if portValue := env("EVENTBOARD_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "EVENTBOARD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := env("EVENTBOARD_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if insecure := env("EVENTBOARD_ALLOW_INSECURE_SECRET"); insecure != "" {
		allow, err := strconv.ParseBool(insecure)
		if err != nil {
			invalid = append(invalid, "EVENTBOARD_ALLOW_INSECURE_SECRET")
		} else {
			cfg.AllowInsecureSecret = allow
		}
	}

	if secret := env("EVENTBOARD_TOKEN_SECRET"); secret == "" {
		missing = append(missing, "EVENTBOARD_TOKEN_SECRET")
	} else if len(secret) < MinSecretLength && !cfg.AllowInsecureSecret {
		invalid = append(invalid, "EVENTBOARD_TOKEN_SECRET")
	} else {
		cfg.TokenSecret = secret
	}

	if ttlValue := env("EVENTBOARD_TOKEN_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "EVENTBOARD_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if issuer := env("EVENTBOARD_TOKEN_ISSUER"); issuer != "" {
		cfg.TokenIssuer = issuer
	}

	if costValue := env("EVENTBOARD_BCRYPT_COST"); costValue != "" {
		cost, err := strconv.Atoi(costValue)
		if err != nil || cost < minBcryptCost || cost > maxBcryptCost {
			invalid = append(invalid, "EVENTBOARD_BCRYPT_COST")
		} else {
			cfg.BcryptCost = cost
		}
	}

	if level := env("EVENTBOARD_LOG_LEVEL"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, "EVENTBOARD_LOG_LEVEL")
		}
	}

	if format := env("EVENTBOARD_LOG_FORMAT"); format != "" {
		switch strings.ToLower(format) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(format)
		default:
			invalid = append(invalid, "EVENTBOARD_LOG_FORMAT")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

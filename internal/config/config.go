package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FeedFormatText = "text"
	FeedFormatJSON = "json"
)

type Config struct {
	// HTTP Server
	Port string

	// Rate resolver
	HomeCurrency        string
	FeedFormat          string // "text" or "json"
	FeedURL             string // empty selects the CNB default for the format
	FeedTimeout         time.Duration
	WalkBackLimitDays   int
	CutoffPolicy        bool
	AllowLatestFallback bool
	ProxyCurrencies     map[string]string // e.g. HRK=EUR

	// AMQP (optional sheet-sync pipeline)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (worker side)
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8081"),

		HomeCurrency:        getEnv("HOME_CURRENCY", "CZK"),
		FeedFormat:          getEnv("RATE_FEED_FORMAT", FeedFormatText),
		FeedURL:             getEnv("RATE_FEED_URL", ""),
		FeedTimeout:         getEnvDuration("RATE_FEED_TIMEOUT", 10*time.Second),
		WalkBackLimitDays:   getEnvInt("RATE_WALK_BACK_DAYS", 7),
		CutoffPolicy:        getEnvBool("RATE_CUTOFF_POLICY", false),
		AllowLatestFallback: getEnvBool("RATE_LATEST_FALLBACK", false),
		ProxyCurrencies:     parseProxyList(getEnv("RATE_PROXY_CURRENCIES", "")),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "vydaje"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_purchases"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:  getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),
	}
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if len(c.HomeCurrency) != 3 || c.HomeCurrency != strings.ToUpper(c.HomeCurrency) {
		errs = append(errs, fmt.Sprintf("invalid home currency '%s': must be a 3-letter uppercase code", c.HomeCurrency))
	}

	if c.FeedFormat != FeedFormatText && c.FeedFormat != FeedFormatJSON {
		errs = append(errs, fmt.Sprintf("invalid rate feed format '%s': must be '%s' or '%s'", c.FeedFormat, FeedFormatText, FeedFormatJSON))
	}

	if c.FeedURL != "" {
		if u, err := url.Parse(c.FeedURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid rate feed URL '%s'", c.FeedURL))
		}
	}

	if c.FeedTimeout < time.Second || c.FeedTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid rate feed timeout %v: must be between 1s and 1m", c.FeedTimeout))
	}

	if c.WalkBackLimitDays < 1 || c.WalkBackLimitDays > 31 {
		errs = append(errs, fmt.Sprintf("invalid walk-back limit %d: must be between 1 and 31 days", c.WalkBackLimitDays))
	}

	for from, to := range c.ProxyCurrencies {
		if len(from) != 3 || len(to) != 3 {
			errs = append(errs, fmt.Sprintf("invalid proxy mapping %s=%s: codes must be 3 letters", from, to))
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateWorker extends Validate with the settings the sync worker cannot
// run without.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}

	var errs []string
	if c.AMQPURL == "" {
		errs = append(errs, "AMQP_URL is required for the sync worker")
	}
	if c.GoogleSpreadsheetID == "" {
		errs = append(errs, "GOOGLE_SPREADSHEET_ID is required for the sync worker")
	}
	if c.GoogleSheetName == "" {
		errs = append(errs, "GOOGLE_SHEET_NAME is required for the sync worker")
	}
	if c.GoogleOAuthClientFile == "" && c.GoogleOAuthClientJSON == "" {
		errs = append(errs, "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided")
	}
	if c.GoogleOAuthTokenFile == "" && c.GoogleOAuthTokenJSON == "" {
		errs = append(errs, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided")
	}

	if len(errs) > 0 {
		return fmt.Errorf("worker configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// parseProxyList parses "HRK=EUR,XYZ=USD" into a map. Malformed pairs are
// dropped here; Validate reports suspicious survivors.
func parseProxyList(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		from = strings.ToUpper(strings.TrimSpace(from))
		to = strings.ToUpper(strings.TrimSpace(to))
		if from == "" || to == "" {
			continue
		}
		out[from] = to
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

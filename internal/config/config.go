package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Telegram
	TelegramToken         string
	TelegramWebhookSecret string
	AllowedUsers          string // "id:name,id:name"

	// NLU classifier
	AnthropicModel string

	// Ledger
	UTCOffsetHours int
	RecentLimit    int
	ResolveTimeout time.Duration
	StoreTimeout   time.Duration

	// Google Sheets
	GoogleSpreadsheetID      string
	TransactionsSheet        string
	InventorySheet           string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// SQLite replica
	SQLiteDBPath string

	// AMQP audit stream
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ResyncInterval time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		TelegramToken:         getEnv("TELEGRAM_TOKEN", ""),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		AllowedUsers:          getEnv("ALLOWED_USERS", ""),

		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),

		UTCOffsetHours: getEnvInt("UTC_OFFSET_HOURS", 4),
		RecentLimit:    getEnvInt("RECENT_LIMIT", 5),
		ResolveTimeout: getEnvDuration("RESOLVE_TIMEOUT", 15*time.Second),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 15*time.Second),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		TransactionsSheet:        getEnv("TRANSACTIONS_SHEET", "Transactions"),
		InventorySheet:           getEnv("INVENTORY_SHEET", "Inventory"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ezba.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ezba"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_audit"),

		ResyncInterval: getEnvDuration("RESYNC_INTERVAL", 15*time.Minute),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}

	return cfg
}

// AllowedActors parses the allow-list into an id to display-name map.
// Format: "47329648:Khaled,6894180427:Hamad".
func (c *Config) AllowedActors() (map[int64]string, error) {
	actors := make(map[int64]string)
	if strings.TrimSpace(c.AllowedUsers) == "" {
		return actors, nil
	}
	for _, pair := range strings.Split(c.AllowedUsers, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, name, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid allowed user entry %q: want id:name", pair)
		}
		actorID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid actor id in %q: %w", pair, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty display name in %q", pair)
		}
		actors[actorID] = name
	}
	return actors, nil
}

// Location returns the operating timezone as a fixed UTC offset. The
// host zone is deliberately never consulted.
func (c *Config) Location() *time.Location {
	name := fmt.Sprintf("UTC+%d", c.UTCOffsetHours)
	if c.UTCOffsetHours < 0 {
		name = fmt.Sprintf("UTC%d", c.UTCOffsetHours)
	}
	return time.FixedZone(name, c.UTCOffsetHours*3600)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TelegramToken == "" {
		errors = append(errors, "TELEGRAM_TOKEN is required")
	}

	if c.AllowedUsers == "" {
		errors = append(errors, "ALLOWED_USERS is required: nobody could talk to the bot")
	} else if _, err := c.AllowedActors(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ALLOWED_USERS: %v", err))
	}

	if c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14 {
		errors = append(errors, fmt.Sprintf("invalid UTC offset %d: must be between -12 and 14", c.UTCOffsetHours))
	}

	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.TransactionsSheet == "" {
			errors = append(errors, "transactions sheet name is required when using sheets backend")
		}
		if c.InventorySheet == "" {
			errors = append(errors, "inventory sheet name is required when using sheets backend")
		}

		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets backend")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ResolveTimeout < time.Second || c.ResolveTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid resolve timeout %v: must be between 1s and 1m", c.ResolveTimeout))
	}
	if c.StoreTimeout < time.Second || c.StoreTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid store timeout %v: must be between 1s and 1m", c.StoreTimeout))
	}
	if c.ResyncInterval < time.Minute || c.ResyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid resync interval %v: must be between 1 minute and 24 hours", c.ResyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

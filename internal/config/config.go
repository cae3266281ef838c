package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "./default.yaml"

type Config struct {
	API       APIConfig       `yaml:"api"`
	Database  DatabaseConfig  `yaml:"database"`
	Sentiment SentimentConfig `yaml:"sentiment_an"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Admin     AdminConfig     `yaml:"admin"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type APIConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	CORSOrigins        string `yaml:"cors_origins"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	RecentWindow       string `yaml:"recent_window"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, sqlite
	Path     string `yaml:"path"`   // sqlite file
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type SentimentConfig struct {
	URL string `yaml:"api_layer_url"`
	Key string `yaml:"api_layer_key"`
}

type OllamaConfig struct {
	Host          string `yaml:"host"`
	Model         string `yaml:"model"`
	Prompt        string `yaml:"prompt"`
	TechnicalWord string `yaml:"technical_word"`
	PaymentWord   string `yaml:"payment_word"`
	Timeout       string `yaml:"ai_timeout"`
}

type TelegramConfig struct {
	Driver  string `yaml:"driver"` // telegram, none
	Token   string `yaml:"token"`
	AdminID string `yaml:"admin_id"`
	BaseURL string `yaml:"base_url"`
}

type SheetsConfig struct {
	Driver          string `yaml:"driver"` // google, xlsx, none
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	WorkbookPath    string `yaml:"workbook_path"`
	WorkbookSheet   string `yaml:"workbook_sheet"`
	SinkTimeout     string `yaml:"sink_timeout"`
}

type AdminConfig struct {
	Token     string `yaml:"token"`
	JWTSecret string `yaml:"jwt_secret"`
	Subjects  string `yaml:"subjects"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Retention string `yaml:"retention"`
}

type fileConfig struct {
	Config Config `yaml:"config"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:               "0.0.0.0",
			Port:               "8080",
			CORSOrigins:        "*",
			RateLimitPerMinute: 60,
			RecentWindow:       "1h",
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "database.db",
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "complaints",
			SSLMode: "disable",
		},
		Sentiment: SentimentConfig{
			URL: "https://api.apilayer.com/sentiment/analysis",
		},
		Ollama: OllamaConfig{
			Host:          "http://localhost:11434",
			Model:         "llama3",
			Prompt:        "Определи категорию жалобы пользователя. Ответь одним словом: техническая, оплата или другое.\nЖалоба: {text}",
			TechnicalWord: "техническая",
			PaymentWord:   "оплата",
			Timeout:       "60s",
		},
		Telegram: TelegramConfig{
			Driver:  "none",
			BaseURL: "https://api.telegram.org",
		},
		Sheets: SheetsConfig{
			Driver:        "none",
			Range:         "Sheet1!A:C",
			WorkbookPath:  "reports.xlsx",
			WorkbookSheet: "Reports",
			SinkTimeout:   "10s",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Retention: "720h",
		},
	}
}

// Load reads defaults, then the YAML file at path, then environment overrides.
// A missing file at DefaultPath is tolerated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			file := fileConfig{Config: *cfg}
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			*cfg = file.Config
		case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.API.Host, "HOST")
	override(&c.API.Port, "PORT")
	override(&c.API.CORSOrigins, "CORS_ORIGINS")
	override(&c.API.RecentWindow, "RECENT_WINDOW")
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.RateLimitPerMinute = n
		}
	}

	override(&c.Database.Driver, "DB_DRIVER")
	override(&c.Database.Path, "DB_PATH")
	override(&c.Database.Host, "DB_HOST")
	override(&c.Database.Port, "DB_PORT")
	override(&c.Database.User, "DB_USER")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Database.Name, "DB_NAME")
	override(&c.Database.SSLMode, "DB_SSLMODE")

	override(&c.Sentiment.URL, "SENTIMENT_API_URL")
	override(&c.Sentiment.Key, "SENTIMENT_API_KEY")

	override(&c.Ollama.Host, "OLLAMA_HOST")
	override(&c.Ollama.Model, "OLLAMA_MODEL")
	override(&c.Ollama.Timeout, "AI_TIMEOUT")

	override(&c.Telegram.Driver, "TELEGRAM_DRIVER")
	override(&c.Telegram.Token, "TELEGRAM_TOKEN")
	override(&c.Telegram.AdminID, "TELEGRAM_ADMIN_ID")

	override(&c.Sheets.Driver, "SHEETS_DRIVER")
	override(&c.Sheets.CredentialsFile, "SHEETS_CREDENTIALS_FILE")
	override(&c.Sheets.SpreadsheetID, "SHEETS_SPREADSHEET_ID")
	override(&c.Sheets.WorkbookPath, "SHEETS_WORKBOOK_PATH")

	override(&c.Admin.Token, "ADMIN_TOKEN")
	override(&c.Admin.JWTSecret, "JWT_SECRET")
	override(&c.Admin.Subjects, "ADMIN_SUBJECTS")

	override(&c.Sentry.DSN, "SENTRY_DSN")
	override(&c.Sentry.Environment, "APP_ENV")

	override(&c.Logging.Level, "LOG_LEVEL")
}

// Validate checks driver names and the credentials each enabled sink needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	switch c.Telegram.Driver {
	case "none", "":
	case "telegram":
		if c.Telegram.Token == "" || c.Telegram.AdminID == "" {
			errs = append(errs, errors.New("telegram.token and telegram.admin_id are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown telegram driver %q", c.Telegram.Driver))
	}

	switch c.Sheets.Driver {
	case "none", "":
	case "google":
		if c.Sheets.SpreadsheetID == "" || c.Sheets.CredentialsFile == "" {
			errs = append(errs, errors.New("sheets.spreadsheet_id and sheets.credentials_file are required"))
		}
	case "xlsx":
		if c.Sheets.WorkbookPath == "" {
			errs = append(errs, errors.New("sheets.workbook_path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sheets driver %q", c.Sheets.Driver))
	}

	if !strings.Contains(c.Ollama.Prompt, "{text}") {
		errs = append(errs, errors.New("ollama.prompt must contain a {text} placeholder"))
	}

	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.Database.Host +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" port=" + c.Database.Port +
		" sslmode=" + c.Database.SSLMode +
		" TimeZone=UTC"
}

func (c *Config) Addr() string {
	return c.API.Host + ":" + c.API.Port
}

func (c *Config) RecentWindow() time.Duration {
	return parseDuration(c.API.RecentWindow, time.Hour)
}

func (c *Config) AITimeout() time.Duration {
	return parseDuration(c.Ollama.Timeout, 60*time.Second)
}

func (c *Config) SinkTimeout() time.Duration {
	return parseDuration(c.Sheets.SinkTimeout, 10*time.Second)
}

func (c *Config) LogRetention() time.Duration {
	return parseDuration(c.Logging.Retention, 30*24*time.Hour)
}

func override(dst *string, key string) {
	*dst = getEnv(key, *dst)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

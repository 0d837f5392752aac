package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend and identity provider names accepted in the environment.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"

	IdentitySupabase = "supabase"
	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// ErrConfigurationMissing is wrapped by Validate when required keys are absent.
var ErrConfigurationMissing = errors.New("configuration missing")

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Database     DatabaseConfig
	Supabase     SupabaseConfig
	Firebase     FirebaseConfig
	Line         LineConfig
	Registration RegistrationConfig
	Orphans      OrphanConfig
	Twilio       TwilioConfig

	CustomerBackend  string
	IdentityProvider string

	// EnvFileLoaded reports whether Load found a .env file.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port           string
	AppEnv         string
	AllowedOrigins []string
	DefaultRoute   string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
	Timeout        time.Duration
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type LineConfig struct {
	LiffID        string
	ChannelID     string
	ChannelSecret string
	VerifyTokens  bool
	APIBaseURL    string
}

type RegistrationConfig struct {
	// StrictDistrict rejects a district that is not listed under the chosen city.
	StrictDistrict bool
}

type OrphanConfig struct {
	SweepSchedule string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	AlertTo    string
}

// Enabled reports whether operator SMS alerts can be sent.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != "" && t.AlertTo != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	envFileErr := godotenv.Load()

	cfg := FromEnv()
	cfg.EnvFileLoaded = envFileErr == nil
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AppEnv:         getEnv("APP_ENV", "dev"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			DefaultRoute:   getEnv("DEFAULT_ROUTE", "/"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DB_URL", ""),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			Timeout:        getEnvDuration("SUPABASE_TIMEOUT", 10*time.Second),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Line: LineConfig{
			LiffID:        getEnv("LIFF_ID", ""),
			ChannelID:     getEnv("LINE_CHANNEL_ID", ""),
			ChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
			VerifyTokens:  getEnvBool("LINE_VERIFY_TOKENS", false),
			APIBaseURL:    getEnv("LINE_API_BASE_URL", "https://api.line.me"),
		},
		Registration: RegistrationConfig{
			StrictDistrict: getEnvBool("STRICT_DISTRICT", false),
		},
		Orphans: OrphanConfig{
			SweepSchedule: getEnv("ORPHAN_SWEEP_SCHEDULE", ""),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			AlertTo:    getEnv("ALERT_PHONE_NUMBER", ""),
		},
		CustomerBackend:  strings.ToLower(getEnv("CUSTOMER_BACKEND", BackendSupabase)),
		IdentityProvider: strings.ToLower(getEnv("IDENTITY_PROVIDER", IdentitySupabase)),
	}
}

// NeedsDatabase reports whether any selected component talks to Postgres directly.
func (c *Config) NeedsDatabase() bool {
	return c.CustomerBackend == BackendPostgres ||
		c.IdentityProvider == IdentityLocal ||
		c.Orphans.SweepSchedule != ""
}

// NeedsSupabase reports whether any selected component talks to Supabase.
func (c *Config) NeedsSupabase() bool {
	return c.CustomerBackend == BackendSupabase || c.IdentityProvider == IdentitySupabase
}

// Validate lists every missing key for the selected backends in one error.
func (c *Config) Validate() error {
	var missing []string

	switch c.CustomerBackend {
	case BackendSupabase, BackendPostgres:
	default:
		return fmt.Errorf("unknown CUSTOMER_BACKEND %q", c.CustomerBackend)
	}
	switch c.IdentityProvider {
	case IdentitySupabase, IdentityFirebase, IdentityLocal:
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}

	if c.NeedsSupabase() {
		if c.Supabase.URL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.Supabase.ServiceRoleKey == "" {
			missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
		}
	}
	if c.NeedsDatabase() && c.Database.URL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.IdentityProvider == IdentityFirebase && c.Firebase.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.Line.VerifyTokens {
		if c.Line.ChannelID == "" {
			missing = append(missing, "LINE_CHANNEL_ID")
		}
		if c.Line.ChannelSecret == "" {
			missing = append(missing, "LINE_CHANNEL_SECRET")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

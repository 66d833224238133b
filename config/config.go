package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"markdown-todo-sync/internal/todo"
)

const (
	StateBackendJSON   = "json"
	StateBackendSQLite = "sqlite"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig
	Logger      LoggerConfig

	// Sync
	Scan    ScanConfig
	Tracker TrackerConfig
	State   StateConfig

	// Serve mode
	HTTPServer HTTPServerConfig
	Webhook    WebhookConfig

	// Optional due-date mirror
	GoogleCalendar GoogleCalendarConfig
}

type EnvironmentConfig struct {
	Name string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type ScanConfig struct {
	Root       string
	Extensions []string
	Ignore     []string
}

type TrackerConfig struct {
	APIURL      string
	WebURL      string
	Repository  string // owner/name
	Revision    string // commit SHA or branch used in permalinks
	Token       string
	Timeout     time.Duration
	RatePerSec  float64
	PerPage     int
	MarkerLabel string
}

type StateConfig struct {
	Backend string // json or sqlite
	Path    string // relative paths resolve against the scan root
}

type HTTPServerConfig struct {
	Port           int
	Mode           string
	TrustedProxies []string // peers whose X-Forwarded-For is honored, empty trusts none
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	Branch          string   // only pushes to this branch trigger a sync
	AllowedIPs      []string // IPs or CIDRs, empty allows all
	RateLimitPerMin int
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	Timezone        string
}

// Enabled reports whether the due-date mirror is configured.
func (c GoogleCalendarConfig) Enabled() bool {
	return c.CredentialsPath != ""
}

// Load loads configuration using Viper.
// With an empty path, config.yaml is searched in ./config, ., /etc/todosync/.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/todosync/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = v.GetString("environment.name")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	cfg.Scan.Root = v.GetString("scan.root")
	cfg.Scan.Extensions = getStringList(v, "scan.extensions")
	cfg.Scan.Ignore = getStringList(v, "scan.ignore")

	cfg.Tracker.APIURL = v.GetString("tracker.api_url")
	cfg.Tracker.WebURL = v.GetString("tracker.web_url")
	cfg.Tracker.Repository = v.GetString("tracker.repository")
	cfg.Tracker.Revision = v.GetString("tracker.revision")
	cfg.Tracker.Token = expandEnvVar(v, v.GetString("tracker.token"))
	cfg.Tracker.Timeout = v.GetDuration("tracker.timeout")
	cfg.Tracker.RatePerSec = v.GetFloat64("tracker.rate_per_sec")
	cfg.Tracker.PerPage = v.GetInt("tracker.per_page")
	cfg.Tracker.MarkerLabel = v.GetString("tracker.marker_label")

	// Variables provided by the CI runner win over the file.
	if repo := v.GetString("github_repository"); repo != "" {
		cfg.Tracker.Repository = repo
	}
	if sha := v.GetString("github_sha"); sha != "" {
		cfg.Tracker.Revision = sha
	}
	if token := v.GetString("github_token"); token != "" {
		cfg.Tracker.Token = token
	}

	cfg.State.Backend = strings.ToLower(v.GetString("state.backend"))
	cfg.State.Path = v.GetString("state.path")

	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.TrustedProxies = getStringList(v, "http_server.trusted_proxies")

	cfg.Webhook.Enabled = v.GetBool("webhook.enabled")
	cfg.Webhook.Secret = expandEnvVar(v, v.GetString("webhook.secret"))
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.Branch = v.GetString("webhook.branch")
	cfg.Webhook.AllowedIPs = getStringList(v, "webhook.allowed_ips")
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")

	cfg.GoogleCalendar.CredentialsPath = v.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = v.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = v.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.Timezone = v.GetString("google_calendar.timezone")
	if googleCreds := v.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	return cfg, nil
}

// Validate checks the preconditions of a sync or plan run.
func (c *Config) Validate() error {
	if c.Tracker.Repository == "" {
		return todo.ErrMissingRepository
	}
	if !strings.Contains(c.Tracker.Repository, "/") {
		return fmt.Errorf("tracker.repository %q must be owner/name", c.Tracker.Repository)
	}
	if c.Tracker.Token == "" {
		return todo.ErrMissingToken
	}
	if c.Scan.Root == "" {
		return todo.ErrMissingRoot
	}
	switch c.State.Backend {
	case StateBackendJSON, StateBackendSQLite:
	default:
		return fmt.Errorf("unknown state.backend %q", c.State.Backend)
	}
	return nil
}

// ValidateServe additionally checks what serve mode needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535 {
		return fmt.Errorf("invalid http_server.port %d", c.HTTPServer.Port)
	}
	if c.Webhook.Enabled && c.Webhook.Secret == "" {
		return errors.New("webhook.secret is required when webhook.enabled is true")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("scan.root", ".")

	v.SetDefault("tracker.api_url", "https://api.github.com")
	v.SetDefault("tracker.web_url", todo.DefaultWebURL)
	v.SetDefault("tracker.revision", todo.DefaultRevision)
	v.SetDefault("tracker.timeout", "30s")
	v.SetDefault("tracker.rate_per_sec", 0)
	v.SetDefault("tracker.per_page", 100)
	v.SetDefault("tracker.marker_label", todo.DefaultMarkerLabel)

	v.SetDefault("state.backend", StateBackendJSON)

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "release")

	v.SetDefault("webhook.enabled", true)
	v.SetDefault("webhook.branch", "main")
	v.SetDefault("webhook.rate_limit_per_min", 60)

	v.SetDefault("google_calendar.calendar_id", "primary")
	v.SetDefault("google_calendar.timezone", "UTC")
}

// expandEnvVar expands values written as ${VAR_NAME}.
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	envVar := value[2 : len(value)-1]
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}

// getStringList accepts both a YAML list and a comma separated env value.
func getStringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the reconciler.
// Tags used:
// - mapstructure: env key read by viper
// - default: value used when the key is missing
// - required: if "true", Load fails when the key is missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the HTTP trigger surface listens.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// Timezone is the IANA zone used to derive the processing date.
	Timezone string `mapstructure:"TIMEZONE" default:"America/Los_Angeles"`
	// RunSchedule is a 5-field cron expression; empty disables scheduled passes.
	RunSchedule string `mapstructure:"RUN_SCHEDULE"`

	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Reconcile ReconcileConfig `mapstructure:",squash"`
	UPS       UPSConfig       `mapstructure:",squash"`
	USPS      USPSConfig      `mapstructure:",squash"`
	Proxy     ProxyConfig     `mapstructure:",squash"`
	SMTP      SMTPConfig      `mapstructure:",squash"`
	Slack     SlackConfig     `mapstructure:",squash"`
	Reporting ReportingConfig `mapstructure:",squash"`
}

// DatabaseConfig holds the relational store location.
type DatabaseConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"DB_PATH" default:"data/shipments.db"`
}

// RedisConfig holds the cache connection. An empty URL disables the pass lock and token cache.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
}

// ReconcileConfig tunes a reconciliation pass.
type ReconcileConfig struct {
	// Workers bounds how many records are reconciled concurrently.
	Workers int `mapstructure:"RECONCILE_WORKERS" default:"1"`
	// StuckWarningDays is the exact business-day count that triggers a stuck warning.
	StuckWarningDays int `mapstructure:"STUCK_WARNING_DAYS" default:"3"`
	// StuckEscalationDays is the business-day count at or above which a stalled shipment escalates.
	StuckEscalationDays int `mapstructure:"STUCK_ESCALATION_DAYS" default:"5"`
	// PickupAgingDays is how long a label may wait for carrier pickup before it is a problem.
	PickupAgingDays int `mapstructure:"PICKUP_AGING_DAYS" default:"3"`
	// CarrierCodesPath points at the YAML classification tables.
	CarrierCodesPath string `mapstructure:"CARRIER_CODES_PATH" default:"config/carriers.yaml"`
	// HolidaysPath points at the YAML holiday calendar.
	HolidaysPath string `mapstructure:"HOLIDAYS_PATH" default:"config/holidays.yaml"`
	// LockTTLSeconds bounds how long a crashed pass can hold the pass lock.
	LockTTLSeconds int `mapstructure:"PASS_LOCK_TTL_SECONDS" default:"3600"`
	// HTTPTimeoutSeconds applies to every carrier API call.
	HTTPTimeoutSeconds int `mapstructure:"CARRIER_HTTP_TIMEOUT_SECONDS" default:"20"`
}

// UPSConfig holds the UPS OAuth client credentials and API endpoint.
type UPSConfig struct {
	ClientID       string `mapstructure:"UPS_CLIENT_ID" required:"true"`
	ClientSecret   string `mapstructure:"UPS_CLIENT_SECRET" required:"true"`
	BaseURL        string `mapstructure:"UPS_BASE_URL" default:"https://onlinetools.ups.com"`
	TransID        string `mapstructure:"UPS_TRANS_ID" default:"shipment-reconciler"`
	TransactionSrc string `mapstructure:"UPS_TRANSACTION_SRC" default:"tracking"`
}

// USPSConfig holds the USPS OAuth client credentials. Empty credentials disable the adapter.
type USPSConfig struct {
	ClientID     string `mapstructure:"USPS_CLIENT_ID"`
	ClientSecret string `mapstructure:"USPS_CLIENT_SECRET"`
	BaseURL      string `mapstructure:"USPS_BASE_URL" default:"https://apis.usps.com"`
}

// Enabled reports whether USPS credentials are configured.
func (c USPSConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ProxyConfig routes carrier API traffic through an HTTP proxy.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// SMTPConfig holds the outgoing mail relay used by the email sink.
type SMTPConfig struct {
	Host     string `mapstructure:"SMTP_HOST"`
	Port     int    `mapstructure:"SMTP_PORT" default:"587"`
	Username string `mapstructure:"SMTP_USERNAME"`
	Password string `mapstructure:"SMTP_PASSWORD"`
}

// Enabled reports whether an SMTP relay is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlackConfig holds the Slack bot token and channel for summary posts.
type SlackConfig struct {
	BotToken  string `mapstructure:"SLACK_BOT_TOKEN"`
	ChannelID string `mapstructure:"SLACK_CHANNEL_ID"`
	APIURL    string `mapstructure:"SLACK_API_URL"`
}

// Enabled reports whether Slack posting is configured.
func (c SlackConfig) Enabled() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

// ReportingConfig holds the sender and address list for summaries and alerts.
type ReportingConfig struct {
	From       string `mapstructure:"REPORT_FROM" default:"tracking@localhost"`
	Recipients string `mapstructure:"REPORT_RECIPIENTS"`
	// ReportTTLHours is how long the latest summary stays cached.
	ReportTTLHours int `mapstructure:"REPORT_CACHE_TTL_HOURS" default:"168"`
}

// RecipientList splits the comma separated recipient list.
func (c ReportingConfig) RecipientList() []string {
	var out []string
	for _, r := range strings.Split(c.Recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Location resolves the configured timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if _, err := config.Location(); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

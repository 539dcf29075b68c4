package config

import (
	"fmt"
	"reflect"
	"strings"

	"inventory-guard/core/cache"
	"inventory-guard/core/database"
	"inventory-guard/core/logger"
	"inventory-guard/core/notify"
	"inventory-guard/core/scheduler"
	"inventory-guard/core/server"
	"inventory-guard/core/storage"
	"inventory-guard/core/tracing"
	"inventory-guard/feature/alert"
	"inventory-guard/feature/expiry"
	"inventory-guard/feature/reconcile"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is loaded once at process start and treated as read-only afterwards.
type Config struct {
	// Server holds configuration for the operational HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the order ledger connection.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the stock counter store.
	Redis cache.Config `mapstructure:"redis"`
	// Storage holds configuration for the reconciliation report archive.
	Storage storage.Config `mapstructure:"storage"`
	// Kafka holds configuration for the alert notification topic.
	Kafka notify.KafkaConfig `mapstructure:"kafka"`
	// Tracing holds configuration for the OpenTelemetry exporter.
	Tracing tracing.Config `mapstructure:"tracing"`
	// Scheduler holds configuration for the periodic task runner.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	// Expiry holds configuration for the reservation timeout sweep.
	Expiry expiry.Config `mapstructure:"expiry"`
	// Reconcile holds configuration for cache/ledger reconciliation.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Alert holds the alerting and auto-pause thresholds.
	Alert alert.Thresholds `mapstructure:"alert"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. EXPIRY_BATCH_LIMIT -> expiry.batch_limit)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the settings the scheduled passes depend on.
func (c *Config) Validate() error {
	if err := c.Expiry.Validate(); err != nil {
		return err
	}
	return c.Reconcile.Validate()
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

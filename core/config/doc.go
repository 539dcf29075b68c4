// Package config provides configuration management for the inventory guard.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults live next to each field as `default:"…"`
// struct tags, so every default is documented in exactly one place.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into subsections:
//   - Server: ops HTTP port and API key
//   - Log: logging level and format
//   - Database: order ledger (MySQL, or SQLite for local runs)
//   - Redis: live stock counters and activity state
//   - Storage: S3/MinIO bucket for archived reconciliation reports
//   - Kafka: alert notification topic
//   - Tracing: Jaeger exporter
//   - Scheduler: distributed single-flight guard
//   - Expiry: grace period, batch limit and sweep cadence
//   - Reconcile: tolerance, worker count and cadence
//   - Alert: warn/pause ratios and per-SKU critical magnitude
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Expiry.GracePeriod())
package config

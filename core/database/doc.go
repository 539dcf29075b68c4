// Package database handles the order ledger connection and schema inspection.
//
// It wraps GORM to configure MySQL connections from the application
// configuration. SQLite is accepted as a driver for local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the ledger verify at startup that the
// tables it queries carry the columns it relies on (status, created_at, ...),
// so a schema drift fails the `check` command instead of a sweep at runtime.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "orders", []string{"id", "status"})
package database

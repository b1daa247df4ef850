// Package database handles database connections, the row store used by
// reconciliation, and schema inspection.
//
// It provides a wrapper around GORM to configure PostgreSQL, MySQL or SQLite
// connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver and pings it. Connection errors (refused,
// reset, bad connection) are retried with exponential backoff: 1s, 2s, 4s by
// default, capped at 5s.
//
// # Table
//
// Table is a generic point-lookup and upsert store over one model. Upsert uses
// INSERT ... ON CONFLICT on the primary key and overwrites every column except
// criado_em, so the creation timestamp survives updates. Failures are returned
// as *StoreError, which matches ErrStore.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns compare live tables with the models after
// a migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	customers := database.NewTable[customers.Cliente](db, cfg.Database, log)
//	row, found, err := customers.Get(ctx, "cus_000005219613")
package database

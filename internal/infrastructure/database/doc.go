// Package database provides SQLite connectivity for the LED controller.
//
// This package manages:
//   - Database connection with WAL mode and full sync
//   - Forward-only schema migrations from an fs.FS
//   - Connection lifecycle and health checks
//
// The controller keeps a single small table of persisted light fields, so
// the pool is pinned to one connection and every write is a short
// transaction.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql and are
// applied in version order, each in its own transaction.
package database

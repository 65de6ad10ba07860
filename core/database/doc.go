// Package database handles database connections.
//
// It wraps GORM to open MySQL, PostgreSQL or SQLite connections from the
// application's configuration. SQLite is used for local runs and tests; MySQL
// and PostgreSQL are the production targets.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and
// pings the server within Config.TimeoutSeconds. GORM's own logger is silenced;
// callers log failures through the application logger.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
package database

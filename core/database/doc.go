// Package database handles database connections and schema inspection for the
// users API.
//
// Connect wraps GORM and supports MySQL, PostgreSQL (through pgx) and SQLite. The
// local profile cache reuses the SQLite path to keep its single-row store.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns report what a table actually looks like, which
// the server uses after migration to confirm the users table carries every column
// the API relies on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "users", []string{"address", "email"})
package database

// Package sqlite implements store.Store on database/sql with the
// modernc.org/sqlite driver. Suitable for embedded/edge deployments,
// CLI tools, and standalone applications.
//
//	db, _ := sql.Open("sqlite", "file:chainsign.db?_pragma=foreign_keys(1)")
//	store := sqlite.New(db)
//	store.Migrate(ctx)
package sqlite

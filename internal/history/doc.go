// Package history persists generate pipeline runs in a SQLite database so the
// CLI can list and inspect earlier runs.
//
// The store uses the pure-Go modernc.org/sqlite driver in WAL mode and retries
// writes that collide with another process holding the database lock.
package history

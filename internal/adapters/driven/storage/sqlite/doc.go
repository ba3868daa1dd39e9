// Package sqlite persists proemail state in a single SQLite database.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation, and
// implements the session, event and scheduler stores over one connection:
//
//   - SessionStore: the signed-in account's tokens
//   - EventStore: custom events, completion marks, tombstones and the last
//     fetched snapshot
//   - SchedulerStore: scheduled task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. Each
// migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.proemail/data/proemail.db
package sqlite

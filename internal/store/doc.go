// Package store provides the SQLite-backed session journal for a project.
//
// The journal is append-only:
//   - events: one row per lifecycle command (start, advance, validate, pause)
//   - artifacts: name/value pairs attached to an event, typically the
//     deliverables handed over when a phase is advanced
//
// Ordering uses the logical seq column, never recorded_at, so history reads
// are stable even when the wall clock jumps. IDs are UUIDv7.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: artifacts must reference an event
package store

// Package timeouts defines shared timeout constants used across the storage
// core. Centralizing these values prevents drift between layers and makes
// the durations discoverable.
package timeouts

import "time"

// Statement caps how long a single SQL statement may run before the
// executor cancels it and rolls back any open transaction.
const Statement = 5 * time.Second

// Busy is the SQLite busy handler timeout encoded into the DSN, covering
// short write-lock contention inside the engine.
const Busy = 5 * time.Second

// Acquire caps the wait for a pooled connection before the caller is told
// to back off.
const Acquire = 10 * time.Second

// Drain limits how long Close waits for in-flight operations during
// graceful shutdown before the file is released anyway.
const Drain = 5 * time.Second

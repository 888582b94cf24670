// Package lifecycle holds shared constants for component startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown of managed
// components (HTTP server drain, database close).
const DefaultTimeout = 10 * time.Second

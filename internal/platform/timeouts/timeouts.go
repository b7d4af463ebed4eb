// Package timeouts defines shared timeout constants used by rollkeeper
// servers and probes.
package timeouts

import "time"

// HealthProbe caps how long a health probe waits for SERVING.
const HealthProbe = 3 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

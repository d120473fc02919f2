// Package timeouts provides centralized timeout values for handler
// operations.
//
// These timeouts are used with context.WithTimeout for database operations
// and other I/O in HTTP handlers. Using centralized values ensures
// consistency and makes it easy to adjust timeouts across the application.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: complex writes, operations touching multiple collections
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple operations like single-document reads.
func Short() time.Duration { return short }

// Medium returns the timeout for moderate operations like list queries.
func Medium() time.Duration { return medium }

// Long returns the timeout for complex operations touching multiple collections.
func Long() time.Duration { return long }

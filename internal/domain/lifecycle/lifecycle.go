// Package lifecycle holds shared start/stop settings for fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start and shutdown steps.
const DefaultTimeout = 10 * time.Second

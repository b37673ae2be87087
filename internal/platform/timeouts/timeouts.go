// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// TelemetryShutdown caps how long a command waits for pending spans to be
// exported before it exits.
const TelemetryShutdown = 5 * time.Second

// StoreBusy is how long SQLite waits on a locked database before failing.
const StoreBusy = 5 * time.Second

// Package safego launches background goroutines that survive panics.
package safego

import (
	"log/slog"
	"runtime/debug"
)

// Go runs fn in a new goroutine under the given name. A panic in fn is
// recovered and logged with the name and a stack trace rather than crashing
// the process. Use it for fire-and-forget work such as the metrics server and
// the pool stats sampler, where an unrecovered panic would silently kill the
// goroutine forever.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered panic in background goroutine",
					"goroutine", name,
					"panic", r,
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}

// Package asyncutil provides SafeGo, through which the orchestrator
// launches its background goroutines, so a panic in any of them is always
// logged before the process takes it down instead of silently vanishing
// into an unobserved goroutine.
package asyncutil

import (
	"runtime/debug"

	"github.com/walkingpad/padctl/internal/logging"
)

// SafeGo runs fn on a new goroutine. A panic inside fn is logged with
// its stack trace through logger, then re-raised so the process's normal
// crash handling still applies — this only guarantees the panic is
// observed before that happens.
func SafeGo(logger logging.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("asyncutil: panic: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}

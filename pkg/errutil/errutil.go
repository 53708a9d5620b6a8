package errutil

import (
	"fmt"

	"github.com/small-frappuccino/menucore/pkg/log"
)

// Helpers implementing the swallow-and-log policy around user-supplied
// handlers and around storage writes that must never break interaction
// processing.

// HandleHandlerError runs a tapped element's handler and swallows any
// failure after logging it. At most one attempt; a misbehaving handler
// never propagates to the routing pass.
func HandleHandlerError(operation, token string, fn func() error) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s panicked for token %q: %v", operation, token, r)
		}
	}()
	if err := fn(); err != nil {
		log.Errorf("%s failed for token %q: %v", operation, token, err)
	}
}

// HandleStoreError runs a database operation, logs any failure on the
// database stream, and swallows it.
func HandleStoreError(operation string, fn func() error) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		log.Infof(log.Database, "store operation %s failed: %v", operation, err)
	}
}

// HandleDiscordError runs a Discord API call and returns the error
// after logging it, wrapped with the operation name.
func HandleDiscordError(operation string, fn func() error) error {
	if fn == nil {
		return fmt.Errorf("nil function provided")
	}
	err := fn()
	if err == nil {
		return nil
	}
	log.Errorf("discord operation %s failed: %v", operation, err)
	return fmt.Errorf("%s: %w", operation, err)
}

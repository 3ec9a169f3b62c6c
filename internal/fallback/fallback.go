// Package fallback runs a list of alternative strategies and keeps the
// first one that succeeds.
package fallback

import (
	"errors"
	"log/slog"
)

// ErrExhausted is returned by First when every attempt failed.
var ErrExhausted = errors.New("all attempts failed")

// Attempt is one named strategy.
type Attempt[T any] struct {
	Name string
	Run  func() (T, error)
}

// First runs attempts in order and returns the result and name of the first
// one that does not fail. Failed attempts are logged at debug level and
// swallowed. When every attempt fails the returned error wraps ErrExhausted
// and each individual failure.
func First[T any](logger *slog.Logger, attempts ...Attempt[T]) (T, string, error) {
	var zero T
	errs := make([]error, 0, len(attempts)+1)
	errs = append(errs, ErrExhausted)

	for _, a := range attempts {
		v, err := a.Run()
		if err == nil {
			return v, a.Name, nil
		}
		if logger != nil {
			logger.Debug("attempt failed", "strategy", a.Name, "error", err)
		}
		errs = append(errs, err)
	}

	return zero, "", errors.Join(errs...)
}

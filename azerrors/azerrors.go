// Package azerrors defines the error taxonomy shared across the engine:
// game contract violations, model shape mismatches, and the other failure
// kinds every package in this module needs a sentinel for. Call sites wrap
// a sentinel with pkg/errors so the stack trace survives, and callers
// compare with errors.Is.
package azerrors

import "github.com/pkg/errors"

// Sentinel error kinds. Wrap these with errors.Wrap at the failure site;
// never compare error strings.
var (
	ErrIllegalAction      = errors.New("illegal action")
	ErrGameOver           = errors.New("game is over")
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrFeatureUnsupported = errors.New("feature unsupported")
	ErrLoadError          = errors.New("load error")
	ErrCancelled          = errors.New("cancelled")
)

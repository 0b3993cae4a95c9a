package health

import "errors"

// Sentinel errors for health checks.
var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNoCheckers indicates no checkers are registered.
	ErrNoCheckers = errors.New("health: no checkers registered")

	// ErrProbeMismatch indicates a storage probe read back different
	// bytes than it wrote.
	ErrProbeMismatch = errors.New("health: storage probe mismatch")
)

package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// XP errors
	ErrInvalidXPAmount = errors.New("xp amount must be positive")

	// Badge errors
	ErrBadgeNotFound = errors.New("badge not found in catalog")

	// Quest errors
	ErrQuestNotFound = errors.New("quest not found")

	// Dispatch errors
	ErrInvalidMinutes = errors.New("study session minutes must be positive")
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
)

package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Structural entry errors: caller-correctable input shape problems.
var (
	ErrMissingDate      = errors.New("date is required")
	ErrMissingNarrative = errors.New("narrative is required")
	ErrTooFewLines      = errors.New("at least 2 lines (one debit and one credit) are required")
	ErrModeMismatch     = errors.New("lines do not satisfy the entry mode")
)

// Referential entry errors: reference a specific line and account code.
var (
	ErrMissingAccount = errors.New("line has no account selected")
	ErrUnknownAccount = errors.New("account is not a known analytic account")
	ErrBlockedAccount = errors.New("account is blocked by a configured pattern")
)

// Numeric entry errors.
var (
	ErrInvalidAmount = errors.New("amount must be > 0")
	ErrUnbalanced    = errors.New("sum(debits) must equal sum(credits)")
)

// Mask and code errors, surfaced at configuration/chart edit time.
var (
	ErrInvalidMask   = errors.New("invalid mask definition")
	ErrInvalidCode   = errors.New("code does not match the configured mask")
	ErrDepthExceeded = errors.New("maximum depth reached")
	ErrCodeOverflow  = errors.New("segment digit capacity exhausted")
	ErrCodeExists    = errors.New("code already exists")
	ErrHasChildren   = errors.New("account has children; delete them or cascade")
)

// Package source provides the message source abstraction the import session
// reads from, with three implementations: a built-in simulated dataset, CSV
// exports, and Android SMS backup XML files.
package source

import (
	"context"
	"errors"

	"jaehyun/sms-ledger/internal/models"
)

// ErrPermissionDenied is returned by FetchMessages when the source is not
// (or no longer) permitted to read messages. It is reported to the user as
// an actionable prompt, not treated as fatal.
var ErrPermissionDenied = errors.New("message source permission denied")

// MessageSource abstracts where raw notification messages come from.
// Implementations are selected explicitly at construction time rather than
// through process-wide flags.
type MessageSource interface {
	// Name identifies the source for logging and user-facing output.
	Name() string

	// CheckPermission reports whether the source can currently be read.
	CheckPermission(ctx context.Context) (bool, error)

	// RequestPermission attempts to obtain read access and reports whether
	// it was granted. Sources without a permission concept return true.
	RequestPermission(ctx context.Context) (bool, error)

	// FetchMessages returns all candidate messages. Returns
	// ErrPermissionDenied when access is missing.
	FetchMessages(ctx context.Context) ([]models.Message, error)
}

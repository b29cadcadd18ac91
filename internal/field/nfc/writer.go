// internal/field/nfc/writer.go

// Package nfc defines the tag-writer contract used by the sale
// reconciliation flow and the NDEF encoding for the URI payloads written
// to review tags.
package nfc

import (
	"context"
	"errors"
)

// Writer wraps the short-range tag hardware. Acquire must precede any
// write and Release must run on every exit path; a session left acquired
// blocks all later attempts.
//
// WriteURI and Erase block until a tag is presented or ctx is cancelled.
type Writer interface {
	// Supported reports whether the runtime has tag hardware at all.
	// Implementations fail closed: on any doubt, report false.
	Supported(ctx context.Context) (bool, error)

	// Enabled reports the device radio toggle. A false result means the
	// user has to flip a device setting; retrying without that is useless.
	Enabled(ctx context.Context) (bool, error)

	// Acquire opens the exclusive hardware session. Idempotent.
	Acquire(ctx context.Context) error

	// WriteURI encodes url as a single NDEF URI record and writes it to
	// whatever tag is presented.
	WriteURI(ctx context.Context, url string) error

	// Erase overwrites the presented tag with an empty NDEF message.
	Erase(ctx context.Context) error

	// Release frees the hardware session.
	Release() error
}

var (
	ErrUnsupported  = errors.New("nfc: hardware not available on this device")
	ErrDisabled     = errors.New("nfc: radio is turned off")
	ErrEmptyPayload = errors.New("nfc: empty payload")
	ErrPayloadSize  = errors.New("nfc: payload too large for a single record")
	ErrTagLost      = errors.New("nfc: tag removed or write timed out")
	ErrCancelled    = errors.New("nfc: cancelled by user")
)

// Retryable reports whether a write error is worth presenting the tag
// again for. Capability errors and cancellation are not.
func Retryable(err error) bool {
	return errors.Is(err, ErrTagLost)
}

// unsupportedWriter is the fail-closed writer for runtimes with no tag
// hardware (servers, simulators). Every capability check says no and
// nothing else is reachable.
type unsupportedWriter struct{}

// NewUnsupported returns a Writer for platforms without tag hardware.
func NewUnsupported() Writer {
	return unsupportedWriter{}
}

func (unsupportedWriter) Supported(context.Context) (bool, error) { return false, nil }
func (unsupportedWriter) Enabled(context.Context) (bool, error)   { return false, nil }
func (unsupportedWriter) Acquire(context.Context) error           { return ErrUnsupported }
func (unsupportedWriter) WriteURI(context.Context, string) error  { return ErrUnsupported }
func (unsupportedWriter) Erase(context.Context) error             { return ErrUnsupported }
func (unsupportedWriter) Release() error                          { return nil }

// internal/field/flow/flow.go

// Package flow sequences one tag-programming attempt end to end: capability
// checks, the physical write, the pending ledger record, the manual
// verification prompt, and the terminal resolution. It owns every failure
// and cancellation branch; the tag writer and the ledger are leaf
// dependencies it drives.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tapreview/tapreview-backend/internal/field/apiclient"
	"github.com/tapreview/tapreview-backend/internal/field/nfc"
	"github.com/tapreview/tapreview-backend/internal/field/pipeline"
	"github.com/tapreview/tapreview-backend/internal/models"
)

type State string

const (
	StateIdle                 State = "idle"
	StateAcquiring            State = "acquiring"
	StateAwaitingTag          State = "awaiting_tag"
	StateWriting              State = "writing"
	StateRecordingPending     State = "recording_pending"
	StateAwaitingVerification State = "awaiting_verification"
	StateResolving            State = "resolving"
	StateSuccess              State = "success"
	StateFailed               State = "failed"
)

// Ledger is the remote transaction record contract.
// *apiclient.TransactionsClient satisfies it.
type Ledger interface {
	Create(ctx context.Context, draft *apiclient.TransactionDraft) (*models.SaleTransaction, error)
	MarkSuccess(ctx context.Context, id string, price decimal.Decimal, notes string) (*models.SaleTransaction, error)
	MarkFailed(ctx context.Context, id string, notes string) (*models.SaleTransaction, error)
	MarkErased(ctx context.Context, id string) (*models.SaleTransaction, error)
}

// Outcome is the single result shape every flow step reduces to. Exactly
// one user-facing message derives from it; no raw device or network error
// reaches the user.
type Outcome struct {
	State State
	Err   error

	// Retryable: the user may try again without restarting the pipeline.
	Retryable bool
	// Fatal: a capability problem; retrying is useless until the device
	// settings change.
	Fatal bool
	// PartialFailure: the physical write succeeded but the ledger create
	// failed, so a live tag exists with no matching record.
	PartialFailure bool
	// EraseAdvised: prompt the follow-up erase flow to keep physical
	// inventory honest. Advisory, never automatic.
	EraseAdvised bool

	Transaction *models.SaleTransaction
}

var (
	ErrBusy            = errors.New("flow: a write is already in progress")
	ErrWrongState      = errors.New("flow: operation not valid in current state")
	ErrPriceInvalid    = errors.New("flow: sale price must be a non-negative amount")
	ErrNothingToErase  = errors.New("flow: no transaction to erase")
	errNoRecordPending = errors.New("flow: verification without a ledger record")
)

// Flow runs at most one attempt at a time; the trigger action is rejected
// while a write is in flight.
type Flow struct {
	mu     sync.Mutex
	writer nfc.Writer
	ledger Ledger
	log    *logrus.Logger

	state   State
	tx      *models.SaleTransaction
	partial bool
}

func New(writer nfc.Writer, ledger Ledger, log *logrus.Logger) *Flow {
	if log == nil {
		log = logrus.New()
	}
	return &Flow{
		writer: writer,
		ledger: ledger,
		log:    log,
		state:  StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Program runs the attempt from capability check through ledger create.
// It returns with the flow in awaiting_verification on the happy path, or
// back in idle (retryable/cancelled) or terminal failed (capability).
//
// The hardware session is released on every exit path, and never held
// across the ledger call.
func (f *Flow) Program(ctx context.Context, sel *pipeline.Context) *Outcome {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return &Outcome{State: f.state, Err: ErrBusy}
	}
	f.state = StateAcquiring
	f.mu.Unlock()

	outcome := f.program(ctx, sel)

	f.mu.Lock()
	f.state = outcome.State
	if outcome.State == StateFailed {
		// capability failures are terminal for the attempt but the flow
		// is immediately usable again
		f.state = StateIdle
	}
	f.mu.Unlock()
	return outcome
}

func (f *Flow) program(ctx context.Context, sel *pipeline.Context) *Outcome {
	// validation before any hardware or remote call
	if err := sel.ReadyToWrite(); err != nil {
		return &Outcome{State: StateIdle, Err: err}
	}

	// capability gate: fails closed, no hardware session is opened
	supported, err := f.writer.Supported(ctx)
	if err != nil || !supported {
		return &Outcome{State: StateFailed, Err: nfc.ErrUnsupported, Fatal: true}
	}
	enabled, err := f.writer.Enabled(ctx)
	if err != nil || !enabled {
		return &Outcome{State: StateFailed, Err: nfc.ErrDisabled, Fatal: true}
	}

	if err := f.writer.Acquire(ctx); err != nil {
		return &Outcome{State: StateIdle, Err: err, Retryable: true}
	}

	f.setState(StateAwaitingTag)
	f.setState(StateWriting)

	writeErr := f.writer.WriteURI(ctx, sel.ReviewURL)

	// release before anything else happens, success or not
	if err := f.writer.Release(); err != nil {
		f.log.WithError(err).Warn("tag writer release failed")
	}

	if writeErr != nil {
		if errors.Is(writeErr, context.Canceled) || errors.Is(writeErr, nfc.ErrCancelled) {
			return &Outcome{State: StateIdle, Err: nfc.ErrCancelled}
		}
		return &Outcome{State: StateIdle, Err: writeErr, Retryable: true}
	}

	f.setState(StateRecordingPending)

	tx, createErr := f.ledger.Create(ctx, draftFromSelection(sel))
	if createErr != nil {
		// the tag is live with no matching record; surfaced distinctly,
		// the flow still moves to verification
		f.log.WithFields(logrus.Fields{
			"place_id":   sel.Business.PlaceID,
			"review_url": sel.ReviewURL,
		}).WithError(createErr).Error("ledger create failed after successful tag write")

		f.mu.Lock()
		f.tx, f.partial = nil, true
		f.mu.Unlock()
		return &Outcome{
			State:          StateAwaitingVerification,
			Err:            createErr,
			PartialFailure: true,
		}
	}

	f.mu.Lock()
	f.tx, f.partial = tx, false
	f.mu.Unlock()
	return &Outcome{State: StateAwaitingVerification, Transaction: tx}
}

// ConfirmSale resolves the verification prompt as a sale. The price is
// validated before any remote call; a ledger error keeps the flow in
// awaiting_verification so the agent can retry.
func (f *Flow) ConfirmSale(ctx context.Context, price string, notes string) *Outcome {
	f.mu.Lock()
	if f.state != StateAwaitingVerification {
		state := f.state
		f.mu.Unlock()
		return &Outcome{State: state, Err: ErrWrongState}
	}
	tx, partial := f.tx, f.partial
	f.state = StateResolving
	f.mu.Unlock()

	amount, err := decimal.NewFromString(price)
	if err != nil || amount.IsNegative() {
		f.setState(StateAwaitingVerification)
		return &Outcome{State: StateAwaitingVerification, Err: ErrPriceInvalid}
	}

	if tx == nil {
		// partial failure path: nothing to update remotely, the sale is
		// only in the agent's head and the log line from Program
		f.reset()
		return &Outcome{State: StateSuccess, PartialFailure: partial, Err: errNoRecordPending}
	}

	updated, err := f.ledger.MarkSuccess(ctx, tx.ID.String(), amount, notes)
	if err != nil {
		f.setState(StateAwaitingVerification)
		return &Outcome{State: StateAwaitingVerification, Err: err, Retryable: true, Transaction: tx}
	}

	f.reset()
	return &Outcome{State: StateSuccess, Transaction: updated}
}

// ReportFailure resolves the verification prompt as a bad tag. The
// outcome advises the erase follow-up.
func (f *Flow) ReportFailure(ctx context.Context, notes string) *Outcome {
	f.mu.Lock()
	if f.state != StateAwaitingVerification {
		state := f.state
		f.mu.Unlock()
		return &Outcome{State: state, Err: ErrWrongState}
	}
	tx, partial := f.tx, f.partial
	f.state = StateResolving
	f.mu.Unlock()

	if tx == nil {
		f.reset()
		return &Outcome{State: StateFailed, PartialFailure: partial, EraseAdvised: true, Err: errNoRecordPending}
	}

	updated, err := f.ledger.MarkFailed(ctx, tx.ID.String(), notes)
	if err != nil {
		f.setState(StateAwaitingVerification)
		return &Outcome{State: StateAwaitingVerification, Err: err, Retryable: true, Transaction: tx}
	}

	f.reset()
	return &Outcome{State: StateFailed, Transaction: updated, EraseAdvised: true}
}

// Abandon walks away mid-verification. The pending ledger record stays;
// nothing expires it, it remains queryable for later reconciliation.
func (f *Flow) Abandon() *models.SaleTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx := f.tx
	if tx != nil {
		f.log.WithField("transaction_id", tx.ID).Warn("verification abandoned, record left pending")
	}
	f.tx, f.partial = nil, false
	f.state = StateIdle
	return tx
}

// Erase wipes a tag after a reported failure and records the erasure.
// Same hardware discipline as Program: capability gate, release on every
// exit path, ledger call only after release.
func (f *Flow) Erase(ctx context.Context, transactionID string) *Outcome {
	if transactionID == "" {
		return &Outcome{State: StateIdle, Err: ErrNothingToErase}
	}

	supported, err := f.writer.Supported(ctx)
	if err != nil || !supported {
		return &Outcome{State: StateFailed, Err: nfc.ErrUnsupported, Fatal: true}
	}
	enabled, err := f.writer.Enabled(ctx)
	if err != nil || !enabled {
		return &Outcome{State: StateFailed, Err: nfc.ErrDisabled, Fatal: true}
	}

	if err := f.writer.Acquire(ctx); err != nil {
		return &Outcome{State: StateIdle, Err: err, Retryable: true}
	}

	eraseErr := f.writer.Erase(ctx)
	if err := f.writer.Release(); err != nil {
		f.log.WithError(err).Warn("tag writer release failed")
	}

	if eraseErr != nil {
		if errors.Is(eraseErr, context.Canceled) || errors.Is(eraseErr, nfc.ErrCancelled) {
			return &Outcome{State: StateIdle, Err: nfc.ErrCancelled}
		}
		return &Outcome{State: StateIdle, Err: eraseErr, Retryable: true}
	}

	updated, err := f.ledger.MarkErased(ctx, transactionID)
	if err != nil {
		return &Outcome{State: StateIdle, Err: fmt.Errorf("tag erased but not recorded: %w", err), PartialFailure: true}
	}

	return &Outcome{State: StateSuccess, Transaction: updated}
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Flow) reset() {
	f.mu.Lock()
	f.tx, f.partial = nil, false
	f.state = StateIdle
	f.mu.Unlock()
}

func draftFromSelection(sel *pipeline.Context) *apiclient.TransactionDraft {
	draft := &apiclient.TransactionDraft{
		BusinessName:    sel.Business.Name,
		BusinessAddress: sel.Business.Address,
		PlaceID:         sel.Business.PlaceID,
		ReviewURL:       sel.ReviewURL,
		LocationLat:     sel.Business.Location.Lat,
		LocationLng:     sel.Business.Location.Lng,
	}
	if sel.Product != nil {
		draft.ProductID = sel.Product.ID.String()
		if sel.Variant != nil {
			draft.VariantLabel = sel.Variant.Label
		}
	}
	if sel.SignType != nil {
		draft.SignTypeID = sel.SignType.ID.String()
		draft.SignTypeName = sel.SignType.Name
	}
	return draft
}

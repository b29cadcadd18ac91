// internal/field/flow/flow_test.go
package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapreview/tapreview-backend/internal/field/apiclient"
	"github.com/tapreview/tapreview-backend/internal/field/nfc"
	"github.com/tapreview/tapreview-backend/internal/field/pipeline"
	"github.com/tapreview/tapreview-backend/internal/models"
)

type fakeWriter struct {
	supported bool
	enabled   bool

	acquires int
	releases int
	writes   []string
	erases   int

	acquireErr error
	writeErr   error
	eraseErr   error
}

func (w *fakeWriter) Supported(context.Context) (bool, error) { return w.supported, nil }
func (w *fakeWriter) Enabled(context.Context) (bool, error)   { return w.enabled, nil }

func (w *fakeWriter) Acquire(context.Context) error {
	if w.acquireErr != nil {
		return w.acquireErr
	}
	w.acquires++
	return nil
}

func (w *fakeWriter) WriteURI(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.writeErr != nil {
		return w.writeErr
	}
	w.writes = append(w.writes, url)
	return nil
}

func (w *fakeWriter) Erase(context.Context) error {
	if w.eraseErr != nil {
		return w.eraseErr
	}
	w.erases++
	return nil
}

func (w *fakeWriter) Release() error {
	w.releases++
	return nil
}

type fakeLedger struct {
	creates []*apiclient.TransactionDraft
	created *models.SaleTransaction

	successID    string
	successPrice decimal.Decimal
	successNotes string
	failedID     string
	failedNotes  string
	erasedID     string

	createErr error
	markErr   error
}

func (l *fakeLedger) Create(_ context.Context, draft *apiclient.TransactionDraft) (*models.SaleTransaction, error) {
	l.creates = append(l.creates, draft)
	if l.createErr != nil {
		return nil, l.createErr
	}
	tx := &models.SaleTransaction{
		BusinessName: draft.BusinessName,
		PlaceID:      draft.PlaceID,
		ReviewURL:    draft.ReviewURL,
		Status:       models.TransactionStatusPending,
		ProgrammedAt: time.Now(),
	}
	tx.ID = uuid.New()
	l.created = tx
	return tx, nil
}

func (l *fakeLedger) MarkSuccess(_ context.Context, id string, price decimal.Decimal, notes string) (*models.SaleTransaction, error) {
	if l.markErr != nil {
		return nil, l.markErr
	}
	l.successID, l.successPrice, l.successNotes = id, price, notes
	tx := *l.created
	tx.Status = models.TransactionStatusSuccess
	tx.SalePrice = &price
	return &tx, nil
}

func (l *fakeLedger) MarkFailed(_ context.Context, id string, notes string) (*models.SaleTransaction, error) {
	if l.markErr != nil {
		return nil, l.markErr
	}
	l.failedID, l.failedNotes = id, notes
	tx := *l.created
	tx.Status = models.TransactionStatusFailed
	return &tx, nil
}

func (l *fakeLedger) MarkErased(_ context.Context, id string) (*models.SaleTransaction, error) {
	if l.markErr != nil {
		return nil, l.markErr
	}
	l.erasedID = id
	now := time.Now()
	tx := &models.SaleTransaction{Status: models.TransactionStatusErased, ErasedAt: &now}
	tx.ID = uuid.MustParse(id)
	return tx, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func readySelection(t *testing.T) *pipeline.Context {
	t.Helper()

	business := &models.Business{
		Name:      "The Corner Cafe",
		Address:   "1 High Street",
		PlaceID:   "ChIJcorner",
		ReviewURL: "https://g.co/r1",
	}
	sel, err := pipeline.SelectBusiness(business)
	require.NoError(t, err)
	require.NoError(t, sel.SelectPlatform(pipeline.PlatformGoogle))

	product := &models.Product{
		Name:      "Review Stand",
		BasePrice: decimal.RequireFromString("19.99"),
		IsActive:  true,
	}
	product.ID = uuid.New()
	variant := models.ProductVariant{ProductID: product.ID, Label: "Oak", Position: 0}
	variant.ID = uuid.New()
	product.Variants = []models.ProductVariant{variant}
	require.NoError(t, sel.SelectProduct(product))

	return sel
}

func TestProgramAndConfirmSale(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	outcome := f.Program(context.Background(), readySelection(t))
	require.NoError(t, outcome.Err)
	assert.Equal(t, StateAwaitingVerification, outcome.State)
	assert.Equal(t, StateAwaitingVerification, f.State())
	require.NotNil(t, outcome.Transaction)
	assert.Equal(t, models.TransactionStatusPending, outcome.Transaction.Status)

	// the tag carries the resolved review link
	require.Len(t, writer.writes, 1)
	assert.Equal(t, "https://g.co/r1", writer.writes[0])

	// hardware released before the ledger call, every session closed
	assert.Equal(t, writer.acquires, writer.releases)
	require.Len(t, ledger.creates, 1)
	assert.Equal(t, "ChIJcorner", ledger.creates[0].PlaceID)
	assert.Equal(t, "Oak", ledger.creates[0].VariantLabel)

	resolved := f.ConfirmSale(context.Background(), "9.99", "paid cash")
	require.NoError(t, resolved.Err)
	assert.Equal(t, StateSuccess, resolved.State)
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, outcome.Transaction.ID.String(), ledger.successID)
	assert.True(t, ledger.successPrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "paid cash", ledger.successNotes)
}

func TestProgramUnsupportedNeverTouchesHardware(t *testing.T) {
	writer := &fakeWriter{supported: false}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	outcome := f.Program(context.Background(), readySelection(t))
	assert.ErrorIs(t, outcome.Err, nfc.ErrUnsupported)
	assert.True(t, outcome.Fatal)
	assert.Equal(t, StateFailed, outcome.State)

	// no session opened, no record created
	assert.Zero(t, writer.acquires)
	assert.Zero(t, writer.releases)
	assert.Empty(t, ledger.creates)

	// the flow is immediately reusable
	assert.Equal(t, StateIdle, f.State())
}

func TestProgramRadioOffIsFatal(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: false}
	f := New(writer, &fakeLedger{}, quietLogger())

	outcome := f.Program(context.Background(), readySelection(t))
	assert.ErrorIs(t, outcome.Err, nfc.ErrDisabled)
	assert.True(t, outcome.Fatal)
	assert.Zero(t, writer.acquires)
}

func TestProgramCancelledWhileAwaitingTag(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := f.Program(ctx, readySelection(t))
	assert.ErrorIs(t, outcome.Err, nfc.ErrCancelled)
	assert.False(t, outcome.Retryable)
	assert.Equal(t, StateIdle, outcome.State)
	assert.Equal(t, StateIdle, f.State())

	// cancelling before a tag arrived leaves no trace in the ledger
	assert.Empty(t, ledger.creates)
	assert.Equal(t, writer.acquires, writer.releases)
}

func TestProgramTagLostIsRetryable(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true, writeErr: nfc.ErrTagLost}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	outcome := f.Program(context.Background(), readySelection(t))
	assert.ErrorIs(t, outcome.Err, nfc.ErrTagLost)
	assert.True(t, outcome.Retryable)
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, ledger.creates)
	assert.Equal(t, writer.acquires, writer.releases)

	// same flow, second presentation succeeds
	writer.writeErr = nil
	outcome = f.Program(context.Background(), readySelection(t))
	require.NoError(t, outcome.Err)
	assert.Equal(t, StateAwaitingVerification, outcome.State)
	assert.Equal(t, writer.acquires, writer.releases)
}

func TestProgramLedgerFailureIsPartial(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{createErr: errors.New("api unreachable")}
	f := New(writer, ledger, quietLogger())

	outcome := f.Program(context.Background(), readySelection(t))
	assert.True(t, outcome.PartialFailure)
	assert.Error(t, outcome.Err)
	assert.Equal(t, StateAwaitingVerification, outcome.State)
	assert.Nil(t, outcome.Transaction)

	// the write itself went through and the session was still closed
	assert.Len(t, writer.writes, 1)
	assert.Equal(t, writer.acquires, writer.releases)
}

func TestConfirmSaleRejectsBadPriceBeforeRemoteCall(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	f.Program(context.Background(), readySelection(t))

	for _, price := range []string{"", "free", "-1.00"} {
		outcome := f.ConfirmSale(context.Background(), price, "")
		assert.ErrorIs(t, outcome.Err, ErrPriceInvalid, "price %q", price)
		assert.Equal(t, StateAwaitingVerification, f.State())
	}
	assert.Empty(t, ledger.successID)

	// zero is a valid amount, the sign was given away
	outcome := f.ConfirmSale(context.Background(), "0.00", "freebie for a friend")
	require.NoError(t, outcome.Err)
	assert.True(t, ledger.successPrice.IsZero())
}

func TestConfirmSaleRetryAfterLedgerError(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	f.Program(context.Background(), readySelection(t))

	ledger.markErr = errors.New("timeout")
	outcome := f.ConfirmSale(context.Background(), "45.00", "")
	assert.Error(t, outcome.Err)
	assert.True(t, outcome.Retryable)
	assert.Equal(t, StateAwaitingVerification, f.State())

	ledger.markErr = nil
	outcome = f.ConfirmSale(context.Background(), "45.00", "")
	require.NoError(t, outcome.Err)
	assert.Equal(t, StateSuccess, outcome.State)
}

func TestReportFailureAdvisesErase(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	programmed := f.Program(context.Background(), readySelection(t))
	require.NoError(t, programmed.Err)

	outcome := f.ReportFailure(context.Background(), "tag damaged")
	require.NoError(t, outcome.Err)
	assert.Equal(t, StateFailed, outcome.State)
	assert.True(t, outcome.EraseAdvised)
	assert.Equal(t, "tag damaged", ledger.failedNotes)
	assert.Equal(t, models.TransactionStatusFailed, outcome.Transaction.Status)
	assert.Equal(t, StateIdle, f.State())

	erased := f.Erase(context.Background(), outcome.Transaction.ID.String())
	require.NoError(t, erased.Err)
	assert.Equal(t, 1, writer.erases)
	assert.Equal(t, outcome.Transaction.ID.String(), ledger.erasedID)
	assert.Equal(t, models.TransactionStatusErased, erased.Transaction.Status)
	assert.Equal(t, writer.acquires, writer.releases)
}

func TestEraseRecordErrorIsPartial(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{markErr: errors.New("api unreachable")}
	f := New(writer, ledger, quietLogger())

	outcome := f.Erase(context.Background(), uuid.New().String())
	assert.True(t, outcome.PartialFailure)
	assert.Error(t, outcome.Err)
	assert.Equal(t, 1, writer.erases)
	assert.Equal(t, writer.acquires, writer.releases)
}

func TestAbandonLeavesRecordPending(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	programmed := f.Program(context.Background(), readySelection(t))
	require.NoError(t, programmed.Err)

	left := f.Abandon()
	require.NotNil(t, left)
	assert.Equal(t, models.TransactionStatusPending, left.Status)
	assert.Equal(t, StateIdle, f.State())

	// nothing resolved it remotely
	assert.Empty(t, ledger.successID)
	assert.Empty(t, ledger.failedID)
}

func TestProgramRejectsConcurrentAttempt(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	ledger := &fakeLedger{}
	f := New(writer, ledger, quietLogger())

	f.Program(context.Background(), readySelection(t))
	require.Equal(t, StateAwaitingVerification, f.State())

	outcome := f.Program(context.Background(), readySelection(t))
	assert.ErrorIs(t, outcome.Err, ErrBusy)
	assert.Len(t, writer.writes, 1)
}

func TestProgramRejectsIncompleteSelection(t *testing.T) {
	writer := &fakeWriter{supported: true, enabled: true}
	f := New(writer, &fakeLedger{}, quietLogger())

	business := &models.Business{Name: "No Link", PlaceID: "ChIJx"}
	sel, err := pipeline.SelectBusiness(business)
	require.NoError(t, err)

	outcome := f.Program(context.Background(), sel)
	assert.Error(t, outcome.Err)
	assert.Zero(t, writer.acquires)
}

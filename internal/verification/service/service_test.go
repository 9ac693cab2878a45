package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardcheck/internal/ledger"
	"boardcheck/internal/policy"
	id "boardcheck/pkg/domain"
	dErrors "boardcheck/pkg/domain-errors"
	"boardcheck/pkg/platform/notify"
	"boardcheck/pkg/requestcontext"
)

type capturingPublisher struct {
	events []notify.Event
	err    error
}

func (p *capturingPublisher) Emit(_ context.Context, event notify.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type failingStore struct {
	ledger.Store
	err error
}

func (f *failingStore) Append(context.Context, ledger.Record) (int, error) { return 0, f.err }

func newTestService(store ledger.Store, events Publisher) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, events, logger, nil)
}

func adultInput() policy.PassengerInput {
	return policy.PassengerInput{
		Nationality: policy.NationalityCitizen,
		Age:         35,
		Companion:   policy.CompanionUnaccompanied,
		Destination: policy.DestinationOther,
	}
}

func TestService_EvaluateDoesNotTouchLedger(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := newTestService(store, &capturingPublisher{})
	ctx := context.Background()

	assessment, err := svc.Evaluate(ctx, adultInput())
	require.NoError(t, err)
	assert.True(t, assessment.CanBoard)
	assert.Equal(t, policy.CategoryAdultCitizen, assessment.Category)

	total, err := svc.GlobalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_EvaluateAndRecord(t *testing.T) {
	store := ledger.NewInMemoryStore()
	publisher := &capturingPublisher{}
	svc := newTestService(store, publisher)

	requester := id.NewRequesterID()
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	result, err := svc.EvaluateAndRecord(ctx, requester, adultInput())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Index)
	assert.Equal(t, requester, result.Record.Requester)
	assert.Equal(t, at, result.Record.CreatedAt)
	assert.Equal(t, []policy.DocumentCode{policy.DocPassport}, result.Record.Required)

	// The append is visible through the read path.
	count, err := svc.Count(ctx, requester)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := svc.RecordAt(ctx, requester, 0)
	require.NoError(t, err)
	assert.Equal(t, result.Record, stored)

	total, err := svc.GlobalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)

	// Exactly one event for a non-minor evaluation.
	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, notify.KindEvaluationCompleted, event.Kind)
	assert.Equal(t, requester, event.Requester)
	assert.Equal(t, "adult_citizen", event.Category)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, at, event.Timestamp)
}

func TestService_MinorEvaluationEmitsAlert(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := newTestService(ledger.NewInMemoryStore(), publisher)

	in := policy.PassengerInput{
		Nationality: policy.NationalityCitizen,
		Age:         14,
		Companion:   policy.CompanionUnaccompanied,
		Destination: policy.DestinationExtendedBloc,
	}
	_, err := svc.EvaluateAndRecord(context.Background(), id.NewRequesterID(), in)
	require.NoError(t, err)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, notify.KindEvaluationCompleted, publisher.events[0].Kind)
	alert := publisher.events[1]
	assert.Equal(t, notify.KindMinorAlert, alert.Kind)
	assert.Equal(t, 14, alert.Age)
	assert.Equal(t, "unaccompanied", alert.Companion)
}

func TestService_FailedEvaluationLeavesLedgerUntouched(t *testing.T) {
	store := ledger.NewInMemoryStore()
	publisher := &capturingPublisher{}
	svc := newTestService(store, publisher)

	requester := id.NewRequesterID()
	in := adultInput()
	in.Age = 151

	_, err := svc.EvaluateAndRecord(context.Background(), requester, in)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAge))

	count, err := svc.Count(context.Background(), requester)
	require.NoError(t, err)
	assert.Zero(t, count)
	total, err := svc.GlobalCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, publisher.events)
}

func TestService_RejectsNilRequester(t *testing.T) {
	svc := newTestService(ledger.NewInMemoryStore(), &capturingPublisher{})
	ctx := context.Background()

	_, err := svc.EvaluateAndRecord(ctx, id.RequesterID{}, adultInput())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = svc.Count(ctx, id.RequesterID{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = svc.RecordAt(ctx, id.RequesterID{}, 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestService_RecordAtOutOfRange(t *testing.T) {
	svc := newTestService(ledger.NewInMemoryStore(), &capturingPublisher{})
	requester := id.NewRequesterID()

	_, err := svc.EvaluateAndRecord(context.Background(), requester, adultInput())
	require.NoError(t, err)

	_, err = svc.RecordAt(context.Background(), requester, 1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOutOfRange))
	_, err = svc.RecordAt(context.Background(), requester, -1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOutOfRange))
}

func TestService_AppendFailureIsInternal(t *testing.T) {
	store := &failingStore{err: errors.New("connection refused")}
	publisher := &capturingPublisher{}
	svc := newTestService(store, publisher)

	_, err := svc.EvaluateAndRecord(context.Background(), id.NewRequesterID(), adultInput())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Empty(t, publisher.events, "no event without a committed append")
}

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := ledger.NewInMemoryStore()
	publisher := &capturingPublisher{err: errors.New("bus down")}
	svc := newTestService(store, publisher)

	result, err := svc.EvaluateAndRecord(context.Background(), id.NewRequesterID(), adultInput())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Index)
}

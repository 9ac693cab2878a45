// Package service orchestrates boarding-document verification: it runs the
// policy rules, persists results to the append-only ledger, and emits
// notification events after a committed write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"boardcheck/internal/ledger"
	"boardcheck/internal/policy"
	"boardcheck/internal/verification/metrics"
	id "boardcheck/pkg/domain"
	dErrors "boardcheck/pkg/domain-errors"
	"boardcheck/pkg/platform/notify"
	"boardcheck/pkg/platform/sentinel"
	"boardcheck/pkg/requestcontext"
)

// Publisher emits notification events. Satisfied by notify.Bus.
type Publisher interface {
	Emit(ctx context.Context, event notify.Event) error
}

// Service is the verification module's application layer. Evaluate is the
// stateless read path; EvaluateAndRecord is the write path that appends to the
// ledger and notifies.
type Service struct {
	store   ledger.Store
	events  Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store ledger.Store, events Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, events: events, logger: logger, metrics: m}
}

// RecordedAssessment is the outcome of the write path: the persisted record
// plus its assigned per-requester index.
type RecordedAssessment struct {
	Index  int
	Record ledger.Record
}

// Evaluate runs the policy rules without touching the ledger. It requires no
// authenticated identity and has no side effects beyond metrics.
func (s *Service) Evaluate(ctx context.Context, in policy.PassengerInput) (policy.Assessment, error) {
	start := time.Now()
	assessment, err := policy.Evaluate(in)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		return policy.Assessment{}, err
	}
	s.metrics.IncrementEvaluation(assessment.Category.String(), strconv.FormatBool(assessment.CanBoard))
	return assessment, nil
}

// EvaluateAndRecord runs the rules and, only on success, appends the result to
// the requester's ledger sequence. A failed evaluation leaves the ledger and
// the global counter untouched.
//
// Notification emission happens after the append commits; a failed emission is
// logged and counted but never rolls back or fails the write.
func (s *Service) EvaluateAndRecord(ctx context.Context, requester id.RequesterID, in policy.PassengerInput) (RecordedAssessment, error) {
	if requester.IsNil() {
		return RecordedAssessment{}, dErrors.New(dErrors.CodeUnauthorized, "missing requester identity")
	}

	assessment, err := s.Evaluate(ctx, in)
	if err != nil {
		return RecordedAssessment{}, err
	}

	rec := ledger.Record{
		Requester: requester,
		CanBoard:  assessment.CanBoard,
		Category:  assessment.Category,
		Required:  assessment.Required,
		Optional:  assessment.Optional,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	index, err := s.store.Append(ctx, rec)
	if err != nil {
		return RecordedAssessment{}, dErrors.Wrap(dErrors.CodeInternal, "append verification record", err)
	}
	s.metrics.IncrementRecordsAppended()

	s.logger.InfoContext(ctx, "verification recorded",
		"requester_id", requester,
		"index", index,
		"category", assessment.Category,
		"can_board", assessment.CanBoard,
	)

	s.emit(ctx, notify.Event{
		Kind:      notify.KindEvaluationCompleted,
		Timestamp: rec.CreatedAt,
		Requester: requester,
		Category:  assessment.Category.String(),
		CanBoard:  assessment.CanBoard,
		RequestID: requestcontext.RequestID(ctx),
	})
	if assessment.Category == policy.CategoryMinorCitizen {
		s.emit(ctx, notify.Event{
			Kind:      notify.KindMinorAlert,
			Timestamp: rec.CreatedAt,
			Requester: requester,
			Category:  assessment.Category.String(),
			CanBoard:  assessment.CanBoard,
			RequestID: requestcontext.RequestID(ctx),
			Age:       in.Age,
			Companion: in.Companion.String(),
		})
	}

	return RecordedAssessment{Index: index, Record: rec}, nil
}

// Count returns how many records the requester has accumulated.
func (s *Service) Count(ctx context.Context, requester id.RequesterID) (int, error) {
	if requester.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "missing requester identity")
	}
	n, err := s.store.Count(ctx, requester)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "count verification records", err)
	}
	return n, nil
}

// RecordAt returns the requester's record at the given 0-based index.
func (s *Service) RecordAt(ctx context.Context, requester id.RequesterID, index int) (ledger.Record, error) {
	if requester.IsNil() {
		return ledger.Record{}, dErrors.New(dErrors.CodeUnauthorized, "missing requester identity")
	}
	rec, err := s.store.Get(ctx, requester, index)
	if err != nil {
		if errors.Is(err, sentinel.ErrOutOfRange) {
			return ledger.Record{}, dErrors.New(dErrors.CodeOutOfRange, fmt.Sprintf("no verification record at index %d", index))
		}
		return ledger.Record{}, dErrors.Wrap(dErrors.CodeInternal, "read verification record", err)
	}
	return rec, nil
}

// GlobalCount returns the total number of records across all requesters.
func (s *Service) GlobalCount(ctx context.Context) (uint64, error) {
	n, err := s.store.GlobalCount(ctx)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "read global verification count", err)
	}
	return n, nil
}

func (s *Service) emit(ctx context.Context, event notify.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.metrics.IncrementNotifyFailures()
		s.logger.ErrorContext(ctx, "notification emit failed",
			"kind", event.Kind,
			"requester_id", event.Requester,
			"error", err,
		)
	}
}

// Package handler exposes the verification module over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"boardcheck/internal/ledger"
	"boardcheck/internal/policy"
	"boardcheck/internal/verification/service"
	id "boardcheck/pkg/domain"
	dErrors "boardcheck/pkg/domain-errors"
	"boardcheck/pkg/platform/httputil"
	"boardcheck/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	Evaluate(ctx context.Context, in policy.PassengerInput) (policy.Assessment, error)
	EvaluateAndRecord(ctx context.Context, requester id.RequesterID, in policy.PassengerInput) (service.RecordedAssessment, error)
	Count(ctx context.Context, requester id.RequesterID) (int, error)
	RecordAt(ctx context.Context, requester id.RequesterID, index int) (ledger.Record, error)
	GlobalCount(ctx context.Context) (uint64, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification and policy-catalog endpoints on the router.
// The write path and the per-requester reads need an authenticated requester;
// evaluation, the global counter, and the catalogs do not.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/evaluate", h.HandleEvaluate)
	r.Post("/verification/records", h.HandleRecord)
	r.Get("/verification/records/count", h.HandleCount)
	r.Get("/verification/records/{index}", h.HandleRecordAt)
	r.Get("/verification/global-count", h.HandleGlobalCount)
	r.Get("/policy/documents", h.HandleDocuments)
	r.Get("/policy/mercosul", h.HandleMercosul)
}

// HandleEvaluate handles POST /verification/evaluate requests. The evaluation
// is stateless; nothing is persisted.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	assessment, err := h.service.Evaluate(ctx, req.ParsedInput())
	if err != nil {
		h.logger.WarnContext(ctx, "evaluation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleRecord handles POST /verification/records requests.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	requester := requestcontext.Requester(ctx)
	if requester.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateAndRecord(ctx, requester, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification write failed",
			"request_id", requestID,
			"requester_id", requester,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification record created",
		"request_id", requestID,
		"requester_id", requester,
		"index", result.Index,
		"category", result.Record.Category,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromRecorded(result))
}

// HandleCount handles GET /verification/records/count requests.
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requester := requestcontext.Requester(ctx)
	if requester.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	count, err := h.service.Count(ctx, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

// HandleRecordAt handles GET /verification/records/{index} requests.
func (h *Handler) HandleRecordAt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requester := requestcontext.Requester(ctx)
	if requester.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "index must be an integer"))
		return
	}

	rec, err := h.service.RecordAt(ctx, requester, index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(index, rec))
}

// HandleGlobalCount handles GET /verification/global-count requests.
func (h *Handler) HandleGlobalCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.service.GlobalCount(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GlobalCountResponse{Count: count})
}

// HandleDocuments handles GET /policy/documents requests. The catalog lets
// off-service translators resolve wire ordinals without hardcoding them.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	docs := make([]DocumentInfo, 0, int(policy.DocElectronicTravelAuthorization)+1)
	for code := policy.DocPassport; code <= policy.DocElectronicTravelAuthorization; code++ {
		docs = append(docs, DocumentInfo{
			Code:        int(code),
			Name:        code.String(),
			Description: code.Description(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, DocumentsResponse{Documents: docs})
}

// HandleMercosul handles GET /policy/mercosul requests.
func (h *Handler) HandleMercosul(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, MercosulResponse{Countries: policy.MercosulCountries()})
}

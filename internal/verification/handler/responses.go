package handler

import (
	"time"

	"boardcheck/internal/ledger"
	"boardcheck/internal/policy"
	"boardcheck/internal/verification/service"
)

// DocumentRef pairs a document's wire ordinal with its stable name.
type DocumentRef struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

func documentRefs(codes []policy.DocumentCode) []DocumentRef {
	refs := make([]DocumentRef, 0, len(codes))
	for _, code := range codes {
		refs = append(refs, DocumentRef{Code: int(code), Name: code.String()})
	}
	return refs
}

// AssessmentResponse is the HTTP response for POST /verification/evaluate.
type AssessmentResponse struct {
	CanBoard          bool          `json:"can_board"`
	Category          int           `json:"category"`
	CategoryName      string        `json:"category_name"`
	RequiredDocuments []DocumentRef `json:"required_documents"`
	OptionalDocuments []DocumentRef `json:"optional_documents"`
}

// FromAssessment converts a policy assessment to an HTTP response.
func FromAssessment(a policy.Assessment) AssessmentResponse {
	return AssessmentResponse{
		CanBoard:          a.CanBoard,
		Category:          int(a.Category),
		CategoryName:      a.Category.String(),
		RequiredDocuments: documentRefs(a.Required),
		OptionalDocuments: documentRefs(a.Optional),
	}
}

// RecordResponse is the HTTP shape of a persisted verification record,
// returned by POST /verification/records and GET /verification/records/{index}.
type RecordResponse struct {
	Index int `json:"index"`
	AssessmentResponse
	CreatedAt time.Time `json:"created_at"`
}

// FromRecord converts a ledger record and its index to an HTTP response.
func FromRecord(index int, rec ledger.Record) RecordResponse {
	return RecordResponse{
		Index: index,
		AssessmentResponse: AssessmentResponse{
			CanBoard:          rec.CanBoard,
			Category:          int(rec.Category),
			CategoryName:      rec.Category.String(),
			RequiredDocuments: documentRefs(rec.Required),
			OptionalDocuments: documentRefs(rec.Optional),
		},
		CreatedAt: rec.CreatedAt,
	}
}

// FromRecorded converts a write-path result to an HTTP response.
func FromRecorded(result service.RecordedAssessment) RecordResponse {
	return FromRecord(result.Index, result.Record)
}

// CountResponse is the HTTP response for GET /verification/records/count.
type CountResponse struct {
	Count int `json:"count"`
}

// GlobalCountResponse is the HTTP response for GET /verification/global-count.
type GlobalCountResponse struct {
	Count uint64 `json:"count"`
}

// DocumentInfo describes one document code in the catalog response.
type DocumentInfo struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DocumentsResponse is the HTTP response for GET /policy/documents.
type DocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

// MercosulResponse is the HTTP response for GET /policy/mercosul.
type MercosulResponse struct {
	Countries []string `json:"countries"`
}

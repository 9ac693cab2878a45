package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardcheck/internal/jwttoken"
	id "boardcheck/pkg/domain"
	"boardcheck/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestMeta(t *testing.T) {
	var gotID string
	var gotTime time.Time
	handler := RequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = requestcontext.RequestID(r.Context())
		gotTime = requestcontext.Now(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, gotID)
	assert.False(t, gotTime.IsZero())
	assert.Equal(t, gotID, rec.Header().Get("X-Request-ID"))

	// A caller-supplied ID is preserved.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-42", gotID)
	assert.Equal(t, "upstream-42", rec.Header().Get("X-Request-ID"))
}

func TestAuthenticate(t *testing.T) {
	tokens := jwttoken.NewService("test-key", "boardcheck", "boardcheck-api")
	requester := id.NewRequesterID()
	token, err := tokens.GenerateAccessToken(requester, time.Hour)
	require.NoError(t, err)

	var gotRequester id.RequesterID
	var reached bool
	handler := Authenticate(tokens, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotRequester = requestcontext.Requester(r.Context())
	}))

	serve := func(authorization string) *httptest.ResponseRecorder {
		reached = false
		gotRequester = id.RequesterID{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token injects requester", func(t *testing.T) {
		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.Equal(t, requester, gotRequester)
	})

	t.Run("missing header passes through unauthenticated", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.True(t, gotRequester.IsNil())
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		rec := serve("Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		rec := serve("Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"invalid token"}`, rec.Body.String())
	})
}

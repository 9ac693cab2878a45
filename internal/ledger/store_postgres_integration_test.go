package ledger

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardcheck/internal/policy"
	id "boardcheck/pkg/domain"
	"boardcheck/pkg/platform/sentinel"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS boarding_verifications (
	id            UUID PRIMARY KEY,
	requester_id  UUID NOT NULL,
	seq           BIGINT NOT NULL,
	can_board     BOOLEAN NOT NULL,
	category      SMALLINT NOT NULL,
	required_docs SMALLINT[] NOT NULL,
	optional_docs SMALLINT[] NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	UNIQUE (requester_id, seq)
)`

// Integration tests run against a real PostgreSQL, selected via env:
//
//	BOARDCHECK_TEST_POSTGRES_DSN="postgres://localhost/boardcheck_test?sslmode=disable" go test ./internal/ledger/...
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("BOARDCHECK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BOARDCHECK_TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	_, err = db.ExecContext(ctx, createTableSQL)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `TRUNCATE boarding_verifications`)
	require.NoError(t, err)

	return NewPostgresStore(db)
}

func TestPostgresStore_AppendAndRead(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	requester := id.NewRequesterID()

	rec := Record{
		Requester: requester,
		CanBoard:  true,
		Category:  policy.CategoryMinorCitizen,
		Required:  []policy.DocumentCode{policy.DocPassport, policy.DocBothParentsAuthorization},
		Optional:  []policy.DocumentCode{policy.DocRegionalStateID, policy.DocElectronicTravelAuthorization},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	index, err := store.Append(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	index, err = store.Append(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	count, err := store.Count(ctx, requester)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.Get(ctx, requester, 1)
	require.NoError(t, err)
	assert.Equal(t, rec.Required, got.Required)
	assert.Equal(t, rec.Optional, got.Optional)
	assert.Equal(t, rec.Category, got.Category)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	_, err = store.Get(ctx, requester, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrOutOfRange)
}

func TestPostgresStore_GlobalCount(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	a, b := id.NewRequesterID(), id.NewRequesterID()
	for _, requester := range []id.RequesterID{a, b, b} {
		_, err := store.Append(ctx, Record{
			Requester: requester,
			CanBoard:  true,
			Category:  policy.CategoryAdultCitizen,
			Required:  []policy.DocumentCode{policy.DocPassport},
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	total, err := store.GlobalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
}

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"boardcheck/internal/policy"
	id "boardcheck/pkg/domain"
	"boardcheck/pkg/platform/sentinel"
)

// PostgresStore persists the ledger in a single append-only table:
//
//	CREATE TABLE boarding_verifications (
//	    id            UUID PRIMARY KEY,
//	    requester_id  UUID NOT NULL,
//	    seq           BIGINT NOT NULL,
//	    can_board     BOOLEAN NOT NULL,
//	    category      SMALLINT NOT NULL,
//	    required_docs SMALLINT[] NOT NULL,
//	    optional_docs SMALLINT[] NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    UNIQUE (requester_id, seq)
//	);
//
// seq is the 0-based per-requester index. No UPDATE or DELETE statement exists
// in this store; the UNIQUE constraint backs up the append-only invariant at
// the schema level.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the ledger table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
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
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// Append inserts the record with the next per-requester seq inside a single
// transaction. A per-requester advisory lock serializes concurrent appends for
// the same requester; appends for different requesters do not contend.
func (s *PostgresStore) Append(ctx context.Context, rec Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Advisory lock scoped to the transaction: released automatically at
	// commit or rollback, so a failed append leaves no state behind.
	requesterUUID := uuid.UUID(rec.Requester)
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		requesterUUID,
	); err != nil {
		return 0, fmt.Errorf("acquire requester lock: %w", err)
	}

	var index int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boarding_verifications WHERE requester_id = $1`,
		requesterUUID,
	).Scan(&index); err != nil {
		return 0, fmt.Errorf("next seq for requester: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO boarding_verifications (
			id, requester_id, seq, can_board, category,
			required_docs, optional_docs, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.New(),
		requesterUUID,
		index,
		rec.CanBoard,
		int(rec.Category),
		pq.Array(docsToInt64(rec.Required)),
		pq.Array(docsToInt64(rec.Optional)),
		rec.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("insert verification record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append tx: %w", err)
	}
	return index, nil
}

func (s *PostgresStore) Count(ctx context.Context, requester id.RequesterID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boarding_verifications WHERE requester_id = $1`,
		uuid.UUID(requester),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count verification records: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Get(ctx context.Context, requester id.RequesterID, index int) (Record, error) {
	if index < 0 {
		return Record{}, fmt.Errorf("record %d for requester %s: %w", index, requester, sentinel.ErrOutOfRange)
	}

	var (
		rec      Record
		category int
		required []int64
		optional []int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT can_board, category, required_docs, optional_docs, created_at
		FROM boarding_verifications
		WHERE requester_id = $1 AND seq = $2
	`,
		uuid.UUID(requester),
		index,
	).Scan(&rec.CanBoard, &category, pq.Array(&required), pq.Array(&optional), &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("record %d for requester %s: %w", index, requester, sentinel.ErrOutOfRange)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query verification record: %w", err)
	}

	rec.Requester = requester
	rec.Category = policy.PassengerCategory(category)
	rec.Required = int64ToDocs(required)
	rec.Optional = int64ToDocs(optional)
	return rec, nil
}

func (s *PostgresStore) GlobalCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boarding_verifications`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count all verification records: %w", err)
	}
	return count, nil
}

func docsToInt64(docs []policy.DocumentCode) []int64 {
	out := make([]int64, len(docs))
	for i, d := range docs {
		out[i] = int64(d)
	}
	return out
}

func int64ToDocs(values []int64) []policy.DocumentCode {
	if len(values) == 0 {
		return nil
	}
	out := make([]policy.DocumentCode, len(values))
	for i, v := range values {
		out[i] = policy.DocumentCode(v)
	}
	return out
}

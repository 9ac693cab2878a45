package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"boardcheck/internal/policy"
	id "boardcheck/pkg/domain"
	"boardcheck/pkg/platform/sentinel"
)

const (
	// Per-requester sequence: RPUSH-only list of JSON records.
	requesterKeyPrefix = "boardcheck:ledger:seq:"
	// Global counter, incremented in the same MULTI/EXEC as the RPUSH.
	globalCountKey = "boardcheck:ledger:global"
)

// RedisStore is the distributed ledger backend for deployments where multiple
// instances share verification history. Redis lists map directly onto the
// append-only sequence: RPUSH appends, LLEN counts, LINDEX reads by index.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// redisRecord is the stored JSON shape. Document codes travel as their wire
// ordinals so the payload matches the external contract.
type redisRecord struct {
	CanBoard  bool      `json:"can_board"`
	Category  int       `json:"category"`
	Required  []int     `json:"required_documents"`
	Optional  []int     `json:"optional_documents"`
	CreatedAt time.Time `json:"created_at"`
}

// Append pushes the record and bumps the global counter inside one MULTI/EXEC,
// so observers never see one without the other. RPUSH returns the new list
// length, which yields the assigned 0-based index; INCR serializes the global
// counter server-side.
func (s *RedisStore) Append(ctx context.Context, rec Record) (int, error) {
	payload, err := json.Marshal(toRedisRecord(rec))
	if err != nil {
		return 0, fmt.Errorf("marshal verification record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pushed := pipe.RPush(ctx, requesterKey(rec.Requester), payload)
	pipe.Incr(ctx, globalCountKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("append verification record: %w", err)
	}

	return int(pushed.Val()) - 1, nil
}

func (s *RedisStore) Count(ctx context.Context, requester id.RequesterID) (int, error) {
	length, err := s.client.LLen(ctx, requesterKey(requester)).Result()
	if err != nil {
		return 0, fmt.Errorf("count verification records: %w", err)
	}
	return int(length), nil
}

func (s *RedisStore) Get(ctx context.Context, requester id.RequesterID, index int) (Record, error) {
	if index < 0 {
		return Record{}, fmt.Errorf("record %d for requester %s: %w", index, requester, sentinel.ErrOutOfRange)
	}

	raw, err := s.client.LIndex(ctx, requesterKey(requester), int64(index)).Result()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("record %d for requester %s: %w", index, requester, sentinel.ErrOutOfRange)
	}
	if err != nil {
		return Record{}, fmt.Errorf("read verification record: %w", err)
	}

	var stored redisRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Record{}, fmt.Errorf("unmarshal verification record: %w", err)
	}
	return fromRedisRecord(requester, stored), nil
}

func (s *RedisStore) GlobalCount(ctx context.Context) (uint64, error) {
	count, err := s.client.Get(ctx, globalCountKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read global count: %w", err)
	}
	return count, nil
}

func requesterKey(requester id.RequesterID) string {
	return requesterKeyPrefix + requester.String()
}

func toRedisRecord(rec Record) redisRecord {
	return redisRecord{
		CanBoard:  rec.CanBoard,
		Category:  int(rec.Category),
		Required:  docsToInt(rec.Required),
		Optional:  docsToInt(rec.Optional),
		CreatedAt: rec.CreatedAt,
	}
}

func fromRedisRecord(requester id.RequesterID, stored redisRecord) Record {
	return Record{
		Requester: requester,
		CanBoard:  stored.CanBoard,
		Category:  policy.PassengerCategory(stored.Category),
		Required:  intToDocs(stored.Required),
		Optional:  intToDocs(stored.Optional),
		CreatedAt: stored.CreatedAt,
	}
}

func docsToInt(docs []policy.DocumentCode) []int {
	out := make([]int, len(docs))
	for i, d := range docs {
		out[i] = int(d)
	}
	return out
}

func intToDocs(values []int) []policy.DocumentCode {
	if len(values) == 0 {
		return nil
	}
	out := make([]policy.DocumentCode, len(values))
	for i, v := range values {
		out[i] = policy.DocumentCode(v)
	}
	return out
}

package ledger

import (
	"context"
	"fmt"
	"sync"

	id "boardcheck/pkg/domain"
	"boardcheck/pkg/platform/sentinel"
)

// InMemoryStore is the reference ledger implementation. It favors clarity over
// performance and keeps unit tests free of external backends.
//
// Retention is unbounded, matching the reference behavior: records are never
// evicted, so memory grows with the number of appends.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.RequesterID][]Record
	global  uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.RequesterID][]Record)}
}

func (s *InMemoryStore) Append(_ context.Context, rec Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.records[rec.Requester]
	index := len(seq)
	s.records[rec.Requester] = append(seq, rec.clone())
	s.global++
	return index, nil
}

func (s *InMemoryStore) Count(_ context.Context, requester id.RequesterID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[requester]), nil
}

func (s *InMemoryStore) Get(_ context.Context, requester id.RequesterID, index int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.records[requester]
	if index < 0 || index >= len(seq) {
		return Record{}, fmt.Errorf("record %d of %d for requester %s: %w",
			index, len(seq), requester, sentinel.ErrOutOfRange)
	}
	return seq[index].clone(), nil
}

func (s *InMemoryStore) GlobalCount(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global, nil
}

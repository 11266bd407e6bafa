package scorestore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/score"
)

// MemoryStore keeps scores in process memory. Entries are held in
// serialized form, so mutating a score after Put or after Get does not
// change the stored copy.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string][]byte
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string][]byte)}
}

// Put inserts or replaces a score keyed by its ID.
func (m *MemoryStore) Put(ctx context.Context, sc *score.Score) error {
	if sc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "score is nil")
	}
	if err := errors.ValidateID(sc.ID); err != nil {
		return err
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err,
			"encode score %s", sc.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[sc.ID] = data
	return nil
}

// Get returns a fresh copy of the stored score.
func (m *MemoryStore) Get(ctx context.Context, id string) (*score.Score, error) {
	m.mu.RLock()
	data, ok := m.scores[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeScoreNotFound,
			"score %s not found", id)
	}
	var sc score.Score
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err,
			"decode score %s", id)
	}
	return &sc, nil
}

// Delete removes a score by ID.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scores[id]; !ok {
		return errors.New(errors.ErrCodeScoreNotFound,
			"score %s not found", id)
	}
	delete(m.scores, id)
	return nil
}

// List returns all stored scores ordered by ID.
func (m *MemoryStore) List(ctx context.Context) ([]*score.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.scores))
	for id := range m.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*score.Score, 0, len(ids))
	for _, id := range ids {
		var sc score.Score
		if err := json.Unmarshal(m.scores[id], &sc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err,
				"decode score %s", id)
		}
		out = append(out, &sc)
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// MemoryHelpStore is an in-process HelpRequestStore. Records are kept in
// insertion order and every mutation runs under the store lock, so an update
// is observed either completely or not at all.
type MemoryHelpStore struct {
	sync.RWMutex

	order   []uuid.UUID
	records map[uuid.UUID]schema.HelpRequest
	now     func() time.Time
}

func NewMemoryHelpStore() *MemoryHelpStore {
	return &MemoryHelpStore{
		records: make(map[uuid.UUID]schema.HelpRequest),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryHelpStore) InsertHelpRequest(ctx context.Context, h *schema.HelpRequest) (*schema.HelpRequest, error) {
	if len(h.Articles) == 0 {
		return nil, persistenceError("insert help request", ErrEmptyArticles)
	}

	help := h.Clone()
	help.ID = uuid.New()

	m.Lock()
	defer m.Unlock()

	now := m.now()
	help.CreatedAt = now
	help.UpdatedAt = now

	m.records[help.ID] = help
	m.order = append(m.order, help.ID)

	result := help.Clone()
	return &result, nil
}

func (m *MemoryHelpStore) GetHelpRequest(ctx context.Context, id string) (*schema.HelpRequest, error) {
	helpID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrHelpRequestNotFound
	}

	m.RLock()
	defer m.RUnlock()

	help, ok := m.records[helpID]
	if !ok {
		return nil, ErrHelpRequestNotFound
	}

	result := help.Clone()
	return &result, nil
}

func (m *MemoryHelpStore) FindHelpRequests(ctx context.Context, q HelpRequestQuery) ([]schema.HelpRequest, error) {
	m.RLock()
	defer m.RUnlock()

	helps := []schema.HelpRequest{}
	for _, id := range m.order {
		help := m.records[id]
		if q.Match(&help) {
			helps = append(helps, help.Clone())
		}
	}

	return helps, nil
}

// UpdateHelpRequest mutates a copy and swaps it in only when the mutation succeeds
func (m *MemoryHelpStore) UpdateHelpRequest(ctx context.Context, id string, mutate HelpRequestMutation) (*schema.HelpRequest, error) {
	helpID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrHelpRequestNotFound
	}

	m.Lock()
	defer m.Unlock()

	current, ok := m.records[helpID]
	if !ok {
		return nil, ErrHelpRequestNotFound
	}

	help := current.Clone()
	if err := mutate(&help); err != nil {
		return nil, err
	}

	if len(help.Articles) == 0 {
		return nil, persistenceError("update help request", ErrEmptyArticles)
	}

	// identity fields are owned by the store
	help.ID = current.ID
	help.RequesterID = current.RequesterID
	help.CreatedAt = current.CreatedAt
	help.UpdatedAt = m.now()
	help.Requester = nil

	m.records[helpID] = help

	result := help.Clone()
	return &result, nil
}

func (m *MemoryHelpStore) ExpireHelpRequests(ctx context.Context, createdBefore time.Time) (int64, error) {
	m.Lock()
	defer m.Unlock()

	var count int64
	now := m.now()
	for id, help := range m.records {
		if help.Status != schema.HelpPending || help.CreatedAt.After(createdBefore) {
			continue
		}
		help.Status = schema.HelpCancelled
		help.UpdatedAt = now
		m.records[id] = help
		count++
	}

	return count, nil
}

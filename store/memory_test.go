package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/neighbor-api/schema"
)

func newHelp(requester, zip string) *schema.HelpRequest {
	return &schema.HelpRequest{
		RequesterID: requester,
		ZipCode:     zip,
		Status:      schema.HelpPending,
		Articles:    schema.Articles{{Description: "milk", Quantity: 1}},
	}
}

func TestMemoryInsertAssignsIdentity(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()

	in := newHelp("u1", "10001")
	h, err := m.InsertHelpRequest(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, h.ID)
	assert.False(t, h.CreatedAt.IsZero())
	assert.Equal(t, h.CreatedAt, h.UpdatedAt)
	assert.Equal(t, uuid.Nil, in.ID, "input must not be modified")

	got, err := m.GetHelpRequest(ctx, h.ID.String())
	require.NoError(t, err)
	assert.Equal(t, *h, *got)
}

func TestMemoryInsertRejectsEmptyArticles(t *testing.T) {
	m := NewMemoryHelpStore()

	_, err := m.InsertHelpRequest(context.Background(), &schema.HelpRequest{RequesterID: "u1"})

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, errors.Is(err, ErrEmptyArticles))
}

func TestMemoryGetUnknown(t *testing.T) {
	m := NewMemoryHelpStore()

	_, err := m.GetHelpRequest(context.Background(), uuid.New().String())
	assert.Equal(t, ErrHelpRequestNotFound, err)

	_, err = m.GetHelpRequest(context.Background(), "not-a-uuid")
	assert.Equal(t, ErrHelpRequestNotFound, err)
}

func TestMemoryFindKeepsInsertionOrder(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()

	a, _ := m.InsertHelpRequest(ctx, newHelp("u1", "10001"))
	_, _ = m.InsertHelpRequest(ctx, newHelp("u2", "55555"))
	c, _ := m.InsertHelpRequest(ctx, newHelp("u3", "90210"))

	helps, err := m.FindHelpRequests(ctx, HelpRequestQuery{ZipCodes: []string{"90210", "10001"}})
	require.NoError(t, err)
	require.Len(t, helps, 2)
	assert.Equal(t, a.ID, helps[0].ID)
	assert.Equal(t, c.ID, helps[1].ID)

	helps, err = m.FindHelpRequests(ctx, HelpRequestQuery{RequesterID: "nobody"})
	assert.NoError(t, err)
	assert.NotNil(t, helps)
	assert.Empty(t, helps)
}

func TestMemoryUpdateIsAllOrNothing(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()
	h, _ := m.InsertHelpRequest(ctx, newHelp("u1", "10001"))

	boom := errors.New("boom")
	_, err := m.UpdateHelpRequest(ctx, h.ID.String(), func(r *schema.HelpRequest) error {
		r.ZipCode = "99999"
		r.Articles[0].Quantity = 42
		return boom
	})
	assert.Equal(t, boom, err)

	_, err = m.UpdateHelpRequest(ctx, h.ID.String(), func(r *schema.HelpRequest) error {
		r.Articles = nil
		return nil
	})
	assert.True(t, errors.Is(err, ErrEmptyArticles))

	got, _ := m.GetHelpRequest(ctx, h.ID.String())
	assert.Equal(t, "10001", got.ZipCode)
	assert.Equal(t, 1, got.Articles[0].Quantity)
}

func TestMemoryUpdateKeepsOwnership(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()
	h, _ := m.InsertHelpRequest(ctx, newHelp("u1", "10001"))

	updated, err := m.UpdateHelpRequest(ctx, h.ID.String(), func(r *schema.HelpRequest) error {
		r.RequesterID = "intruder"
		r.ZipCode = "20002"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.RequesterID)
	assert.Equal(t, "20002", updated.ZipCode)
	assert.False(t, updated.UpdatedAt.Before(h.UpdatedAt))

	_, err = m.UpdateHelpRequest(ctx, uuid.New().String(), func(r *schema.HelpRequest) error { return nil })
	assert.Equal(t, ErrHelpRequestNotFound, err)
}

func TestMemoryConcurrentUpdatesAreSerialized(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()
	h, _ := m.InsertHelpRequest(ctx, newHelp("u1", "10001"))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.UpdateHelpRequest(ctx, h.ID.String(), func(r *schema.HelpRequest) error {
				r.Articles[0].Quantity++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := m.GetHelpRequest(ctx, h.ID.String())
	assert.Equal(t, 1+workers, got.Articles[0].Quantity)
}

func TestMemoryExpire(t *testing.T) {
	m := NewMemoryHelpStore()
	ctx := context.Background()

	base := time.Date(2020, 4, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	old, _ := m.InsertHelpRequest(ctx, newHelp("u1", "10001"))
	accepted, _ := m.InsertHelpRequest(ctx, newHelp("u2", "10001"))
	_, _ = m.UpdateHelpRequest(ctx, accepted.ID.String(), func(r *schema.HelpRequest) error {
		r.Status = schema.HelpAccepted
		return nil
	})

	m.now = func() time.Time { return base.Add(13 * time.Hour) }
	fresh, _ := m.InsertHelpRequest(ctx, newHelp("u3", "10001"))

	count, err := m.ExpireHelpRequests(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, _ := m.GetHelpRequest(ctx, old.ID.String())
	assert.Equal(t, schema.HelpCancelled, got.Status)
	got, _ = m.GetHelpRequest(ctx, accepted.ID.String())
	assert.Equal(t, schema.HelpAccepted, got.Status)
	got, _ = m.GetHelpRequest(ctx, fresh.ID.String())
	assert.Equal(t, schema.HelpPending, got.Status)
}

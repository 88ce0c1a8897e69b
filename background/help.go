package background

import (
	"context"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
)

const (
	TaskExpireHelpRequests = "expire_help_requests"

	expireTimeout = time.Minute
)

// TaskSender queues tasks for the workers. *machinery.Server satisfies it.
type TaskSender interface {
	SendTask(signature *tasks.Signature) (*result.AsyncResult, error)
}

// ExpireHelpRequests is a background job to cancel pending help requests
// nobody has accepted in time
func (m *BackgroundManager) ExpireHelpRequests() error {
	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	cutoff := m.now().Add(-m.expireAfter).UTC()
	count, err := m.store.ExpireHelpRequests(ctx, cutoff)
	if err != nil {
		m.log.WithError(err).Error("fail to expire help requests")
		return err
	}

	m.log.WithField("count", count).WithField("created_before", cutoff).Info("expired help requests")
	return nil
}

// EnqueueExpireHelpRequests asks a worker to run ExpireHelpRequests
func EnqueueExpireHelpRequests(sender TaskSender) error {
	_, err := sender.SendTask(&tasks.Signature{
		Name: TaskExpireHelpRequests,
	})
	return err
}

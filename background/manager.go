package background

import (
	"errors"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/neighbor-api/store"
)

const (
	DefaultQueue       = "neighborly_background"
	defaultExpireAfter = 12 * time.Hour
)

// BackgroundManager is a struct for neighborly background manager
type BackgroundManager struct {
	store store.HelpRequestStore

	taskServer *machinery.Server

	worker *machinery.Worker

	expireAfter time.Duration
	now         func() time.Time
	log         *logrus.Entry
}

func New(helpStore store.HelpRequestStore, taskServer *machinery.Server, expireAfter time.Duration) *BackgroundManager {
	if expireAfter <= 0 {
		expireAfter = defaultExpireAfter
	}

	return &BackgroundManager{
		store:       helpStore,
		taskServer:  taskServer,
		expireAfter: expireAfter,
		now:         time.Now,
		log:         logrus.WithField("prefix", "background"),
	}
}

func (m *BackgroundManager) RegisterTask(name string, taskFunc interface{}) error {
	return m.taskServer.RegisterTask(name, taskFunc)
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run() error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	m.worker = m.taskServer.NewWorker("neighborly-worker", 5)
	return m.worker.Launch()
}

// Stop quits the worker and waits for running tasks
func (m *BackgroundManager) Stop() {
	if m.worker != nil {
		m.worker.Quit()
	}
}

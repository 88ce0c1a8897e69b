package background

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler enqueues the periodic background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

// NewScheduler schedules the help request expiry with a standard cron spec,
// e.g. "*/10 * * * *" or "@every 10m"
func NewScheduler(expireSpec string, sender TaskSender) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  logrus.WithField("prefix", "scheduler"),
	}

	if _, err := s.cron.AddFunc(expireSpec, s.job(TaskExpireHelpRequests, func() error {
		return EnqueueExpireHelpRequests(sender)
	})); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) job(name string, enqueue func() error) func() {
	return func() {
		if err := enqueue(); err != nil {
			s.log.WithError(err).WithField("task", name).Error("fail to enqueue task")
			return
		}
		s.log.WithField("task", name).Debug("task enqueued")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Package scheduler drives the cron-based daily task digest.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"pepper/internal/notify"
	"pepper/internal/store"
)

// Notifier is the outbound channel for digest messages.
// notify.MultiNotifier satisfies it.
type Notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Scheduler runs the digest on a cron spec.
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	spec     string
	logger   *log.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a Scheduler. A nil notifier disables the digest without
// disabling the rest of the server.
func New(st *store.Store, notifier Notifier, spec string, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		store:    st,
		notifier: notifier,
		spec:     spec,
		logger:   logger,
	}
}

// Start registers the digest job and begins the cron loop.
// It is safe to call Start only once; use Reload to change the spec at runtime.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifier == nil {
		s.logger.Printf("[scheduler] no notifier configured, digest disabled")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.runDigest); err != nil {
		return fmt.Errorf("register digest cron %q: %w", s.spec, err)
	}
	s.cron.Start()

	if entries := s.cron.Entries(); len(entries) > 0 {
		s.logger.Printf("[scheduler] started, next digest %s", humanize.Time(entries[0].Next))
	}
	return nil
}

// Stop shuts down the cron runner, waiting for a running digest to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.cron = nil
	}
	s.logger.Printf("[scheduler] stopped")
}

// Reload replaces the cron spec and re-registers the digest job.
func (s *Scheduler) Reload(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifier == nil {
		s.spec = spec
		return nil
	}

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.spec = spec
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.runDigest); err != nil {
		return fmt.Errorf("register digest cron %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Printf("[scheduler] reloaded with cron %q", s.spec)
	return nil
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		s.logger.Printf("[scheduler] digest failed: %v", err)
	}
}

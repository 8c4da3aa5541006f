package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"PairWatch/internal/collector"
	"PairWatch/internal/metrics"
	"PairWatch/internal/model"
	"PairWatch/internal/notifier"
)

// Sender delivers a formatted message; *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the periodic pair refresh and the chat commands.
type Scheduler struct {
	Cron         *cron.Cron
	Collector    *collector.Collector
	Sender       Sender // nil disables alerts
	Pair         model.Pair
	LookbackDays int
	Ctx          context.Context

	mu   sync.Mutex
	last model.Relationship
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, pair model.Pair, lookbackDays int) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Collector:    col,
		Sender:       sender,
		Pair:         pair,
		LookbackDays: lookbackDays,
		Ctx:          ctx,
	}
}

// Register adds the refresh task on the given six-field cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Info().Str("pair", s.Pair.String()).Msg("running refresh task")
	rep, err := s.Collector.Collect(s.Ctx, s.Pair, s.LookbackDays)
	if err != nil {
		log.Error().Err(err).Str("pair", s.Pair.String()).Msg("refresh collect")
		s.trySend(fmt.Sprintf("❌ %s refresh failed: %v", s.Pair, err))
		return
	}
	// Only the configured pair is exported; ad-hoc dashboard pairs are not.
	metrics.Correlation.WithLabelValues(s.Pair.String()).Set(rep.Summary.Coefficient)

	s.mu.Lock()
	prev := s.last
	s.last = rep.Summary.Relationship
	s.mu.Unlock()

	switch {
	case prev == "":
		s.trySend(notifier.FormatReport(rep))
	case prev != rep.Summary.Relationship:
		log.Info().Str("from", string(prev)).Str("to", string(rep.Summary.Relationship)).Msg("relationship changed")
		s.trySend(notifier.FormatFlip(prev, rep))
	}
}

// LastRelationship returns the relationship seen by the latest successful refresh.
func (s *Scheduler) LastRelationship() model.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/corr", "/correlation":
		rep, err := s.Collector.Collect(ctx, s.Pair, s.LookbackDays)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatReport(rep)
	default:
		return "Available commands:\n• /corr: current correlation report"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// Package digest runs a chat command on a schedule and pushes its reply to a chat.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"gastos/internal/log"
)

// Replier turns a chat command into its reply text.
type Replier interface {
	Handle(ctx context.Context, message string) string
}

// Notifier delivers the digest.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler sends the reply of command to a notifier on every tick of a cron schedule.
type Scheduler struct {
	spec     string
	command  string
	replier  Replier
	notifier Notifier
	location *time.Location
	logger   *log.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation evaluates the schedule in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l.WithComponent(log.ComponentDigest) }
}

// New validates spec, a standard five-field cron expression or descriptor.
func New(spec, command string, replier Replier, notifier Notifier, opts ...Option) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	s := &Scheduler{
		spec:     spec,
		command:  command,
		replier:  replier,
		notifier: notifier,
		location: time.Local,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentDigest),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunOnce executes the command and delivers its reply.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	reply := s.replier.Handle(ctx, s.command)
	if err := s.notifier.Notify(ctx, reply); err != nil {
		return fmt.Errorf("failed to deliver digest: %w", err)
	}
	s.logger.InfoContext(ctx, "Digest delivered", log.FieldOperation, s.command)
	return nil
}

// Run blocks until ctx is done, firing RunOnce on schedule. A tick still
// running when the next one is due is skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			fields := log.NewFields().WithError(err, log.ErrorTypeNetwork).WithOperation(s.command)
			s.logger.ErrorContext(ctx, "Digest failed", fields.ToSlice()...)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	s.logger.InfoContext(ctx, "Digest scheduler started", "schedule", s.spec, log.FieldOperation, s.command)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.InfoContext(context.Background(), "Digest scheduler stopped")
	return nil
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.DebugContext(context.Background(), msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]any{log.FieldError, err}, keysAndValues...)...)
}

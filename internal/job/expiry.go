// Package job runs the background work of reservation-service.
package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-parking-lot/internal/service"
)

type Sweeper interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

// Expiry completes reservations whose end time has passed, on a cron schedule.
// A run still in progress when the next one fires makes that one skip.
type Expiry struct {
	c       *cron.Cron
	sweeper Sweeper
	log     *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewExpiry schedules s on spec ("@every 60s", "*/1 * * * *", ...).
func NewExpiry(spec string, s Sweeper, l *zap.Logger) (*Expiry, error) {
	cl := cronLogger{l.Sugar()}
	e := &Expiry{
		c: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: s,
		log:     l,
		timeout: 5 * time.Minute,
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	if _, err := e.c.AddFunc(spec, func() { e.RunOnce(e.ctx) }); err != nil {
		e.cancel()
		return nil, err
	}
	return e, nil
}

func (e *Expiry) Start() {
	e.c.Start()
	e.log.Info("expiry sweep scheduled", zap.Int("jobs", len(e.c.Entries())))
}

// Stop cancels a running sweep and waits for it to return.
func (e *Expiry) Stop() {
	e.cancel()
	done := e.c.Stop()
	select {
	case <-done.Done():
	case <-time.After(10 * time.Second):
		e.log.Warn("expiry sweep did not stop in time")
	}
}

// RunOnce performs a single pass.
func (e *Expiry) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	res, err := e.sweeper.Sweep(ctx)
	if err != nil {
		e.log.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if res.Expired == 0 {
		e.log.Debug("expiry sweep: nothing to do")
		return
	}
	e.log.Info("expiry sweep done",
		zap.Int("expired", res.Expired),
		zap.Int("completed", res.Completed),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
		zap.Duration("took", time.Since(start)),
	)
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw("cron: "+msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw("cron: "+msg, append(kv, "error", err)...)
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Reevaluator interface {
	ReevaluateAll(ctx context.Context) (int, error)
}

// ReevaluationScheduler periodically recomputes derived custody for every
// asset from its log.
type ReevaluationScheduler struct {
	cron        *cron.Cron
	reevaluator Reevaluator
	timeout     time.Duration
	logger      *zap.Logger
}

// NewReevaluationScheduler returns nil when the cron schedule is empty.
func NewReevaluationScheduler(spec string, reevaluator Reevaluator, timeout time.Duration, logger *zap.Logger) (*ReevaluationScheduler, error) {
	if spec == "" {
		return nil, nil
	}

	s := &ReevaluationScheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		reevaluator: reevaluator,
		timeout:     timeout,
		logger:      logger,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule reevaluation %q: %w", spec, err)
	}

	return s, nil
}

func (s *ReevaluationScheduler) Start() {
	s.cron.Start()
	s.logger.Info("Reevaluation scheduler started", zap.Time("next_run", s.cron.Entries()[0].Next))
}

// Stop waits for a running job to finish.
func (s *ReevaluationScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Reevaluation scheduler stopped")
}

func (s *ReevaluationScheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	done, err := s.reevaluator.ReevaluateAll(ctx)
	if err != nil {
		s.logger.Error("Scheduled reevaluation finished with errors",
			zap.Int("assets", done),
			zap.Duration("took", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled reevaluation finished",
		zap.Int("assets", done),
		zap.Duration("took", time.Since(started)),
	)
}

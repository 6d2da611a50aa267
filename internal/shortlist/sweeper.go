package shortlist

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically ends idle sessions.
type Sweeper struct {
	cron   *cron.Cron
	store  *Store
	ttl    time.Duration
	spec   string
	logger *zap.Logger
}

func NewSweeper(store *Store, spec string, ttl time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec == "" {
		spec = "@every 5m"
	}
	return &Sweeper{
		cron:   cron.New(),
		store:  store,
		ttl:    ttl,
		spec:   spec,
		logger: logger,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.String("spec", s.spec), zap.Duration("idle_ttl", s.ttl))
	return nil
}

// Run performs a single sweep.
func (s *Sweeper) Run() {
	ended := s.store.Sweep(s.ttl)
	if len(ended) > 0 {
		s.logger.Info("idle sessions ended",
			zap.Int("count", len(ended)),
			zap.Int("active", s.store.Len()),
		)
	}
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("session sweeper stopped")
}

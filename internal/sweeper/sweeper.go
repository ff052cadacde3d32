// Package sweeper runs the periodic past-lesson sweep: every active booking
// whose end time has passed is flipped to completed so the calendar and the
// settlements stay truthful without waiting for a user to load their list.
package sweeper

import (
	"context"
	"time"

	"github.com/pmalinowski/tutorbase/internal/service"
	"go.uber.org/zap"
)

const defaultInterval = 15 * time.Minute

type Sweeper struct {
	bookings service.BookingService
	logger   *zap.Logger
	interval time.Duration
	stopChan chan struct{}
}

func NewSweeper(bookings service.BookingService, logger *zap.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{
		bookings: bookings,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("starting booking sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("stopping booking sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.bookings.CompletePastBookings(ctx)
	if err != nil {
		s.logger.Error("complete past bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("completed past bookings", zap.Int("count", n))
	}
}

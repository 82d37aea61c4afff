package app

import (
	"context"
	"time"

	"github.com/fitbook/booking/internal/service"
	"go.uber.org/zap"
)

// Sweeper управляет фоновой задачей завершения прошедших бронирований:
// подтверждённые тренировки, которые уже закончились, переводятся в completed
type Sweeper struct {
	bookings *service.BookingService
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSweeper создаёт новый sweeper
func NewSweeper(bookings *service.BookingService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting booking sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает фоновую задачу
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping booking sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Booking sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Booking sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.bookings.CompletePastBookings(ctx); err != nil {
		s.logger.Error("Failed to complete past bookings", zap.Error(err))
	}
}

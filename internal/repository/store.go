package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
	"github.com/fitbook/booking/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store собирает репозитории в единую реализацию service.Store.
// Копия поверх транзакции создаётся методом withQuerier, поэтому один и тот же
// код репозиториев работает и через пул, и внутри транзакции.
type Store struct {
	pool *pgxpool.Pool

	trainers     *TrainerRepository
	policies     *PolicyRepository
	offers       *OfferRepository
	availability *AvailabilityRepository
	clients      *ClientRepository
	bookings     *BookingRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return newStoreWithQuerier(pool, pool)
}

func newStoreWithQuerier(pool *pgxpool.Pool, db base.Querier) *Store {
	return &Store{
		pool:         pool,
		trainers:     NewTrainerRepository(db),
		policies:     NewPolicyRepository(db),
		offers:       NewOfferRepository(db),
		availability: NewAvailabilityRepository(db),
		clients:      NewClientRepository(db),
		bookings:     NewBookingRepository(db),
	}
}

func (s *Store) TrainerByID(ctx context.Context, id int64) (*model.Trainer, error) {
	return s.trainers.GetByID(ctx, id)
}

func (s *Store) PolicyByTrainerID(ctx context.Context, trainerID int64) (*model.BookingPolicy, error) {
	return s.policies.GetByTrainerID(ctx, trainerID)
}

func (s *Store) OfferByID(ctx context.Context, trainerID, offerID int64) (*model.Offer, error) {
	return s.offers.GetByID(ctx, trainerID, offerID)
}

func (s *Store) AvailabilityRules(ctx context.Context, trainerID int64) ([]*model.AvailabilityRule, error) {
	return s.availability.ListByTrainerID(ctx, trainerID)
}

func (s *Store) BookingsBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*model.Booking, error) {
	return s.bookings.ListBetween(ctx, trainerID, from, to)
}

func (s *Store) ClientByEmail(ctx context.Context, trainerID int64, email string) (*model.Client, error) {
	return s.clients.GetByEmail(ctx, trainerID, email)
}

func (s *Store) CreateClient(ctx context.Context, client *model.Client) error {
	return s.clients.Create(ctx, client)
}

func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) error {
	return s.bookings.Create(ctx, booking)
}

func (s *Store) BookingByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	return s.bookings.UpdateStatus(ctx, id, status)
}

func (s *Store) CompletePastBookings(ctx context.Context, before time.Time) (int64, error) {
	return s.bookings.CompletePast(ctx, before)
}

// InTransaction выполняет fn внутри транзакции с advisory-блокировкой по
// тренеру: конкурентные бронирования одного тренера выполняются строго по
// очереди, поэтому проверка конфликтов и вставка не могут разъехаться.
// Exclusion constraint на bookings остаётся страховкой на уровне БД.
func (s *Store) InTransaction(ctx context.Context, trainerID int64, fn func(ctx context.Context, tx service.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, trainerID); err != nil {
		return fmt.Errorf("acquire trainer lock: %w", err)
	}

	if err := fn(ctx, newStoreWithQuerier(s.pool, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/repository/base"
	"github.com/fitbook/booking/internal/service"
	"github.com/google/uuid"
)

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create создаёт новое бронирование.
// Нарушение exclusion constraint на пересечение интервалов означает
// проигранную гонку за слот и возвращается как ErrSlotUnavailable.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (reference, trainer_id, client_id, offer_id, start_time, end_time, status, booking_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.Reference,
		booking.TrainerID,
		booking.ClientID,
		booking.OfferID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Source,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsConflict(err) {
			return fmt.Errorf("create booking: %w", service.ErrSlotUnavailable)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByReference получает бронирование по публичному коду подтверждения,
// nil если не найдено
func (r *BookingRepository) GetByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, reference, trainer_id, client_id, offer_id, start_time, end_time, status, booking_source, created_at, updated_at
		FROM bookings
		WHERE reference = $1
	`

	var booking model.Booking
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.TrainerID,
		&booking.ClientID,
		&booking.OfferID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Source,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by reference: %w", err)
	}

	return &booking, nil
}

// ListBetween получает неотменённые бронирования тренера,
// интервал которых пересекает [from, to)
func (r *BookingRepository) ListBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, reference, trainer_id, client_id, offer_id, start_time, end_time, status, booking_source, created_at, updated_at
		FROM bookings
		WHERE trainer_id = $1
		  AND status <> 'cancelled'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, trainerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.TrainerID,
			&booking.ClientID,
			&booking.OfferID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.Source,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// CompletePast помечает подтверждённые бронирования, закончившиеся раньше
// before, как завершённые. Возвращает количество обновлённых строк.
func (r *BookingRepository) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = now()
		WHERE status = 'confirmed' AND end_time < $1
	`

	result, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

package service

import (
	"context"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/google/uuid"
)

// Store описывает возможности хранилища, необходимые движку бронирования.
// Продовая реализация - postgres-репозитории, в тестах используется
// in-memory подмена.
type Store interface {
	// TrainerByID возвращает тренера или nil, если он не найден
	TrainerByID(ctx context.Context, id int64) (*model.Trainer, error)

	// PolicyByTrainerID возвращает активную политику записи тренера или nil
	PolicyByTrainerID(ctx context.Context, trainerID int64) (*model.BookingPolicy, error)

	// OfferByID возвращает активную услугу тренера или nil
	OfferByID(ctx context.Context, trainerID, offerID int64) (*model.Offer, error)

	// AvailabilityRules возвращает все правила доступности тренера
	AvailabilityRules(ctx context.Context, trainerID int64) ([]*model.AvailabilityRule, error)

	// BookingsBetween возвращает неотменённые бронирования тренера,
	// интервал которых пересекает [from, to)
	BookingsBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*model.Booking, error)

	// ClientByEmail ищет клиента тренера по нормализованному email, nil если нет
	ClientByEmail(ctx context.Context, trainerID int64, email string) (*model.Client, error)

	// CreateClient сохраняет нового клиента и заполняет его ID
	CreateClient(ctx context.Context, client *model.Client) error

	// CreateBooking сохраняет бронирование и заполняет его ID.
	// При нарушении ограничения на пересечение интервалов возвращает
	// ошибку, совместимую с ErrSlotUnavailable.
	CreateBooking(ctx context.Context, booking *model.Booking) error

	// BookingByReference возвращает бронирование по публичному коду
	// подтверждения, nil если не найдено
	BookingByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error)

	// UpdateBookingStatus переводит бронирование в новый статус
	UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) error

	// CompletePastBookings помечает подтверждённые бронирования,
	// закончившиеся раньше before, как завершённые
	CompletePastBookings(ctx context.Context, before time.Time) (int64, error)

	// InTransaction выполняет fn внутри транзакции, сериализованной по
	// тренеру: два конкурентных бронирования одного тренера не могут
	// пройти проверку конфликтов одновременно.
	InTransaction(ctx context.Context, trainerID int64, fn func(ctx context.Context, tx Store) error) error
}

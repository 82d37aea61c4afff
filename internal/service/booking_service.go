package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo - данные клиента из публичной формы записи
type ClientInfo struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// BookingService реализует публичный цикл записи: выбор даты, выбор слота,
// подтверждение бронирования.
type BookingService struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewBookingService(store Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock подменяет источник текущего времени. Используется в тестах.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// ListAvailableDates возвращает даты в горизонте политики, на которые у тренера
// есть хотя бы одно активное правило доступности
func (s *BookingService) ListAvailableDates(ctx context.Context, trainerID, offerID int64) ([]time.Time, error) {
	trainer, policy, _, err := s.loadBookingContext(ctx, trainerID, offerID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		// без политики записи нет и доступности, страница просто пустая
		return nil, nil
	}

	rules, err := s.store.AvailabilityRules(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}

	return schedule.AvailableDates(rules, policy, s.now(), trainer.Location()), nil
}

// ListAvailableSlots возвращает моменты начала, доступные для записи на услугу
// в указанную календарную дату (год-месяц-день в поясе тренера)
func (s *BookingService) ListAvailableSlots(ctx context.Context, trainerID, offerID int64, date time.Time) ([]time.Time, error) {
	trainer, policy, offer, err := s.loadBookingContext(ctx, trainerID, offerID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, nil
	}

	loc := trainer.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	now := s.now()

	if !schedule.WithinAdvanceWindow(day, policy, now, loc) {
		return nil, nil
	}

	rules, err := s.store.AvailabilityRules(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}

	dayEnd := day.AddDate(0, 0, 1)
	bookings, err := s.store.BookingsBetween(ctx, trainerID, day.Add(-policy.Buffer()), dayEnd.Add(policy.Buffer()))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return schedule.ResolveSlots(day, offer.Duration(policy), rules, policy, bookings, now), nil
}

// CreateBooking атомарно превращает выбранный слот в подтверждённое бронирование.
//
// Между вызовом ListAvailableSlots и этим вызовом другой клиент мог занять
// пересекающийся интервал, поэтому конфликты перепроверяются внутри
// транзакции, сериализованной по тренеру. Клиент ищется по email и создаётся
// при необходимости; при ошибке создания клиента бронирование не создаётся.
func (s *BookingService) CreateBooking(ctx context.Context, trainerID, offerID int64, startTime time.Time, info ClientInfo) (*model.Booking, error) {
	trainer, policy, offer, err := s.loadBookingContext(ctx, trainerID, offerID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrSlotUnavailable
	}

	now := s.now()
	endTime := startTime.Add(time.Duration(offer.Duration(policy)) * time.Minute)

	// слот должен всё ещё удовлетворять минимальному уведомлению и горизонту
	if !startTime.After(now.Add(policy.Notice())) {
		return nil, ErrSlotUnavailable
	}
	if !schedule.WithinAdvanceWindow(startTime, policy, now, trainer.Location()) {
		return nil, ErrSlotUnavailable
	}

	email := NormalizeEmail(info.Email)

	var booking *model.Booking
	err = s.store.InTransaction(ctx, trainerID, func(ctx context.Context, tx Store) error {
		existing, err := tx.BookingsBetween(ctx, trainerID, startTime.Add(-policy.Buffer()), endTime.Add(policy.Buffer()))
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		if schedule.HasConflict(startTime, endTime, policy.BufferBetweenMins, existing) {
			return ErrSlotUnavailable
		}

		client, err := tx.ClientByEmail(ctx, trainerID, email)
		if err != nil {
			return fmt.Errorf("%w: lookup by email: %v", ErrClientCreation, err)
		}
		if client == nil {
			client = &model.Client{
				TrainerID: trainerID,
				Name:      strings.TrimSpace(info.Name),
				Email:     email,
				Phone:     strings.TrimSpace(info.Phone),
				Notes:     info.Notes,
				Status:    model.ClientStatusActive,
				Source:    model.ClientSourceOnlineBooking,
			}
			if err := tx.CreateClient(ctx, client); err != nil {
				return fmt.Errorf("%w: %v", ErrClientCreation, err)
			}
		}

		booking = &model.Booking{
			Reference: uuid.New(),
			TrainerID: trainerID,
			ClientID:  client.ID,
			OfferID:   offer.ID,
			StartTime: startTime,
			EndTime:   endTime,
			Status:    model.BookingStatusConfirmed,
			Source:    model.BookingSourceClientPortal,
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			if errors.Is(err, ErrSlotUnavailable) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: %v", ErrBookingCreation, err)
		}

		booking.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", booking.Reference.String()),
		zap.Int64("trainer_id", trainerID),
		zap.Int64("offer_id", offer.ID),
		zap.Int64("client_id", booking.ClientID),
		zap.Time("start_time", booking.StartTime),
	)

	return booking, nil
}

// CancelBooking отменяет бронирование по публичному коду подтверждения.
// Отменённый слот сразу возвращается в выдачу доступных.
//
// Отменить можно только подтверждённое бронирование, которое ещё не началось.
// Повторная отмена уже отменённого бронирования не ошибка.
func (s *BookingService) CancelBooking(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.BookingByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("get booking by reference: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	switch booking.Status {
	case model.BookingStatusCancelled:
		return booking, nil
	case model.BookingStatusConfirmed:
		// продолжаем ниже
	default:
		return nil, ErrBookingNotCancellable
	}
	if !booking.StartTime.After(s.now()) {
		return nil, ErrBookingNotCancellable
	}

	if err := s.store.UpdateBookingStatus(ctx, booking.ID, model.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = model.BookingStatusCancelled

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", booking.Reference.String()),
		zap.Int64("trainer_id", booking.TrainerID),
		zap.Time("start_time", booking.StartTime),
	)

	return booking, nil
}

// CompletePastBookings переводит закончившиеся подтверждённые бронирования
// в статус completed. Вызывается фоновой задачей.
func (s *BookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	count, err := s.store.CompletePastBookings(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}
	if count > 0 {
		s.logger.Info("Past bookings marked completed", zap.Int64("count", count))
	}
	return count, nil
}

// loadBookingContext загружает тренера, политику и услугу для публичных операций.
// Отсутствующая политика не ошибка: доступность в этом случае пустая.
func (s *BookingService) loadBookingContext(ctx context.Context, trainerID, offerID int64) (*model.Trainer, *model.BookingPolicy, *model.Offer, error) {
	trainer, err := s.store.TrainerByID(ctx, trainerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get trainer: %w", err)
	}
	if trainer == nil {
		return nil, nil, nil, ErrTrainerNotFound
	}

	offer, err := s.store.OfferByID(ctx, trainerID, offerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get offer: %w", err)
	}
	if offer == nil || !offer.IsActive {
		return nil, nil, nil, ErrOfferNotFound
	}

	policy, err := s.store.PolicyByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get booking policy: %w", err)
	}

	return trainer, policy, offer, nil
}

// NormalizeEmail приводит email к каноническому виду для поиска и хранения.
// Нормализация предотвращает дубли клиентов из-за регистра и пробелов.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

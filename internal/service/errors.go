package service

import "errors"

// Типизированные ошибки движка бронирования. Хэндлеры и вызывающий код
// различают их через errors.Is.
var (
	// ErrTrainerNotFound - тренер не существует
	ErrTrainerNotFound = errors.New("trainer not found")

	// ErrOfferNotFound - услуга не существует или неактивна
	ErrOfferNotFound = errors.New("offer not found")

	// ErrSlotUnavailable - выбранный слот занят или больше недоступен.
	// Ожидаемая ситуация при гонке двух клиентов: вызывающий код должен
	// заново запросить слоты и предложить выбрать другое время.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrClientCreation - не удалось найти или создать клиента.
	// Бронирование при этом не создаётся.
	ErrClientCreation = errors.New("client creation failed")

	// ErrBookingCreation - ошибка сохранения бронирования после успешного
	// разрешения клиента. Запись клиента остаётся и переиспользуется при повторе.
	ErrBookingCreation = errors.New("booking creation failed")

	// ErrBookingNotFound - бронирование с таким кодом подтверждения не существует
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotCancellable - бронирование уже началось или завершено,
	// отменить его через публичный интерфейс нельзя
	ErrBookingNotCancellable = errors.New("booking not cancellable")
)

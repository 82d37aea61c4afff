package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, слот освобождён
	BookingStatusCompleted BookingStatus = "completed" // Тренировка прошла
	BookingStatusNoShow    BookingStatus = "no_show"   // Клиент не пришёл
)

// BookingSourceClientPortal помечает бронирования, созданные клиентом самостоятельно
const BookingSourceClientPortal = "client_portal"

type Booking struct {
	ID        int64         `json:"id"`
	Reference uuid.UUID     `json:"reference"` // публичный код подтверждения
	TrainerID int64         `json:"trainer_id"`
	ClientID  int64         `json:"client_id"`
	OfferID   int64         `json:"offer_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    BookingStatus `json:"status"`
	Source    string        `json:"booking_source"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Client *Client `json:"client,omitempty"`
	Offer  *Offer  `json:"offer,omitempty"`
}

// Occupies сообщает, занимает ли бронирование место в календаре.
// Отменённые бронирования освобождают слот сразу.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled
}

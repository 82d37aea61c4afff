package model

import "time"

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// ClientSourceOnlineBooking помечает клиентов, созданных при самостоятельной записи
const ClientSourceOnlineBooking = "online_booking"

// Client представляет клиента тренера.
// В рамках одного тренера клиент уникален по email (хранится нормализованным).
type Client struct {
	ID        int64        `json:"id"`
	TrainerID int64        `json:"trainer_id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	Status    ClientStatus `json:"status"`
	Source    string       `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
}

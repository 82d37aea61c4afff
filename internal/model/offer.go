package model

import "time"

// Offer представляет услугу тренера, доступную для онлайн-записи
type Offer struct {
	ID           int64     `json:"id"`
	TrainerID    int64     `json:"trainer_id"`
	Name         string    `json:"name"`
	PriceCents   int       `json:"price_cents"`
	DurationMins *int      `json:"duration_mins"` // nil - берётся slot_duration_mins из политики
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Duration возвращает длительность услуги в минутах,
// с откатом на длительность по умолчанию из политики.
func (o *Offer) Duration(policy *BookingPolicy) int {
	if o.DurationMins != nil && *o.DurationMins > 0 {
		return *o.DurationMins
	}
	if policy == nil {
		return 0
	}
	return policy.SlotDurationMins
}

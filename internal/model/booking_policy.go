package model

import "time"

// BookingPolicy задаёт правила онлайн-записи тренера.
// У каждого тренера ровно одна активная политика.
type BookingPolicy struct {
	ID                int64     `json:"id"`
	TrainerID         int64     `json:"trainer_id"`
	MinNoticeHours    int       `json:"min_notice_hours"`    // минимум часов между "сейчас" и началом слота
	MaxAdvanceDays    int       `json:"max_advance_days"`    // горизонт записи в днях
	SlotDurationMins  int       `json:"slot_duration_mins"`  // длительность по умолчанию
	BufferBetweenMins int       `json:"buffer_between_mins"` // обязательная пауза после каждого бронирования
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Buffer возвращает буфер между бронированиями как Duration
func (p *BookingPolicy) Buffer() time.Duration {
	return time.Duration(p.BufferBetweenMins) * time.Minute
}

// Notice возвращает минимальное уведомление как Duration
func (p *BookingPolicy) Notice() time.Duration {
	return time.Duration(p.MinNoticeHours) * time.Hour
}

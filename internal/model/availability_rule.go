package model

import (
	"fmt"
	"time"
)

// AvailabilityRule описывает еженедельное окно доступности тренера.
// Время задаётся минутами от полуночи в часовом поясе тренера.
type AvailabilityRule struct {
	ID          int64     `json:"id"`
	TrainerID   int64     `json:"trainer_id"`
	Weekday     int       `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartMinute int       `json:"start_minute"` // 0-1439
	EndMinute   int       `json:"end_minute"`
	IsAvailable bool      `json:"is_available"` // правило можно отключить без удаления
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsValid проверяет, что окно правила непустое.
// Некорректное правило не даёт слотов, но и не считается ошибкой.
func (r *AvailabilityRule) IsValid() bool {
	return r.StartMinute >= 0 && r.EndMinute > r.StartMinute
}

// Window возвращает окно правила в формате "HH:MM-HH:MM"
func (r *AvailabilityRule) Window() string {
	return fmt.Sprintf("%s-%s", minutesToClock(r.StartMinute), minutesToClock(r.EndMinute))
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

package model

import "time"

type Trainer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"` // IANA-имя, например "Europe/Moscow"
	CreatedAt time.Time `json:"created_at"`
}

// Location возвращает часовой пояс тренера.
// При пустом или некорректном значении используется UTC.
func (t *Trainer) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

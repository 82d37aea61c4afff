// Утилита для локальной проверки отрисовки недельной сетки:
// генерирует тестовые данные и сохраняет week.png рядом с бинарником.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/render"
)

func main() {
	now := time.Now()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	rules := []*model.AvailabilityRule{
		// Понедельник и среда - утро
		{TrainerID: 1, Weekday: 1, StartMinute: 6 * 60, EndMinute: 10 * 60, IsAvailable: true},
		{TrainerID: 1, Weekday: 3, StartMinute: 6 * 60, EndMinute: 10 * 60, IsAvailable: true},
		// Вторник и четверг - вечер
		{TrainerID: 1, Weekday: 2, StartMinute: 17 * 60, EndMinute: 21 * 60, IsAvailable: true},
		{TrainerID: 1, Weekday: 4, StartMinute: 17 * 60, EndMinute: 21 * 60, IsAvailable: true},
		// Суббота - днём, правило отключено
		{TrainerID: 1, Weekday: 6, StartMinute: 11 * 60, EndMinute: 15 * 60, IsAvailable: false},
	}

	bookings := []*model.Booking{
		{
			TrainerID: 1,
			StartTime: monday.Add(7 * time.Hour),
			EndTime:   monday.Add(8 * time.Hour),
			Status:    model.BookingStatusConfirmed,
		},
		{
			TrainerID: 1,
			StartTime: monday.AddDate(0, 0, 1).Add(18 * time.Hour),
			EndTime:   monday.AddDate(0, 0, 1).Add(19 * time.Hour),
			Status:    model.BookingStatusConfirmed,
		},
		{
			TrainerID: 1,
			StartTime: monday.AddDate(0, 0, 3).Add(17 * time.Hour),
			EndTime:   monday.AddDate(0, 0, 3).Add(18 * time.Hour),
			Status:    model.BookingStatusCancelled, // не должно отображаться
		},
	}

	png, err := render.Week(render.WeekInput{
		WeekStart: monday,
		Rules:     rules,
		Bookings:  bookings,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render week: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("week.png", png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write week.png: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("week.png saved")
}

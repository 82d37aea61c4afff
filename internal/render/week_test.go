package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/fitbook/booking/internal/model"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestWeek(t *testing.T) {
	monday := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	png, err := Week(WeekInput{
		WeekStart: monday,
		Rules: []*model.AvailabilityRule{
			{TrainerID: 1, Weekday: 1, StartMinute: 6 * 60, EndMinute: 10 * 60, IsAvailable: true},
			{TrainerID: 1, Weekday: 3, StartMinute: 18 * 60, EndMinute: 21 * 60, IsAvailable: true},
		},
		Bookings: []*model.Booking{
			{
				TrainerID: 1,
				StartTime: monday.Add(7 * time.Hour),
				EndTime:   monday.Add(8 * time.Hour),
				Status:    model.BookingStatusConfirmed,
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("expected PNG output")
	}
}

func TestWeekWithoutRules(t *testing.T) {
	png, err := Week(WeekInput{
		WeekStart: time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("expected PNG output")
	}
}

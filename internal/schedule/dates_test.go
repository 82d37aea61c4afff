package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/fitbook/booking/internal/model"
)

func TestAvailableDates(t *testing.T) {
	// 2025-06-01 - воскресенье
	sundayNine := utc(2025, time.June, 1, 9, 0)

	cases := []struct {
		name     string
		rules    []*model.AvailabilityRule
		policy   *model.BookingPolicy
		now      time.Time
		expected []time.Time
	}{
		{
			name: "monday and wednesday rules over two weeks",
			rules: []*model.AvailabilityRule{
				rule(1, 6*60, 10*60, true),
				rule(3, 18*60, 21*60, true),
			},
			policy: &model.BookingPolicy{MinNoticeHours: 0, MaxAdvanceDays: 14, SlotDurationMins: 60},
			now:    sundayNine,
			expected: []time.Time{
				utc(2025, time.June, 2, 0, 0),
				utc(2025, time.June, 4, 0, 0),
				utc(2025, time.June, 9, 0, 0),
				utc(2025, time.June, 11, 0, 0),
			},
		},
		{
			name: "advance window cuts off later weeks",
			rules: []*model.AvailabilityRule{
				rule(1, 6*60, 10*60, true),
			},
			policy:   &model.BookingPolicy{MinNoticeHours: 0, MaxAdvanceDays: 7, SlotDurationMins: 60},
			now:      sundayNine,
			expected: []time.Time{utc(2025, time.June, 2, 0, 0)},
		},
		{
			name: "day whose whole window is inside notice is excluded",
			rules: []*model.AvailabilityRule{
				rule(1, 6*60, 10*60, true), // понедельник 06:00-10:00
			},
			policy: &model.BookingPolicy{MinNoticeHours: 2, MaxAdvanceDays: 8, SlotDurationMins: 60},
			// понедельник 09:00: окно сегодняшнего дня кончается в 10:00, граница - 11:00
			now:      utc(2025, time.June, 2, 9, 0),
			expected: []time.Time{utc(2025, time.June, 9, 0, 0)},
		},
		{
			name: "day is kept while any part of its window is reachable",
			rules: []*model.AvailabilityRule{
				rule(1, 6*60, 12*60, true), // понедельник 06:00-12:00
			},
			policy: &model.BookingPolicy{MinNoticeHours: 2, MaxAdvanceDays: 8, SlotDurationMins: 60},
			// утренние слоты уже недоступны, но день целиком не отбрасывается
			now: utc(2025, time.June, 2, 9, 0),
			expected: []time.Time{
				utc(2025, time.June, 2, 0, 0),
				utc(2025, time.June, 9, 0, 0),
			},
		},
		{
			name: "disabled and malformed rules do not qualify a day",
			rules: []*model.AvailabilityRule{
				rule(1, 6*60, 10*60, false),
				rule(2, 10*60, 6*60, true),
			},
			policy:   &model.BookingPolicy{MinNoticeHours: 0, MaxAdvanceDays: 14, SlotDurationMins: 60},
			now:      sundayNine,
			expected: nil,
		},
		{
			name:     "nil policy yields no dates",
			rules:    []*model.AvailabilityRule{rule(1, 6*60, 10*60, true)},
			policy:   nil,
			now:      sundayNine,
			expected: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := AvailableDates(c.rules, c.policy, c.now, time.UTC)
			if !reflect.DeepEqual(got, c.expected) {
				t.Fatalf("expected %v, got %v", c.expected, got)
			}
		})
	}
}

func TestAvailableDatesAscending(t *testing.T) {
	rules := []*model.AvailabilityRule{
		rule(0, 9*60, 12*60, true),
		rule(6, 9*60, 12*60, true),
	}
	policy := &model.BookingPolicy{MinNoticeHours: 0, MaxAdvanceDays: 30, SlotDurationMins: 60}

	dates := AvailableDates(rules, policy, utc(2025, time.June, 1, 9, 0), time.UTC)
	if len(dates) == 0 {
		t.Fatal("expected dates")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Fatalf("dates out of order: %v before %v", dates[i-1], dates[i])
		}
	}
}

func TestWithinAdvanceWindow(t *testing.T) {
	policy := &model.BookingPolicy{MinNoticeHours: 0, MaxAdvanceDays: 7, SlotDurationMins: 60}
	now := utc(2025, time.June, 1, 9, 0)

	cases := []struct {
		name     string
		start    time.Time
		expected bool
	}{
		{"inside window", utc(2025, time.June, 7, 23, 0), true},
		{"exactly at window edge", utc(2025, time.June, 8, 0, 0), false},
		{"beyond window", utc(2025, time.June, 15, 9, 0), false},
		{"today", utc(2025, time.June, 1, 18, 0), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WithinAdvanceWindow(c.start, policy, now, time.UTC)
			if got != c.expected {
				t.Fatalf("expected %v, got %v", c.expected, got)
			}
		})
	}
}

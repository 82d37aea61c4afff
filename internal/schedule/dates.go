package schedule

import (
	"time"

	"github.com/fitbook/booking/internal/model"
)

// AvailableDates возвращает даты (локальные полуночи в поясе loc), на которые
// в пределах горизонта политики существует хотя бы одно активное правило
// доступности и день ещё может содержать валидный слот.
//
// Фильтр по минимальному уведомлению здесь намеренно грубый: день отбрасывается
// только если окно последнего правила целиком раньше now + уведомление.
// Точная проверка по каждому слоту выполняется в ResolveSlots.
func AvailableDates(
	rules []*model.AvailabilityRule,
	policy *model.BookingPolicy,
	now time.Time,
	loc *time.Location,
) []time.Time {
	if policy == nil || policy.MaxAdvanceDays < 1 {
		return nil
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	notice := now.Add(policy.Notice())

	var dates []time.Time
	for offset := 0; offset < policy.MaxAdvanceDays; offset++ {
		date := today.AddDate(0, 0, offset)
		if dayQualifies(date, rules, notice) {
			dates = append(dates, date)
		}
	}
	return dates
}

// WithinAdvanceWindow проверяет, попадает ли момент start в горизонт записи:
// не дальше чем maxAdvanceDays календарных дней от локального "сегодня".
func WithinAdvanceWindow(start time.Time, policy *model.BookingPolicy, now time.Time, loc *time.Location) bool {
	if policy == nil || policy.MaxAdvanceDays < 1 {
		return false
	}
	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	limit := today.AddDate(0, 0, policy.MaxAdvanceDays)
	return start.Before(limit)
}

func dayQualifies(date time.Time, rules []*model.AvailabilityRule, notice time.Time) bool {
	for _, rule := range rules {
		if !rule.IsAvailable || rule.Weekday != int(date.Weekday()) || !rule.IsValid() {
			continue
		}
		if instantAt(date, rule.EndMinute).After(notice) {
			return true
		}
	}
	return false
}

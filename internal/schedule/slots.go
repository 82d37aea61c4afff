// Пакет schedule содержит чистую логику расчёта доступных слотов:
// без побочных эффектов, все входные данные передаются явно.
//
// Все сравнения выполняются на абсолютных моментах времени; локальный
// часовой пояс тренера используется только для границ календарных дат
// и дня недели, чтобы переходы на летнее время не ломали арифметику.
package schedule

import (
	"sort"
	"time"

	"github.com/fitbook/booking/internal/model"
)

// HasConflict проверяет, пересекается ли кандидат [start, end) хотя бы с одним
// активным бронированием с учётом обязательного буфера после каждого бронирования.
// Буфер действует в обе стороны: кандидат не может начаться раньше чем через
// buffer после конца существующего бронирования и не может закончиться позже
// чем за buffer до начала следующего.
func HasConflict(start, end time.Time, bufferMins int, bookings []*model.Booking) bool {
	buffer := time.Duration(bufferMins) * time.Minute
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		// полуоткрытые интервалы: [start, end) и [b.StartTime, b.EndTime)
		if start.Before(b.EndTime.Add(buffer)) && end.Add(buffer).After(b.StartTime) {
			return true
		}
	}
	return false
}

// ResolveSlots возвращает упорядоченный список моментов начала, в которые на
// указанную дату можно начать бронирование длительностью durationMins минут.
//
// date - локальная полночь целевой даты в часовом поясе тренера.
// Слоты идут с шагом (длительность + буфер) от начала каждого подходящего
// правила. Слот отбрасывается, если начинается не строго позже now + минимальное
// уведомление, либо конфликтует с существующим бронированием. Совпадающие
// моменты от пересекающихся правил дедуплицируются.
//
// Для корректных входных данных функция не возвращает ошибок: пустой список -
// нормальный результат, некорректное правило просто не даёт слотов.
func ResolveSlots(
	date time.Time,
	durationMins int,
	rules []*model.AvailabilityRule,
	policy *model.BookingPolicy,
	bookings []*model.Booking,
	now time.Time,
) []time.Time {
	if policy == nil || durationMins <= 0 {
		return nil
	}

	duration := time.Duration(durationMins) * time.Minute
	step := duration + policy.Buffer()
	notice := now.Add(policy.Notice())

	seen := make(map[int64]struct{})
	var slots []time.Time

	for _, rule := range rules {
		if !rule.IsAvailable || rule.Weekday != int(date.Weekday()) {
			continue
		}
		if !rule.IsValid() {
			continue
		}

		windowEnd := instantAt(date, rule.EndMinute)
		for slotStart := instantAt(date, rule.StartMinute); !slotStart.Add(duration).After(windowEnd); slotStart = slotStart.Add(step) {
			if !slotStart.After(notice) {
				continue
			}
			if HasConflict(slotStart, slotStart.Add(duration), policy.BufferBetweenMins, bookings) {
				continue
			}
			if _, ok := seen[slotStart.UnixNano()]; ok {
				continue
			}
			seen[slotStart.UnixNano()] = struct{}{}
			slots = append(slots, slotStart)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

// instantAt возвращает момент "date + minute минут" в часовом поясе даты.
// time.Date нормализует несуществующее локальное время при переходе на летнее.
func instantAt(date time.Time, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minute, 0, 0, date.Location())
}

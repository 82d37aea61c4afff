package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeStore - in-memory реализация Store для тестов.
// Мьютекс берётся только в InTransaction и сериализует бронирования так же,
// как advisory lock в postgres-реализации.
type fakeStore struct {
	mu sync.Mutex

	trainer  *model.Trainer
	policy   *model.BookingPolicy
	offers   map[int64]*model.Offer
	rules    []*model.AvailabilityRule
	clients  []*model.Client
	bookings []*model.Booking

	nextClientID  int64
	nextBookingID int64

	failCreateClient  bool
	failCreateBooking bool
}

func (f *fakeStore) TrainerByID(_ context.Context, id int64) (*model.Trainer, error) {
	if f.trainer == nil || f.trainer.ID != id {
		return nil, nil
	}
	return f.trainer, nil
}

func (f *fakeStore) PolicyByTrainerID(_ context.Context, trainerID int64) (*model.BookingPolicy, error) {
	if f.policy == nil || f.policy.TrainerID != trainerID {
		return nil, nil
	}
	return f.policy, nil
}

func (f *fakeStore) OfferByID(_ context.Context, trainerID, offerID int64) (*model.Offer, error) {
	offer, ok := f.offers[offerID]
	if !ok || offer.TrainerID != trainerID {
		return nil, nil
	}
	return offer, nil
}

func (f *fakeStore) AvailabilityRules(_ context.Context, trainerID int64) ([]*model.AvailabilityRule, error) {
	var rules []*model.AvailabilityRule
	for _, r := range f.rules {
		if r.TrainerID == trainerID {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

func (f *fakeStore) BookingsBetween(_ context.Context, trainerID int64, from, to time.Time) ([]*model.Booking, error) {
	var result []*model.Booking
	for _, b := range f.bookings {
		if b.TrainerID != trainerID || !b.Occupies() {
			continue
		}
		if b.StartTime.Before(to) && b.EndTime.After(from) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeStore) ClientByEmail(_ context.Context, trainerID int64, email string) (*model.Client, error) {
	for _, c := range f.clients {
		if c.TrainerID == trainerID && c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateClient(_ context.Context, client *model.Client) error {
	if f.failCreateClient {
		return fmt.Errorf("connection refused")
	}
	f.nextClientID++
	client.ID = f.nextClientID
	f.clients = append(f.clients, client)
	return nil
}

func (f *fakeStore) CreateBooking(_ context.Context, booking *model.Booking) error {
	if f.failCreateBooking {
		return fmt.Errorf("connection refused")
	}
	f.nextBookingID++
	booking.ID = f.nextBookingID
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeStore) BookingByReference(_ context.Context, reference uuid.UUID) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateBookingStatus(_ context.Context, id int64, status model.BookingStatus) error {
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return fmt.Errorf("booking not found")
}

func (f *fakeStore) CompletePastBookings(_ context.Context, before time.Time) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.Status == model.BookingStatusConfirmed && b.EndTime.Before(before) {
			b.Status = model.BookingStatusCompleted
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) InTransaction(ctx context.Context, _ int64, fn func(ctx context.Context, tx Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, f)
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// newFixture возвращает сервис поверх типового состояния: тренер в UTC,
// политика {24h уведомление, 7 дней горизонт, 60 мин, без буфера},
// услуга 10 без собственной длительности, правило на понедельник 06:00-10:00.
// "Сейчас" - воскресенье 2025-06-01 09:00 UTC.
func newFixture() (*BookingService, *fakeStore) {
	store := &fakeStore{
		trainer: &model.Trainer{ID: 1, Name: "Alex", Timezone: "UTC"},
		policy: &model.BookingPolicy{
			ID: 1, TrainerID: 1,
			MinNoticeHours:   24,
			MaxAdvanceDays:   7,
			SlotDurationMins: 60,
		},
		offers: map[int64]*model.Offer{
			10: {ID: 10, TrainerID: 1, Name: "Personal training", PriceCents: 5000, IsActive: true},
		},
		rules: []*model.AvailabilityRule{
			{ID: 1, TrainerID: 1, Weekday: 1, StartMinute: 6 * 60, EndMinute: 10 * 60, IsAvailable: true},
		},
	}

	svc := NewBookingService(store, zap.NewNop()).WithClock(func() time.Time {
		return utc(2025, time.June, 1, 9, 0)
	})
	return svc, store
}

func TestCreateBooking(t *testing.T) {
	svc, store := newFixture()
	start := utc(2025, time.June, 3, 10, 0)

	booking, err := svc.CreateBooking(context.Background(), 1, 10, start, ClientInfo{
		Name:  "John Doe",
		Email: "John@Example.COM ",
		Phone: "+1 555 0100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", booking.Status)
	}
	if !booking.EndTime.Equal(start.Add(time.Hour)) {
		t.Fatalf("expected end %v, got %v", start.Add(time.Hour), booking.EndTime)
	}
	if booking.Source != model.BookingSourceClientPortal {
		t.Fatalf("expected source %q, got %q", model.BookingSourceClientPortal, booking.Source)
	}
	if booking.Reference.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected non-zero reference")
	}

	if len(store.clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(store.clients))
	}
	client := store.clients[0]
	if client.Email != "john@example.com" {
		t.Fatalf("expected normalized email, got %q", client.Email)
	}
	if client.Source != model.ClientSourceOnlineBooking || client.Status != model.ClientStatusActive {
		t.Fatalf("unexpected client source/status: %q/%q", client.Source, client.Status)
	}
}

func TestCreateBookingReusesExistingClient(t *testing.T) {
	svc, store := newFixture()
	store.clients = []*model.Client{
		{ID: 42, TrainerID: 1, Name: "John Doe", Email: "john@example.com", Status: model.ClientStatusActive},
	}
	store.nextClientID = 42

	booking, err := svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 3, 10, 0), ClientInfo{
		Name:  "John Doe",
		Email: " JOHN@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ClientID != 42 {
		t.Fatalf("expected client 42, got %d", booking.ClientID)
	}
	if len(store.clients) != 1 {
		t.Fatalf("expected no new client, got %d", len(store.clients))
	}
}

func TestCreateBookingSlotUnavailable(t *testing.T) {
	svc, store := newFixture()
	start := utc(2025, time.June, 3, 10, 0)
	store.clients = []*model.Client{
		{ID: 1, TrainerID: 1, Email: "john@example.com"},
	}
	store.bookings = []*model.Booking{
		{ID: 1, TrainerID: 1, ClientID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: model.BookingStatusConfirmed},
	}

	_, err := svc.CreateBooking(context.Background(), 1, 10, start, ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("expected no new booking, got %d", len(store.bookings))
	}
	if len(store.clients) != 1 {
		t.Fatalf("expected no duplicate client, got %d", len(store.clients))
	}
}

func TestCreateBookingTooSoon(t *testing.T) {
	svc, _ := newFixture()

	// уведомление 24 часа, слот через 2 часа
	_, err := svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 1, 11, 0), ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestCreateBookingBeyondAdvanceWindow(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 20, 10, 0), ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestCreateBookingClientCreationFailure(t *testing.T) {
	svc, store := newFixture()
	store.failCreateClient = true

	_, err := svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 3, 10, 0), ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrClientCreation) {
		t.Fatalf("expected ErrClientCreation, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("booking must not be created after client failure, got %d", len(store.bookings))
	}
}

func TestCreateBookingBookingCreationFailure(t *testing.T) {
	svc, store := newFixture()
	store.failCreateBooking = true

	_, err := svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 3, 10, 0), ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrBookingCreation) {
		t.Fatalf("expected ErrBookingCreation, got %v", err)
	}
	// запись клиента остаётся и переиспользуется при повторной попытке
	if len(store.clients) != 1 {
		t.Fatalf("expected client to remain, got %d", len(store.clients))
	}
}

func TestCreateBookingConcurrentRace(t *testing.T) {
	svc, store := newFixture()
	start := utc(2025, time.June, 3, 10, 0)

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), 1, 10, start, ClientInfo{
				Name:  fmt.Sprintf("Client %d", i),
				Email: fmt.Sprintf("client%d@example.com", i),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, unavailable int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || unavailable != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d/%d", attempts-1, succeeded, unavailable)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("expected exactly 1 booking, got %d", len(store.bookings))
	}

	// инвариант: никакие два неотменённых бронирования не пересекаются
	for i, a := range store.bookings {
		for _, b := range store.bookings[i+1:] {
			if a.StartTime.Before(b.EndTime) && a.EndTime.After(b.StartTime) {
				t.Fatalf("overlapping bookings: %v and %v", a, b)
			}
		}
	}
}

func TestListAvailableSlots(t *testing.T) {
	svc, store := newFixture()
	store.policy.MaxAdvanceDays = 14

	monday := utc(2025, time.June, 9, 0, 0)

	slots, err := svc.ListAvailableSlots(context.Background(), 1, 10, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []time.Time{
		utc(2025, time.June, 9, 6, 0),
		utc(2025, time.June, 9, 7, 0),
		utc(2025, time.June, 9, 8, 0),
		utc(2025, time.June, 9, 9, 0),
	}
	assertSlots(t, expected, slots)

	// занятый слот пропадает из выдачи
	store.bookings = []*model.Booking{
		{ID: 1, TrainerID: 1, StartTime: utc(2025, time.June, 9, 7, 0), EndTime: utc(2025, time.June, 9, 8, 0), Status: model.BookingStatusConfirmed},
	}
	slots, err = svc.ListAvailableSlots(context.Background(), 1, 10, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSlots(t, []time.Time{
		utc(2025, time.June, 9, 6, 0),
		utc(2025, time.June, 9, 8, 0),
		utc(2025, time.June, 9, 9, 0),
	}, slots)
}

func TestListAvailableSlotsOfferDurationOverride(t *testing.T) {
	svc, store := newFixture()
	store.policy.MaxAdvanceDays = 14
	duration := 90
	store.offers[10].DurationMins = &duration

	slots, err := svc.ListAvailableSlots(context.Background(), 1, 10, utc(2025, time.June, 9, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSlots(t, []time.Time{
		utc(2025, time.June, 9, 6, 0),
		utc(2025, time.June, 9, 7, 30),
	}, slots)
}

func TestListAvailableSlotsOutsideAdvanceWindow(t *testing.T) {
	svc, _ := newFixture() // горизонт 7 дней

	slots, err := svc.ListAvailableSlots(context.Background(), 1, 10, utc(2025, time.June, 9, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots != nil {
		t.Fatalf("expected no slots beyond advance window, got %v", slots)
	}
}

func TestListAvailableDates(t *testing.T) {
	svc, store := newFixture()
	store.policy.MaxAdvanceDays = 14

	dates, err := svc.ListAvailableDates(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSlots(t, []time.Time{
		utc(2025, time.June, 2, 0, 0),
		utc(2025, time.June, 9, 0, 0),
	}, dates)
}

func TestMissingPolicyDegradesToNoAvailability(t *testing.T) {
	svc, store := newFixture()
	store.policy = nil

	dates, err := svc.ListAvailableDates(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates != nil {
		t.Fatalf("expected no dates, got %v", dates)
	}

	_, err = svc.CreateBooking(context.Background(), 1, 10, utc(2025, time.June, 3, 10, 0), ClientInfo{Name: "John", Email: "john@example.com"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestUnknownTrainerAndOffer(t *testing.T) {
	svc, _ := newFixture()

	if _, err := svc.ListAvailableDates(context.Background(), 99, 10); !errors.Is(err, ErrTrainerNotFound) {
		t.Fatalf("expected ErrTrainerNotFound, got %v", err)
	}
	if _, err := svc.ListAvailableDates(context.Background(), 1, 99); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, store := newFixture()
	ref := uuid.New()
	start := utc(2025, time.June, 9, 7, 0)
	store.bookings = []*model.Booking{
		{ID: 1, Reference: ref, TrainerID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: model.BookingStatusConfirmed},
	}

	booking, err := svc.CancelBooking(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", booking.Status)
	}

	// освобождённый слот возвращается в выдачу
	store.policy.MaxAdvanceDays = 14
	slots, err := svc.ListAvailableSlots(context.Background(), 1, 10, utc(2025, time.June, 9, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots after cancellation, got %d", len(slots))
	}

	// повторная отмена не ошибка
	if _, err := svc.CancelBooking(context.Background(), ref); err != nil {
		t.Fatalf("repeat cancel must succeed, got %v", err)
	}
}

func TestCancelBookingUnknownReference(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CancelBooking(context.Background(), uuid.New())
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCancelBookingNotCancellable(t *testing.T) {
	svc, store := newFixture()
	started := uuid.New()
	completed := uuid.New()
	store.bookings = []*model.Booking{
		// уже началось: "сейчас" в фикстуре 2025-06-01 09:00
		{ID: 1, Reference: started, TrainerID: 1, StartTime: utc(2025, time.June, 1, 8, 0), EndTime: utc(2025, time.June, 1, 9, 30), Status: model.BookingStatusConfirmed},
		{ID: 2, Reference: completed, TrainerID: 1, StartTime: utc(2025, time.May, 26, 8, 0), EndTime: utc(2025, time.May, 26, 9, 0), Status: model.BookingStatusCompleted},
	}

	if _, err := svc.CancelBooking(context.Background(), started); !errors.Is(err, ErrBookingNotCancellable) {
		t.Fatalf("expected ErrBookingNotCancellable for started booking, got %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), completed); !errors.Is(err, ErrBookingNotCancellable) {
		t.Fatalf("expected ErrBookingNotCancellable for completed booking, got %v", err)
	}
	if store.bookings[0].Status != model.BookingStatusConfirmed {
		t.Fatalf("status must not change, got %s", store.bookings[0].Status)
	}
}

func TestCompletePastBookings(t *testing.T) {
	svc, store := newFixture()
	store.bookings = []*model.Booking{
		{ID: 1, TrainerID: 1, StartTime: utc(2025, time.May, 30, 9, 0), EndTime: utc(2025, time.May, 30, 10, 0), Status: model.BookingStatusConfirmed},
		{ID: 2, TrainerID: 1, StartTime: utc(2025, time.June, 3, 9, 0), EndTime: utc(2025, time.June, 3, 10, 0), Status: model.BookingStatusConfirmed},
	}

	count, err := svc.CompletePastBookings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 completed, got %d", count)
	}
	if store.bookings[0].Status != model.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", store.bookings[0].Status)
	}
	if store.bookings[1].Status != model.BookingStatusConfirmed {
		t.Fatalf("future booking must stay confirmed, got %s", store.bookings[1].Status)
	}
}

func assertSlots(t *testing.T, expected, got []time.Time) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if !got[i].Equal(expected[i]) {
			t.Fatalf("slot %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

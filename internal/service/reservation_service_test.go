package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"vpark/internal/config"
	"vpark/internal/db"
	"vpark/internal/entities"
	"vpark/internal/repository"

	"github.com/stretchr/testify/require"
)

/* ---------- fakes ---------- */

type fakeStore struct {
	overlappingFn func(ctx context.Context, level int, entry, exit time.Time) (map[int]struct{}, error)
	createFn      func(ctx context.Context, res *db.Reservation) error
	getByIDFn     func(ctx context.Context, id int64) (*db.Reservation, error)
	listFn        func(ctx context.Context, userID string) ([]db.Reservation, error)
	listPendingFn func(ctx context.Context, userID string) ([]db.Reservation, error)
	cancelFn      func(ctx context.Context, id int64, userID string, now time.Time) error
	markPaidFn    func(ctx context.Context, id int64, userID string, amount float64, paidAt time.Time) error

	markPaidCalls int
}

func (f *fakeStore) OverlappingSlots(ctx context.Context, level int, entry, exit time.Time) (map[int]struct{}, error) {
	if f.overlappingFn != nil {
		return f.overlappingFn(ctx, level, entry, exit)
	}
	return map[int]struct{}{}, nil
}

func (f *fakeStore) Create(ctx context.Context, res *db.Reservation) error {
	if f.createFn != nil {
		return f.createFn(ctx, res)
	}
	res.ID = 1
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrReservationNotFound
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]db.Reservation, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) ListPendingByUser(ctx context.Context, userID string) ([]db.Reservation, error) {
	if f.listPendingFn != nil {
		return f.listPendingFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) Cancel(ctx context.Context, id int64, userID string, now time.Time) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, id, userID, now)
	}
	return nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id int64, userID string, amount float64, paidAt time.Time) error {
	f.markPaidCalls++
	if f.markPaidFn != nil {
		return f.markPaidFn(ctx, id, userID, amount, paidAt)
	}
	return nil
}

type fakeUsers struct {
	users map[string]*db.User
}

func (f *fakeUsers) Create(ctx context.Context, user *db.User) error {
	if f.users == nil {
		f.users = map[string]*db.User{}
	}
	if _, ok := f.users[user.UserID]; ok {
		return repository.ErrUserExists
	}
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) (*db.User, error) {
	return f.users[userID], nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) ReservationEvent(user db.User, res db.Reservation, event string) {
	f.events = append(f.events, event)
}

func testConfig() *config.Config {
	return &config.Config{
		Levels:        []int{1, 2, 3},
		SlotsPerLevel: 5,
		Rates:         testRates(),
	}
}

func newTestService(store *fakeStore, users *fakeUsers, notifier *fakeNotifier) *ReservationService {
	if users == nil {
		users = &fakeUsers{users: map[string]*db.User{
			"gayatri": {UserID: "gayatri", UserName: "Gayatri", Email: "g@example.com", MobileNo: "+10000000000", VehicleType: "2 wheeler"},
		}}
	}
	var sender Notifier
	if notifier != nil {
		sender = notifier
	}
	svc := NewReservationService(store, users, sender, testConfig())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

var validCard = entities.CardDetails{Number: "4242424242424242", Expiry: "12/30", CVV: "123"}

/* ---------- availability ---------- */

func TestCheckAvailability(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(2 * time.Hour)

	store := &fakeStore{
		overlappingFn: func(_ context.Context, level int, _, _ time.Time) (map[int]struct{}, error) {
			require.Equal(t, 2, level)
			return map[int]struct{}{1: {}, 4: {}}, nil
		},
	}
	svc := newTestService(store, nil, nil)

	resp, err := svc.CheckAvailability(context.Background(), 2, entry, exit)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 5)
	require.Equal(t, 3, resp.FreeCount)
	require.False(t, resp.Slots[0].Available)
	require.True(t, resp.Slots[1].Available)
	require.False(t, resp.Slots[3].Available)
}

func TestCheckAvailabilityValidation(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil, nil)
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	_, err := svc.CheckAvailability(context.Background(), 1, entry, entry)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.CheckAvailability(context.Background(), 9, entry, entry.Add(time.Hour))
	require.ErrorIs(t, err, ErrUnknownLevel)
}

/* ---------- creation ---------- */

func TestCreateReservation(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}

	var stored *db.Reservation
	store := &fakeStore{
		createFn: func(_ context.Context, res *db.Reservation) error {
			res.ID = 42
			stored = res
			return nil
		},
	}
	svc := newTestService(store, nil, notifier)

	resp, err := svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo:     1,
		SlotNo:      3,
		EntryTime:   entry,
		ExitTime:    entry.Add(30 * time.Minute),
		VehicleType: "2 wheeler",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), resp.ID)
	require.Equal(t, db.StatusReserved, resp.Status)
	require.False(t, resp.Paid)
	require.Equal(t, 10.0, resp.BillAmount) // 30 min bills as one hour
	require.Equal(t, db.StatusReserved, stored.Status)
	require.Equal(t, []string{"confirmed"}, notifier.events)
}

func TestCreateReservationDefaultsToProfileVehicleType(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	svc := newTestService(store, nil, nil)

	resp, err := svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo:   1,
		SlotNo:    2,
		EntryTime: entry,
		ExitTime:  entry.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "2 wheeler", resp.VehicleType)
	require.Equal(t, 10.0, resp.BillAmount)
}

func TestCreateReservationValidation(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeStore{}, nil, nil)

	_, err := svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo: 7, SlotNo: 1, EntryTime: entry, ExitTime: entry.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrUnknownLevel)

	_, err = svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo: 1, SlotNo: 6, EntryTime: entry, ExitTime: entry.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidSlot)

	_, err = svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo: 1, SlotNo: 1, EntryTime: entry, ExitTime: entry,
	})
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateReservationSlotTaken(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		createFn: func(_ context.Context, _ *db.Reservation) error {
			return repository.ErrSlotTaken
		},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, nil, notifier)

	_, err := svc.CreateReservation(context.Background(), "gayatri", entities.CreateReservationRequest{
		LevelNo: 1, SlotNo: 1, EntryTime: entry, ExitTime: entry.Add(time.Hour), VehicleType: "4 wheeler",
	})
	require.ErrorIs(t, err, repository.ErrSlotTaken)
	require.Empty(t, notifier.events)
}

/* ---------- cancellation ---------- */

func TestCancelReservation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		cancelFn: func(_ context.Context, id int64, userID string, at time.Time) error {
			require.Equal(t, int64(5), id)
			require.Equal(t, "gayatri", userID)
			require.Equal(t, now, at)
			return nil
		},
		getByIDFn: func(_ context.Context, id int64) (*db.Reservation, error) {
			return &db.Reservation{ID: id, UserID: "gayatri", Status: db.StatusCancelled}, nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, nil, notifier)

	require.NoError(t, svc.CancelReservation(context.Background(), 5, "gayatri"))
	require.Equal(t, []string{"cancelled"}, notifier.events)
}

func TestCancelReservationErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrReservationNotFound,
		repository.ErrNotCancellable,
		repository.ErrAlreadyStarted,
	} {
		store := &fakeStore{
			cancelFn: func(_ context.Context, _ int64, _ string, _ time.Time) error { return sentinel },
		}
		svc := newTestService(store, nil, nil)
		require.ErrorIs(t, svc.CancelReservation(context.Background(), 1, "gayatri"), sentinel)
	}
}

/* ---------- payment ---------- */

func reservedRow() *db.Reservation {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	return &db.Reservation{
		ID:          7,
		UserID:      "gayatri",
		LevelNo:     1,
		SlotNo:      2,
		EntryTime:   entry,
		ExitTime:    entry.Add(2 * time.Hour),
		VehicleType: "2 wheeler",
		Status:      db.StatusReserved,
		BillAmount:  20.0,
	}
}

func TestPayReservation(t *testing.T) {
	row := reservedRow()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil },
		markPaidFn: func(_ context.Context, id int64, userID string, amount float64, paidAt time.Time) error {
			require.Equal(t, int64(7), id)
			require.Equal(t, "gayatri", userID)
			require.Equal(t, 20.0, amount) // the stored bill, not a caller-supplied figure
			require.Equal(t, now, paidAt)
			return nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, nil, notifier)

	receipt, err := svc.Pay(context.Background(), 7, "gayatri", validCard)
	require.NoError(t, err)
	require.Equal(t, int64(7), receipt.ReservationID)
	require.Equal(t, 20.0, receipt.Amount)
	require.Equal(t, db.StatusPaid, receipt.Status)
	require.Equal(t, now, receipt.PaidAt)
	require.Equal(t, []string{"paid"}, notifier.events)
}

func TestPayReservationIdempotent(t *testing.T) {
	firstPaidAt := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	row := reservedRow()
	row.Status = db.StatusPaid
	row.Paid = true
	row.PaidAt = sql.NullTime{Time: firstPaidAt, Valid: true}
	store := &fakeStore{
		getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil },
	}
	svc := newTestService(store, nil, nil)

	receipt, err := svc.Pay(context.Background(), 7, "gayatri", validCard)
	require.NoError(t, err)
	require.Equal(t, 20.0, receipt.Amount)
	require.Equal(t, db.StatusPaid, receipt.Status)
	require.Equal(t, firstPaidAt, receipt.PaidAt) // stored timestamp, not re-stamped
	require.Zero(t, store.markPaidCalls)

	again, err := svc.Pay(context.Background(), 7, "gayatri", validCard)
	require.NoError(t, err)
	require.Equal(t, receipt, again)
}

func TestPayReservationGuards(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		row := reservedRow()
		store := &fakeStore{getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil }}
		svc := newTestService(store, nil, nil)
		_, err := svc.Pay(context.Background(), 7, "darshan", validCard)
		require.ErrorIs(t, err, repository.ErrReservationNotFound)
	})

	t.Run("cancelled is not payable", func(t *testing.T) {
		row := reservedRow()
		row.Status = db.StatusCancelled
		store := &fakeStore{getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil }}
		svc := newTestService(store, nil, nil)
		_, err := svc.Pay(context.Background(), 7, "gayatri", validCard)
		require.ErrorIs(t, err, ErrNotPayable)
	})

	t.Run("completed is not payable", func(t *testing.T) {
		row := reservedRow()
		row.Status = db.StatusCompleted
		store := &fakeStore{getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil }}
		svc := newTestService(store, nil, nil)
		_, err := svc.Pay(context.Background(), 7, "gayatri", validCard)
		require.ErrorIs(t, err, ErrNotPayable)
	})

	t.Run("bad card", func(t *testing.T) {
		row := reservedRow()
		store := &fakeStore{getByIDFn: func(_ context.Context, _ int64) (*db.Reservation, error) { return row, nil }}
		svc := newTestService(store, nil, nil)
		_, err := svc.Pay(context.Background(), 7, "gayatri", entities.CardDetails{Number: "1234", CVV: "12"})
		require.ErrorIs(t, err, ErrInvalidCard)
		require.Zero(t, store.markPaidCalls)
	})
}

/* ---------- listing ---------- */

func TestListReservations(t *testing.T) {
	rows := []db.Reservation{
		{ID: 3, UserID: "gayatri", Status: db.StatusReserved},
		{ID: 2, UserID: "gayatri", Status: db.StatusPaid},
	}
	store := &fakeStore{
		listFn: func(_ context.Context, userID string) ([]db.Reservation, error) {
			require.Equal(t, "gayatri", userID)
			return rows, nil
		},
	}
	svc := newTestService(store, nil, nil)

	list, err := svc.ListReservations(context.Background(), "gayatri")
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	require.Equal(t, int64(3), list.Reservations[0].ID)
}

func TestPendingBills(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	rows := []db.Reservation{
		{ID: 3, UserID: "gayatri", VehicleType: "4 wheeler", EntryTime: entry, ExitTime: entry.Add(125 * time.Minute), Status: db.StatusReserved},
	}
	store := &fakeStore{
		listPendingFn: func(_ context.Context, _ string) ([]db.Reservation, error) { return rows, nil },
	}
	svc := newTestService(store, nil, nil)

	bills, err := svc.PendingBills(context.Background(), "gayatri")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.Equal(t, 3, bills[0].BilledHours)
	require.Equal(t, 60.0, bills[0].AmountDue)
}

/* ---------- quote ---------- */

func TestQuote(t *testing.T) {
	entry := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeStore{}, nil, nil)

	quote, err := svc.Quote("3 wheeler", entry, entry.Add(90*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, quote.BilledHours)
	require.Equal(t, 25.0, quote.Amount)
	require.Equal(t, 12.5, quote.RatePerHour)

	_, err = svc.Quote("3 wheeler", entry, entry)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

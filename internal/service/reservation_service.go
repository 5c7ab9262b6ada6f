package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"regexp"
	"time"

	"vpark/internal/config"
	"vpark/internal/db"
	"vpark/internal/entities"
	"vpark/internal/repository"
)

var (
	ErrUnknownLevel = errors.New("unknown parking level")
	ErrInvalidSlot  = errors.New("slot number out of range")
	ErrNotPayable   = errors.New("reservation is not in a payable state")
	ErrInvalidCard  = errors.New("invalid card details")
)

var cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
var cardCVVPattern = regexp.MustCompile(`^\d{3,4}$`)

// ReservationStore is the persistence surface the engine needs. The
// Postgres implementation lives in internal/repository.
type ReservationStore interface {
	OverlappingSlots(ctx context.Context, level int, entry, exit time.Time) (map[int]struct{}, error)
	Create(ctx context.Context, res *db.Reservation) error
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]db.Reservation, error)
	ListPendingByUser(ctx context.Context, userID string) ([]db.Reservation, error)
	Cancel(ctx context.Context, id int64, userID string, now time.Time) error
	MarkPaid(ctx context.Context, id int64, userID string, amount float64, paidAt time.Time) error
}

// Notifier delivers reservation lifecycle notifications. Failures are the
// notifier's problem; the engine never waits on it.
type Notifier interface {
	ReservationEvent(user db.User, res db.Reservation, event string)
}

type ReservationService struct {
	store  ReservationStore
	users  repository.UserRepository
	sender Notifier
	cfg    *config.Config
	now    func() time.Time
}

func NewReservationService(store ReservationStore, users repository.UserRepository, sender Notifier, cfg *config.Config) *ReservationService {
	return &ReservationService{
		store:  store,
		users:  users,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Rates exposes the configured per-hour rate table.
func (s *ReservationService) Rates() []entities.RateResponse {
	return []entities.RateResponse{
		{VehicleType: "2 wheeler", RatePerHour: s.cfg.Rates.TwoWheeler},
		{VehicleType: "3 wheeler", RatePerHour: s.cfg.Rates.ThreeWheeler},
		{VehicleType: "4 wheeler", RatePerHour: s.cfg.Rates.FourWheeler},
	}
}

// CheckAvailability reports, for every slot on a level, whether it is free
// for the requested window.
func (s *ReservationService) CheckAvailability(ctx context.Context, level int, entry, exit time.Time) (*entities.AvailabilityResponse, error) {
	if !exit.After(entry) {
		return nil, ErrInvalidWindow
	}
	if !s.cfg.HasLevel(level) {
		return nil, ErrUnknownLevel
	}

	taken, err := s.store.OverlappingSlots(ctx, level, entry, exit)
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		LevelNo:   level,
		EntryTime: entry,
		ExitTime:  exit,
	}
	for slot := 1; slot <= s.cfg.SlotsPerLevel; slot++ {
		_, occupied := taken[slot]
		resp.Slots = append(resp.Slots, entities.SlotAvailability{
			SlotNo:    slot,
			Available: !occupied,
		})
		if !occupied {
			resp.FreeCount++
		}
	}
	return resp, nil
}

// Quote prices a window without touching the database.
func (s *ReservationService) Quote(vehicleType string, entry, exit time.Time) (*entities.Quote, error) {
	amount, hours, err := ComputeCost(s.cfg.Rates, vehicleType, entry, exit)
	if err != nil {
		return nil, err
	}
	return &entities.Quote{
		VehicleType: vehicleType,
		EntryTime:   entry,
		ExitTime:    exit,
		BilledHours: hours,
		RatePerHour: amount / float64(hours),
		Amount:      amount,
	}, nil
}

// CreateReservation bills the window and persists a 'reserved' row. The
// overlap re-check runs inside the store's transaction, so a losing racer
// gets ErrSlotTaken instead of a double booking.
func (s *ReservationService) CreateReservation(ctx context.Context, userID string, req entities.CreateReservationRequest) (*entities.ReservationResponse, error) {
	if !s.cfg.HasLevel(req.LevelNo) {
		return nil, ErrUnknownLevel
	}
	if req.SlotNo < 1 || req.SlotNo > s.cfg.SlotsPerLevel {
		return nil, ErrInvalidSlot
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			vehicleType = user.VehicleType
		}
	}

	amount, _, err := ComputeCost(s.cfg.Rates, vehicleType, req.EntryTime, req.ExitTime)
	if err != nil {
		return nil, err
	}

	res := &db.Reservation{
		UserID:      userID,
		LevelNo:     req.LevelNo,
		SlotNo:      req.SlotNo,
		EntryTime:   req.EntryTime,
		ExitTime:    req.ExitTime,
		VehicleType: vehicleType,
		Status:      db.StatusReserved,
		BillAmount:  amount,
		Paid:        false,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}

	s.notify(ctx, userID, *res, "confirmed")
	resp := toReservationResponse(*res)
	return &resp, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, userID string) (*entities.ReservationsList, error) {
	rows, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := &entities.ReservationsList{
		Total:        len(rows),
		Reservations: []entities.ReservationResponse{},
	}
	for _, row := range rows {
		list.Reservations = append(list.Reservations, toReservationResponse(row))
	}
	return list, nil
}

// PendingBills lists the user's unpaid reserved rows with the amount due
// recomputed from the stored window.
func (s *ReservationService) PendingBills(ctx context.Context, userID string) ([]entities.PendingBill, error) {
	rows, err := s.store.ListPendingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	bills := []entities.PendingBill{}
	for _, row := range rows {
		amount, hours, err := ComputeCost(s.cfg.Rates, row.VehicleType, row.EntryTime, row.ExitTime)
		if err != nil {
			// Stored rows satisfy exit > entry by schema check; skip defensively.
			log.Printf("Skipping pending bill for reservation %d: %v", row.ID, err)
			continue
		}
		bills = append(bills, entities.PendingBill{
			Reservation: toReservationResponse(row),
			BilledHours: hours,
			AmountDue:   amount,
		})
	}
	return bills, nil
}

// CancelReservation cancels the user's own future 'reserved' reservation.
// The conditional update in the store keeps the check-and-flip atomic.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, userID string) error {
	if err := s.store.Cancel(ctx, id, userID, s.now()); err != nil {
		return err
	}
	if res, err := s.store.GetByID(ctx, id); err == nil {
		s.notify(ctx, userID, *res, "cancelled")
	}
	return nil
}

// Pay settles a reservation the user owns. The amount charged is the bill
// computed at creation time; callers cannot substitute their own figure.
// Paying an already-paid reservation is an idempotent no-op that returns
// the same receipt.
func (s *ReservationService) Pay(ctx context.Context, id int64, userID string, card entities.CardDetails) (*entities.Receipt, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}

	switch res.Status {
	case db.StatusPaid:
		return s.receipt(res), nil
	case db.StatusReserved:
	default:
		return nil, ErrNotPayable
	}

	if !cardNumberPattern.MatchString(card.Number) || !cardCVVPattern.MatchString(card.CVV) {
		return nil, ErrInvalidCard
	}

	paidAt := s.now().UTC()
	if err := s.store.MarkPaid(ctx, id, userID, res.BillAmount, paidAt); err != nil {
		return nil, err
	}
	res.Status = db.StatusPaid
	res.Paid = true
	res.PaidAt = sql.NullTime{Time: paidAt, Valid: true}

	s.notify(ctx, userID, *res, "paid")
	return s.receipt(res), nil
}

// receipt carries the stored payment timestamp, so repeating Pay on a paid
// reservation returns the same receipt it did the first time.
func (s *ReservationService) receipt(res *db.Reservation) *entities.Receipt {
	paidAt := s.now().UTC()
	if res.PaidAt.Valid {
		paidAt = res.PaidAt.Time
	}
	return &entities.Receipt{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Amount:        res.BillAmount,
		Status:        res.Status,
		PaidAt:        paidAt,
	}
}

func (s *ReservationService) notify(ctx context.Context, userID string, res db.Reservation, event string) {
	if s.sender == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		log.Printf("Skipping %s notification for reservation %d: user %s not loaded", event, res.ID, userID)
		return
	}
	s.sender.ReservationEvent(*user, res, event)
}

func toReservationResponse(res db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		ID:          res.ID,
		UserID:      res.UserID,
		LevelNo:     res.LevelNo,
		SlotNo:      res.SlotNo,
		EntryTime:   res.EntryTime,
		ExitTime:    res.ExitTime,
		VehicleType: res.VehicleType,
		Status:      res.Status,
		BillAmount:  res.BillAmount,
		Paid:        res.Paid,
		CreatedAt:   res.CreatedAt,
	}
}

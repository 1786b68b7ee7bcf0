package handler

import (
	"context"
	"sync"
	"time"

	"go-parking-lot/internal/domain"
)

// Small in-memory repositories, enough to drive the handlers end to end.

type users struct {
	mu   sync.Mutex
	rows []domain.User
}

func (r *users) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *u)
	return nil
}

func (r *users) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *users) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User(nil), r.rows...), nil
}

func (r *users) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID-1] = *u
	return nil
}

func (r *users) SoftDelete(context.Context, uint) (bool, error) { return false, nil }

type slots struct {
	mu   sync.Mutex
	rows map[uint]*domain.Slot
}

func newSlots() *slots { return &slots{rows: map[uint]*domain.Slot{}} }

func (r *slots) Create(_ context.Context, s *domain.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.SlotID = uint(len(r.rows) + 1)
	c := *s
	r.rows[s.SlotID] = &c
	return nil
}

func (r *slots) FindByID(_ context.Context, id uint) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *slots) List(_ context.Context, f domain.SlotFilter) ([]domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Slot
	for id := uint(1); id <= uint(len(r.rows)); id++ {
		s, ok := r.rows[id]
		if !ok || (f.Type != "" && s.Type != f.Type) || (f.AvailableOnly && s.Occupied) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *slots) Update(_ context.Context, s *domain.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.rows[s.SlotID] = &c
	return nil
}

func (r *slots) Delete(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *slots) SetOccupied(_ context.Context, id uint, occupied bool) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	s.Occupied = occupied
	c := *s
	return &c, nil
}

// marker flips occupancy directly on the slots repo, standing in for slot-service.
type marker struct{ s *slots }

func (m marker) MarkOccupied(ctx context.Context, id uint) (*domain.Slot, error) {
	return m.s.SetOccupied(ctx, id, true)
}

func (m marker) MarkAvailable(ctx context.Context, id uint) (*domain.Slot, error) {
	return m.s.SetOccupied(ctx, id, false)
}

type reservations struct {
	mu   sync.Mutex
	rows []domain.Reservation
}

func (r *reservations) Create(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ReservationID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *res)
	return nil
}

func (r *reservations) FindByID(_ context.Context, id uint) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == 0 || int(id) > len(r.rows) {
		return nil, nil
	}
	c := r.rows[id-1]
	return &c, nil
}

func (r *reservations) where(keep func(domain.Reservation) bool) []domain.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Reservation
	for _, res := range r.rows {
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func (r *reservations) List(context.Context) ([]domain.Reservation, error) {
	return r.where(func(domain.Reservation) bool { return true }), nil
}

func (r *reservations) ListByUser(_ context.Context, uid uint) ([]domain.Reservation, error) {
	return r.where(func(res domain.Reservation) bool { return res.UserID == uid }), nil
}

func (r *reservations) ListActiveBySlot(_ context.Context, slotID uint) ([]domain.Reservation, error) {
	return r.where(func(res domain.Reservation) bool {
		return res.SlotID == slotID && res.Status == domain.ReservationActive
	}), nil
}

func (r *reservations) ListExpired(_ context.Context, now time.Time) ([]domain.Reservation, error) {
	return r.where(func(res domain.Reservation) bool {
		return res.Status == domain.ReservationActive && res.EndTime.Before(now)
	}), nil
}

func (r *reservations) Update(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[res.ReservationID-1] = *res
	return nil
}

func (r *reservations) Transition(_ context.Context, id uint, from, to domain.ReservationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[id-1].Status != from {
		return false, nil
	}
	r.rows[id-1].Status = to
	return true, nil
}

type logs struct {
	mu   sync.Mutex
	rows []domain.VehicleLog
}

func (r *logs) Create(_ context.Context, l *domain.VehicleLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.LogID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *l)
	return nil
}

func (r *logs) FindByID(_ context.Context, id uint) (*domain.VehicleLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == 0 || int(id) > len(r.rows) {
		return nil, nil
	}
	c := r.rows[id-1]
	return &c, nil
}

func (r *logs) List(context.Context) ([]domain.VehicleLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.VehicleLog(nil), r.rows...), nil
}

func (r *logs) ListByUser(_ context.Context, uid uint) ([]domain.VehicleLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VehicleLog
	for _, l := range r.rows {
		if l.UserID == uid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *logs) MarkExit(_ context.Context, id uint, exit time.Time, minutes int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[id-1].ExitTime != nil {
		return false, nil
	}
	r.rows[id-1].ExitTime, r.rows[id-1].DurationMinutes = &exit, &minutes
	return true, nil
}

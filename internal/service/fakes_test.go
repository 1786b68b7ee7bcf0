package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
)

var errDB = errors.New("db down")

type memUsers struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]domain.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uint]domain.User{}} }

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	m.seq++
	u.ID = m.seq
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) SoftDelete(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

type memSlots struct {
	mu    sync.Mutex
	seq   uint
	rows  map[uint]domain.Slot
	lists int
}

func newMemSlots() *memSlots { return &memSlots{rows: map[uint]domain.Slot{}} }

func (m *memSlots) Create(_ context.Context, s *domain.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.SlotID = m.seq
	m.rows[s.SlotID] = *s
	return nil
}

func (m *memSlots) FindByID(_ context.Context, id uint) (*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *memSlots) List(_ context.Context, f domain.SlotFilter) ([]domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	var out []domain.Slot
	for _, s := range m.rows {
		if f.Type != "" && s.Type != f.Type {
			continue
		}
		if f.AvailableOnly && s.Occupied {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out, nil
}

func (m *memSlots) Update(_ context.Context, s *domain.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.SlotID] = *s
	return nil
}

func (m *memSlots) Delete(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memSlots) SetOccupied(_ context.Context, id uint, occupied bool) (*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	s.Occupied = occupied
	m.rows[id] = s
	return &s, nil
}

type memReservations struct {
	mu        sync.Mutex
	seq       uint
	rows      map[uint]domain.Reservation
	createErr error
}

func newMemReservations() *memReservations {
	return &memReservations{rows: map[uint]domain.Reservation{}}
}

func (m *memReservations) put(r domain.Reservation) domain.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ReservationID = m.seq
	m.rows[r.ReservationID] = r
	return r
}

func (m *memReservations) Create(_ context.Context, r *domain.Reservation) error {
	if m.createErr != nil {
		return m.createErr
	}
	*r = m.put(*r)
	return nil
}

func (m *memReservations) FindByID(_ context.Context, id uint) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memReservations) filter(keep func(domain.Reservation) bool) []domain.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationID < out[j].ReservationID })
	return out
}

func (m *memReservations) List(context.Context) ([]domain.Reservation, error) {
	return m.filter(func(domain.Reservation) bool { return true }), nil
}

func (m *memReservations) ListByUser(_ context.Context, uid uint) ([]domain.Reservation, error) {
	return m.filter(func(r domain.Reservation) bool { return r.UserID == uid }), nil
}

func (m *memReservations) ListActiveBySlot(_ context.Context, slotID uint) ([]domain.Reservation, error) {
	return m.filter(func(r domain.Reservation) bool {
		return r.SlotID == slotID && r.Status == domain.ReservationActive
	}), nil
}

func (m *memReservations) ListExpired(_ context.Context, now time.Time) ([]domain.Reservation, error) {
	return m.filter(func(r domain.Reservation) bool {
		return r.Status == domain.ReservationActive && r.EndTime.Before(now)
	}), nil
}

func (m *memReservations) Update(_ context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ReservationID] = *r
	return nil
}

func (m *memReservations) Transition(_ context.Context, id uint, from, to domain.ReservationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	m.rows[id] = r
	return true, nil
}

func (m *memReservations) status(id uint) domain.ReservationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].Status
}

type memLogs struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]domain.VehicleLog
}

func newMemLogs() *memLogs { return &memLogs{rows: map[uint]domain.VehicleLog{}} }

func (m *memLogs) Create(_ context.Context, l *domain.VehicleLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.LogID = m.seq
	m.rows[l.LogID] = *l
	return nil
}

func (m *memLogs) FindByID(_ context.Context, id uint) (*domain.VehicleLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.rows[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (m *memLogs) List(context.Context) ([]domain.VehicleLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.VehicleLog
	for _, l := range m.rows {
		out = append(out, l)
	}
	return out, nil
}

func (m *memLogs) ListByUser(_ context.Context, uid uint) ([]domain.VehicleLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.VehicleLog
	for _, l := range m.rows {
		if l.UserID == uid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLogs) MarkExit(_ context.Context, id uint, exit time.Time, minutes int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok || l.ExitTime != nil {
		return false, nil
	}
	l.ExitTime, l.DurationMinutes = &exit, &minutes
	m.rows[id] = l
	return true, nil
}

type memInvoices struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]domain.Invoice
}

func newMemInvoices() *memInvoices { return &memInvoices{rows: map[uint]domain.Invoice{}} }

func (m *memInvoices) Create(_ context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	inv.InvoiceID = m.seq
	m.rows[inv.InvoiceID] = *inv
	return nil
}

func (m *memInvoices) FindByID(_ context.Context, id uint) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.rows[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (m *memInvoices) List(context.Context) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Invoice
	for _, inv := range m.rows {
		out = append(out, inv)
	}
	return out, nil
}

func (m *memInvoices) ListByUser(_ context.Context, uid uint) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Invoice
	for _, inv := range m.rows {
		if inv.UserID == uid {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) Transition(_ context.Context, id uint, from, to domain.InvoiceStatus, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[id]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	if v, ok := fields["payment_method"].(domain.PaymentMethod); ok {
		inv.PaymentMethod = v
	}
	m.rows[id] = inv
	return true, nil
}

// fakeSlots stands in for slot-service.
type fakeSlots struct {
	mu       sync.Mutex
	occupied map[uint]bool
	types    map[uint]domain.SlotType
	failMark error // returned by MarkOccupied
	failFree error // returned by MarkAvailable
	calls    []string
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{occupied: map[uint]bool{}, types: map[uint]domain.SlotType{}}
}

func (f *fakeSlots) MarkOccupied(_ context.Context, id uint) (*domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "occupy")
	if f.failMark != nil {
		return nil, f.failMark
	}
	f.occupied[id] = true
	return &domain.Slot{SlotID: id, Occupied: true}, nil
}

func (f *fakeSlots) MarkAvailable(_ context.Context, id uint) (*domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "free")
	if f.failFree != nil {
		return nil, f.failFree
	}
	f.occupied[id] = false
	return &domain.Slot{SlotID: id}, nil
}

func (f *fakeSlots) Get(_ context.Context, id uint) (*domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok {
		return nil, errs.NotFound("Slot not found")
	}
	return &domain.Slot{SlotID: id, Type: t, Occupied: f.occupied[id]}, nil
}

func (f *fakeSlots) isOccupied(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.occupied[id]
}

var upstreamDown = errs.Upstream("slot-service unavailable", errors.New("connection refused"))

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/cache"
	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
)

// ReservationService books slots. Every change to a slot's ACTIVE reservations
// runs under that slot's lock so two bookings cannot both pass the conflict check.
type ReservationService struct {
	repo   domain.ReservationRepository
	slots  SlotMarker
	locker cache.Locker
	log    *zap.Logger
	now    func() time.Time
}

func NewReservationService(r domain.ReservationRepository, slots SlotMarker, locker cache.Locker, l *zap.Logger) *ReservationService {
	return &ReservationService{repo: r, slots: slots, locker: locker, log: l, now: time.Now}
}

type CreateReservationInput struct {
	UserID        uint
	SlotID        uint
	VehicleNumber string
	Start         time.Time
	End           time.Time
}

type UpdateReservationInput struct {
	VehicleNumber *string
	Start         *time.Time
	End           *time.Time
}

func slotKey(id uint) string { return fmt.Sprintf("slot:%d", id) }

func (s *ReservationService) lock(ctx context.Context, slotID uint) (func(), error) {
	unlock, err := s.locker.Lock(ctx, slotKey(slotID))
	if err != nil {
		if errors.Is(err, cache.ErrLockTimeout) {
			return nil, errs.Conflict("Slot is being booked by another request, try again")
		}
		return nil, errs.Unavailable("Could not lock slot", err)
	}
	return unlock, nil
}

func validWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errs.BadRequest("Start time and end time are required")
	}
	if !end.After(start) {
		return errs.BadRequest("End time must be after start time")
	}
	return nil
}

func (s *ReservationService) checkConflict(ctx context.Context, slotID uint, start, end time.Time, exclude uint) error {
	active, err := s.repo.ListActiveBySlot(ctx, slotID)
	if err != nil {
		return errs.Internal("Failed to check slot availability", err)
	}
	if domain.FindConflict(active, start, end, exclude) != nil {
		return errs.Conflict("Slot already reserved for the selected time")
	}
	return nil
}

// Create books a slot. Customers always book for themselves.
// The slot is marked occupied before the insert; a failed insert releases it again.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, in CreateReservationInput) (res *domain.Reservation, err error) {
	defer func() {
		result := "created"
		if err != nil {
			result = strings.ToLower(strings.ReplaceAll(http.StatusText(errs.CodeOf(err)), " ", "_"))
		}
		reservationsTotal.WithLabelValues(result).Inc()
	}()

	if actor.Role == domain.RoleCustomer {
		in.UserID = actor.UserID
	}
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	switch {
	case in.UserID == 0:
		return nil, errs.BadRequest("User id is required")
	case in.SlotID == 0:
		return nil, errs.BadRequest("Slot id is required")
	case in.VehicleNumber == "":
		return nil, errs.BadRequest("Vehicle number is required")
	}
	if err := validWindow(in.Start, in.End); err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkConflict(ctx, in.SlotID, in.Start, in.End, 0); err != nil {
		return nil, err
	}
	if _, err := s.slots.MarkOccupied(ctx, in.SlotID); err != nil {
		return nil, err
	}

	res = &domain.Reservation{
		UserID:        in.UserID,
		SlotID:        in.SlotID,
		VehicleNumber: in.VehicleNumber,
		StartTime:     in.Start,
		EndTime:       in.End,
		Status:        domain.ReservationActive,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		s.compensate(ctx, in.SlotID, err)
		return nil, errs.Internal("Failed to create reservation", err)
	}
	s.log.Info("reservation created",
		zap.Uint("reservation_id", res.ReservationID), zap.Uint("slot_id", res.SlotID), zap.Uint("uid", res.UserID))
	return res, nil
}

func (s *ReservationService) compensate(ctx context.Context, slotID uint, cause error) {
	cctx, cancel := detached(ctx)
	defer cancel()
	if _, err := s.slots.MarkAvailable(cctx, slotID); err != nil {
		compensations.WithLabelValues("failed").Inc()
		s.log.Error("slot left occupied after failed reservation insert",
			zap.Uint("slot_id", slotID), zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	compensations.WithLabelValues("ok").Inc()
}

func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.Reservation, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(r.UserID) {
		return nil, errs.Forbidden("Access denied")
	}
	return r, nil
}

func (s *ReservationService) List(ctx context.Context) ([]domain.Reservation, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch reservations", err)
	}
	return nonNil(out), nil
}

func (s *ReservationService) ListByUser(ctx context.Context, actor domain.Actor, userID uint) ([]domain.Reservation, error) {
	if !actor.CanAccess(userID) {
		return nil, errs.Forbidden("Access denied")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch reservations", err)
	}
	return nonNil(out), nil
}

// Update changes the window or vehicle of an ACTIVE reservation. A new window is
// checked against the slot's other ACTIVE reservations.
func (s *ReservationService) Update(ctx context.Context, actor domain.Actor, id uint, in UpdateReservationInput) (*domain.Reservation, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, r.SlotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// reload under the lock
	if r, err = s.find(ctx, id); err != nil {
		return nil, err
	}
	if r.Status != domain.ReservationActive {
		return nil, errs.Conflict("Reservation is not active")
	}

	if in.VehicleNumber != nil {
		if v := strings.TrimSpace(*in.VehicleNumber); v != "" {
			r.VehicleNumber = v
		}
	}
	if in.Start != nil && !in.Start.IsZero() {
		r.StartTime = *in.Start
	}
	if in.End != nil && !in.End.IsZero() {
		r.EndTime = *in.End
	}
	if err := validWindow(r.StartTime, r.EndTime); err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, r.SlotID, r.StartTime, r.EndTime, r.ReservationID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, errs.Internal("Failed to update reservation", err)
	}
	return r, nil
}

// Cancel frees the slot first; if slot-service cannot be reached the reservation
// stays ACTIVE and the caller may retry.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Actor, id uint) error {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if r.Status != domain.ReservationActive {
		return errs.Conflict("Reservation is not active")
	}
	unlock, err := s.lock(ctx, r.SlotID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.release(ctx, r.SlotID); err != nil {
		return err
	}
	ok, err := s.repo.Transition(ctx, id, domain.ReservationActive, domain.ReservationCancelled)
	if err != nil {
		return errs.Internal("Failed to cancel reservation", err)
	}
	if !ok {
		return errs.Conflict("Reservation is not active")
	}
	s.log.Info("reservation cancelled", zap.Uint("reservation_id", id), zap.Uint("slot_id", r.SlotID))
	return nil
}

// release marks the slot available; a slot that no longer exists counts as released.
func (s *ReservationService) release(ctx context.Context, slotID uint) error {
	_, err := s.slots.MarkAvailable(ctx, slotID)
	if err != nil && errs.Is(err, http.StatusNotFound) {
		s.log.Warn("slot gone while releasing", zap.Uint("slot_id", slotID))
		return nil
	}
	return err
}

// SweepResult summarises one expiry pass.
type SweepResult struct {
	Expired   int
	Completed int
	Failed    int
	Skipped   int // changed after listing, e.g. extended or cancelled
}

// Sweep completes ACTIVE reservations whose end time has passed. A reservation is
// only marked COMPLETED after its slot was released; failures stay ACTIVE for the next pass.
func (s *ReservationService) Sweep(ctx context.Context) (SweepResult, error) {
	var out SweepResult
	expired, err := s.repo.ListExpired(ctx, s.now())
	if err != nil {
		return out, errs.Internal("Failed to list expired reservations", err)
	}
	out.Expired = len(expired)

	for _, r := range expired {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		switch s.expire(ctx, r) {
		case expireDone:
			out.Completed++
		case expireSkipped:
			out.Skipped++
		default:
			out.Failed++
		}
	}
	return out, nil
}

type expireOutcome int

const (
	expireFailed expireOutcome = iota
	expireDone
	expireSkipped
)

func (s *ReservationService) expire(ctx context.Context, listed domain.Reservation) expireOutcome {
	l := s.log.With(zap.Uint("reservation_id", listed.ReservationID), zap.Uint("slot_id", listed.SlotID))

	unlock, err := s.lock(ctx, listed.SlotID)
	if err != nil {
		l.Warn("sweep: slot busy", zap.Error(err))
		return expireFailed
	}
	defer unlock()

	// reload under the lock: an update may have moved the end time since listing
	r, err := s.repo.FindByID(ctx, listed.ReservationID)
	if err != nil {
		l.Error("sweep: reload reservation", zap.Error(err))
		return expireFailed
	}
	if r == nil || r.Status != domain.ReservationActive || !r.EndTime.Before(s.now()) {
		l.Info("sweep: reservation no longer expired")
		return expireSkipped
	}

	if err := s.release(ctx, r.SlotID); err != nil {
		sweepReleaseFailures.Inc()
		l.Warn("sweep: release slot failed, will retry", zap.Error(err))
		return expireFailed
	}
	ok, err := s.repo.Transition(ctx, r.ReservationID, domain.ReservationActive, domain.ReservationCompleted)
	if err != nil {
		l.Error("sweep: complete reservation", zap.Error(err))
		return expireFailed
	}
	if !ok {
		return expireSkipped
	}
	sweepCompleted.Inc()
	return expireDone
}

func (s *ReservationService) find(ctx context.Context, id uint) (*domain.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch reservation", err)
	}
	if r == nil {
		return nil, errs.NotFound("Reservation not found")
	}
	return r, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

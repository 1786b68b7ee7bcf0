package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
)

// VehicleLogService records gate movements. The log is the source of truth:
// a slot-service failure is logged but never undoes an entry or exit.
type VehicleLogService struct {
	repo  domain.VehicleLogRepository
	slots SlotMarker
	log   *zap.Logger
	now   func() time.Time
}

func NewVehicleLogService(r domain.VehicleLogRepository, slots SlotMarker, l *zap.Logger) *VehicleLogService {
	return &VehicleLogService{repo: r, slots: slots, log: l, now: time.Now}
}

type EntryInput struct {
	VehicleNumber string
	UserID        uint
	SlotID        uint
}

func (s *VehicleLogService) Entry(ctx context.Context, in EntryInput) (*domain.VehicleLog, error) {
	in.VehicleNumber = strings.ToUpper(strings.TrimSpace(in.VehicleNumber))
	switch {
	case in.VehicleNumber == "":
		return nil, errs.BadRequest("Vehicle number is required")
	case in.UserID == 0:
		return nil, errs.BadRequest("User id is required")
	case in.SlotID == 0:
		return nil, errs.BadRequest("Slot id is required")
	}

	l := &domain.VehicleLog{
		VehicleNumber: in.VehicleNumber,
		UserID:        in.UserID,
		SlotID:        in.SlotID,
		EntryTime:     s.now(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, errs.Internal("Failed to record entry", err)
	}
	if _, err := s.slots.MarkOccupied(ctx, l.SlotID); err != nil {
		s.log.Warn("entry recorded but slot not marked occupied",
			zap.Uint("log_id", l.LogID), zap.Uint("slot_id", l.SlotID), zap.Error(err))
	}
	return l, nil
}

// Exit closes an open log. Only the first exit for a log wins.
func (s *VehicleLogService) Exit(ctx context.Context, logID uint) (*domain.VehicleLog, error) {
	if logID == 0 {
		return nil, errs.BadRequest("Log id is required")
	}
	l, err := s.find(ctx, logID)
	if err != nil {
		return nil, err
	}
	if l.Exited() {
		return nil, errs.Conflict("Exit already recorded for this log")
	}

	exit := s.now()
	minutes := domain.StayMinutes(l.EntryTime, exit)
	ok, err := s.repo.MarkExit(ctx, logID, exit, minutes)
	if err != nil {
		return nil, errs.Internal("Failed to record exit", err)
	}
	if !ok {
		return nil, errs.Conflict("Exit already recorded for this log")
	}
	l.ExitTime, l.DurationMinutes = &exit, &minutes

	if _, err := s.slots.MarkAvailable(ctx, l.SlotID); err != nil {
		s.log.Warn("exit recorded but slot not released",
			zap.Uint("log_id", l.LogID), zap.Uint("slot_id", l.SlotID), zap.Error(err))
	}
	return l, nil
}

func (s *VehicleLogService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.VehicleLog, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.UserID) {
		return nil, errs.Forbidden("Access denied")
	}
	return l, nil
}

func (s *VehicleLogService) List(ctx context.Context) ([]domain.VehicleLog, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle logs", err)
	}
	return nonNil(out), nil
}

func (s *VehicleLogService) ListByUser(ctx context.Context, actor domain.Actor, userID uint) ([]domain.VehicleLog, error) {
	if !actor.CanAccess(userID) {
		return nil, errs.Forbidden("Access denied")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle logs", err)
	}
	return nonNil(out), nil
}

func (s *VehicleLogService) find(ctx context.Context, id uint) (*domain.VehicleLog, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle log", err)
	}
	if l == nil {
		return nil, errs.NotFound("Log not found")
	}
	return l, nil
}

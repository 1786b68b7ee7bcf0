package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/cache"
	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
)

const availableKey = "slots:available"

type SlotService struct {
	repo  domain.SlotRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewSlotService caches available listings in c for ttl; c may be nil.
func NewSlotService(r domain.SlotRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *SlotService {
	return &SlotService{repo: r, cache: c, ttl: ttl, log: l}
}

type SlotUpdate struct {
	Location *string
	Type     *string
	Occupied *bool
}

func (s *SlotService) Add(ctx context.Context, location, typ string) (*domain.Slot, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errs.BadRequest("Location is required")
	}
	t, ok := domain.ParseSlotType(typ)
	if !ok {
		return nil, errs.BadRequest("Invalid slot type, expected 2W or 4W")
	}
	slot := &domain.Slot{Location: location, Type: t}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, errs.Internal("Failed to add slot", err)
	}
	s.invalidate(ctx)
	return slot, nil
}

func (s *SlotService) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errs.Internal("Failed to delete slot", err)
	}
	if !ok {
		return errs.NotFound("Slot not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *SlotService) Update(ctx context.Context, id uint, in SlotUpdate) (*domain.Slot, error) {
	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Location != nil {
		if loc := strings.TrimSpace(*in.Location); loc != "" {
			slot.Location = loc
		}
	}
	if in.Type != nil && *in.Type != "" {
		t, ok := domain.ParseSlotType(*in.Type)
		if !ok {
			return nil, errs.BadRequest("Invalid slot type, expected 2W or 4W")
		}
		slot.Type = t
	}
	if in.Occupied != nil {
		slot.Occupied = *in.Occupied
	}
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, errs.Internal("Failed to update slot", err)
	}
	s.invalidate(ctx)
	return slot, nil
}

func (s *SlotService) Get(ctx context.Context, id uint) (*domain.Slot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch slot", err)
	}
	if slot == nil {
		return nil, errs.NotFound("Slot not found")
	}
	return slot, nil
}

func (s *SlotService) ListAll(ctx context.Context) ([]domain.Slot, error) {
	slots, err := s.repo.List(ctx, domain.SlotFilter{})
	if err != nil {
		return nil, errs.Internal("Failed to fetch slots", err)
	}
	return slots, nil
}

func (s *SlotService) ListAvailable(ctx context.Context) ([]domain.Slot, error) {
	return s.available(ctx, "")
}

func (s *SlotService) ListAvailableByType(ctx context.Context, typ string) ([]domain.Slot, error) {
	t, ok := domain.ParseSlotType(typ)
	if !ok {
		return nil, errs.BadRequest("Invalid slot type, expected 2W or 4W")
	}
	return s.available(ctx, t)
}

func (s *SlotService) available(ctx context.Context, t domain.SlotType) ([]domain.Slot, error) {
	key := availableKey
	if t != "" {
		key += ":" + string(t)
	}
	slots, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) ([]domain.Slot, error) {
		return s.repo.List(ctx, domain.SlotFilter{Type: t, AvailableOnly: true})
	})
	if err != nil {
		return nil, errs.Internal("Failed to fetch slots", err)
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

// SetOccupied is the internal occupancy switch used by reservations and vehicle logs.
func (s *SlotService) SetOccupied(ctx context.Context, id uint, occupied bool) (*domain.Slot, error) {
	slot, err := s.repo.SetOccupied(ctx, id, occupied)
	if err != nil {
		return nil, errs.Internal("Failed to update slot occupancy", err)
	}
	if slot == nil {
		return nil, errs.NotFound("Slot not found")
	}
	s.invalidate(ctx)
	return slot, nil
}

func (s *SlotService) invalidate(ctx context.Context) {
	keys := []string{availableKey, availableKey + ":" + string(domain.SlotTwoWheeler), availableKey + ":" + string(domain.SlotFourWheeler)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("slot cache invalidate", zap.Error(err))
	}
}

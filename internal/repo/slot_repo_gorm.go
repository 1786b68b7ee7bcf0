package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

type SlotRepo struct{ db *gorm.DB }

func NewSlotRepo(db *gorm.DB) *SlotRepo { return &SlotRepo{db: db} }

func (r *SlotRepo) Create(ctx context.Context, s *domain.Slot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SlotRepo) FindByID(ctx context.Context, id uint) (*domain.Slot, error) {
	var s domain.Slot
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *SlotRepo) List(ctx context.Context, f domain.SlotFilter) ([]domain.Slot, error) {
	q := r.db.WithContext(ctx).Model(&domain.Slot{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.AvailableOnly {
		q = q.Where("occupied = ?", false)
	}
	var slots []domain.Slot
	err := q.Order("slot_id").Find(&slots).Error
	return slots, err
}

func (r *SlotRepo) Update(ctx context.Context, s *domain.Slot) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SlotRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Slot{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *SlotRepo) SetOccupied(ctx context.Context, id uint, occupied bool) (*domain.Slot, error) {
	var out *domain.Slot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s domain.Slot
		if err := tx.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&s).Update("occupied", occupied).Error; err != nil {
			return err
		}
		s.Occupied = occupied
		out = &s
		return nil
	})
	return out, err
}

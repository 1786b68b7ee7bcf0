package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

type VehicleLogRepo struct{ db *gorm.DB }

func NewVehicleLogRepo(db *gorm.DB) *VehicleLogRepo { return &VehicleLogRepo{db: db} }

func (r *VehicleLogRepo) Create(ctx context.Context, l *domain.VehicleLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *VehicleLogRepo) FindByID(ctx context.Context, id uint) (*domain.VehicleLog, error) {
	var l domain.VehicleLog
	err := r.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *VehicleLogRepo) List(ctx context.Context) ([]domain.VehicleLog, error) {
	var out []domain.VehicleLog
	err := r.db.WithContext(ctx).Order("entry_time DESC").Find(&out).Error
	return out, err
}

func (r *VehicleLogRepo) ListByUser(ctx context.Context, userID uint) ([]domain.VehicleLog, error) {
	var out []domain.VehicleLog
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("entry_time DESC").Find(&out).Error
	return out, err
}

func (r *VehicleLogRepo) MarkExit(ctx context.Context, id uint, exit time.Time, minutes int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.VehicleLog{}).
		Where("log_id = ? AND exit_time IS NULL", id).
		Updates(map[string]any{"exit_time": exit, "duration_minutes": minutes})
	return res.RowsAffected > 0, res.Error
}

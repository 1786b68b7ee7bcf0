package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

type ReservationRepo struct{ db *gorm.DB }

func NewReservationRepo(db *gorm.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ReservationRepo) FindByID(ctx context.Context, id uint) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &res, err
}

func (r *ReservationRepo) List(ctx context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).Order("reservation_id").Find(&out).Error
	return out, err
}

func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_time DESC").Find(&out).Error
	return out, err
}

func (r *ReservationRepo) ListActiveBySlot(ctx context.Context, slotID uint) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("slot_id = ? AND status = ?", slotID, domain.ReservationActive).
		Order("start_time").Find(&out).Error
	return out, err
}

func (r *ReservationRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", domain.ReservationActive, now).
		Order("end_time").Find(&out).Error
	return out, err
}

func (r *ReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *ReservationRepo) Transition(ctx context.Context, id uint, from, to domain.ReservationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Reservation{}).
		Where("reservation_id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

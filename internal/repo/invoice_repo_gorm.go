package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

type InvoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepo(db *gorm.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepo) FindByID(ctx context.Context, id uint) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *InvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := r.db.WithContext(ctx).Order("invoice_id DESC").Find(&out).Error
	return out, err
}

func (r *InvoiceRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("invoice_id DESC").Find(&out).Error
	return out, err
}

func (r *InvoiceRepo) Transition(ctx context.Context, id uint, from, to domain.InvoiceStatus, fields map[string]any) (bool, error) {
	upd := map[string]any{"status": to}
	for k, v := range fields {
		upd[k] = v
	}
	res := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("invoice_id = ? AND status = ?", id, from).
		Updates(upd)
	return res.RowsAffected > 0, res.Error
}

package domain

import (
	"context"
	"strings"
	"time"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PayUPI    PaymentMethod = "UPI"
	PayCard   PaymentMethod = "CARD"
	PayCash   PaymentMethod = "CASH"
	PayWallet PaymentMethod = "WALLET"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PayUPI, PayCard, PayCash, PayWallet:
		return m, true
	}
	return "", false
}

type Invoice struct {
	InvoiceID       uint          `gorm:"primaryKey;column:invoice_id" json:"invoiceId"`
	UserID          uint          `gorm:"not null;index" json:"userId"`
	ReservationID   *uint         `gorm:"index" json:"reservationId"`
	LogID           *uint         `gorm:"index" json:"logId"`
	Type            SlotType      `gorm:"size:4;not null" json:"type"`
	DurationMinutes int64         `gorm:"not null" json:"durationMinutes"`
	Amount          int64         `gorm:"not null" json:"amount"`
	PaymentMethod   PaymentMethod `gorm:"size:16" json:"paymentMethod"`
	Status          InvoiceStatus `gorm:"size:16;not null;index" json:"status"`
	Timestamp       time.Time     `gorm:"not null" json:"timestamp"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

// Fare charges every started hour at rate, with a one hour minimum.
func Fare(minutes int64, rate int64) (hours int64, amount int64) {
	hours = (minutes + 59) / 60
	if hours < 1 {
		hours = 1
	}
	return hours, hours * rate
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id uint) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListByUser(ctx context.Context, userID uint) ([]Invoice, error)
	// Transition applies fields and the new status only while the invoice is in from.
	Transition(ctx context.Context, id uint, from, to InvoiceStatus, fields map[string]any) (bool, error)
}

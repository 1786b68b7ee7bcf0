package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
)

type BillingService struct {
	repo         domain.InvoiceRepository
	reservations ReservationReader
	logs         VehicleLogReader
	slots        SlotReader
	rates        map[string]int64
	log          *zap.Logger
	now          func() time.Time
}

// NewBillingService prices invoices with rates, keyed by slot type (2W, 4W).
func NewBillingService(
	r domain.InvoiceRepository,
	reservations ReservationReader,
	logs VehicleLogReader,
	slots SlotReader,
	rates map[string]int64,
	l *zap.Logger,
) *BillingService {
	return &BillingService{repo: r, reservations: reservations, logs: logs, slots: slots, rates: rates, log: l, now: time.Now}
}

type CreateInvoiceInput struct {
	ReservationID *uint
	LogID         *uint
	Type          string // optional, defaults to the slot's type
	PaymentMethod string // optional at creation
}

// source is what an invoice is priced from.
type source struct {
	userID  uint
	slotID  uint
	minutes int64
}

func (s *BillingService) Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error) {
	hasRes := in.ReservationID != nil && *in.ReservationID != 0
	hasLog := in.LogID != nil && *in.LogID != 0
	if hasRes == hasLog {
		return nil, errs.BadRequest("Exactly one of reservationId or logId is required")
	}

	var (
		src source
		err error
	)
	if hasRes {
		src, err = s.fromReservation(ctx, *in.ReservationID)
	} else {
		src, err = s.fromLog(ctx, *in.LogID)
	}
	if err != nil {
		return nil, err
	}

	typ, err := s.slotType(ctx, in.Type, src.slotID)
	if err != nil {
		return nil, err
	}
	rate, ok := s.rates[string(typ)]
	if !ok || rate <= 0 {
		return nil, errs.BadRequest("No rate configured for slot type " + string(typ))
	}

	var method domain.PaymentMethod
	if in.PaymentMethod != "" {
		if method, ok = domain.ParsePaymentMethod(in.PaymentMethod); !ok {
			return nil, errs.BadRequest("Invalid payment method")
		}
	}

	_, amount := domain.Fare(src.minutes, rate)
	inv := &domain.Invoice{
		UserID:          src.userID,
		Type:            typ,
		DurationMinutes: src.minutes,
		Amount:          amount,
		PaymentMethod:   method,
		Status:          domain.InvoicePending,
		Timestamp:       s.now(),
	}
	if hasRes {
		inv.ReservationID = in.ReservationID
	} else {
		inv.LogID = in.LogID
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, errs.Internal("Failed to create invoice", err)
	}
	invoicesTotal.WithLabelValues(string(typ)).Inc()
	s.log.Info("invoice created",
		zap.Uint("invoice_id", inv.InvoiceID), zap.Int64("amount", inv.Amount), zap.String("type", string(typ)))
	return inv, nil
}

func (s *BillingService) fromReservation(ctx context.Context, id uint) (source, error) {
	r, err := s.reservations.Get(ctx, id)
	if err != nil {
		return source{}, err
	}
	if r.Status == domain.ReservationCancelled {
		return source{}, errs.Conflict("Cancelled reservations cannot be billed")
	}
	return source{userID: r.UserID, slotID: r.SlotID, minutes: domain.StayMinutes(r.StartTime, r.EndTime)}, nil
}

func (s *BillingService) fromLog(ctx context.Context, id uint) (source, error) {
	l, err := s.logs.Get(ctx, id)
	if err != nil {
		return source{}, err
	}
	if !l.Exited() {
		return source{}, errs.Conflict("Vehicle has not exited yet")
	}
	minutes := domain.StayMinutes(l.EntryTime, *l.ExitTime)
	if l.DurationMinutes != nil {
		minutes = *l.DurationMinutes
	}
	return source{userID: l.UserID, slotID: l.SlotID, minutes: minutes}, nil
}

func (s *BillingService) slotType(ctx context.Context, given string, slotID uint) (domain.SlotType, error) {
	if given != "" {
		t, ok := domain.ParseSlotType(given)
		if !ok {
			return "", errs.BadRequest("Invalid slot type, expected 2W or 4W")
		}
		return t, nil
	}
	slot, err := s.slots.Get(ctx, slotID)
	if err != nil {
		return "", err
	}
	return slot.Type, nil
}

func (s *BillingService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.Invoice, error) {
	inv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(inv.UserID) {
		return nil, errs.Forbidden("Access denied")
	}
	return inv, nil
}

func (s *BillingService) List(ctx context.Context) ([]domain.Invoice, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch invoices", err)
	}
	return nonNil(out), nil
}

func (s *BillingService) ListByUser(ctx context.Context, actor domain.Actor, userID uint) ([]domain.Invoice, error) {
	if !actor.CanAccess(userID) {
		return nil, errs.Forbidden("Access denied")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch invoices", err)
	}
	return nonNil(out), nil
}

func (s *BillingService) Pay(ctx context.Context, actor domain.Actor, id uint, method string) (*domain.Invoice, error) {
	m, ok := domain.ParsePaymentMethod(method)
	if !ok {
		return nil, errs.BadRequest("Invalid payment method")
	}
	inv, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoicePending {
		return nil, errs.Conflict("Invoice is not pending")
	}
	at := s.now()
	if err := s.transition(ctx, id, domain.InvoicePaid, map[string]any{"payment_method": m, "paid_at": at}); err != nil {
		return nil, err
	}
	inv.Status, inv.PaymentMethod, inv.PaidAt = domain.InvoicePaid, m, &at
	return inv, nil
}

func (s *BillingService) Cancel(ctx context.Context, id uint) (*domain.Invoice, error) {
	inv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoicePending {
		return nil, errs.Conflict("Invoice is not pending")
	}
	if err := s.transition(ctx, id, domain.InvoiceCancelled, nil); err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceCancelled
	return inv, nil
}

func (s *BillingService) transition(ctx context.Context, id uint, to domain.InvoiceStatus, fields map[string]any) error {
	ok, err := s.repo.Transition(ctx, id, domain.InvoicePending, to, fields)
	if err != nil {
		return errs.Internal("Failed to update invoice", err)
	}
	if !ok {
		return errs.Conflict("Invoice is not pending")
	}
	return nil
}

func (s *BillingService) find(ctx context.Context, id uint) (*domain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch invoice", err)
	}
	if inv == nil {
		return nil, errs.NotFound("Invoice not found")
	}
	return inv, nil
}

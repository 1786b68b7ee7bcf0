// Package service holds the use cases behind each HTTP service.
package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-parking-lot/internal/domain"
)

// SlotMarker flips slot occupancy in slot-service.
type SlotMarker interface {
	MarkOccupied(ctx context.Context, id uint) (*domain.Slot, error)
	MarkAvailable(ctx context.Context, id uint) (*domain.Slot, error)
}

type SlotReader interface {
	Get(ctx context.Context, id uint) (*domain.Slot, error)
}

type ReservationReader interface {
	Get(ctx context.Context, id uint) (*domain.Reservation, error)
}

type VehicleLogReader interface {
	Get(ctx context.Context, id uint) (*domain.VehicleLog, error)
}

var (
	reservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parking_reservations_total", Help: "Reservation attempts by result"},
		[]string{"result"},
	)
	sweepCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "parking_sweep_completed_total", Help: "Reservations completed by the expiry sweep"},
	)
	sweepReleaseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "parking_sweep_release_failures_total", Help: "Expired reservations whose slot could not be released"},
	)
	compensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parking_slot_compensations_total", Help: "Slot releases issued to undo a failed reservation insert"},
		[]string{"result"},
	)
	invoicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "parking_invoices_total", Help: "Invoices created by slot type"},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(reservationsTotal, sweepCompleted, sweepReleaseFailures, compensations, invoicesTotal)
}

// detached outlives the request so cleanup calls still run after the client left.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

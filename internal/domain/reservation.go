package domain

import (
	"context"
	"time"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

type Reservation struct {
	ReservationID uint              `gorm:"primaryKey;column:reservation_id" json:"reservationId"`
	UserID        uint              `gorm:"not null;index" json:"userId"`
	SlotID        uint              `gorm:"not null;index:idx_slot_status" json:"slotId"`
	VehicleNumber string            `gorm:"size:32;not null" json:"vehicleNumber"`
	StartTime     time.Time         `gorm:"not null" json:"startTime"`
	EndTime       time.Time         `gorm:"not null;index" json:"endTime"`
	Status        ReservationStatus `gorm:"size:16;not null;index:idx_slot_status" json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (Reservation) TableName() string { return "reservations" }

// Overlaps applies the half-open interval test [start, end) against the reservation window.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime) && end.After(r.StartTime)
}

// FindConflict returns the first ACTIVE reservation in list overlapping [start, end),
// ignoring the reservation with id exclude (0 to ignore none).
func FindConflict(list []Reservation, start, end time.Time, exclude uint) *Reservation {
	for i := range list {
		r := &list[i]
		if r.ReservationID == exclude || r.Status != ReservationActive {
			continue
		}
		if r.Overlaps(start, end) {
			return r
		}
	}
	return nil
}

type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error
	FindByID(ctx context.Context, id uint) (*Reservation, error)
	List(ctx context.Context) ([]Reservation, error)
	ListByUser(ctx context.Context, userID uint) ([]Reservation, error)
	ListActiveBySlot(ctx context.Context, slotID uint) ([]Reservation, error)
	// ListExpired returns ACTIVE reservations whose end time is before now.
	ListExpired(ctx context.Context, now time.Time) ([]Reservation, error)
	Update(ctx context.Context, r *Reservation) error
	// Transition moves id from one status to another; false when it was not in from.
	Transition(ctx context.Context, id uint, from, to ReservationStatus) (bool, error)
}

package domain

import (
	"context"
	"strings"
	"time"
)

type SlotType string

const (
	SlotTwoWheeler  SlotType = "2W"
	SlotFourWheeler SlotType = "4W"
)

// ParseSlotType accepts 2w/2W/4w/4W.
func ParseSlotType(s string) (SlotType, bool) {
	switch t := SlotType(strings.ToUpper(strings.TrimSpace(s))); t {
	case SlotTwoWheeler, SlotFourWheeler:
		return t, true
	}
	return "", false
}

type Slot struct {
	SlotID    uint      `gorm:"primaryKey;column:slot_id" json:"slotId"`
	Location  string    `gorm:"size:128;not null" json:"location"`
	Type      SlotType  `gorm:"size:4;not null;index" json:"type"`
	Occupied  bool      `gorm:"not null;default:false;index" json:"occupied"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Slot) TableName() string { return "slots" }

type SlotFilter struct {
	Type          SlotType // empty: any
	AvailableOnly bool
}

type SlotRepository interface {
	Create(ctx context.Context, s *Slot) error
	FindByID(ctx context.Context, id uint) (*Slot, error)
	List(ctx context.Context, f SlotFilter) ([]Slot, error)
	Update(ctx context.Context, s *Slot) error
	Delete(ctx context.Context, id uint) (bool, error)
	// SetOccupied flips the flag and returns the stored slot, nil when it does not exist.
	SetOccupied(ctx context.Context, id uint, occupied bool) (*Slot, error)
}

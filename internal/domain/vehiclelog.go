package domain

import (
	"context"
	"time"
)

type VehicleLog struct {
	LogID           uint       `gorm:"primaryKey;column:log_id" json:"logId"`
	VehicleNumber   string     `gorm:"size:32;not null;index" json:"vehicleNumber"`
	UserID          uint       `gorm:"not null;index" json:"userId"`
	SlotID          uint       `gorm:"not null" json:"slotId"`
	EntryTime       time.Time  `gorm:"not null" json:"entryTime"`
	ExitTime        *time.Time `json:"exitTime"`
	DurationMinutes *int64     `json:"durationMinutes"`
}

func (VehicleLog) TableName() string { return "vehicle_logs" }

func (l *VehicleLog) Exited() bool { return l.ExitTime != nil }

// StayMinutes is the whole number of minutes between entry and exit.
func StayMinutes(entry, exit time.Time) int64 {
	if exit.Before(entry) {
		return 0
	}
	return int64(exit.Sub(entry) / time.Minute)
}

type VehicleLogRepository interface {
	Create(ctx context.Context, l *VehicleLog) error
	FindByID(ctx context.Context, id uint) (*VehicleLog, error)
	List(ctx context.Context) ([]VehicleLog, error)
	ListByUser(ctx context.Context, userID uint) ([]VehicleLog, error)
	// MarkExit sets exit time and duration only while exit_time is still NULL.
	MarkExit(ctx context.Context, id uint, exit time.Time, minutes int64) (bool, error)
}

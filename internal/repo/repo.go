// Package repo holds the gorm implementations of the domain repositories.
// Lookups that find nothing return (nil, nil).
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without TranslateError report it only in the message
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// Models lists the tables a service owns, for AutoMigrate in its binary.
func Models(service string) []any {
	switch service {
	case "user-service":
		return []any{&domain.User{}}
	case "slot-service":
		return []any{&domain.Slot{}}
	case "reservation-service":
		return []any{&domain.Reservation{}}
	case "vehicle-log-service":
		return []any{&domain.VehicleLog{}}
	case "billing-service":
		return []any{&domain.Invoice{}}
	}
	return nil
}

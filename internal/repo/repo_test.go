package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-parking-lot/internal/domain"
)

func TestIsDupKey(t *testing.T) {
	assert.False(t, isDupKey(nil))
	assert.True(t, isDupKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDupKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDupKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`)))
	assert.True(t, isDupKey(errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.idx_users_email'")))
	assert.False(t, isDupKey(errors.New("connection refused")))
}

func TestModelsPerService(t *testing.T) {
	cases := map[string]string{
		"user-service":        "users",
		"slot-service":        "slots",
		"reservation-service": "reservations",
		"vehicle-log-service": "vehicle_logs",
		"billing-service":     "invoices",
	}
	for svc, table := range cases {
		ms := Models(svc)
		if assert.Len(t, ms, 1, svc) {
			tn, ok := ms[0].(interface{ TableName() string })
			assert.True(t, ok, svc)
			assert.Equal(t, table, tn.TableName())
		}
	}
	assert.Empty(t, Models("gateway"))
}

var (
	_ domain.UserRepository        = (*UserRepo)(nil)
	_ domain.SlotRepository        = (*SlotRepo)(nil)
	_ domain.ReservationRepository = (*ReservationRepo)(nil)
	_ domain.VehicleLogRepository  = (*VehicleLogRepo)(nil)
	_ domain.InvoiceRepository     = (*InvoiceRepo)(nil)
)

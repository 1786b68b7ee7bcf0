package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func at(h int) time.Time { return t0.Add(time.Duration(h) * time.Hour) }

func TestOverlapsIsHalfOpen(t *testing.T) {
	r := Reservation{StartTime: at(0), EndTime: at(2)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", at(0).Add(30 * time.Minute), at(1), true},
		{"covers", at(-1), at(3), true},
		{"tail overlap", at(1), at(3), true},
		{"head overlap", at(-1), at(1), true},
		{"touching after", at(2), at(3), false},
		{"touching before", at(-1), at(0), false},
		{"disjoint", at(5), at(6), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Overlaps(tc.start, tc.end))
		})
	}
}

func TestFindConflict(t *testing.T) {
	list := []Reservation{
		{ReservationID: 1, StartTime: at(0), EndTime: at(2), Status: ReservationActive},
		{ReservationID: 2, StartTime: at(4), EndTime: at(6), Status: ReservationCancelled},
	}

	assert.NotNil(t, FindConflict(list, at(1), at(3), 0))
	assert.Nil(t, FindConflict(list, at(1), at(3), 1), "own reservation is excluded")
	assert.Nil(t, FindConflict(list, at(4), at(5), 0), "cancelled reservations never conflict")
	assert.Nil(t, FindConflict(list, at(2), at(4), 0))
}

func TestFare(t *testing.T) {
	cases := []struct {
		minutes, rate, hours, amount int64
	}{
		{0, 10, 1, 10},
		{45, 30, 1, 30},
		{60, 30, 1, 30},
		{61, 10, 2, 20},
		{180, 30, 3, 90},
	}
	for _, tc := range cases {
		h, a := Fare(tc.minutes, tc.rate)
		assert.Equal(t, tc.hours, h, "minutes=%d", tc.minutes)
		assert.Equal(t, tc.amount, a, "minutes=%d", tc.minutes)
	}
}

func TestStayMinutes(t *testing.T) {
	assert.Equal(t, int64(90), StayMinutes(at(0), at(0).Add(90*time.Minute+40*time.Second)))
	assert.Equal(t, int64(0), StayMinutes(at(1), at(0)))
}

func TestParsers(t *testing.T) {
	r, ok := ParseRole(" staff ")
	assert.True(t, ok)
	assert.Equal(t, RoleStaff, r)
	_, ok = ParseRole("ROOT")
	assert.False(t, ok)

	st, ok := ParseSlotType("4w")
	assert.True(t, ok)
	assert.Equal(t, SlotFourWheeler, st)
	_, ok = ParseSlotType("3W")
	assert.False(t, ok)

	pm, ok := ParsePaymentMethod("upi")
	assert.True(t, ok)
	assert.Equal(t, PayUPI, pm)
}

func TestActorCanAccess(t *testing.T) {
	assert.True(t, Actor{Role: RoleAdmin}.CanAccess(7))
	assert.True(t, Actor{Role: RoleStaff}.CanAccess(7))
	assert.True(t, Actor{UserID: 7, Role: RoleCustomer}.CanAccess(7))
	assert.False(t, Actor{UserID: 8, Role: RoleCustomer}.CanAccess(7))
	assert.False(t, Actor{Role: RoleCustomer}.CanAccess(0))
}

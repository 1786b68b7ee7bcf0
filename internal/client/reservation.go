package client

import (
	"context"
	"fmt"
	"net/http"

	"go-parking-lot/internal/domain"
)

type ReservationClient struct{ base }

func NewReservationClient(o Options) *ReservationClient {
	return &ReservationClient{newBase("reservation-service", o)}
}

func (c *ReservationClient) Get(ctx context.Context, id uint) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/reservations/%d", id), nil, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

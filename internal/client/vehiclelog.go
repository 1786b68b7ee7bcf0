package client

import (
	"context"
	"fmt"
	"net/http"

	"go-parking-lot/internal/domain"
)

type VehicleLogClient struct{ base }

func NewVehicleLogClient(o Options) *VehicleLogClient {
	return &VehicleLogClient{newBase("vehicle-log-service", o)}
}

func (c *VehicleLogClient) Get(ctx context.Context, id uint) (*domain.VehicleLog, error) {
	var l domain.VehicleLog
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/vehicle-log/%d", id), nil, &l, true); err != nil {
		return nil, err
	}
	return &l, nil
}

package client

import (
	"context"
	"fmt"
	"net/http"

	"go-parking-lot/internal/domain"
)

type SlotClient struct{ base }

func NewSlotClient(o Options) *SlotClient { return &SlotClient{newBase("slot-service", o)} }

type slotEnvelope struct {
	Slot *domain.Slot `json:"slot"`
}

func (c *SlotClient) MarkOccupied(ctx context.Context, id uint) (*domain.Slot, error) {
	return c.put(ctx, fmt.Sprintf("/api/slots/mark-occupied/%d", id))
}

func (c *SlotClient) MarkAvailable(ctx context.Context, id uint) (*domain.Slot, error) {
	return c.put(ctx, fmt.Sprintf("/api/slots/mark-available/%d", id))
}

func (c *SlotClient) put(ctx context.Context, path string) (*domain.Slot, error) {
	var env slotEnvelope
	if err := c.call(ctx, http.MethodPut, path, nil, &env, true); err != nil {
		return nil, err
	}
	return env.Slot, nil
}

func (c *SlotClient) Get(ctx context.Context, id uint) (*domain.Slot, error) {
	var env slotEnvelope
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/slots/%d", id), nil, &env, true); err != nil {
		return nil, err
	}
	return env.Slot, nil
}

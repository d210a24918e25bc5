package cloud

import (
	"context"
	"fmt"
)

// Pin is one keypad access code entry for a lock.
type Pin struct {
	PinID      string `json:"_id"`
	LockID     string `json:"lockID"`
	UserID     string `json:"userID"`
	State      string `json:"state"`
	Pin        string `json:"pin"`
	Slot       int    `json:"slot"`
	AccessType string `json:"accessType"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// GetPins fetches the keypad access codes configured on a lock.
func (c *Client) GetPins(ctx context.Context, lockID string) ([]Pin, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var wire struct {
		Loaded []Pin `json:"loaded"`
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&wire).
		Get("/locks/" + lockID + "/pins")
	if err != nil {
		return nil, fmt.Errorf("get pins for %s: %w", lockID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return wire.Loaded, nil
}

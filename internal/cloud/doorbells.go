package cloud

import (
	"context"
	"fmt"

	"github.com/hallgate/augustlink/internal/device"
)

// GetDoorbells fetches the account's doorbell list.
func (c *Client) GetDoorbells(ctx context.Context) ([]device.Doorbell, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().SetContext(ctx).Get("/users/doorbells/mine")
	if err != nil {
		return nil, fmt.Errorf("get doorbells: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return device.ParseDoorbells(resp.Body())
}

// GetDoorbellDetail fetches one doorbell's detail record.
func (c *Client) GetDoorbellDetail(ctx context.Context, doorbellID string) (*device.DoorbellDetail, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().SetContext(ctx).Get("/doorbells/" + doorbellID)
	if err != nil {
		return nil, fmt.Errorf("get doorbell %s: %w", doorbellID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return device.ParseDoorbellDetail(resp.Body())
}

// WakeupDoorbell pulls a doorbell out of power-saving standby so its
// camera responds to the next capture request.
func (c *Client) WakeupDoorbell(ctx context.Context, doorbellID string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	resp, err := c.rest.R().SetContext(ctx).Put("/doorbells/" + doorbellID + "/wakeup")
	if err != nil {
		return fmt.Errorf("wakeup doorbell %s: %w", doorbellID, err)
	}
	return c.checkResponse(resp)
}

package cloud

import (
	"context"
	"fmt"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/device"
)

// GetLocks fetches the account's lock list.
func (c *Client) GetLocks(ctx context.Context) ([]device.Lock, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().SetContext(ctx).Get("/users/locks/mine")
	if err != nil {
		return nil, fmt.Errorf("get locks: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return device.ParseLocks(resp.Body())
}

// GetLockDetail fetches one lock's detail record, including its bridge
// and keypad when present.
func (c *Client) GetLockDetail(ctx context.Context, lockID string) (*device.LockDetail, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().SetContext(ctx).Get("/locks/" + lockID)
	if err != nil {
		return nil, fmt.Errorf("get lock %s: %w", lockID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}
	return device.ParseLockDetail(resp.Body())
}

// lockStatusOnlyJSON is the wire shape of a /locks/{id}/status response.
type lockStatusOnlyJSON struct {
	Status    string `json:"status"`
	DoorState string `json:"doorState"`
}

// GetLockStatus fetches a lock's current status directly. This wakes
// the lock through its bridge, so it is slower than reading the cached
// detail record and uses the command timeout.
func (c *Client) GetLockStatus(ctx context.Context, lockID string) (device.LockStatus, device.DoorState, error) {
	if err := c.requireAuth(); err != nil {
		return device.LockStatusUnknown, device.DoorStateUnknown, err
	}

	var body lockStatusOnlyJSON
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/locks/" + lockID + "/status")
	if err != nil {
		return device.LockStatusUnknown, device.DoorStateUnknown,
			fmt.Errorf("get lock status %s: %w", lockID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return device.LockStatusUnknown, device.DoorStateUnknown, err
	}
	return device.DetermineLockStatus(body.Status), device.DetermineDoorState(body.DoorState), nil
}

// Lock sends a remote lock command. The command blocks in the cloud
// while the bridge wakes the lock, so callers should derive ctx from
// the command timeout rather than the request timeout.
//
// The returned activities are synthesized from the command result and
// must be fed through reconciliation like any feed entry.
func (c *Client) Lock(ctx context.Context, lockID string) ([]activity.Activity, error) {
	return c.remoteOperate(ctx, lockID, "lock")
}

// Unlock sends a remote unlock command. See Lock for semantics.
func (c *Client) Unlock(ctx context.Context, lockID string) ([]activity.Activity, error) {
	return c.remoteOperate(ctx, lockID, "unlock")
}

func (c *Client) remoteOperate(ctx context.Context, lockID, operation string) ([]activity.Activity, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		Put("/remoteoperate/" + lockID + "/" + operation)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", operation, lockID, err)
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	c.logger.Debug("remote operation completed", "lock_id", lockID, "operation", operation)
	return activity.SynthesizeFromLockResult(resp.Body())
}

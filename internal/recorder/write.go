package recorder

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hallgate/augustlink/internal/device"
)

// RecordLockStatus writes an accepted lock-status change.
//
// The point carries the event's confirmation time, not the write time,
// so series order matches reconciliation order. The write is
// non-blocking; data is batched and sent asynchronously.
func (c *Client) RecordLockStatus(deviceID string, status device.LockStatus, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"lock_status",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"status": string(status),
			"locked": status == device.LockStatusLocked,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// RecordDoorState writes an accepted door-state change.
func (c *Client) RecordDoorState(deviceID string, state device.DoorState, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"door_state",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"state": string(state),
			"open":  state == device.DoorStateOpen,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// RecordBridgeOnline writes a bridge connectivity change. Connectivity
// has no event timestamp of its own, so the delivery time is used.
func (c *Client) RecordBridgeOnline(deviceID string, online bool, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bridge_online",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"online": online,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// RecordBattery writes a battery level observation from a detail fetch.
func (c *Client) RecordBattery(deviceID string, level int, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"battery",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"percent": level,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// RecordDoorbellImage writes an accepted doorbell capture event.
func (c *Client) RecordDoorbellImage(deviceID string, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"doorbell_image",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"captured": true,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

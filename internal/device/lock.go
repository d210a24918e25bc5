package device

import (
	"encoding/json"
	"fmt"
	"time"
)

// Lock is a summary entry from the account lock list.
type Lock struct {
	deviceID string
	name     string
	houseID  string
	userType string
}

// lockJSON is the wire shape of one /users/locks/mine entry.
type lockJSON struct {
	LockName string `json:"LockName"`
	HouseID  string `json:"HouseID"`
	UserType string `json:"UserType"`
}

// ParseLocks decodes the account lock list, a JSON object keyed by lock id.
func ParseLocks(data []byte) ([]Lock, error) {
	var entries map[string]lockJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: lock list: %w", ErrInvalidPayload, err)
	}

	locks := make([]Lock, 0, len(entries))
	for id, entry := range entries {
		locks = append(locks, Lock{
			deviceID: id,
			name:     entry.LockName,
			houseID:  entry.HouseID,
			userType: entry.UserType,
		})
	}
	return locks, nil
}

// DeviceID returns the lock's stable, globally unique identifier.
func (l Lock) DeviceID() string { return l.deviceID }

// DeviceName returns the user-assigned lock name.
func (l Lock) DeviceName() string { return l.name }

// HouseID returns the owning house id. May be empty on some accounts.
func (l Lock) HouseID() string { return l.houseID }

// IsOperable reports whether the account can operate this lock remotely.
func (l Lock) IsOperable() bool { return l.userType == "superuser" }

// LockDetail is the in-memory state record for one lock.
//
// Identity and metadata are fixed at construction; the status fields
// change only through the Apply* methods (see package doc).
type LockDetail struct {
	deviceID        string
	name            string
	houseID         string
	serialNumber    string
	firmwareVersion string
	model           string
	batteryLevel    int
	doorsense       bool
	pubsubChannel   string

	bridge       *BridgeDetail
	bridgeOnline bool

	lockStatus     LockStatus
	lockStatusTime time.Time
	doorState      DoorState
	doorStateTime  time.Time

	keypad *KeypadDetail
}

// lockDetailJSON is the wire shape of a /locks/{id} response.
type lockDetailJSON struct {
	LockID          string          `json:"LockID"`
	LockName        string          `json:"LockName"`
	HouseID         string          `json:"HouseID"`
	SerialNumber    string          `json:"SerialNumber"`
	FirmwareVersion string          `json:"currentFirmwareVersion"`
	SKUNumber       string          `json:"skuNumber"`
	Battery         float64         `json:"battery"`
	PubSubChannel   string          `json:"pubsubChannel"`
	Bridge          *bridgeJSON     `json:"Bridge"`
	LockStatus      *lockStatusJSON `json:"LockStatus"`
	Keypad          *keypadJSON     `json:"keypad"`
}

// lockStatusJSON is the nested LockStatus object of a lock detail.
type lockStatusJSON struct {
	Status    string `json:"status"`
	DoorState string `json:"doorState"`
	DateTime  string `json:"dateTime"`
}

// ParseLockDetail decodes a lock detail payload into a state record.
//
// The embedded LockStatus seeds the initial lock status, door state and
// their confirmation times. A doorState other than the "init"
// calibration sentinel marks the lock as DoorSense-equipped.
func ParseLockDetail(data []byte) (*LockDetail, error) {
	var wire lockDetailJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: lock detail: %w", ErrInvalidPayload, err)
	}
	if wire.LockID == "" {
		return nil, fmt.Errorf("%w: lock detail", ErrMissingDeviceID)
	}

	d := &LockDetail{
		deviceID:        wire.LockID,
		name:            wire.LockName,
		houseID:         wire.HouseID,
		serialNumber:    wire.SerialNumber,
		firmwareVersion: wire.FirmwareVersion,
		model:           wire.SKUNumber,
		batteryLevel:    int(100 * wire.Battery),
		pubsubChannel:   wire.PubSubChannel,
		lockStatus:      LockStatusUnknown,
		doorState:       DoorStateUnknown,
	}

	if wire.Bridge != nil {
		d.bridge = newBridgeDetail(wire.HouseID, wire.Bridge)
		d.bridgeOnline = d.bridge.IsOnline()
	}

	if wire.LockStatus != nil {
		d.lockStatus = DetermineLockStatus(wire.LockStatus.Status)
		d.doorState = DetermineDoorState(wire.LockStatus.DoorState)

		if wire.LockStatus.DateTime != "" {
			at, err := time.Parse(time.RFC3339, wire.LockStatus.DateTime)
			if err != nil {
				return nil, fmt.Errorf("%w: lock status time %q: %w",
					ErrInvalidPayload, wire.LockStatus.DateTime, err)
			}
			d.lockStatusTime = at.UTC()
			d.doorStateTime = d.lockStatusTime
		}

		d.doorsense = wire.LockStatus.DoorState != "" && wire.LockStatus.DoorState != "init"
	}

	if wire.Keypad != nil {
		d.keypad = newKeypadDetail(wire.HouseID, wire.LockName+" Keypad", wire.Keypad)
	}

	return d, nil
}

// DeviceID returns the lock's stable, globally unique identifier.
func (d *LockDetail) DeviceID() string { return d.deviceID }

// DeviceName returns the user-assigned lock name.
func (d *LockDetail) DeviceName() string { return d.name }

// HouseID returns the owning house id. May be empty on some event
// sources and is never used as an identity key.
func (d *LockDetail) HouseID() string { return d.houseID }

// SerialNumber returns the lock's serial number.
func (d *LockDetail) SerialNumber() string { return d.serialNumber }

// FirmwareVersion returns the current firmware version.
func (d *LockDetail) FirmwareVersion() string { return d.firmwareVersion }

// Model returns the SKU number, when the API reports one.
func (d *LockDetail) Model() string { return d.model }

// BatteryLevel returns the battery charge as a 0-100 percentage.
func (d *LockDetail) BatteryLevel() int { return d.batteryLevel }

// Doorsense reports whether the lock has a calibrated DoorSense sensor.
func (d *LockDetail) Doorsense() bool { return d.doorsense }

// PubSubChannel returns the push notification channel for this lock.
// Empty when the lock has no push support.
func (d *LockDetail) PubSubChannel() string { return d.pubsubChannel }

// Bridge returns the associated Connect bridge, or nil.
func (d *LockDetail) Bridge() *BridgeDetail { return d.bridge }

// Keypad returns the associated keypad, or nil.
func (d *LockDetail) Keypad() *KeypadDetail { return d.keypad }

// BridgeOnline reports the latest known bridge connectivity.
func (d *LockDetail) BridgeOnline() bool { return d.bridgeOnline }

// LockStatus returns the best-known lock status.
func (d *LockDetail) LockStatus() LockStatus { return d.lockStatus }

// LockStatusTime returns when the lock status was last confirmed.
// Zero when no confirmation has been seen yet.
func (d *LockDetail) LockStatusTime() time.Time { return d.lockStatusTime }

// DoorState returns the best-known door state.
func (d *LockDetail) DoorState() DoorState { return d.doorState }

// DoorStateTime returns when the door state was last confirmed.
// Zero when no confirmation has been seen yet.
func (d *LockDetail) DoorStateTime() time.Time { return d.doorStateTime }

// ApplyLockStatus offers a lock status confirmed at the given instant.
// It lands only under the strict-newer rule and reports whether the
// record changed. The door state fields are never touched.
func (d *LockDetail) ApplyLockStatus(status LockStatus, at time.Time) bool {
	if !applyIfNewer(&d.lockStatusTime, at) {
		return false
	}
	d.lockStatus = status
	return true
}

// ApplyDoorState offers a door state confirmed at the given instant,
// under the same strict-newer rule as ApplyLockStatus. The lock status
// fields are never touched.
func (d *LockDetail) ApplyDoorState(state DoorState, at time.Time) bool {
	if !applyIfNewer(&d.doorStateTime, at) {
		return false
	}
	d.doorState = state
	return true
}

// SetBridgeOnline records bridge connectivity. Connectivity arrives
// only on the push channel and has no competing source, so it is not
// subject to the timestamp gate.
func (d *LockDetail) SetBridgeOnline(online bool) {
	d.bridgeOnline = online
}

package device

// KeypadDetail describes the keypad paired with a lock, as reported
// inside the lock detail payload.
type KeypadDetail struct {
	deviceID        string
	name            string
	houseID         string
	serialNumber    string
	firmwareVersion string
	batteryLevel    string
}

// keypadJSON is the wire shape of the nested keypad object.
type keypadJSON struct {
	ID              string `json:"_id"`
	SerialNumber    string `json:"serialNumber"`
	FirmwareVersion string `json:"currentFirmwareVersion"`
	BatteryLevel    string `json:"batteryLevel"`
}

func newKeypadDetail(houseID, name string, wire *keypadJSON) *KeypadDetail {
	return &KeypadDetail{
		deviceID:        wire.ID,
		name:            name,
		houseID:         houseID,
		serialNumber:    wire.SerialNumber,
		firmwareVersion: wire.FirmwareVersion,
		batteryLevel:    wire.BatteryLevel,
	}
}

// DeviceID returns the keypad's identifier.
func (k *KeypadDetail) DeviceID() string { return k.deviceID }

// DeviceName returns the derived keypad name.
func (k *KeypadDetail) DeviceName() string { return k.name }

// HouseID returns the owning house id.
func (k *KeypadDetail) HouseID() string { return k.houseID }

// SerialNumber returns the keypad serial number.
func (k *KeypadDetail) SerialNumber() string { return k.serialNumber }

// FirmwareVersion returns the keypad firmware version.
func (k *KeypadDetail) FirmwareVersion() string { return k.firmwareVersion }

// BatteryLevel returns the reported battery level token (e.g. "Medium").
func (k *KeypadDetail) BatteryLevel() string { return k.batteryLevel }

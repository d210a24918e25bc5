package device

import (
	"encoding/json"
	"fmt"
	"time"
)

// Doorbell is a summary entry from the account doorbell list.
type Doorbell struct {
	deviceID     string
	name         string
	houseID      string
	serialNumber string
	status       string
	imageURL     string
}

// doorbellJSON is the wire shape of one /users/doorbells/mine entry.
type doorbellJSON struct {
	Name         string           `json:"name"`
	HouseID      string           `json:"HouseID"`
	SerialNumber string           `json:"serialNumber"`
	Status       string           `json:"status"`
	RecentImage  *recentImageJSON `json:"recentImage"`
}

// recentImageJSON is the nested capture-image object.
type recentImageJSON struct {
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

// ParseDoorbells decodes the account doorbell list, a JSON object keyed
// by doorbell id.
func ParseDoorbells(data []byte) ([]Doorbell, error) {
	var entries map[string]doorbellJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: doorbell list: %w", ErrInvalidPayload, err)
	}

	doorbells := make([]Doorbell, 0, len(entries))
	for id, entry := range entries {
		d := Doorbell{
			deviceID:     id,
			name:         entry.Name,
			houseID:      entry.HouseID,
			serialNumber: entry.SerialNumber,
			status:       entry.Status,
		}
		if entry.RecentImage != nil {
			d.imageURL = entry.RecentImage.SecureURL
		}
		doorbells = append(doorbells, d)
	}
	return doorbells, nil
}

// DeviceID returns the doorbell's stable identifier.
func (d Doorbell) DeviceID() string { return d.deviceID }

// DeviceName returns the user-assigned doorbell name.
func (d Doorbell) DeviceName() string { return d.name }

// HouseID returns the owning house id.
func (d Doorbell) HouseID() string { return d.houseID }

// SerialNumber returns the doorbell serial number.
func (d Doorbell) SerialNumber() string { return d.serialNumber }

// Status returns the raw status token from the listing.
func (d Doorbell) Status() string { return d.status }

// ImageURL returns the most recent capture image URL, or empty.
func (d Doorbell) ImageURL() string { return d.imageURL }

// IsOnline reports whether the doorbell is connected to the cloud.
func (d Doorbell) IsOnline() bool { return d.status == "doorbell_call_status_online" }

// DoorbellDetail is the in-memory state record for one doorbell.
//
// Identity and metadata are fixed at construction; the image fields
// change only through ApplyImage (see package doc).
type DoorbellDetail struct {
	deviceID        string
	name            string
	houseID         string
	serialNumber    string
	firmwareVersion string
	status          string
	pubsubChannel   string

	imageURL       string
	imageCreatedAt time.Time
}

// doorbellDetailJSON is the wire shape of a /doorbells/{id} response.
type doorbellDetailJSON struct {
	DoorbellID      string           `json:"doorbellID"`
	Name            string           `json:"name"`
	HouseID         string           `json:"HouseID"`
	SerialNumber    string           `json:"serialNumber"`
	FirmwareVersion string           `json:"firmwareVersion"`
	Status          string           `json:"status"`
	PubSubChannel   string           `json:"pubsubChannel"`
	RecentImage     *recentImageJSON `json:"recentImage"`
}

// ParseDoorbellDetail decodes a doorbell detail payload into a state
// record. The recentImage block seeds the initial image state.
func ParseDoorbellDetail(data []byte) (*DoorbellDetail, error) {
	var wire doorbellDetailJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: doorbell detail: %w", ErrInvalidPayload, err)
	}
	if wire.DoorbellID == "" {
		return nil, fmt.Errorf("%w: doorbell detail", ErrMissingDeviceID)
	}

	d := &DoorbellDetail{
		deviceID:        wire.DoorbellID,
		name:            wire.Name,
		houseID:         wire.HouseID,
		serialNumber:    wire.SerialNumber,
		firmwareVersion: wire.FirmwareVersion,
		status:          wire.Status,
		pubsubChannel:   wire.PubSubChannel,
	}

	if wire.RecentImage != nil {
		d.imageURL = wire.RecentImage.SecureURL
		d.imageCreatedAt = parseOptionalTime(wire.RecentImage.CreatedAt)
	}

	return d, nil
}

// DeviceID returns the doorbell's stable identifier.
func (d *DoorbellDetail) DeviceID() string { return d.deviceID }

// DeviceName returns the user-assigned doorbell name.
func (d *DoorbellDetail) DeviceName() string { return d.name }

// HouseID returns the owning house id.
func (d *DoorbellDetail) HouseID() string { return d.houseID }

// SerialNumber returns the doorbell serial number.
func (d *DoorbellDetail) SerialNumber() string { return d.serialNumber }

// FirmwareVersion returns the doorbell firmware version.
func (d *DoorbellDetail) FirmwareVersion() string { return d.firmwareVersion }

// Status returns the raw status token.
func (d *DoorbellDetail) Status() string { return d.status }

// IsOnline reports whether the doorbell is connected to the cloud.
func (d *DoorbellDetail) IsOnline() bool { return d.status == "doorbell_call_status_online" }

// IsStandby reports whether the doorbell is in power-saving standby.
func (d *DoorbellDetail) IsStandby() bool { return d.status == "standby" }

// PubSubChannel returns the push notification channel for this doorbell.
func (d *DoorbellDetail) PubSubChannel() string { return d.pubsubChannel }

// ImageURL returns the most recent capture image URL, or empty.
func (d *DoorbellDetail) ImageURL() string { return d.imageURL }

// ImageCreatedAt returns when the most recent capture image was taken.
// Zero when no image has been seen.
func (d *DoorbellDetail) ImageCreatedAt() time.Time { return d.imageCreatedAt }

// ApplyImage offers a capture image taken at the given instant. It
// lands only under the strict-newer rule and reports whether the
// record changed.
func (d *DoorbellDetail) ApplyImage(url string, at time.Time) bool {
	if !applyIfNewer(&d.imageCreatedAt, at) {
		return false
	}
	d.imageURL = url
	return true
}

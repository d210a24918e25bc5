package device

import "time"

// BridgeDetail describes the Connect bridge associated with a lock, as
// reported inside the lock detail payload.
type BridgeDetail struct {
	deviceID        string
	houseID         string
	firmwareVersion string
	operative       bool
	status          *BridgeStatusDetail
}

// bridgeJSON is the wire shape of the nested Bridge object.
type bridgeJSON struct {
	ID              string            `json:"_id"`
	Operative       bool              `json:"operative"`
	FirmwareVersion string            `json:"firmwareVersion"`
	Status          *bridgeStatusJSON `json:"status"`
}

// bridgeStatusJSON is the wire shape of the nested bridge status object.
type bridgeStatusJSON struct {
	Current     string `json:"current"`
	Updated     string `json:"updated"`
	LastOnline  string `json:"lastOnline"`
	LastOffline string `json:"lastOffline"`
}

func newBridgeDetail(houseID string, wire *bridgeJSON) *BridgeDetail {
	b := &BridgeDetail{
		deviceID:        wire.ID,
		houseID:         houseID,
		firmwareVersion: wire.FirmwareVersion,
		operative:       wire.Operative,
	}
	if wire.Status != nil {
		b.status = newBridgeStatusDetail(wire.Status)
	}
	return b
}

// DeviceID returns the bridge's identifier.
func (b *BridgeDetail) DeviceID() string { return b.deviceID }

// HouseID returns the owning house id.
func (b *BridgeDetail) HouseID() string { return b.houseID }

// FirmwareVersion returns the bridge firmware version.
func (b *BridgeDetail) FirmwareVersion() string { return b.firmwareVersion }

// Operative reports whether the bridge is marked operative.
func (b *BridgeDetail) Operative() bool { return b.operative }

// Status returns the reported status block, or nil for first-generation
// bridges that do not report one.
func (b *BridgeDetail) Status() *BridgeStatusDetail { return b.status }

// IsOnline reports whether the bridge should be considered online.
// First-generation bridges report no status block at all; for those,
// operative is the only signal available.
func (b *BridgeDetail) IsOnline() bool {
	if b.status == nil {
		return b.operative
	}
	return b.status.Current() == BridgeStatusOnline
}

// BridgeStatusDetail is the decoded bridge status block.
type BridgeStatusDetail struct {
	current     BridgeStatus
	updated     time.Time
	lastOnline  time.Time
	lastOffline time.Time
}

func newBridgeStatusDetail(wire *bridgeStatusJSON) *BridgeStatusDetail {
	s := &BridgeStatusDetail{current: BridgeStatusUnknown}
	switch wire.Current {
	case "online":
		s.current = BridgeStatusOnline
	case "offline":
		s.current = BridgeStatusOffline
	}
	s.updated = parseOptionalTime(wire.Updated)
	s.lastOnline = parseOptionalTime(wire.LastOnline)
	s.lastOffline = parseOptionalTime(wire.LastOffline)
	return s
}

// Current returns the reported connectivity.
func (s *BridgeStatusDetail) Current() BridgeStatus { return s.current }

// Updated returns when the status was last updated. Zero when unreported.
func (s *BridgeStatusDetail) Updated() time.Time { return s.updated }

// LastOnline returns the last time the bridge was seen online. Zero when unreported.
func (s *BridgeStatusDetail) LastOnline() time.Time { return s.lastOnline }

// LastOffline returns the last time the bridge was seen offline. Zero when unreported.
func (s *BridgeStatusDetail) LastOffline() time.Time { return s.lastOffline }

// parseOptionalTime parses an RFC3339 timestamp, returning the zero
// time for empty or malformed input. Missing timestamps on metadata
// fields are not an error.
func parseOptionalTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return at.UTC()
}

package reconcile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hallgate/augustlink/internal/device"
)

// Message is a normalized push payload: the handful of recognized keys
// extracted from whatever the push channel delivered. Messages are
// consumed once and never stored.
type Message struct {
	// Status carries a lock-status token, a bridge connectivity token,
	// or the "imagecapture" doorbell sentinel. Empty when absent.
	Status string

	// DoorState carries a door-state token. Empty when absent.
	DoorState string

	// ImageURL and ImageCreatedAt carry the nested capture result of an
	// "imagecapture" message.
	ImageURL       string
	ImageCreatedAt time.Time
}

// pushJSON is the wire shape of a push payload. Unrecognized keys are
// discarded during decoding.
type pushJSON struct {
	Status    string `json:"status"`
	DoorState string `json:"doorState"`
	Data      struct {
		Result struct {
			CreatedAt string `json:"created_at"`
			SecureURL string `json:"secure_url"`
		} `json:"result"`
	} `json:"data"`
}

// ParseMessage extracts the recognized keys from a raw push payload.
// A payload carrying none of them yields an empty Message, not an
// error; only malformed JSON fails.
func ParseMessage(data []byte) (Message, error) {
	var wire pushJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	msg := Message{
		Status:    wire.Status,
		DoorState: wire.DoorState,
		ImageURL:  wire.Data.Result.SecureURL,
	}
	if wire.Data.Result.CreatedAt != "" {
		at, err := time.Parse(time.RFC3339, wire.Data.Result.CreatedAt)
		if err != nil {
			return Message{}, fmt.Errorf("%w: created_at %q: %w",
				ErrInvalidMessage, wire.Data.Result.CreatedAt, err)
		}
		msg.ImageCreatedAt = at.UTC()
	}
	return msg, nil
}

// LockFromPush offers a push message to a lock state record using the
// message's delivery time.
//
// The status key is checked against the bridge connectivity tokens
// first; those set bridge state unconditionally, since the push channel
// is the only source of connectivity and has nothing to race against.
// Any other status token resolves through the push vocabulary, which
// accepts the transitional tokens the REST vocabulary rejects. The
// door-state key is processed independently. Tokens that resolve to
// unknown are ignored without error.
func LockFromPush(lock *device.LockDetail, deliveredAt time.Time, msg Message) bool {
	var updated bool

	switch msg.Status {
	case "":
		// no status key
	case device.BridgeOnlineToken:
		lock.SetBridgeOnline(true)
		updated = true
	case device.BridgeOfflineToken:
		lock.SetBridgeOnline(false)
		updated = true
	default:
		if status := device.DetermineLockStatusFromPush(msg.Status); status != device.LockStatusUnknown {
			if lock.ApplyLockStatus(status, deliveredAt) {
				updated = true
			}
		}
	}

	if msg.DoorState != "" {
		if state := device.DetermineDoorState(msg.DoorState); state != device.DoorStateUnknown {
			if lock.ApplyDoorState(state, deliveredAt) {
				updated = true
			}
		}
	}

	return updated
}

// DoorbellFromPush offers a push message to a doorbell state record.
// Only "imagecapture" messages carry state; the nested capture time,
// not the delivery time, drives the strict-newer check. A capture
// without a timestamp is ignored.
func DoorbellFromPush(bell *device.DoorbellDetail, msg Message) bool {
	if msg.Status != "imagecapture" {
		return false
	}
	if msg.ImageCreatedAt.IsZero() {
		return false
	}
	return bell.ApplyImage(msg.ImageURL, msg.ImageCreatedAt)
}

package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hallgate/augustlink/internal/device"
)

// lockResultJSON is the wire shape of a remote lock/unlock response.
// It is a single status object, not a feed entry.
type lockResultJSON struct {
	Info struct {
		LockID    string `json:"lockID"`
		Action    string `json:"action"`
		StartTime string `json:"startTime"`
	} `json:"info"`
	DoorState string `json:"doorState"`
}

// SynthesizeFromLockResult converts a remote lock/unlock result into
// synthetic activity records so command outcomes flow through the same
// reconciliation path as polled feed entries.
//
// It produces one lock-operation record from info.{lockID, action,
// startTime}, followed by one door-operation record when doorState
// resolves to a known state. Both share the same timestamp; ordering is
// significant and the lock record always comes first.
//
// A result missing lockID or action classifies to KindNone and is
// dropped without error, so the slice may be shorter than two or empty.
func SynthesizeFromLockResult(data []byte) ([]Activity, error) {
	var wire lockResultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: lock result: %w", ErrInvalidFeed, err)
	}

	var at time.Time
	if wire.Info.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, wire.Info.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: lock result startTime %q: %w",
				ErrInvalidFeed, wire.Info.StartTime, err)
		}
		// The feed reports epoch milliseconds; keep synthesized
		// records at the same precision.
		at = parsed.UTC().Truncate(time.Millisecond)
	}

	activities := make([]Activity, 0, 2)
	if act, ok := synthesizeOne(wire.Info.LockID, wire.Info.Action, at); ok {
		activities = append(activities, act)
	}

	doorState := device.DetermineDoorState(wire.DoorState)
	if doorState != device.DoorStateUnknown {
		action, err := device.DoorStateAction(doorState)
		if err == nil {
			if act, ok := synthesizeOne(wire.Info.LockID, action, at); ok {
				activities = append(activities, act)
			}
		}
	}

	return activities, nil
}

// synthesizeOne builds a single synthetic record in the feed-entry
// shape. Records whose action does not classify are dropped.
func synthesizeOne(lockID, action string, at time.Time) (Activity, bool) {
	kind := Classify(action)
	if kind == KindNone {
		return Activity{}, false
	}
	return Activity{
		Kind:       kind,
		ID:         "synthetic-" + uuid.NewString(),
		DeviceID:   lockID,
		DeviceType: "lock",
		Action:     action,
		StartTime:  at,
		EndTime:    at,
	}, true
}

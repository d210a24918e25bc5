package activity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// feedEntryJSON is the wire shape of one house activity feed entry.
type feedEntryJSON struct {
	DateTime   int64  `json:"dateTime"`
	Action     string `json:"action"`
	DeviceID   string `json:"deviceID"`
	DeviceName string `json:"deviceName"`
	DeviceType string `json:"deviceType"`

	Entities struct {
		Activity string `json:"activity"`
		House    string `json:"house"`
	} `json:"entities"`

	CallingUser struct {
		FirstName string `json:"FirstName"`
		LastName  string `json:"LastName"`
	} `json:"callingUser"`

	Info feedInfoJSON `json:"info"`
}

// feedInfoJSON is the kind-specific info block. The image field is a
// URL string on ding/view entries but an object on motion entries, so
// it stays raw until the kind is known.
type feedInfoJSON struct {
	Started int64           `json:"started"`
	Ended   int64           `json:"ended"`
	Image   json.RawMessage `json:"image"`
	Remote  bool            `json:"remote"`
	Keypad  bool            `json:"keypad"`
}

// imageObjectJSON is the motion-entry image object.
type imageObjectJSON struct {
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

// ParseFeed decodes a house activity feed response into normalized
// activity records. Entries with unrecognised action codes are dropped
// silently; a malformed document is an error.
func ParseFeed(data []byte) ([]Activity, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: feed: %w", ErrInvalidFeed, err)
	}

	activities := make([]Activity, 0, len(entries))
	for i, raw := range entries {
		act, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidFeed, i, err)
		}
		if act.Kind == KindNone {
			continue
		}
		activities = append(activities, act)
	}
	return activities, nil
}

// parseEntry decodes a single feed entry. A KindNone result means the
// action code was unrecognised and the record should be dropped.
func parseEntry(raw json.RawMessage) (Activity, error) {
	var wire feedEntryJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Activity{}, err
	}

	kind := Classify(wire.Action)
	if kind == KindNone {
		return Activity{}, nil
	}

	at := epochMillisToTime(wire.DateTime)
	act := Activity{
		Kind:       kind,
		ID:         wire.Entities.Activity,
		HouseID:    wire.Entities.House,
		DeviceID:   wire.DeviceID,
		DeviceName: wire.DeviceName,
		DeviceType: wire.DeviceType,
		Action:     wire.Action,
		StartTime:  at,
		EndTime:    at,
	}

	switch kind {
	case KindLockOperation, KindDoorOperation:
		act.OperatedBy = operatorName(wire.CallingUser.FirstName, wire.CallingUser.LastName)
		act.OperatedRemote = wire.Info.Remote
		act.OperatedKeypad = wire.Info.Keypad

	case KindDoorbellDing, KindDoorbellView:
		// Ding and view entries carry their own started/ended pair and
		// a plain image URL.
		if wire.Info.Started != 0 {
			act.StartTime = epochMillisToTime(wire.Info.Started)
		}
		if wire.Info.Ended != 0 {
			act.EndTime = epochMillisToTime(wire.Info.Ended)
		}
		var url string
		if len(wire.Info.Image) > 0 && json.Unmarshal(wire.Info.Image, &url) == nil {
			act.ImageURL = url
		}

	case KindDoorbellMotion:
		var image imageObjectJSON
		if len(wire.Info.Image) > 0 && json.Unmarshal(wire.Info.Image, &image) == nil {
			act.ImageURL = image.SecureURL
			if image.CreatedAt != "" {
				created, err := time.Parse(time.RFC3339, image.CreatedAt)
				// A malformed capture time degrades to "no image
				// timestamp"; reconciliation then skips the update.
				if err == nil {
					act.ImageCreatedAt = created.UTC()
				}
			}
		}
	}

	return act, nil
}

// operatorName joins the calling user's name parts, tolerating missing
// halves.
func operatorName(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	return name
}

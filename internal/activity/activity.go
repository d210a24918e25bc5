package activity

import (
	"time"

	"github.com/hallgate/augustlink/internal/device"
)

// Kind tags an Activity with its classification.
type Kind string

// Kind constants. KindNone marks an unrecognised action; records
// classified as KindNone never reach reconciliation.
const (
	KindNone           Kind = ""
	KindDoorbellMotion Kind = "doorbell_motion"
	KindDoorbellDing   Kind = "doorbell_ding"
	KindDoorbellView   Kind = "doorbell_view"
	KindLockOperation  Kind = "lock_operation"
	KindDoorOperation  Kind = "door_operation"
)

// Action codes from the house activity feed. The sets below are
// mutually exclusive by construction.
const (
	ActionDoorbellCallMissed     = "doorbell_call_missed"
	ActionDoorbellCallHangup     = "doorbell_call_hangup"
	ActionDoorbellMotionDetected = "doorbell_motion_detected"
	ActionDoorbellCallInitiated  = "doorbell_call_initiated"
	ActionLock                   = "lock"
	ActionUnlock                 = "unlock"
	ActionOneTouchLock           = "onetouchlock"
	ActionDoorOpen               = "dooropen"
	ActionDoorClosed             = "doorclosed"
)

// actionKinds maps every recognised action code to its kind.
var actionKinds = map[string]Kind{
	ActionDoorbellCallMissed:     KindDoorbellDing,
	ActionDoorbellCallHangup:     KindDoorbellDing,
	ActionDoorbellMotionDetected: KindDoorbellMotion,
	ActionDoorbellCallInitiated:  KindDoorbellView,
	ActionLock:                   KindLockOperation,
	ActionUnlock:                 KindLockOperation,
	ActionOneTouchLock:           KindLockOperation,
	ActionDoorOpen:               KindDoorOperation,
	ActionDoorClosed:             KindDoorOperation,
}

// actionLockStatuses maps lock-operation actions to the resulting status.
var actionLockStatuses = map[string]device.LockStatus{
	ActionLock:         device.LockStatusLocked,
	ActionOneTouchLock: device.LockStatusLocked,
	ActionUnlock:       device.LockStatusUnlocked,
}

// actionDoorStates maps door-operation actions to the resulting state.
var actionDoorStates = map[string]device.DoorState{
	ActionDoorOpen:   device.DoorStateOpen,
	ActionDoorClosed: device.DoorStateClosed,
}

// Classify maps a raw action code to its activity kind.
// Unrecognised codes return KindNone; the caller drops the record
// silently, this is not an error condition.
func Classify(action string) Kind {
	return actionKinds[action]
}

// LockStatusForAction returns the lock status a lock-operation action
// resolves to, or LockStatusUnknown for anything else.
func LockStatusForAction(action string) device.LockStatus {
	if status, ok := actionLockStatuses[action]; ok {
		return status
	}
	return device.LockStatusUnknown
}

// DoorStateForAction returns the door state a door-operation action
// resolves to, or DoorStateUnknown for anything else.
func DoorStateForAction(action string) device.DoorState {
	if state, ok := actionDoorStates[action]; ok {
		return state
	}
	return device.DoorStateUnknown
}

// Activity is one normalized entry from the house activity feed, or a
// synthesized equivalent from a lock command result. It is an immutable
// value; reconciliation reads it and never writes back.
type Activity struct {
	Kind Kind

	// ID is the feed entry id. Synthesized activities get a generated
	// id so the activity log can still dedupe them.
	ID string

	HouseID    string
	DeviceID   string
	DeviceName string
	DeviceType string

	// Action is the raw action code that produced Kind.
	Action string

	StartTime time.Time
	EndTime   time.Time

	// Lock operation payload.
	OperatedBy     string
	OperatedRemote bool
	OperatedKeypad bool

	// Doorbell payload.
	ImageURL       string
	ImageCreatedAt time.Time
}

// epochMillisToTime converts epoch milliseconds to a UTC instant.
// Zero input yields the zero time (missing timestamp).
func epochMillisToTime(millis int64) time.Time {
	if millis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(millis).UTC()
}

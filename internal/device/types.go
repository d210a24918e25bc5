package device

import "time"

// LockStatus represents the best-known bolt position of a lock.
type LockStatus string

// LockStatus constants.
const (
	LockStatusLocked   LockStatus = "locked"
	LockStatusUnlocked LockStatus = "unlocked"
	LockStatusUnknown  LockStatus = "unknown"
)

// DoorState represents the best-known DoorSense position of a door.
type DoorState string

// DoorState constants.
const (
	DoorStateOpen    DoorState = "open"
	DoorStateClosed  DoorState = "closed"
	DoorStateUnknown DoorState = "unknown"
)

// BridgeStatus represents the connectivity of a lock's Connect bridge.
type BridgeStatus string

// BridgeStatus constants.
const (
	BridgeStatusOnline  BridgeStatus = "online"
	BridgeStatusOffline BridgeStatus = "offline"
	BridgeStatusUnknown BridgeStatus = "unknown"
)

// Bridge connectivity tokens delivered on the push channel. These are
// checked before lock-status resolution; connectivity has no other
// source, so they bypass the timestamp gate entirely.
const (
	BridgeOnlineToken  = "associated_bridge_online"
	BridgeOfflineToken = "associated_bridge_offline"
)

// lockStatusTokens maps wire tokens from the REST API to lock statuses.
// The kAug* forms are emitted by older BLE firmware.
var lockStatusTokens = map[string]LockStatus{
	"locked":                 LockStatusLocked,
	"kAugLockState_Locked":   LockStatusLocked,
	"unlocked":               LockStatusUnlocked,
	"kAugLockState_Unlocked": LockStatusUnlocked,
}

// pushLockStatusTokens adds the transitional tokens seen only on the
// push channel. A transition report means the operation completed on
// the lock, so they resolve to the completed state.
var pushLockStatusTokens = map[string]LockStatus{
	"kAugLockState_Locking":   LockStatusLocked,
	"kAugLockState_Unlocking": LockStatusUnlocked,
}

// doorStateTokens maps wire tokens to door states. Two legacy token
// spellings exist for each state alongside the plain form.
var doorStateTokens = map[string]DoorState{
	"closed":                   DoorStateClosed,
	"kAugLockDoorState_Closed": DoorStateClosed,
	"kAugDoorState_Closed":     DoorStateClosed,
	"open":                     DoorStateOpen,
	"kAugLockDoorState_Open":   DoorStateOpen,
	"kAugDoorState_Open":       DoorStateOpen,
}

// DetermineLockStatus resolves a REST lock-status token.
// Unrecognised tokens (including transitional ones) resolve to unknown.
func DetermineLockStatus(token string) LockStatus {
	if status, ok := lockStatusTokens[token]; ok {
		return status
	}
	return LockStatusUnknown
}

// DetermineLockStatusFromPush resolves a push-channel lock-status token.
// It accepts everything DetermineLockStatus accepts plus the
// transitional tokens, which map to their completed state.
func DetermineLockStatusFromPush(token string) LockStatus {
	if status, ok := lockStatusTokens[token]; ok {
		return status
	}
	if status, ok := pushLockStatusTokens[token]; ok {
		return status
	}
	return LockStatusUnknown
}

// DetermineDoorState resolves a door-state token. Unrecognised tokens,
// including the "init" sentinel sent while DoorSense calibrates,
// resolve to unknown.
func DetermineDoorState(token string) DoorState {
	if state, ok := doorStateTokens[token]; ok {
		return state
	}
	return DoorStateUnknown
}

// DoorStateAction returns the activity-feed action string equivalent to
// a known door state. Returns ErrUnknownDoorState for DoorStateUnknown.
func DoorStateAction(state DoorState) (string, error) {
	switch state {
	case DoorStateOpen:
		return "dooropen", nil
	case DoorStateClosed:
		return "doorclosed", nil
	default:
		return "", ErrUnknownDoorState
	}
}

// applyIfNewer advances a field timestamp under the strict-newer rule.
//
// The update is accepted when the stored timestamp is unset, or the
// incoming one is strictly after it. Equal timestamps reject, which
// makes repeated delivery of the same event idempotent. A zero incoming
// timestamp always rejects: an event without a usable time must never
// move state.
func applyIfNewer(current *time.Time, incoming time.Time) bool {
	if incoming.IsZero() {
		return false
	}
	if !current.IsZero() && !incoming.After(*current) {
		return false
	}
	*current = incoming
	return true
}

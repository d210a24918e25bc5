package reconcile

import (
	"fmt"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/device"
)

// LockFromActivity offers a feed activity to a lock state record.
//
// Lock operations resolve to a target status through the action table
// and land on the lock-status field; door operations land on the
// door-state field. Both use the activity's end time against the
// strict-newer rule. The return value reports whether the record
// changed; false with a nil error means the event was stale or its
// action resolved to nothing.
func LockFromActivity(lock *device.LockDetail, act activity.Activity) (bool, error) {
	if act.DeviceID != lock.DeviceID() {
		return false, fmt.Errorf("%w: activity %s for %s, record is %s",
			ErrDeviceMismatch, act.ID, act.DeviceID, lock.DeviceID())
	}

	switch act.Kind {
	case activity.KindLockOperation:
		status := activity.LockStatusForAction(act.Action)
		if status == device.LockStatusUnknown {
			return false, nil
		}
		return lock.ApplyLockStatus(status, act.EndTime), nil

	case activity.KindDoorOperation:
		state := activity.DoorStateForAction(act.Action)
		if state == device.DoorStateUnknown {
			return false, nil
		}
		return lock.ApplyDoorState(state, act.EndTime), nil

	default:
		return false, fmt.Errorf("%w: %q on lock record", ErrUnsupportedKind, act.Kind)
	}
}

// DoorbellFromActivity offers a feed activity to a doorbell state
// record. Only motion activities carry state: their capture image lands
// on the image field under the strict-newer rule. A motion activity
// without an image timestamp is a no-op, not an error.
func DoorbellFromActivity(bell *device.DoorbellDetail, act activity.Activity) (bool, error) {
	if act.DeviceID != bell.DeviceID() {
		return false, fmt.Errorf("%w: activity %s for %s, record is %s",
			ErrDeviceMismatch, act.ID, act.DeviceID, bell.DeviceID())
	}

	switch act.Kind {
	case activity.KindDoorbellMotion:
		if act.ImageCreatedAt.IsZero() {
			return false, nil
		}
		return bell.ApplyImage(act.ImageURL, act.ImageCreatedAt), nil

	default:
		return false, fmt.Errorf("%w: %q on doorbell record", ErrUnsupportedKind, act.Kind)
	}
}

package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/device"
)

func newLock(t *testing.T) *device.LockDetail {
	t.Helper()
	lock, err := device.ParseLockDetail([]byte(`{
		"LockID": "lock-1",
		"LockName": "Front Door Lock",
		"HouseID": "house-1"
	}`))
	if err != nil {
		t.Fatalf("ParseLockDetail() error: %v", err)
	}
	return lock
}

func newDoorbell(t *testing.T) *device.DoorbellDetail {
	t.Helper()
	bell, err := device.ParseDoorbellDetail([]byte(`{
		"doorbellID": "bell-1",
		"name": "Front Door",
		"HouseID": "house-1"
	}`))
	if err != nil {
		t.Fatalf("ParseDoorbellDetail() error: %v", err)
	}
	return bell
}

func lockOp(deviceID, action string, at time.Time) activity.Activity {
	return activity.Activity{
		Kind:      activity.KindLockOperation,
		ID:        "a-" + action,
		DeviceID:  deviceID,
		Action:    action,
		StartTime: at,
		EndTime:   at,
	}
}

func doorOp(deviceID, action string, at time.Time) activity.Activity {
	return activity.Activity{
		Kind:      activity.KindDoorOperation,
		ID:        "a-" + action,
		DeviceID:  deviceID,
		Action:    action,
		StartTime: at,
		EndTime:   at,
	}
}

func TestLockFromActivity_FreshRecord(t *testing.T) {
	lock := newLock(t)
	at := time.UnixMilli(1582007217000).UTC()

	updated, err := LockFromActivity(lock, lockOp("lock-1", "unlock", at))
	if err != nil {
		t.Fatalf("LockFromActivity() error: %v", err)
	}
	if !updated {
		t.Fatal("first event on fresh record should update")
	}
	if lock.LockStatus() != device.LockStatusUnlocked {
		t.Errorf("LockStatus = %v, want unlocked", lock.LockStatus())
	}
	if !lock.LockStatusTime().Equal(at) {
		t.Errorf("LockStatusTime = %v, want %v", lock.LockStatusTime(), at)
	}
}

func TestLockFromActivity_StaleEventRejected(t *testing.T) {
	lock := newLock(t)
	t1 := time.UnixMilli(1582007217000).UTC()
	t2 := time.UnixMilli(1582007218000).UTC()

	if _, err := LockFromActivity(lock, lockOp("lock-1", "unlock", t1)); err != nil {
		t.Fatalf("first apply error: %v", err)
	}
	updated, err := LockFromActivity(lock, lockOp("lock-1", "lock", t2))
	if err != nil || !updated {
		t.Fatalf("newer event: updated=%v err=%v, want true nil", updated, err)
	}
	if lock.LockStatus() != device.LockStatusLocked {
		t.Errorf("LockStatus = %v, want locked", lock.LockStatus())
	}

	// Redelivery of the original, now stale, unlock event.
	updated, err = LockFromActivity(lock, lockOp("lock-1", "unlock", t1))
	if err != nil {
		t.Fatalf("stale apply error: %v", err)
	}
	if updated {
		t.Error("stale event should not update")
	}
	if lock.LockStatus() != device.LockStatusLocked {
		t.Errorf("LockStatus = %v after stale event, want locked", lock.LockStatus())
	}
	if !lock.LockStatusTime().Equal(t2) {
		t.Errorf("LockStatusTime = %v, want %v", lock.LockStatusTime(), t2)
	}
}

func TestLockFromActivity_Idempotent(t *testing.T) {
	lock := newLock(t)
	at := time.UnixMilli(1582007217000).UTC()
	event := lockOp("lock-1", "lock", at)

	updated, _ := LockFromActivity(lock, event)
	if !updated {
		t.Fatal("first delivery should update")
	}
	updated, _ = LockFromActivity(lock, event)
	if updated {
		t.Error("second delivery of the same event should not update")
	}
}

func TestLockFromActivity_FieldIndependence(t *testing.T) {
	lock := newLock(t)
	t1 := time.UnixMilli(1582007217000).UTC()
	t2 := time.UnixMilli(1582007218000).UTC()

	if _, err := LockFromActivity(lock, doorOp("lock-1", "dooropen", t2)); err != nil {
		t.Fatalf("door apply error: %v", err)
	}
	updated, err := LockFromActivity(lock, lockOp("lock-1", "lock", t1))
	if err != nil || !updated {
		t.Fatalf("lock apply: updated=%v err=%v", updated, err)
	}

	if lock.DoorState() != device.DoorStateOpen {
		t.Errorf("DoorState = %v, want open", lock.DoorState())
	}
	if !lock.DoorStateTime().Equal(t2) {
		t.Errorf("DoorStateTime moved: %v", lock.DoorStateTime())
	}
	if !lock.LockStatusTime().Equal(t1) {
		t.Errorf("LockStatusTime = %v, want %v", lock.LockStatusTime(), t1)
	}
}

func TestLockFromActivity_DeviceMismatch(t *testing.T) {
	lock := newLock(t)
	at := time.UnixMilli(1582007219000).UTC()

	_, err := LockFromActivity(lock, lockOp("lock-2", "lock", at))
	if !errors.Is(err, ErrDeviceMismatch) {
		t.Fatalf("err = %v, want ErrDeviceMismatch", err)
	}
	if lock.LockStatus() != device.LockStatusUnknown {
		t.Error("mismatched activity must not touch the record")
	}
}

func TestLockFromActivity_UnsupportedKind(t *testing.T) {
	lock := newLock(t)
	act := activity.Activity{
		Kind:     activity.KindDoorbellMotion,
		DeviceID: "lock-1",
		Action:   "doorbell_motion_detected",
	}
	if _, err := LockFromActivity(lock, act); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("err = %v, want ErrUnsupportedKind", err)
	}
}

func TestDoorbellFromActivity_MotionImage(t *testing.T) {
	bell := newDoorbell(t)
	at := time.Date(2020, 2, 18, 6, 15, 27, 0, time.UTC)
	act := activity.Activity{
		Kind:           activity.KindDoorbellMotion,
		ID:             "a-motion",
		DeviceID:       "bell-1",
		Action:         "doorbell_motion_detected",
		ImageURL:       "https://image.com/motion.jpg",
		ImageCreatedAt: at,
	}

	updated, err := DoorbellFromActivity(bell, act)
	if err != nil || !updated {
		t.Fatalf("updated=%v err=%v, want true nil", updated, err)
	}
	if bell.ImageURL() != "https://image.com/motion.jpg" {
		t.Errorf("ImageURL = %q", bell.ImageURL())
	}
	if !bell.ImageCreatedAt().Equal(at) {
		t.Errorf("ImageCreatedAt = %v", bell.ImageCreatedAt())
	}
}

func TestDoorbellFromActivity_MotionWithoutImageTime(t *testing.T) {
	bell := newDoorbell(t)
	act := activity.Activity{
		Kind:     activity.KindDoorbellMotion,
		DeviceID: "bell-1",
		Action:   "doorbell_motion_detected",
		ImageURL: "https://image.com/motion.jpg",
	}

	updated, err := DoorbellFromActivity(bell, act)
	if err != nil {
		t.Fatalf("DoorbellFromActivity() error: %v", err)
	}
	if updated {
		t.Error("motion without a capture time should not update")
	}
	if bell.ImageURL() != "" {
		t.Error("record changed despite missing capture time")
	}
}

func TestDoorbellFromActivity_DeviceMismatch(t *testing.T) {
	bell := newDoorbell(t)
	act := activity.Activity{
		Kind:           activity.KindDoorbellMotion,
		DeviceID:       "bell-2",
		ImageCreatedAt: time.Now().UTC(),
	}
	if _, err := DoorbellFromActivity(bell, act); !errors.Is(err, ErrDeviceMismatch) {
		t.Fatalf("err = %v, want ErrDeviceMismatch", err)
	}
}

func TestMonotonicity_OutOfOrderDelivery(t *testing.T) {
	// Whatever the delivery order, the field must end at the value of
	// the maximum timestamp.
	base := time.UnixMilli(1582007217000).UTC()
	events := []activity.Activity{
		lockOp("lock-1", "unlock", base.Add(2*time.Second)),
		lockOp("lock-1", "lock", base.Add(4*time.Second)),
		lockOp("lock-1", "unlock", base),
		lockOp("lock-1", "lock", base.Add(time.Second)),
		lockOp("lock-1", "unlock", base.Add(3*time.Second)),
	}

	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	for _, order := range orders {
		lock := newLock(t)
		for _, i := range order {
			if _, err := LockFromActivity(lock, events[i]); err != nil {
				t.Fatalf("apply %d: %v", i, err)
			}
		}
		if lock.LockStatus() != device.LockStatusLocked {
			t.Errorf("order %v: LockStatus = %v, want locked", order, lock.LockStatus())
		}
		if !lock.LockStatusTime().Equal(base.Add(4 * time.Second)) {
			t.Errorf("order %v: LockStatusTime = %v", order, lock.LockStatusTime())
		}
	}
}

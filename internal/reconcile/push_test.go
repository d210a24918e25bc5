package reconcile

import (
	"testing"
	"time"

	"github.com/hallgate/augustlink/internal/device"
)

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(`{
		"status": "imagecapture",
		"data": {
			"result": {
				"created_at": "2020-02-20T17:44:45Z",
				"secure_url": "https://image.com/capture.jpg"
			}
		},
		"unrelated": {"noise": true}
	}`))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	if msg.Status != "imagecapture" {
		t.Errorf("Status = %q", msg.Status)
	}
	if msg.ImageURL != "https://image.com/capture.jpg" {
		t.Errorf("ImageURL = %q", msg.ImageURL)
	}
	want := time.Date(2020, 2, 20, 17, 44, 45, 0, time.UTC)
	if !msg.ImageCreatedAt.Equal(want) {
		t.Errorf("ImageCreatedAt = %v, want %v", msg.ImageCreatedAt, want)
	}
}

func TestParseMessage_NoRecognizedKeys(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"callingUserID": "u1", "remoteEvent": 1}`))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	if msg != (Message{}) {
		t.Errorf("got %+v, want empty message", msg)
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	if _, err := ParseMessage([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if _, err := ParseMessage([]byte(`{"status":"imagecapture","data":{"result":{"created_at":"bad"}}}`)); err == nil {
		t.Fatal("expected error for malformed created_at")
	}
}

func TestLockFromPush_TransitionalTokens(t *testing.T) {
	lock := newLock(t)
	at := time.UnixMilli(1582007218000).UTC()

	msg := Message{Status: "kAugLockState_Locking", DoorState: "open"}
	if !LockFromPush(lock, at, msg) {
		t.Fatal("message should update both fields")
	}
	if lock.LockStatus() != device.LockStatusLocked {
		t.Errorf("LockStatus = %v, want locked (transitional maps to completed)", lock.LockStatus())
	}
	if lock.DoorState() != device.DoorStateOpen {
		t.Errorf("DoorState = %v, want open", lock.DoorState())
	}
	if !lock.LockStatusTime().Equal(at) || !lock.DoorStateTime().Equal(at) {
		t.Errorf("field times = %v/%v, want both %v",
			lock.LockStatusTime(), lock.DoorStateTime(), at)
	}
}

func TestLockFromPush_UnknownTokensIgnored(t *testing.T) {
	lock := newLock(t)
	at := time.UnixMilli(1582007218000).UTC()

	if LockFromPush(lock, at, Message{Status: "kAugLockState_UnknownStaticPosition"}) {
		t.Error("unknown status token should not update")
	}
	if LockFromPush(lock, at, Message{DoorState: "init"}) {
		t.Error("init door-state sentinel should not update")
	}
	if LockFromPush(lock, at, Message{}) {
		t.Error("empty message should not update")
	}
	if lock.LockStatus() != device.LockStatusUnknown || lock.DoorState() != device.DoorStateUnknown {
		t.Error("record changed despite unrecognized tokens")
	}
}

func TestLockFromPush_StaleDeliveryRejected(t *testing.T) {
	lock := newLock(t)
	t1 := time.UnixMilli(1582007217000).UTC()
	t2 := time.UnixMilli(1582007218000).UTC()

	LockFromPush(lock, t2, Message{Status: "locked"})
	if LockFromPush(lock, t1, Message{Status: "unlocked"}) {
		t.Error("older delivery should not update")
	}
	if lock.LockStatus() != device.LockStatusLocked {
		t.Errorf("LockStatus = %v, want locked", lock.LockStatus())
	}
}

func TestLockFromPush_BridgeBypassesTimestampGate(t *testing.T) {
	lock := newLock(t)
	t1 := time.UnixMilli(1582007217000).UTC()
	t2 := time.UnixMilli(1582007218000).UTC()

	LockFromPush(lock, t2, Message{Status: "locked"})
	lock.SetBridgeOnline(true)

	// Delivery older than the accepted lock-status time still lands.
	if !LockFromPush(lock, t1, Message{Status: device.BridgeOfflineToken}) {
		t.Fatal("bridge token should always update")
	}
	if lock.BridgeOnline() {
		t.Error("BridgeOnline = true, want false")
	}
	if lock.LockStatus() != device.LockStatusLocked || !lock.LockStatusTime().Equal(t2) {
		t.Error("bridge token must not touch lock status")
	}

	if !LockFromPush(lock, t1, Message{Status: device.BridgeOnlineToken}) {
		t.Fatal("bridge online token should update")
	}
	if !lock.BridgeOnline() {
		t.Error("BridgeOnline = false, want true")
	}
}

func TestDoorbellFromPush_ImageCapture(t *testing.T) {
	bell := newDoorbell(t)
	at := time.Date(2020, 2, 20, 17, 44, 45, 0, time.UTC)

	msg := Message{
		Status:         "imagecapture",
		ImageURL:       "https://image.com/capture.jpg",
		ImageCreatedAt: at,
	}
	if !DoorbellFromPush(bell, msg) {
		t.Fatal("imagecapture should update")
	}
	if bell.ImageURL() != "https://image.com/capture.jpg" {
		t.Errorf("ImageURL = %q", bell.ImageURL())
	}

	// Redelivery is rejected on the equal timestamp.
	if DoorbellFromPush(bell, msg) {
		t.Error("duplicate capture should not update")
	}
}

func TestDoorbellFromPush_IgnoresOtherStatuses(t *testing.T) {
	bell := newDoorbell(t)
	if DoorbellFromPush(bell, Message{Status: "doorbell_motion_detected"}) {
		t.Error("non-imagecapture status should not update")
	}
	if DoorbellFromPush(bell, Message{Status: "imagecapture"}) {
		t.Error("imagecapture without capture time should not update")
	}
}

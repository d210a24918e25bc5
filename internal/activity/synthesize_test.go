package activity

import (
	"strings"
	"testing"
	"time"
)

func TestSynthesizeFromLockResult(t *testing.T) {
	data := []byte(`{
		"info": {
			"lockID": "A6697750D607098BAE8D6BAA11EF8063",
			"action": "lock",
			"startTime": "2020-02-19T19:44:54.371Z"
		},
		"doorState": "kAugLockDoorState_Closed"
	}`)

	activities, err := SynthesizeFromLockResult(data)
	if err != nil {
		t.Fatalf("SynthesizeFromLockResult() error: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}

	lock, door := activities[0], activities[1]
	if lock.Kind != KindLockOperation {
		t.Errorf("first record Kind = %q, want lock_operation", lock.Kind)
	}
	if lock.Action != "lock" {
		t.Errorf("lock Action = %q", lock.Action)
	}
	if door.Kind != KindDoorOperation {
		t.Errorf("second record Kind = %q, want door_operation", door.Kind)
	}
	if door.Action != "doorclosed" {
		t.Errorf("door Action = %q, want doorclosed", door.Action)
	}

	want := time.Date(2020, 2, 19, 19, 44, 54, 371000000, time.UTC)
	for i, act := range activities {
		if !act.StartTime.Equal(want) {
			t.Errorf("activity %d StartTime = %v, want %v", i, act.StartTime, want)
		}
		if act.DeviceID != "A6697750D607098BAE8D6BAA11EF8063" {
			t.Errorf("activity %d DeviceID = %q", i, act.DeviceID)
		}
		if !strings.HasPrefix(act.ID, "synthetic-") {
			t.Errorf("activity %d ID = %q, want synthetic- prefix", i, act.ID)
		}
	}
	if lock.ID == door.ID {
		t.Error("synthetic records share an ID")
	}
}

func TestSynthesizeFromLockResult_UnknownDoorState(t *testing.T) {
	data := []byte(`{
		"info": {"lockID": "lock-1", "action": "unlock", "startTime": "2020-02-19T19:44:54.371Z"},
		"doorState": "kAugLockDoorState_Init"
	}`)

	activities, err := SynthesizeFromLockResult(data)
	if err != nil {
		t.Fatalf("SynthesizeFromLockResult() error: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("got %d activities, want 1 (lock only)", len(activities))
	}
	if activities[0].Kind != KindLockOperation {
		t.Errorf("Kind = %q", activities[0].Kind)
	}
}

func TestSynthesizeFromLockResult_MissingAction(t *testing.T) {
	data := []byte(`{"info": {"lockID": "lock-1", "startTime": "2020-02-19T19:44:54.371Z"}}`)

	activities, err := SynthesizeFromLockResult(data)
	if err != nil {
		t.Fatalf("SynthesizeFromLockResult() error: %v", err)
	}
	if len(activities) != 0 {
		t.Fatalf("got %d activities, want 0", len(activities))
	}
}

func TestSynthesizeFromLockResult_BadStartTime(t *testing.T) {
	data := []byte(`{"info": {"lockID": "lock-1", "action": "lock", "startTime": "not-a-time"}}`)
	if _, err := SynthesizeFromLockResult(data); err == nil {
		t.Fatal("expected error for malformed startTime")
	}
}

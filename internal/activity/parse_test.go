package activity

import (
	"testing"
	"time"
)

func TestParseFeed_LockOperation(t *testing.T) {
	data := []byte(`[{
		"entities": {"activity": "axxxxxxxxxxxx1", "house": "hxxxxxxxxxxxx"},
		"dateTime": 1582007217000,
		"action": "unlock",
		"deviceID": "lock-1",
		"deviceName": "Front Door Lock",
		"deviceType": "lock",
		"callingUser": {"FirstName": "Ada", "LastName": "Lovelace"},
		"info": {"remote": true}
	}]`)

	activities, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("got %d activities, want 1", len(activities))
	}

	act := activities[0]
	if act.Kind != KindLockOperation {
		t.Errorf("Kind = %q, want lock_operation", act.Kind)
	}
	if act.ID != "axxxxxxxxxxxx1" {
		t.Errorf("ID = %q", act.ID)
	}
	if act.HouseID != "hxxxxxxxxxxxx" {
		t.Errorf("HouseID = %q", act.HouseID)
	}
	if act.DeviceID != "lock-1" {
		t.Errorf("DeviceID = %q", act.DeviceID)
	}
	if act.OperatedBy != "Ada Lovelace" {
		t.Errorf("OperatedBy = %q", act.OperatedBy)
	}
	if !act.OperatedRemote {
		t.Error("OperatedRemote = false, want true")
	}

	want := time.UnixMilli(1582007217000).UTC()
	if !act.StartTime.Equal(want) || !act.EndTime.Equal(want) {
		t.Errorf("times = %v/%v, want both %v", act.StartTime, act.EndTime, want)
	}
}

func TestParseFeed_DoorbellDing(t *testing.T) {
	data := []byte(`[{
		"entities": {"activity": "a2", "house": "h1"},
		"dateTime": 1582007220000,
		"action": "doorbell_call_missed",
		"deviceID": "bell-1",
		"deviceType": "doorbell",
		"info": {
			"started": 1582007218000,
			"ended": 1582007219000,
			"image": "https://image.com/ding.jpg"
		}
	}]`)

	activities, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("got %d activities, want 1", len(activities))
	}

	act := activities[0]
	if act.Kind != KindDoorbellDing {
		t.Errorf("Kind = %q", act.Kind)
	}
	if !act.StartTime.Equal(time.UnixMilli(1582007218000).UTC()) {
		t.Errorf("StartTime = %v, want info.started", act.StartTime)
	}
	if !act.EndTime.Equal(time.UnixMilli(1582007219000).UTC()) {
		t.Errorf("EndTime = %v, want info.ended", act.EndTime)
	}
	if act.ImageURL != "https://image.com/ding.jpg" {
		t.Errorf("ImageURL = %q", act.ImageURL)
	}
}

func TestParseFeed_DoorbellMotionImage(t *testing.T) {
	data := []byte(`[{
		"entities": {"activity": "a3", "house": "h1"},
		"dateTime": 1582007230000,
		"action": "doorbell_motion_detected",
		"deviceID": "bell-1",
		"deviceType": "doorbell",
		"info": {
			"image": {
				"secure_url": "https://image.com/motion.jpg",
				"created_at": "2020-02-18T06:15:27Z"
			}
		}
	}]`)

	activities, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}
	act := activities[0]
	if act.Kind != KindDoorbellMotion {
		t.Fatalf("Kind = %q", act.Kind)
	}
	if act.ImageURL != "https://image.com/motion.jpg" {
		t.Errorf("ImageURL = %q", act.ImageURL)
	}
	want := time.Date(2020, 2, 18, 6, 15, 27, 0, time.UTC)
	if !act.ImageCreatedAt.Equal(want) {
		t.Errorf("ImageCreatedAt = %v, want %v", act.ImageCreatedAt, want)
	}
}

func TestParseFeed_DoorbellMotionWithoutImageTime(t *testing.T) {
	data := []byte(`[{
		"dateTime": 1582007230000,
		"action": "doorbell_motion_detected",
		"deviceID": "bell-1",
		"info": {"image": {"secure_url": "https://image.com/motion.jpg"}}
	}]`)

	activities, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}
	if !activities[0].ImageCreatedAt.IsZero() {
		t.Error("ImageCreatedAt should be zero without created_at")
	}
}

func TestParseFeed_DropsUnrecognisedActions(t *testing.T) {
	data := []byte(`[
		{"dateTime": 1582007217000, "action": "pin_used", "deviceID": "lock-1"},
		{"dateTime": 1582007218000, "action": "lock", "deviceID": "lock-1"},
		{"dateTime": 1582007219000, "action": "", "deviceID": "lock-1"}
	]`)

	activities, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("got %d activities, want 1 (others dropped)", len(activities))
	}
	if activities[0].Action != "lock" {
		t.Errorf("kept activity action = %q", activities[0].Action)
	}
}

func TestParseFeed_MalformedDocument(t *testing.T) {
	if _, err := ParseFeed([]byte(`{"not":"an array"}`)); err == nil {
		t.Fatal("ParseFeed() on object should return an error")
	}
}

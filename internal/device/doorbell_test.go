package device

import (
	"errors"
	"testing"
	"time"
)

const doorbellDetailFixture = `{
	"doorbellID": "K98GiDT45GUL",
	"name": "Front Door",
	"HouseID": "3dd2accaea08",
	"serialNumber": "tBXZR0Z35E",
	"firmwareVersion": "2.3.0-RC153+201711151527",
	"status": "doorbell_call_status_online",
	"pubsubChannel": "7c7a6672-59c8-3333-ffff-dcd98705cccc",
	"recentImage": {
		"secure_url": "https://image.com/vmk16naaaa7ibuey7sar.jpg",
		"created_at": "2017-12-10T08:01:35Z"
	}
}`

func parseDoorbellFixture(t *testing.T) *DoorbellDetail {
	t.Helper()
	detail, err := ParseDoorbellDetail([]byte(doorbellDetailFixture))
	if err != nil {
		t.Fatalf("ParseDoorbellDetail() error: %v", err)
	}
	return detail
}

func TestParseDoorbellDetail(t *testing.T) {
	detail := parseDoorbellFixture(t)

	if detail.DeviceID() != "K98GiDT45GUL" {
		t.Errorf("DeviceID = %q", detail.DeviceID())
	}
	if detail.DeviceName() != "Front Door" {
		t.Errorf("DeviceName = %q", detail.DeviceName())
	}
	if !detail.IsOnline() {
		t.Error("IsOnline = false, want true")
	}
	if detail.IsStandby() {
		t.Error("IsStandby = true, want false")
	}
	if detail.ImageURL() != "https://image.com/vmk16naaaa7ibuey7sar.jpg" {
		t.Errorf("ImageURL = %q", detail.ImageURL())
	}

	want := time.Date(2017, 12, 10, 8, 1, 35, 0, time.UTC)
	if !detail.ImageCreatedAt().Equal(want) {
		t.Errorf("ImageCreatedAt = %v, want %v", detail.ImageCreatedAt(), want)
	}
}

func TestParseDoorbellDetail_MissingID(t *testing.T) {
	_, err := ParseDoorbellDetail([]byte(`{"name":"No ID"}`))
	if !errors.Is(err, ErrMissingDeviceID) {
		t.Fatalf("err = %v, want ErrMissingDeviceID", err)
	}
}

func TestDoorbellDetail_ApplyImage(t *testing.T) {
	detail := parseDoorbellFixture(t)
	seeded := detail.ImageCreatedAt()

	if detail.ApplyImage("https://image.com/stale.jpg", seeded.Add(-time.Hour)) {
		t.Fatal("stale image accepted")
	}
	if detail.ImageURL() != "https://image.com/vmk16naaaa7ibuey7sar.jpg" {
		t.Error("stale image changed URL")
	}

	newer := seeded.Add(time.Hour)
	if !detail.ApplyImage("https://image.com/new.jpg", newer) {
		t.Fatal("newer image rejected")
	}
	if detail.ImageURL() != "https://image.com/new.jpg" {
		t.Errorf("ImageURL = %q after accepted update", detail.ImageURL())
	}
	if !detail.ImageCreatedAt().Equal(newer) {
		t.Errorf("ImageCreatedAt = %v, want %v", detail.ImageCreatedAt(), newer)
	}

	// Same timestamp again: idempotent rejection.
	if detail.ApplyImage("https://image.com/dupe.jpg", newer) {
		t.Fatal("duplicate image timestamp accepted")
	}
}

func TestParseDoorbells(t *testing.T) {
	data := []byte(`{
		"K98GiDT45GUL": {
			"name": "Front Door",
			"HouseID": "3dd2accaea08",
			"serialNumber": "tBXZR0Z35E",
			"status": "doorbell_call_status_online",
			"recentImage": {"secure_url": "https://image.com/recent.jpg"}
		},
		"K98GiDT45WOW": {
			"name": "Garage",
			"HouseID": "3dd2accaea08",
			"status": "standby"
		}
	}`)

	doorbells, err := ParseDoorbells(data)
	if err != nil {
		t.Fatalf("ParseDoorbells() error: %v", err)
	}
	if len(doorbells) != 2 {
		t.Fatalf("got %d doorbells, want 2", len(doorbells))
	}

	byID := make(map[string]Doorbell, len(doorbells))
	for _, d := range doorbells {
		byID[d.DeviceID()] = d
	}
	if !byID["K98GiDT45GUL"].IsOnline() {
		t.Error("front doorbell should be online")
	}
	if byID["K98GiDT45GUL"].ImageURL() != "https://image.com/recent.jpg" {
		t.Error("recent image URL not parsed")
	}
	if byID["K98GiDT45WOW"].IsOnline() {
		t.Error("standby doorbell should not be online")
	}
}

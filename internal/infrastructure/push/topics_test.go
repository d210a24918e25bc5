package push

import "testing"

func TestTopics_Device(t *testing.T) {
	topics := Topics{}
	got := topics.Device("A6697750D607098BAE8D6BAA11EF8063")
	want := "august/push/A6697750D607098BAE8D6BAA11EF8063"
	if got != want {
		t.Errorf("Device() = %q, want %q", got, want)
	}
}

func TestTopics_CustomPrefix(t *testing.T) {
	topics := Topics{Prefix: "home/august"}
	if got := topics.Device("lock-1"); got != "home/august/lock-1" {
		t.Errorf("Device() = %q", got)
	}
	if got := topics.AllDevices(); got != "home/august/+" {
		t.Errorf("AllDevices() = %q", got)
	}
	if got := topics.Status(); got != "home/august/consumer/status" {
		t.Errorf("Status() = %q", got)
	}
}

func TestTopics_DeviceFromTopic(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		topic string
		want  string
	}{
		{"august/push/lock-1", "lock-1"},
		{"august/push/consumer/status", ""},
		{"august/push/", ""},
		{"other/prefix/lock-1", ""},
		{"august/push", ""},
	}
	for _, tt := range tests {
		if got := topics.DeviceFromTopic(tt.topic); got != tt.want {
			t.Errorf("DeviceFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

package push

import "strings"

// Topics builds topic names under a configured prefix. The zero value
// uses DefaultPrefix.
type Topics struct {
	Prefix string
}

// DefaultPrefix is the topic prefix used when none is configured.
const DefaultPrefix = "august/push"

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultPrefix
	}
	return t.Prefix
}

// Device returns the topic a single device's notifications arrive on.
//
// Example: august/push/A6697750D607098BAE8D6BAA11EF8063
func (t Topics) Device(deviceID string) string {
	return t.prefix() + "/" + deviceID
}

// AllDevices returns a pattern matching every device topic.
//
// Pattern: august/push/+
func (t Topics) AllDevices() string {
	return t.prefix() + "/+"
}

// Status returns the consumer's own status topic, used for the LWT and
// graceful shutdown announcements.
//
// Example: august/push/consumer/status
func (t Topics) Status() string {
	return t.prefix() + "/consumer/status"
}

// DeviceFromTopic extracts the device id from a device topic. Returns
// empty when the topic does not match the device scheme.
func (t Topics) DeviceFromTopic(topic string) string {
	rest, ok := strings.CutPrefix(topic, t.prefix()+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

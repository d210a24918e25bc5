// Package push consumes August push notifications from an MQTT broker.
//
// The vendor's proprietary notification channel is bridged onto MQTT by
// a companion process; each device's messages arrive on its own topic
// under the configured prefix (august/push/{deviceID} by default).
// This package manages the broker connection, per-device subscriptions,
// and automatic re-subscription after reconnects. Payloads are passed
// through untouched; normalization happens in the reconcile package.
package push

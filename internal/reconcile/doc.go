// Package reconcile merges timestamped events into device state records.
//
// Events arrive from two sources that race freely: the polled house
// activity feed and the push channel. Each entry point checks device
// identity, resolves the event's meaning through the activity and
// device vocabularies, and offers the result to the record's Apply*
// methods, which enforce the strict-newer timestamp rule per field.
// The boolean results report whether any field actually changed, so
// callers can detect stale or duplicate delivery.
//
// The package holds no state and performs no I/O. Callers serialize
// invocations per device; see the stream package.
package reconcile

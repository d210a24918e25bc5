// Package stream drives reconciliation from the two event sources.
//
// The Coordinator owns the device state records and serializes all
// mutation per device: feed activities and push messages for the same
// device are applied one at a time under that device's mutex, while
// different devices proceed in parallel. Accepted changes fan out to
// subscribers as snapshot events and to the optional recorder.
//
// The Poller periodically fetches each house's activity feed, filters
// already-seen entries through the activity log, and hands the rest to
// the Coordinator.
package stream

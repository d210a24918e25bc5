// Package device holds the in-memory state records for August locks and
// doorbells, plus the wire vocabularies that map cloud tokens onto them.
//
// # Key Types
//
//   - Lock / Doorbell: summaries from the account device lists
//   - LockDetail: a lock's best-known status, each status field paired
//     with the instant it was last confirmed
//   - DoorbellDetail: a doorbell's best-known state, including the most
//     recent capture image
//
// # State mutation
//
// Status fields on the detail records are unexported. The only mutators
// are the Apply* methods, and each enforces the strict-newer rule: an
// update lands if and only if the incoming timestamp is strictly after
// the stored one (or the stored one is unset). Stale and duplicate
// events therefore cannot regress state no matter who calls the method
// or in what order events arrive. The reconcile package routes events
// here; nothing else should need to.
//
// Bridge connectivity is the one exception: it is only ever reported on
// the push channel, so SetBridgeOnline applies unconditionally.
//
// # Thread Safety
//
// Records are NOT internally synchronised. Callers must serialise
// access per record; the stream package does this with one mutex per
// device.
package device

// Package activity normalizes August house activity feed entries and
// remote command results into a single Activity record type.
//
// Classification is a pure lookup from action code to Kind; records
// whose action is unrecognised classify to KindNone and are dropped
// before they ever reach reconciliation. The package also owns the
// action→status tables the reconcile package uses to resolve what an
// accepted lock or door operation means for device state.
package activity

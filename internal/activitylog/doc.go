// Package activitylog persists seen activity records in SQLite.
//
// Its primary job is poll deduplication: the feed returns the newest N
// entries every cycle, so most of each batch has already been applied.
// MarkSeen inserts by activity id and reports whether the record is
// new, letting the poller skip reconciliation for everything else. The
// log doubles as local history for the HTTP API.
package activitylog

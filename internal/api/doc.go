// Package api serves the local HTTP interface.
//
// It exposes device snapshots, recent activity history, and remote
// lock/unlock commands over a small JSON API, plus a WebSocket stream
// of state-change events. The API binds to localhost by default and
// carries no authentication of its own; anything that can reach it can
// operate the locks.
package api

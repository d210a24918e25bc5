// Package cloud is the August REST API client.
//
// It covers session authentication with two-factor validation, device
// listing and detail fetches, the house activity feed, and remote
// lock/unlock operations. Responses are decoded straight into the
// device and activity packages' parsers so every byte of state flows
// through the same vocabulary tables.
//
// The API rate-limits aggressively; requests retry on 429 with a flat
// backoff rather than giving up.
package cloud

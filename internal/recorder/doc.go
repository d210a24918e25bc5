// Package recorder writes device state changes to InfluxDB.
//
// Every accepted reconciliation result can be recorded as a point
// tagged by device, timestamped with the event's confirmation time
// rather than the write time, so out-of-order feed and push delivery
// does not distort the series. Writes are non-blocking and batched;
// the recorder is optional and disabled by default.
package recorder

package stream

import (
	"fmt"
	"sync"
	"time"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/device"
	"github.com/hallgate/augustlink/internal/reconcile"
)

// Event is a device state snapshot emitted after an accepted update.
type Event struct {
	DeviceID   string
	DeviceType string
	At         time.Time

	// Lock fields, populated when DeviceType is "lock".
	LockStatus   device.LockStatus
	DoorState    device.DoorState
	BridgeOnline bool

	// Doorbell fields, populated when DeviceType is "doorbell".
	ImageURL       string
	ImageCreatedAt time.Time
}

// Recorder receives accepted state changes. Implemented by the
// recorder package; a nil Recorder disables recording.
type Recorder interface {
	RecordLockStatus(deviceID string, status device.LockStatus, at time.Time)
	RecordDoorState(deviceID string, state device.DoorState, at time.Time)
	RecordBridgeOnline(deviceID string, online bool, at time.Time)
	RecordDoorbellImage(deviceID string, at time.Time)
}

// Logger is the logging surface the coordinator needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// lockEntry pairs a lock record with the mutex that serializes its
// updates.
type lockEntry struct {
	mu   sync.Mutex
	lock *device.LockDetail
}

type doorbellEntry struct {
	mu   sync.Mutex
	bell *device.DoorbellDetail
}

// Coordinator owns the device state records and routes events to the
// reconcile package under per-device serialization.
type Coordinator struct {
	mu        sync.RWMutex
	locks     map[string]*lockEntry
	doorbells map[string]*doorbellEntry

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int

	recorder Recorder
	logger   Logger
}

// NewCoordinator builds an empty coordinator. Both recorder and logger
// may be nil.
func NewCoordinator(rec Recorder, logger Logger) *Coordinator {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Coordinator{
		locks:       make(map[string]*lockEntry),
		doorbells:   make(map[string]*doorbellEntry),
		subscribers: make(map[int]chan Event),
		recorder:    rec,
		logger:      logger,
	}
}

// AddLock registers a lock state record.
func (c *Coordinator) AddLock(lock *device.LockDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := lock.DeviceID()
	if _, exists := c.locks[id]; exists {
		return fmt.Errorf("%w: lock %s", ErrDuplicateDevice, id)
	}
	c.locks[id] = &lockEntry{lock: lock}
	return nil
}

// AddDoorbell registers a doorbell state record.
func (c *Coordinator) AddDoorbell(bell *device.DoorbellDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := bell.DeviceID()
	if _, exists := c.doorbells[id]; exists {
		return fmt.Errorf("%w: doorbell %s", ErrDuplicateDevice, id)
	}
	c.doorbells[id] = &doorbellEntry{bell: bell}
	return nil
}

// LockIDs returns the registered lock device ids.
func (c *Coordinator) LockIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.locks))
	for id := range c.locks {
		ids = append(ids, id)
	}
	return ids
}

// DoorbellIDs returns the registered doorbell device ids.
func (c *Coordinator) DoorbellIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.doorbells))
	for id := range c.doorbells {
		ids = append(ids, id)
	}
	return ids
}

// LockSnapshot returns a point-in-time event snapshot for one lock.
func (c *Coordinator) LockSnapshot(deviceID string) (Event, error) {
	entry, ok := c.lockEntry(deviceID)
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return lockEvent(entry.lock, time.Now().UTC()), nil
}

// DoorbellSnapshot returns a point-in-time event snapshot for one
// doorbell.
func (c *Coordinator) DoorbellSnapshot(deviceID string) (Event, error) {
	entry, ok := c.doorbellEntry(deviceID)
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return doorbellEvent(entry.bell, time.Now().UTC()), nil
}

// HandleActivity routes a feed or synthesized activity to its device's
// state record. Returns whether any field changed; activities for
// unregistered devices fail with ErrUnknownDevice.
func (c *Coordinator) HandleActivity(act activity.Activity) (bool, error) {
	if entry, ok := c.lockEntry(act.DeviceID); ok {
		return c.applyLockActivity(entry, act)
	}
	if entry, ok := c.doorbellEntry(act.DeviceID); ok {
		return c.applyDoorbellActivity(entry, act)
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownDevice, act.DeviceID)
}

// HandlePush routes a raw push payload delivered at the given instant.
// Payloads for unregistered devices are dropped with a warning rather
// than an error; the push topic pattern may cover devices this account
// no longer owns.
func (c *Coordinator) HandlePush(deviceID string, deliveredAt time.Time, payload []byte) (bool, error) {
	msg, err := reconcile.ParseMessage(payload)
	if err != nil {
		return false, err
	}

	if entry, ok := c.lockEntry(deviceID); ok {
		return c.applyLockPush(entry, deliveredAt, msg), nil
	}
	if entry, ok := c.doorbellEntry(deviceID); ok {
		return c.applyDoorbellPush(entry, msg), nil
	}

	c.logger.Warn("push for unregistered device", "device_id", deviceID)
	return false, nil
}

func (c *Coordinator) lockEntry(deviceID string) (*lockEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.locks[deviceID]
	return entry, ok
}

func (c *Coordinator) doorbellEntry(deviceID string) (*doorbellEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.doorbells[deviceID]
	return entry, ok
}

func (c *Coordinator) applyLockActivity(entry *lockEntry, act activity.Activity) (bool, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	before := lockTimes(entry.lock)
	updated, err := reconcile.LockFromActivity(entry.lock, act)
	if err != nil {
		return false, err
	}
	if updated {
		c.recordLockChanges(entry.lock, before)
		c.publish(lockEvent(entry.lock, act.EndTime))
		c.logger.Debug("activity applied",
			"device_id", act.DeviceID, "action", act.Action)
	}
	return updated, nil
}

func (c *Coordinator) applyDoorbellActivity(entry *doorbellEntry, act activity.Activity) (bool, error) {
	// Dings and views carry no device state, only notification value.
	if act.Kind != activity.KindDoorbellMotion {
		return false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	updated, err := reconcile.DoorbellFromActivity(entry.bell, act)
	if err != nil {
		return false, err
	}
	if updated {
		if c.recorder != nil {
			c.recorder.RecordDoorbellImage(entry.bell.DeviceID(), entry.bell.ImageCreatedAt())
		}
		c.publish(doorbellEvent(entry.bell, act.ImageCreatedAt))
	}
	return updated, nil
}

func (c *Coordinator) applyLockPush(entry *lockEntry, deliveredAt time.Time, msg reconcile.Message) bool {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	before := lockTimes(entry.lock)
	bridgeBefore := entry.lock.BridgeOnline()

	updated := reconcile.LockFromPush(entry.lock, deliveredAt, msg)
	if updated {
		c.recordLockChanges(entry.lock, before)
		if c.recorder != nil && entry.lock.BridgeOnline() != bridgeBefore {
			c.recorder.RecordBridgeOnline(entry.lock.DeviceID(), entry.lock.BridgeOnline(), deliveredAt)
		}
		c.publish(lockEvent(entry.lock, deliveredAt))
	}
	return updated
}

func (c *Coordinator) applyDoorbellPush(entry *doorbellEntry, msg reconcile.Message) bool {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	updated := reconcile.DoorbellFromPush(entry.bell, msg)
	if updated {
		if c.recorder != nil {
			c.recorder.RecordDoorbellImage(entry.bell.DeviceID(), entry.bell.ImageCreatedAt())
		}
		c.publish(doorbellEvent(entry.bell, msg.ImageCreatedAt))
	}
	return updated
}

// lockFieldTimes captures the per-field confirmation times before an
// update so the coordinator can tell which fields the update landed on.
type lockFieldTimes struct {
	status time.Time
	door   time.Time
}

func lockTimes(lock *device.LockDetail) lockFieldTimes {
	return lockFieldTimes{
		status: lock.LockStatusTime(),
		door:   lock.DoorStateTime(),
	}
}

func (c *Coordinator) recordLockChanges(lock *device.LockDetail, before lockFieldTimes) {
	if c.recorder == nil {
		return
	}
	if !lock.LockStatusTime().Equal(before.status) {
		c.recorder.RecordLockStatus(lock.DeviceID(), lock.LockStatus(), lock.LockStatusTime())
	}
	if !lock.DoorStateTime().Equal(before.door) {
		c.recorder.RecordDoorState(lock.DeviceID(), lock.DoorState(), lock.DoorStateTime())
	}
}

func lockEvent(lock *device.LockDetail, at time.Time) Event {
	return Event{
		DeviceID:     lock.DeviceID(),
		DeviceType:   "lock",
		At:           at,
		LockStatus:   lock.LockStatus(),
		DoorState:    lock.DoorState(),
		BridgeOnline: lock.BridgeOnline(),
	}
}

func doorbellEvent(bell *device.DoorbellDetail, at time.Time) Event {
	return Event{
		DeviceID:       bell.DeviceID(),
		DeviceType:     "doorbell",
		At:             at,
		ImageURL:       bell.ImageURL(),
		ImageCreatedAt: bell.ImageCreatedAt(),
	}
}

// Subscribe registers an event channel. Events are dropped for
// subscribers that fall behind rather than blocking reconciliation.
// The returned cancel function closes the channel.
func (c *Coordinator) Subscribe(buffer int) (<-chan Event, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan Event, buffer)
	c.subscribers[id] = ch

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if ch, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (c *Coordinator) publish(event Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop
		}
	}
}

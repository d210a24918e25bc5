package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/stream"
)

// defaultActivityLimit bounds history responses when the client does
// not specify one.
const defaultActivityLimit = 20

// lockJSON is the wire shape of a lock snapshot.
type lockJSON struct {
	DeviceID     string    `json:"device_id"`
	LockStatus   string    `json:"lock_status"`
	DoorState    string    `json:"door_state"`
	BridgeOnline bool      `json:"bridge_online"`
	At           time.Time `json:"at"`
}

// doorbellJSON is the wire shape of a doorbell snapshot.
type doorbellJSON struct {
	DeviceID       string     `json:"device_id"`
	ImageURL       string     `json:"image_url,omitempty"`
	ImageCreatedAt *time.Time `json:"image_created_at,omitempty"`
}

// activityJSON is the wire shape of one history entry.
type activityJSON struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"device_id"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
	OperatedBy string    `json:"operated_by,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListLocks(w http.ResponseWriter, _ *http.Request) {
	ids := s.coordinator.LockIDs()
	sort.Strings(ids)

	locks := make([]lockJSON, 0, len(ids))
	for _, id := range ids {
		snap, err := s.coordinator.LockSnapshot(id)
		if err != nil {
			continue
		}
		locks = append(locks, lockToJSON(snap))
	}
	s.respond(w, http.StatusOK, locks)
}

func (s *Server) handleGetLock(w http.ResponseWriter, r *http.Request) {
	snap, err := s.coordinator.LockSnapshot(chi.URLParam(r, "deviceID"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "lock not found")
		return
	}
	s.respond(w, http.StatusOK, lockToJSON(snap))
}

func (s *Server) handleListDoorbells(w http.ResponseWriter, _ *http.Request) {
	ids := s.coordinator.DoorbellIDs()
	sort.Strings(ids)

	doorbells := make([]doorbellJSON, 0, len(ids))
	for _, id := range ids {
		snap, err := s.coordinator.DoorbellSnapshot(id)
		if err != nil {
			continue
		}
		doorbells = append(doorbells, doorbellToJSON(snap))
	}
	s.respond(w, http.StatusOK, doorbells)
}

func (s *Server) handleGetDoorbell(w http.ResponseWriter, r *http.Request) {
	snap, err := s.coordinator.DoorbellSnapshot(chi.URLParam(r, "deviceID"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "doorbell not found")
		return
	}
	s.respond(w, http.StatusOK, doorbellToJSON(snap))
}

// handleLockCommand proxies a remote operation and feeds the command
// result back through reconciliation before responding, so the reply
// snapshot already reflects the outcome.
func (s *Server) handleLockCommand(operation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := chi.URLParam(r, "deviceID")
		if _, err := s.coordinator.LockSnapshot(deviceID); err != nil {
			s.respondError(w, http.StatusNotFound, "lock not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.commandTimeout)
		defer cancel()

		acts, err := s.runCommand(ctx, operation, deviceID)
		if err != nil {
			s.logger.Error("remote operation failed",
				"device_id", deviceID, "operation", operation, "error", err)
			s.respondError(w, http.StatusBadGateway, "remote operation failed")
			return
		}

		for _, act := range acts {
			if _, err := s.coordinator.HandleActivity(act); err != nil &&
				!errors.Is(err, stream.ErrUnknownDevice) {
				s.logger.Warn("command result rejected",
					"device_id", deviceID, "error", err)
			}
		}

		snap, err := s.coordinator.LockSnapshot(deviceID)
		if err != nil {
			s.respondError(w, http.StatusNotFound, "lock not found")
			return
		}
		s.respond(w, http.StatusOK, lockToJSON(snap))
	}
}

func (s *Server) runCommand(ctx context.Context, operation, deviceID string) ([]activity.Activity, error) {
	switch operation {
	case "lock":
		return s.commander.Lock(ctx, deviceID)
	default:
		return s.commander.Unlock(ctx, deviceID)
	}
}

func (s *Server) handleDeviceActivities(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := s.history.Recent(r.Context(), deviceID, limit)
	if err != nil {
		s.logger.Error("history query failed", "device_id", deviceID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	out := make([]activityJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, activityJSON{
			ID:         rec.ID,
			DeviceID:   rec.DeviceID,
			Kind:       string(rec.Kind),
			Action:     rec.Action,
			OccurredAt: rec.OccurredAt,
			OperatedBy: rec.OperatedBy,
		})
	}
	s.respond(w, http.StatusOK, out)
}

func lockToJSON(snap stream.Event) lockJSON {
	return lockJSON{
		DeviceID:     snap.DeviceID,
		LockStatus:   string(snap.LockStatus),
		DoorState:    string(snap.DoorState),
		BridgeOnline: snap.BridgeOnline,
		At:           snap.At,
	}
}

func doorbellToJSON(snap stream.Event) doorbellJSON {
	out := doorbellJSON{
		DeviceID: snap.DeviceID,
		ImageURL: snap.ImageURL,
	}
	if !snap.ImageCreatedAt.IsZero() {
		at := snap.ImageCreatedAt
		out.ImageCreatedAt = &at
	}
	return out
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, map[string]string{"error": message})
}

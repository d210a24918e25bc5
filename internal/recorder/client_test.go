package recorder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hallgate/augustlink/internal/device"
	"github.com/hallgate/augustlink/internal/infrastructure/config"
)

// newInfluxStub serves the ping endpoint and captures line-protocol
// writes.
func newInfluxStub(t *testing.T, writes chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			w.WriteHeader(http.StatusNoContent)
		case "/api/v2/write":
			buf := make([]byte, 64*1024)
			n, _ := r.Body.Read(buf)
			if writes != nil {
				writes <- string(buf[:n])
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testInfluxConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "home",
		Bucket:        "augustlink",
		BatchSize:     1,
		FlushInterval: 1,
	}
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestConnect_AndHealthCheck(t *testing.T) {
	server := newInfluxStub(t, nil)
	defer server.Close()

	c, err := Connect(testInfluxConfig(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close() //nolint:errcheck // Test cleanup

	if !c.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestRecordLockStatus_WritesPoint(t *testing.T) {
	writes := make(chan string, 4)
	server := newInfluxStub(t, writes)
	defer server.Close()

	c, err := Connect(testInfluxConfig(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close() //nolint:errcheck // Test cleanup

	at := time.UnixMilli(1582007217000).UTC()
	c.RecordLockStatus("lock-1", device.LockStatusLocked, at)
	c.Flush()

	select {
	case line := <-writes:
		for _, want := range []string{"lock_status", "device_id=lock-1", `status="locked"`, "locked=true"} {
			if !strings.Contains(line, want) {
				t.Errorf("write %q missing %q", line, want)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no write received")
	}
}

func TestRecord_NoopWhenClosed(t *testing.T) {
	server := newInfluxStub(t, nil)
	defer server.Close()

	c, err := Connect(testInfluxConfig(server.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	c.Close() //nolint:errcheck // Closing is the point of the test

	// Must not panic or block.
	c.RecordDoorState("lock-1", device.DoorStateOpen, time.Now())
	c.Flush()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() after Close = %v, want ErrNotConnected", err)
	}
}

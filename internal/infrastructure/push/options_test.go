package push

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hallgate/augustlink/internal/infrastructure/config"
)

func testPushConfig() config.PushConfig {
	return config.PushConfig{
		Enabled: true,
		Broker: config.PushBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "augustlink-test",
		},
		TopicPrefix: "august/push",
		QoS:         1,
		Reconnect: config.PushReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(testPushConfig())

	if len(opts.Servers) != 1 {
		t.Fatalf("got %d brokers, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q", got)
	}
	if opts.ClientID != "augustlink-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect should be enabled")
	}
	if !opts.CleanSession {
		t.Error("CleanSession should be enabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testPushConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)
	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig not set")
	}
	if opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("MinVersion = %d", opts.TLSConfig.MinVersion)
	}
}

func TestBuildClientOptions_Auth(t *testing.T) {
	cfg := testPushConfig()
	cfg.Auth.Username = "consumer"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)
	if opts.Username != "consumer" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
}

func TestBuildStatusPayload(t *testing.T) {
	payload := buildStatusPayload("augustlink-test", "offline", "graceful_shutdown")

	var decoded map[string]string
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v\n%s", err, payload)
	}
	if decoded["status"] != "offline" {
		t.Errorf("status = %q", decoded["status"])
	}
	if decoded["client_id"] != "augustlink-test" {
		t.Errorf("client_id = %q", decoded["client_id"])
	}
	if decoded["reason"] != "graceful_shutdown" {
		t.Errorf("reason = %q", decoded["reason"])
	}

	online := buildStatusPayload("augustlink-test", "online", "")
	if strings.Contains(online, "reason") {
		t.Errorf("online payload should omit reason: %s", online)
	}
}

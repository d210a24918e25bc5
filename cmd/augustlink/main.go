// augustlink - August smart lock cloud link
//
// This is the main entry point for the augustlink daemon. It signs in
// to the August cloud, discovers the account's locks and doorbells,
// then keeps local state fresh by reconciling the activity feed poll
// with push notifications. State is served over a local HTTP/WebSocket
// API and optionally recorded to InfluxDB.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hallgate/augustlink/internal/activitylog"
	"github.com/hallgate/augustlink/internal/api"
	"github.com/hallgate/augustlink/internal/cloud"
	"github.com/hallgate/augustlink/internal/infrastructure/config"
	"github.com/hallgate/augustlink/internal/infrastructure/database"
	"github.com/hallgate/augustlink/internal/infrastructure/logging"
	"github.com/hallgate/augustlink/internal/infrastructure/push"
	"github.com/hallgate/augustlink/internal/recorder"
	"github.com/hallgate/augustlink/internal/stream"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// bootstrapTimeout bounds the initial sign-in and device discovery.
const bootstrapTimeout = 2 * time.Minute

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting augustlink",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Sign in to the August cloud
	august := cloud.New(cfg.August, log.With("component", "cloud"))
	if err := authenticate(ctx, august, cfg.August); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	log.Info("authenticated with August cloud",
		"login_method", cfg.August.LoginMethod,
		"token_expires_at", august.TokenExpiresAt(),
	)

	// Open database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	store, err := activitylog.NewStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initialising activity log: %w", err)
	}

	// Connect to InfluxDB (optional)
	var influxClient *recorder.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = recorder.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the coordinator and register the account's devices
	var rec stream.Recorder
	if influxClient != nil {
		rec = influxClient
	}
	coordinator := stream.NewCoordinator(rec, log.With("component", "stream"))

	houseIDs, err := discoverDevices(ctx, august, coordinator, influxClient, log)
	if err != nil {
		return fmt.Errorf("discovering devices: %w", err)
	}
	log.Info("devices registered",
		"locks", len(coordinator.LockIDs()),
		"doorbells", len(coordinator.DoorbellIDs()),
		"houses", len(houseIDs),
	)

	// Connect the push transport (optional)
	if cfg.Push.Enabled {
		pushClient, err := push.Connect(cfg.Push)
		if err != nil {
			return fmt.Errorf("connecting to push broker: %w", err)
		}
		defer func() {
			log.Info("disconnecting push transport")
			if closeErr := pushClient.Close(); closeErr != nil {
				log.Error("error closing push transport", "error", closeErr)
			}
		}()
		pushClient.SetLogger(log.With("component", "push"))

		if err := pushClient.SubscribeDevices(func(deviceID string, payload []byte) error {
			_, handleErr := coordinator.HandlePush(deviceID, time.Now().UTC(), payload)
			return handleErr
		}); err != nil {
			return fmt.Errorf("subscribing to push topics: %w", err)
		}
		log.Info("push transport connected",
			"broker", fmt.Sprintf("%s:%d", cfg.Push.Broker.Host, cfg.Push.Broker.Port),
			"topic", pushClient.Topics().AllDevices(),
		)
	} else {
		log.Info("push transport disabled")
	}

	// Start the activity feed poller
	poller := stream.NewPoller(august, store, coordinator, houseIDs,
		cfg.Poll, log.With("component", "poller"))

	// Start the local API
	server := api.NewServer(cfg.API, cfg.WebSocket, coordinator, august, store,
		cfg.August.GetCommandTimeout(), log.With("component", "api"))

	errCh := make(chan error, 2)
	go tokenRefreshLoop(ctx, august, log)
	go func() {
		if runErr := poller.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			errCh <- fmt.Errorf("poller: %w", runErr)
		}
	}()
	go func() {
		if runErr := server.Run(ctx); runErr != nil {
			errCh <- fmt.Errorf("api: %w", runErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, cleaning up")
	log.Info("augustlink stopped")
	return nil
}

// authenticate performs the session handshake, walking the two-factor
// validation flow interactively when the cloud demands it.
func authenticate(ctx context.Context, august *cloud.Client, cfg config.AugustConfig) error {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	auth, err := august.Authenticate(ctx)
	if err != nil && !errors.Is(err, cloud.ErrValidationRequired) {
		return err
	}

	if cfg.InstallID == "" {
		// Reusing this id on later runs skips repeat validation.
		fmt.Fprintf(os.Stderr, "Generated install id %s; add it to august.install_id in the config.\n",
			auth.InstallID)
	}

	if auth.State != cloud.AuthStateRequiresValidation {
		return nil
	}

	// Two-factor validation: the cloud sends a code to the account's
	// email or phone, which we read from stdin.
	if err := august.SendVerificationCode(ctx); err != nil {
		return fmt.Errorf("requesting verification code: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Verification code sent via %s. Enter code: ", cfg.LoginMethod)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading verification code: %w", err)
	}
	code := strings.TrimSpace(line)

	if _, err := august.ValidateVerificationCode(ctx, code); err != nil {
		return fmt.Errorf("validating code: %w", err)
	}
	return nil
}

// tokenRefreshLoop rotates the access token before it expires. Tokens
// live for months; a failed attempt just retries on the next tick.
func tokenRefreshLoop(ctx context.Context, august *cloud.Client, log *logging.Logger) {
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !august.ShouldRefresh() {
				continue
			}
			if err := august.RefreshAccessToken(ctx); err != nil {
				log.Warn("access token refresh failed", "error", err)
				continue
			}
			log.Info("access token refreshed", "expires_at", august.TokenExpiresAt())
		}
	}
}

// discoverDevices loads the account's houses, locks and doorbells and
// registers them with the coordinator. Returns the house ids to poll.
func discoverDevices(ctx context.Context, august *cloud.Client,
	coordinator *stream.Coordinator, influxClient *recorder.Client,
	log *logging.Logger) ([]string, error) {

	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	houses, err := august.GetHouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching houses: %w", err)
	}
	known := make(map[string]bool, len(houses))
	houseIDs := make([]string, 0, len(houses))
	for _, house := range houses {
		known[house.HouseID] = true
		houseIDs = append(houseIDs, house.HouseID)
	}

	locks, err := august.GetLocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching locks: %w", err)
	}
	for _, lock := range locks {
		if !lock.IsOperable() {
			log.Warn("skipping lock without operate permission",
				"device_id", lock.DeviceID(), "name", lock.DeviceName())
			continue
		}
		if !known[lock.HouseID()] {
			// Activities for this lock will never arrive via polling,
			// but push and direct commands still work.
			log.Warn("lock belongs to an unlisted house",
				"device_id", lock.DeviceID(), "house_id", lock.HouseID())
		}
		detail, err := august.GetLockDetail(ctx, lock.DeviceID())
		if err != nil {
			return nil, fmt.Errorf("fetching lock %s: %w", lock.DeviceID(), err)
		}
		if err := coordinator.AddLock(detail); err != nil {
			return nil, fmt.Errorf("registering lock %s: %w", lock.DeviceID(), err)
		}
		if influxClient != nil {
			influxClient.RecordBattery(detail.DeviceID(), detail.BatteryLevel(), time.Now().UTC())
		}
		log.Info("lock registered",
			"device_id", lock.DeviceID(), "name", lock.DeviceName(),
			"battery", detail.BatteryLevel())
	}

	doorbells, err := august.GetDoorbells(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching doorbells: %w", err)
	}
	for _, bell := range doorbells {
		detail, err := august.GetDoorbellDetail(ctx, bell.DeviceID())
		if err != nil {
			return nil, fmt.Errorf("fetching doorbell %s: %w", bell.DeviceID(), err)
		}
		if err := coordinator.AddDoorbell(detail); err != nil {
			return nil, fmt.Errorf("registering doorbell %s: %w", bell.DeviceID(), err)
		}
		log.Info("doorbell registered",
			"device_id", bell.DeviceID(), "name", bell.DeviceName(), "online", bell.IsOnline())
	}

	return houseIDs, nil
}

// getConfigPath returns the configuration file path.
// Uses AUGUSTLINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AUGUSTLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

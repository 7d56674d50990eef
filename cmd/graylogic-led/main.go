// Gray Logic LED - light state synchronisation daemon
//
// This is the main entry point for the LED controller. It keeps one light
// in sync with MQTT: commands on cmnd/led/* change the light, the committed
// state is persisted and republished on stat/led/*, and the last state is
// restored after a restart.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-led/internal/api"
	"github.com/nerrad567/gray-logic-led/internal/driver"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-led/internal/led"
	"github.com/nerrad567/gray-logic-led/internal/storage"
	"github.com/nerrad567/gray-logic-led/migrations"
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

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Only initialisation failures are returned; once the render loop is
// running, every runtime failure is logged and the daemon keeps going.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Gray Logic LED",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(getConfigPath(), log)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version, cfg.Device.ID)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Durable store
	backend, db, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	kv, err := storage.Open(backend, cfg.LED.Namespace)
	if err != nil {
		return fmt.Errorf("%w: opening namespace: %w", led.ErrInitialization, err)
	}
	persister := led.NewPersister(kv, log)

	initial := persister.Load(ctx, cfg.TickInterval())
	log.Info("state restored",
		"namespace", kv.Namespace(),
		"power", initial.Power,
		"hsb", initial.HSBPayload(),
		"mode", initial.ModePayload(),
	)

	store := led.NewStore(initial)
	channel, err := led.NewChannel(cfg.LED.QueueCapacity)
	if err != nil {
		return err
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	topics := mqttClient.Topics()
	publisher := led.NewPublisher(mqttClient, topics, log)
	loop := led.NewLoop(cfg.TickInterval(), cfg.LED.RainbowSubsample,
		channel, store, newDriver(cfg.LED.Driver, log), persister, publisher, log)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
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
		loop.AddObserver(led.TelemetryObserver(influxClient, cfg.Device.ID))
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)
	loop.AddObserver(led.BroadcastObserver(hub))

	controller := led.NewController(cfg.TickInterval(), store, channel, publisher, topics, log)

	if cfg.API.Enabled {
		apiServer, apiErr := startAPI(ctx, cfg, log, controller, store, channel, mqttClient, db, hub)
		if apiErr != nil {
			return apiErr
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		//nolint:errcheck // Run only returns ctx.Err() on shutdown
		loop.Run(loopCtx)
	}()

	// The loop is already draining the channel when the first command
	// can arrive.
	if err := controller.Start(mqttClient); err != nil {
		stopLoop()
		<-loopDone
		return err
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	<-loopDone

	log.Info("Gray Logic LED stopped")
	return nil
}

func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_LED_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads path. A missing default config file falls back to the
// built-in configuration; an explicitly configured path must exist.
func loadConfig(path string, log *logging.Logger) (*config.Config, error) {
	cfg, err := config.Load(path)
	switch {
	case err == nil:
		log.Info("configuration loaded", "path", path)
		return cfg, nil
	case path == defaultConfigPath && errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
		if validateErr := cfg.Validate(); validateErr != nil {
			return nil, fmt.Errorf("validating config: %w", validateErr)
		}
		log.Info("no configuration file, using defaults", "path", path)
		return cfg, nil
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}
}

// openBackend opens the durable key/value backend selected by
// led.storage_backend. The returned DB is nil for the memory backend.
func openBackend(ctx context.Context, cfg *config.Config, log *logging.Logger) (storage.Backend, *database.DB, error) {
	if cfg.LED.StorageBackend == "memory" {
		log.Warn("using memory storage backend, state will not survive a restart")
		return storage.NewMemoryBackend(), nil, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database connected", "path", cfg.Database.Path)

	return storage.NewSQLiteBackend(db.DB), db, nil
}

func newDriver(name string, log *logging.Logger) driver.Driver {
	if name == "none" {
		return driver.Nop{}
	}
	return driver.NewLogDriver(log.With("component", "driver").Logger)
}

func startAPI(ctx context.Context, cfg *config.Config, log *logging.Logger,
	controller *led.Controller, store *led.Store, channel *led.Channel,
	mqttClient *mqtt.Client, db *database.DB, hub *api.Hub) (*api.Server, error) {
	deps := api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Commands:    controller,
		State:       store,
		Queue:       channel,
		MQTT:        mqttClient,
		ExternalHub: hub,
		Version:     version,
	}
	if db != nil {
		deps.DB = db
	}

	server, err := api.New(deps)
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting API server: %w", err)
	}
	return server, nil
}

func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

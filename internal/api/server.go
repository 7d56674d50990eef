package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/led"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// CommandSubmitter accepts raw commands. *led.Controller implements it.
type CommandSubmitter interface {
	Submit(kind led.CommandKind, payload []byte) error
}

// StateReader returns the canonical state. *led.Store implements it.
type StateReader interface {
	Snapshot() led.LightState
}

// QueueStats reports update channel occupancy. *led.Channel implements it.
type QueueStats interface {
	Len() int
	Cap() int
}

// ConnectionChecker reports broker connectivity. *mqtt.Client implements it.
type ConnectionChecker interface {
	IsConnected() bool
}

// DBStatser reports connection pool statistics. *database.DB implements it.
type DBStatser interface {
	Stats() sql.DBStats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Commands    CommandSubmitter
	State       StateReader
	Queue       QueueStats        // optional
	MQTT        ConnectionChecker // optional
	DB          DBStatser         // optional
	ExternalHub *Hub              // If set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for the LED controller.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	logger      *logging.Logger
	commands    CommandSubmitter
	state       StateReader
	queue       QueueStats
	mqtt        ConnectionChecker
	db          DBStatser
	version     string
	startTime   time.Time
	server      *http.Server
	hub         *Hub
	externalHub bool               // true if hub was injected externally
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, commands, state)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Commands == nil {
		return nil, fmt.Errorf("command submitter is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("state reader is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger.With("component", "api"),
		commands:  deps.Commands,
		state:     deps.State,
		queue:     deps.Queue,
		mqtt:      deps.MQTT,
		db:        deps.DB,
		version:   deps.Version,
		startTime: time.Now(),
	}

	// The render loop broadcasts through the hub, so main usually creates
	// it before the server.
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub (unless injected) and
// launches the HTTP listener in a background goroutine. The server can be
// stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
		go s.hub.Run(srvCtx)
	}
	s.hub.SetInitial(led.EventStateChanged, func() any { return s.state.Snapshot() })

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

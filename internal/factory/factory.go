package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/musikspil/internal/controller"
	"github.com/mcoot/musikspil/internal/dependencies/clock"
	"github.com/mcoot/musikspil/internal/dependencies/random"
	"github.com/mcoot/musikspil/internal/dispatcher"
	"github.com/mcoot/musikspil/internal/display"
	"github.com/mcoot/musikspil/internal/services/identity"
	"github.com/mcoot/musikspil/internal/services/poller"
	"github.com/mcoot/musikspil/internal/services/prefs"
	"github.com/mcoot/musikspil/internal/session"
	"github.com/mcoot/musikspil/internal/storage"
	"github.com/mcoot/musikspil/internal/storage/file"
	"github.com/mcoot/musikspil/internal/storage/memory"
	redisstorage "github.com/mcoot/musikspil/internal/storage/redis"
	"github.com/mcoot/musikspil/internal/transport"
	"github.com/mcoot/musikspil/internal/web"
	"github.com/mcoot/musikspil/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// Output format constants
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputNone = "none"
)

// Config holds configuration for the application factory
type Config struct {
	// ServerURL is the game server base URL; requests go to ServerURL + "/api"
	ServerURL string
	// RequestTimeout bounds one request. Zero uses transport.DefaultTimeout.
	RequestTimeout time.Duration

	// StorageType selects the local storage backend ("memory", "file" or "redis").
	// If empty, defaults to "memory".
	StorageType string
	// StatePath is the state file used when StorageType is "file"
	StatePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	// PollInterval between state requests. Zero uses poller.DefaultInterval.
	PollInterval time.Duration
	// Controller holds the round task intervals. Zero values use the defaults.
	Controller controller.Config

	// Output receives painted screens. Nil discards them.
	Output io.Writer
	// OutputFormat is "text", "json" or "none". If empty, defaults to "text".
	OutputFormat string
	// Painter receives every update in addition to Output (optional)
	Painter display.Painter

	// DisplayAddr starts the display mirror on this address when set
	DisplayAddr string
	// CoversDir serves cover art for the display mirror (optional)
	CoversDir string

	// Logger is the application logger (optional).
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// App contains all wired client components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Identity   *identity.Service
	Prefs      *prefs.Service
	Client     *transport.Client
	Session    *session.Model
	Controller *controller.Controller
	Poller     *poller.Poller
	Dispatcher *dispatcher.Dispatcher

	// Display mirror, nil unless DisplayAddr is set
	Hub           *sse.Hub
	Broadcaster   *sse.Broadcaster
	DisplayServer *web.Server

	logger    *slog.Logger
	cancel    context.CancelFunc
	serveErr  chan error
	teardown  sync.Once
	tearErr   error
	displayUp bool
}

// Endpoint returns the single action endpoint for a server base URL
func Endpoint(serverURL string) string {
	return strings.TrimRight(serverURL, "/") + "/api"
}

// NewStorage opens the configured local storage backend
func NewStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		if cfg.StatePath == "" {
			return nil, errors.New("StatePath required when StorageType is file")
		}
		fileStore, err := file.New(cfg.StatePath)
		if err != nil {
			return nil, err
		}
		return fileStore, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'file' or 'redis'", storageType)
	}
}

// New creates a new client with all dependencies wired. It resolves the
// device identity, so it may touch storage but never the game server.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("ServerURL is required")
	}

	store, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(ctx, cfg, store, clock.New(), random.New())
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// newWithDependencies wires an App around the given dependencies (useful for testing)
func newWithDependencies(ctx context.Context, cfg Config, store storage.Storage, clk clock.Clock, rnd random.Random) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	identityService := identity.New(store, clk, rnd, logger)
	deviceID, err := identityService.GetOrCreateDeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device identity: %w", err)
	}

	app := &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Identity: identityService,
		Prefs:    prefs.New(store, logger),
		Client:   transport.NewClient(Endpoint(cfg.ServerURL), deviceID, cfg.RequestTimeout, logger),
		Session:  session.New(),
		logger:   logger,
	}

	painters := display.Multi{}
	if p := outputPainter(cfg); p != nil {
		painters = append(painters, p)
	}
	if cfg.Painter != nil {
		painters = append(painters, cfg.Painter)
	}
	if cfg.DisplayAddr != "" {
		app.Hub = sse.NewHub(logger)
		app.Broadcaster = sse.NewBroadcaster(app.Hub, logger)
		painters = append(painters, app.Broadcaster)

		router := web.NewRouter(web.RouterConfig{
			Logger:      logger,
			Hub:         app.Hub,
			Broadcaster: app.Broadcaster,
			StaticDir:   cfg.CoversDir,
		})
		serverCfg := web.DefaultServerConfig()
		serverCfg.Addr = cfg.DisplayAddr
		app.DisplayServer = web.NewServer(router, serverCfg, logger)
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = poller.DefaultInterval
	}

	app.Controller = controller.New(app.Session, painters, clk, rnd, cfg.Controller, logger)
	app.Poller = poller.New(app.Client, app.Session, app.Controller, clk, pollInterval, logger)
	app.Dispatcher = dispatcher.New(app.Client, app.Session, app.Poller, app.Controller, app.Prefs, clk, logger)

	return app, nil
}

func outputPainter(cfg Config) display.Painter {
	if cfg.Output == nil {
		return nil
	}
	switch cfg.OutputFormat {
	case OutputJSON:
		return display.NewJSON(cfg.Output)
	case OutputNone:
		return nil
	default:
		return display.NewText(cfg.Output)
	}
}

// Init loads startup data and starts the background loops. Failures to load
// categories or the version fall back to defaults and are not errors.
func (a *App) Init(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.DisplayServer != nil {
		if err := a.DisplayServer.Listen(); err != nil {
			cancel()
			return err
		}
		go a.Hub.Run()
		a.serveErr = make(chan error, 1)
		go func() {
			a.serveErr <- a.DisplayServer.Serve()
		}()
		a.displayUp = true
	}

	a.Dispatcher.LoadPreferences(runCtx)
	a.Dispatcher.LoadCategories(runCtx)
	a.Dispatcher.LoadVersion(runCtx)

	a.Controller.Start(runCtx)
	a.Poller.Start(runCtx)

	a.logger.Debug("client started",
		slog.String("device_id", a.Client.DeviceID()),
		slog.Bool("display", a.displayUp))
	return nil
}

// DisplayAddr returns the bound display mirror address, or "" when disabled
func (a *App) DisplayAddr() string {
	if a.DisplayServer == nil {
		return ""
	}
	return a.DisplayServer.Addr()
}

// Teardown stops the loops and the display mirror and closes storage.
// Safe to call more than once.
func (a *App) Teardown(ctx context.Context) error {
	a.teardown.Do(func() {
		a.Poller.Stop()
		a.Controller.Stop()
		if a.cancel != nil {
			a.cancel()
		}

		var errs []error
		if a.displayUp {
			// Open SSE streams hold Shutdown until the hub closes them
			a.Hub.Close()
			if err := a.DisplayServer.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			if err := <-a.serveErr; err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
		a.tearErr = errors.Join(errs...)
	})
	return a.tearErr
}

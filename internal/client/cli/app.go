package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/client"
	"edupocket/internal/client/config"
	"edupocket/internal/client/freshness"
	"edupocket/internal/client/netwatch"
	"edupocket/internal/client/remote"
	"edupocket/internal/client/services"
	"edupocket/internal/client/syncx"
	"edupocket/internal/logging"
)

// App owns every wired component of the client. All state is carried here and
// injected downwards; nothing in the lower layers is global.
type App struct {
	config   *config.Config
	log      logging.Logger
	repos    *client.Repositories
	api      *remote.HTTPClient
	monitor  *netwatch.Monitor
	registry *syncx.Registry

	classSvc    *services.ClassService
	rosterSvc   *services.RosterService
	wallSvc     *services.WallPostService
	activitySvc *services.ActivityService
	snapshotSvc *services.SnapshotService
	surveySvc   *services.SurveyService

	// session context the commands operate in
	userID   string
	schoolID string
	termID   string
}

// NewApp wires the full client from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := remote.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)

	store := cache.NewStore(repos.Snapshots, log)
	gate := freshness.NewGate(cfg.FreshnessCooldown, log)
	seq := cache.NewSeqTracker()
	monitor := netwatch.NewMonitor(api, log)

	a := &App{
		config:      cfg,
		log:         log,
		repos:       repos,
		api:         api,
		monitor:     monitor,
		registry:    syncx.NewRegistry(log),
		classSvc:    services.NewClassService(repos.Classes, api, store, gate, seq, monitor, log),
		rosterSvc:   services.NewRosterService(repos.Students, repos.Parents, api, log),
		wallSvc:     services.NewWallPostService(repos.WallPosts, api, store, gate, seq, monitor, log),
		activitySvc: services.NewActivityService(repos.Activities, api, store, monitor, log),
		snapshotSvc: services.NewSnapshotService(api, store, log),
		surveySvc:   services.NewSurveyService(cache.NewMergeCache(store, "survey"), api, log),
	}

	a.registry.Register(syncx.NewWallPostHandler(repos.WallPosts, api, log))
	a.registry.Register(syncx.NewActivityHandler(repos.Activities, api, log))
	a.registry.Register(a.surveySvc.Handler())

	monitor.OnOnline(func() {
		go func() {
			if err := a.registry.RunAll(context.Background()); err != nil {
				log.Warn(context.Background(), "background sync finished with errors", "error", err)
			}
		}()
	})

	return a, nil
}

func (a *App) getStatus() string {
	mode := "offline"
	if a.monitor.IsOnline() {
		mode = "online"
	}
	if a.schoolID != "" {
		return fmt.Sprintf("(%s %s)", a.schoolID, mode)
	}
	return fmt.Sprintf("(%s)", mode)
}

// Run starts the connectivity watcher and the REPL, blocking until the user
// exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	a.monitor.Check(ctx)
	go a.monitor.Watch(ctx, a.config.OnlineCheckInterval)

	fmt.Println("EduPocket CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close releases the database and the API client.
func (a *App) Close() {
	if err := a.api.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close API client", "error", err)
	}
	if err := a.repos.DB.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close database", "error", err)
	}
}

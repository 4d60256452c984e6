// Package internal provides the App struct that wires all components of
// boardly together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cosmic-jellyfish/boardly/internal/cli"
	"github.com/cosmic-jellyfish/boardly/internal/core"
	"github.com/cosmic-jellyfish/boardly/internal/storage"
)

// App holds all service dependencies for boardly. Stores are constructed
// once here and passed by reference; nothing is package-global ambient
// state.
type App struct {
	BasePath string
	Config   *core.Config

	// Persistence substrate.
	KV storage.KV

	// Domain stores.
	Users      core.UserStore
	Activities core.ActivityStore
	Tasks      core.TaskStore
	Transfer   *core.Transfer
}

// NewApp creates and wires all components. basePath is the directory holding
// the persisted slots and the .boardlyrc file.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	configMgr := core.NewConfigManager(basePath)
	cfg, err := configMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := configMgr.Validate(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	app.KV = storage.NewFileKV(filepath.Join(basePath, "data"))

	ids := core.NewUUIDGenerator()
	clock := core.NewSystemClock()

	app.Users = core.NewUserStore(app.KV)
	app.Activities = core.NewActivityStore(app.KV, ids)
	app.Tasks = core.NewTaskStore(app.KV, app.Activities, ids, clock, cfg.UserID)
	app.Transfer = core.NewTransfer(app.Tasks, app.Activities, app.Users, clock)

	// CLI layer wiring.
	cli.BasePath = basePath
	cli.Cfg = cfg
	cli.Users = app.Users
	cli.Activities = app.Activities
	cli.Tasks = app.Tasks
	cli.Transfer = app.Transfer

	return app, nil
}

// Initialize runs the explicit first-run setup: the assignee cache gets its
// default entry (with legacy migration), and an empty board belonging to a
// user who has not finished onboarding is seeded with the sample tasks.
// Reads never mutate storage; this is the only seeding entry point.
func (a *App) Initialize() error {
	if err := a.Users.Initialize(); err != nil {
		return err
	}
	if a.Config.SeedOnboarding && !a.Users.HasCompletedOnboarding() {
		if err := a.Tasks.SeedOnboardingTasks(); err != nil {
			return err
		}
	}
	return nil
}

// ResolveBasePath determines the boardly data directory. It checks the
// BOARDLY_HOME env var, then walks up from the working directory looking for
// a .boardlyrc, and falls back to the working directory.
func ResolveBasePath() string {
	if home := os.Getenv("BOARDLY_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for cur := dir; ; {
		if _, err := os.Stat(filepath.Join(cur, ".boardlyrc")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return dir
}

package cli

import (
	"github.com/cosmic-jellyfish/boardly/internal/core"
)

// Service dependencies injected by the App at startup.
var (
	// BasePath is the workspace directory.
	BasePath string
	// Cfg is the loaded workspace configuration.
	Cfg *core.Config
	// Tasks is the task store.
	Tasks core.TaskStore
	// Activities is the activity store.
	Activities core.ActivityStore
	// Users is the user profile and assignee-cache store.
	Users core.UserStore
	// Transfer handles export and import.
	Transfer *core.Transfer
)

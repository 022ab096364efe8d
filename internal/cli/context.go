package cli

import (
	"github.com/mrz1836/taskmd/internal/config"
	"github.com/mrz1836/taskmd/internal/domain"
	"github.com/mrz1836/taskmd/internal/store"
	"github.com/mrz1836/taskmd/internal/workspace"
)

// env bundles the resolved workspace, its config, and a store over it.
// Commands open one env at the start of their run function.
type env struct {
	ws    *workspace.Workspace
	cfg   *domain.Config
	store *store.Store
}

// openEnv resolves the workspace from the global --dir flag, loads the
// cached config, and builds a store.
func openEnv(flags *GlobalFlags) (*env, error) {
	ws, err := workspace.Find(flags.Dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(ws.MetaDir)
	if err != nil {
		return nil, err
	}
	s := store.New(ws.TasksDir(cfg), ws.MetaDir, cfg, store.Options{})
	return &env{ws: ws, cfg: cfg, store: s}, nil
}

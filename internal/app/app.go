package app

import (
	"fmt"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/content"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/directory"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/session"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/state"
)

// Application bundles the wired components the UI layer talks to.
type Application struct {
	Config    *Config
	Sessions  *session.Store
	Directory *directory.InMemory
	Content   *content.Store
}

// New wires the application: durable state, registered-user directory,
// content feed, and the session store, with comment events feeding
// notifications.
func New(cfg *Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}

	store, err := state.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("app: open state store: %w", err)
	}

	repo, err := session.NewStateRepository(store)
	if err != nil {
		return nil, fmt.Errorf("app: build repository: %w", err)
	}

	dir := directory.NewInMemory()
	if cfg.Session.SeedDemoAccount {
		if err := dir.SeedDemo(); err != nil {
			return nil, fmt.Errorf("app: seed directory: %w", err)
		}
	}

	sessions, err := session.NewStore(session.Config{
		Repository: repo,
		Directory:  dir,
	})
	if err != nil {
		return nil, fmt.Errorf("app: build session store: %w", err)
	}

	feed := content.NewStore()
	if cfg.Content.SeedFeed {
		feed.Seed()
	}
	feed.Subscribe(sessions)

	return &Application{
		Config:    cfg,
		Sessions:  sessions,
		Directory: dir,
		Content:   feed,
	}, nil
}

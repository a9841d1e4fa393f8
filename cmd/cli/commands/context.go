package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/internal/config"
	"github.com/jakechorley/relief-coordinator/pkg/db"
)

// Migrator applies pending schema migrations and reports the resulting version
type Migrator interface {
	RunMigrations(ctx context.Context) (int64, error)
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Migrator Migrator
	Logger   *zap.Logger
	LogFile  string
	Ctx      context.Context
}

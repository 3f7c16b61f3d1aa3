package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/clients/rosterclient"
	"github.com/summitpines/bunkmate/pkg/core/runs"
	"github.com/summitpines/bunkmate/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	RosterClient *rosterclient.Client
	Database     db.Database
	Runs         *runs.Manager
	Logger       *zap.Logger
	Ctx          context.Context
}

package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"schedly-service/internal/config"
)

// App holds the shared dependencies of all handlers and storage methods.
type App struct {
	DB  *pgxpool.Pool
	Log *zap.Logger
	Cfg *config.Config
}

func New(pool *pgxpool.Pool, log *zap.Logger, cfg *config.Config) *App {
	return &App{DB: pool, Log: log, Cfg: cfg}
}

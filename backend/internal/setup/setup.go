package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/msgboard/backend/internal/handler"
	"github.com/itchan-dev/msgboard/backend/internal/service"
	"github.com/itchan-dev/msgboard/backend/internal/storage/mongo"
	"github.com/itchan-dev/msgboard/backend/internal/storage/pg"
	"github.com/itchan-dev/msgboard/backend/internal/storage/sqlite"
	"github.com/itchan-dev/msgboard/backend/internal/utils"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/jwt"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        service.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	ThreadGC       *service.ThreadGarbageCollector
	Config         *config.Config
}

// OpenStorage connects the store selected by storage.driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	switch cfg.Public.Storage.Driver {
	case config.DriverMongo:
		return mongo.New(ctx, cfg)
	case config.DriverPostgres:
		return pg.New(ctx, cfg)
	case config.DriverSqlite:
		return sqlite.Open(cfg.Public.Storage.Sqlite.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Public.Storage.Driver)
	}
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return WithStorage(storage, cfg), nil
}

// WithStorage wires services and handlers around an already opened store.
func WithStorage(storage service.Storage, cfg *config.Config) *Dependencies {
	validator := utils.NewPostValidator(cfg.Public.Board.MaxTextLength)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	thread := service.NewThread(storage, validator, &cfg.Public)
	reply := service.NewReply(storage, validator, &cfg.Public)
	moderation := service.NewModeration(storage)
	gc := service.NewThreadGarbageCollector(storage, storage, cfg.Public.Board.MaxThreadsPerBoard)

	return &Dependencies{
		Storage:        storage,
		Handler:        handler.New(thread, reply, moderation, storage, cfg),
		Jwt:            jwtService,
		AuthMiddleware: mw.NewAuth(jwtService),
		ThreadGC:       gc,
		Config:         cfg,
	}
}

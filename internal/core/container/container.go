package container

import (
	"database/sql"
	"time"

	auditLogRepo "assetledger/internal/auditlog"
	"assetledger/internal/cache"
	"assetledger/internal/events"
	"assetledger/internal/inventory/assets"
	"assetledger/internal/inventory/directory"
	"assetledger/internal/inventory/ledger"
	"assetledger/internal/repository"
	"assetledger/pkg/auditlog"

	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Dependencies struct {
	DB            *sql.DB
	Redis         *redis.Client
	Nats          *nats.Conn
	StateCacheTTL time.Duration
	Logger        *zap.Logger
}

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	Ledger           *ledger.Ledger
	AssetService     *assets.AssetService
	AssetHandler     *assets.AssetHandler
	LedgerHandler    *ledger.LedgerHandler
	AuditLogHandler  *auditLogRepo.AuditLogHandler
	DirectoryHandler *directory.DirectoryHandler
}

func NewAppContainer(deps Dependencies) *Container {
	repo := repository.NewRepository(deps.DB)
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository, deps.Logger)
	directoryRepo := directory.NewRepository(repo)

	assetLedger := ledger.NewLedger(
		ledger.NewRepository(repo),
		directoryRepo,
		deps.Logger.Named("ledger"),
		ledger.WithAuditLog(auditLog),
		ledger.WithPublisher(events.NewNATSPublisher(deps.Nats, deps.Logger.Named("events"))),
		ledger.WithStateCache(cache.NewRedisCache(deps.Redis, deps.StateCacheTTL, deps.Logger.Named("cache"))),
	)

	assetService := assets.NewAssetService(
		assets.NewRepository(repo),
		assetLedger,
		directoryRepo,
		auditLog,
		deps.Logger.Named("assets"),
	)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		Ledger:           assetLedger,
		AssetService:     assetService,
		AssetHandler:     assets.NewAssetHandler(assetService, deps.Logger),
		LedgerHandler:    ledger.NewLedgerHandler(assetLedger, deps.Logger),
		AuditLogHandler:  auditLogRepo.NewHandler(auditLogRepository),
		DirectoryHandler: directory.NewDirectoryHandler(directoryRepo),
	}
}

package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/config"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/db/repositories"
	"infinite-experiment/engagesync/internal/metrics"
	"infinite-experiment/engagesync/internal/providers"
	"infinite-experiment/engagesync/internal/services"
	"infinite-experiment/engagesync/internal/workers"
)

type Repositories struct {
	SyncConfig    *repositories.SyncConfigRepo
	SyncLog       *repositories.SyncLogRepo
	SyncLogReader *repositories.SyncLogReader
}

type Services struct {
	Cache           *common.CacheService
	SyncConfigCache *common.CachedSyncConfig
	SyncConfig      *services.SyncConfigService
	Audit           *services.AuditService
	RecordSync      *services.RecordSyncService
	HookSigner      *common.HookTokenSigner
	RedisQueue      *common.RedisQueueService
	// ConfigEvictions is set when instances share Redis
	ConfigEvictions *common.ConfigEvictionBus
}

type Dependencies struct {
	Repo       *Repositories
	Services   *Services
	Metrics    *metrics.MetricsRegistry
	Dispatcher workers.Dispatcher
	SQLDB      *sqlx.DB
	Redis      *redis.Client
}

// InitDependencies wires repositories and services. redisClient may be nil
// when the local dispatch backend is used.
func InitDependencies(
	cfg *config.Config,
	gormDB *gorm.DB,
	sqlDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	repos := &Repositories{
		SyncConfig:    repositories.NewSyncConfigRepo(gormDB),
		SyncLog:       repositories.NewSyncLogRepo(gormDB),
		SyncLogReader: repositories.NewSyncLogReader(sqlDB),
	}

	policy := services.AllowAllPolicy{}
	cacheSvc := common.NewCacheService(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	configCache := common.NewCachedSyncConfig(repos.SyncConfig, cacheSvc, cfg.Cache.TTL).WithMetrics(metricsReg)
	auditSvc := services.NewAuditService(repos.SyncLog, repos.SyncLogReader, policy)

	recordSync := services.NewRecordSyncService(
		services.NewMappingResolver(configCache, policy),
		providers.NewCleverTapProvider(cfg.Delivery.Timeout),
		auditSvc,
		metricsReg,
	)

	// with several instances a write has to reach every cache
	var evictor services.SyncConfigEvictor = configCache
	var evictionBus *common.ConfigEvictionBus
	if redisClient != nil {
		evictionBus = common.NewConfigEvictionBus(redisClient, constants.ConfigEvictionChannel, configCache)
		evictor = evictionBus
	}

	svcs := &Services{
		Cache:           cacheSvc,
		SyncConfigCache: configCache,
		SyncConfig:      services.NewSyncConfigService(repos.SyncConfig, evictor),
		Audit:           auditSvc,
		RecordSync:      recordSync,
		HookSigner:      common.NewHookTokenSigner([]byte(cfg.Auth.HookSecret)),
		ConfigEvictions: evictionBus,
	}
	if redisClient != nil {
		svcs.RedisQueue = common.NewRedisQueueService(redisClient)
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		SQLDB:    sqlDB,
		Redis:    redisClient,
	}, nil
}

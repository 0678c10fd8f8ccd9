package cli

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/internal/handler"
	"github.com/noah-isme/course-advisor-api/internal/repository"
	"github.com/noah-isme/course-advisor-api/internal/router"
	"github.com/noah-isme/course-advisor-api/internal/service"
	"github.com/noah-isme/course-advisor-api/pkg/cache"
	"github.com/noah-isme/course-advisor-api/pkg/config"
	"github.com/noah-isme/course-advisor-api/pkg/database"
	"github.com/noah-isme/course-advisor-api/pkg/export"
)

// application holds the long-lived resources of a running server.
type application struct {
	db     *sqlx.DB
	redis  *redis.Client
	engine *gin.Engine
	logger *zap.Logger
}

// newApplication wires repositories, services and handlers:
// Repository -> Service -> Handler -> Router.
func newApplication(cfg *config.Config, logr *zap.Logger) (*application, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db, database.MigrateUp, logr); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Redis only backs the optional major cache; the server runs without it.
	var rdb *redis.Client
	if cfg.Majors.CacheEnabled {
		rdb, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, major cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	validate := validator.New()

	planRepo := repository.NewPlanRepository(db)
	cacheRepo := repository.NewCacheRepository(rdb)
	catalogRepo := repository.NewCatalogRepository(cfg.Catalog.BaseURL, nil, cfg.Catalog.Timeout, metrics)
	majorRepo, err := repository.NewMajorRepository(cfg.Majors.CatalogueURL, nil, cfg.Majors.Timeout, metrics)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logr.Info("major table loaded", zap.Int("programs", majorRepo.ProgramCount()))

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Majors.CacheTTL, logr, rdb != nil)
	catalogSvc := service.NewCatalogService(catalogRepo, validate, logr)
	majorSvc := service.NewMajorService(majorRepo, cacheSvc, cfg.Majors.CacheTTL, logr)
	planSvc := service.NewPlanService(planRepo, catalogRepo, metrics, validate, logr)
	conflictSvc := service.NewConflictService(planSvc)
	exportSvc := service.NewExportService(planSvc, service.ExportConfig{Location: exportLocation(cfg.Export.Timezone, logr)}, logr,
		nil, nil, nil, export.NewICSExporter("-//course-advisor-api//plan export//EN"))

	checks := map[string]handler.Pinger{"postgres": planRepo}
	if rdb != nil {
		checks["redis"] = cacheRepo
	}

	engine := router.Setup(cfg, router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Majors:  handler.NewMajorHandler(majorSvc),
		Plans:   handler.NewPlanHandler(planSvc, conflictSvc, exportSvc),
		Health:  handler.NewHealthHandler(metrics, checks, logr),
	}, metrics, logr)

	return &application{db: db, redis: rdb, engine: engine, logger: logr}, nil
}

func (a *application) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
}

func exportLocation(name string, logr *zap.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logr.Warn("unknown export timezone, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-advisor-api/api/swagger"
	"github.com/noah-isme/course-advisor-api/internal/handler"
	"github.com/noah-isme/course-advisor-api/internal/middleware"
	"github.com/noah-isme/course-advisor-api/internal/service"
	"github.com/noah-isme/course-advisor-api/pkg/config"
	"github.com/noah-isme/course-advisor-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-advisor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-advisor-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Majors  *handler.MajorHandler
	Plans   *handler.PlanHandler
	Health  *handler.HealthHandler
}

// Setup builds the gin engine with global middleware and all routes.
func Setup(cfg *config.Config, h Handlers, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled && metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.Health.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses")
		{
			courses.GET("", h.Catalog.GetCourse)
			courses.GET("/search", h.Catalog.Search)
		}

		api.GET("/majors/:major", h.Majors.Get)

		plans := api.Group("/users/:userID/plans")
		{
			plans.GET("", h.Plans.ListPlans)
			plans.POST("", h.Plans.CreatePlan)
			plans.GET("/:planID", h.Plans.GetPlan)
			plans.POST("/:planID/sections", h.Plans.AddSection)
			plans.DELETE("/:planID/sections/:sectionID", h.Plans.RemoveSection)
			plans.PUT("/:planID/session", h.Plans.AttachSession)
			plans.DELETE("/:planID/session", h.Plans.DetachSession)
			plans.GET("/:planID/conflicts", h.Plans.Conflicts)
			plans.GET("/:planID/export", h.Plans.Export)
		}
	}

	return r
}

// Package dependency provides dependency injection for the application.
package dependency

import (
	"gorm.io/gorm"

	"github.com/concilia/backend/config"
	"github.com/concilia/backend/internal/application/usecase/chart"
	"github.com/concilia/backend/internal/application/usecase/comparison"
	"github.com/concilia/backend/internal/domain/valueobject"
	"github.com/concilia/backend/internal/infra/server/router"
	"github.com/concilia/backend/internal/integration/entrypoint/controller"
	"github.com/concilia/backend/internal/integration/entrypoint/middleware"
	"github.com/concilia/backend/internal/integration/parser"
	"github.com/concilia/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB) *Injector {
	// Create repositories
	comparisonRepo := persistence.NewComparisonRepository(db)
	chartRepo := persistence.NewChartRepository(db)
	ruleRepo := persistence.NewKeywordRuleRepository(db)

	// Create the artifact parser
	artifactParser := parser.NewParser()

	// Matching tolerances come from configuration; defaults keep every
	// tolerance at zero so only exact matches pair on a stock deployment.
	matchingConfig := valueobject.MatchingConfig{
		DayTolerance:        cfg.Comparison.DayTolerance,
		AmountEpsilonCents:  cfg.Comparison.AmountEpsilonCents,
		BalanceEpsilonCents: cfg.Comparison.BalanceEpsilonCents,
		TolerateChartErrors: cfg.Comparison.TolerateChartErrors,
	}

	// Create comparison use cases
	runComparisonUseCase := comparison.NewRunComparisonUseCase(
		comparisonRepo,
		chartRepo,
		ruleRepo,
		artifactParser,
		matchingConfig,
	)
	getComparisonUseCase := comparison.NewGetComparisonUseCase(comparisonRepo)
	listComparisonsUseCase := comparison.NewListComparisonsUseCase(comparisonRepo)

	// Create chart use cases
	uploadChartUseCase := chart.NewUploadChartUseCase(chartRepo, artifactParser)
	listChartUseCase := chart.NewListChartUseCase(chartRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	comparisonController := controller.NewComparisonController(
		runComparisonUseCase,
		getComparisonUseCase,
		listComparisonsUseCase,
	)

	chartController := controller.NewChartController(
		uploadChartUseCase,
		listChartUseCase,
	)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var uploadRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(1000, cfg.Upload.RateLimitWindow)
	} else {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Upload.RateLimitAttempts, cfg.Upload.RateLimitWindow)
	}

	// Create router
	r := router.NewRouter(healthController, comparisonController, chartController, uploadRateLimiter)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}

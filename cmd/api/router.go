package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"intakeflow/internal/config"
	"intakeflow/internal/domain/dashboard"
	"intakeflow/internal/domain/firm"
	"intakeflow/internal/domain/intake"
	"intakeflow/internal/domain/lead"
	"intakeflow/internal/domain/scoring"
	"intakeflow/internal/logger"
	"intakeflow/internal/metrics"
	"intakeflow/internal/middleware"
	"intakeflow/internal/notify"
	"intakeflow/internal/pkg/jwt"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type app struct {
	router   *gin.Engine
	sessions *intake.Store
}

// newApp wires repositories, services and routes. mail may be nil.
func newApp(cfg *config.Config, db *gorm.DB, stream notify.Stream, m *metrics.Metrics, mail lead.HotLeadMailer, log logger.Logger) *app {
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	firmRepo := firm.NewRepository(db)
	leadRepo := lead.NewRepository(db)

	leadOpts := []lead.Option{lead.WithMetrics(m)}
	if mail != nil {
		leadOpts = append(leadOpts, lead.WithMailer(mail))
	}

	firmService := firm.NewService(firmRepo, cfg.PublicBaseURL, log)
	leadService := lead.NewService(leadRepo, firmRepo, stream,
		scoring.Options{EnforceMinBudget: cfg.EnforceMinBudget}, log, leadOpts...)
	sessions := intake.NewStore(cfg.IntakeSessionTTL)
	intakeService := intake.NewService(sessions, firmRepo, leadService, log)
	dashboardService := dashboard.NewService(leadRepo, stream, cfg.StatsLocation, m, log)

	origins := allowedOrigins(cfg)

	r := gin.New()
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(origins))
	r.Use(m.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	operator := []gin.HandlerFunc{middleware.JWTAuth(jwtService), middleware.OperatorOnly()}
	dashboardHandler := dashboard.NewHandler(dashboardService, dashboard.NewHub(log), origins, log)

	v1 := r.Group("/api/v1")
	{
		intake.RegisterRoutes(v1, intake.NewHandler(intakeService))

		dash := v1.Group("/dashboard", operator...)
		lead.RegisterRoutes(dash, lead.NewHandler(leadService))
		firm.RegisterRoutes(dash, firm.NewHandler(firmService))
		dashboard.RegisterRoutes(dash, dashboardHandler)
	}
	dashboard.RegisterWSRoutes(r.Group("", operator...), dashboardHandler)

	return &app{router: r, sessions: sessions}
}

// allowedOrigins is the configured list, plus the local dev frontends outside
// prod. HTTP CORS and the websocket origin check share it.
func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string{}, cfg.CORSAllowedOrigins...)
	if !cfg.IsProdLike() {
		origins = append(origins, devOrigins...)
	}
	return origins
}

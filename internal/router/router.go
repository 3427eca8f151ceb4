package router

import (
	"github.com/Siam456/flowtrance-finance-backend/internal/config"
	"github.com/Siam456/flowtrance-finance-backend/internal/handler"
	"github.com/Siam456/flowtrance-finance-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and registers all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.Issuer,
		cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	accountHandler := handler.NewAccountHandler(db, cfg.App.DefaultCurrency)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	txnHandler := handler.NewTransactionHandler(db)
	protected.POST("/transactions", txnHandler.Create)
	protected.GET("/transactions", txnHandler.List)
	protected.PUT("/transactions/:id", txnHandler.Update)
	protected.DELETE("/transactions/:id", txnHandler.Delete)
	protected.POST("/transactions/transfer", txnHandler.Transfer)

	targetHandler := handler.NewTargetSavingsHandler(db)
	protected.POST("/target-savings", targetHandler.Create)
	protected.GET("/target-savings", targetHandler.List)
	protected.PUT("/target-savings/:id", targetHandler.Update)
	protected.DELETE("/target-savings/:id", targetHandler.Delete)

	borrowingHandler := handler.NewBorrowingHandler(db)
	protected.POST("/borrowings", borrowingHandler.Create)
	protected.GET("/borrowings", borrowingHandler.List)
	protected.PUT("/borrowings/:id", borrowingHandler.Update)
	protected.PUT("/borrowings/:id/paid", borrowingHandler.TogglePaid)
	protected.DELETE("/borrowings/:id", borrowingHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	fixedHandler := handler.NewFixedExpenseHandler(db)
	protected.POST("/fixed-expenses", fixedHandler.Create)
	protected.GET("/fixed-expenses", fixedHandler.List)
	protected.PUT("/fixed-expenses/:id", fixedHandler.Update)
	protected.DELETE("/fixed-expenses/:id", fixedHandler.Delete)

	possibleHandler := handler.NewPossibleExpenseHandler(db)
	protected.POST("/possible-expenses", possibleHandler.Create)
	protected.GET("/possible-expenses", possibleHandler.List)
	protected.PUT("/possible-expenses/:id", possibleHandler.Update)
	protected.DELETE("/possible-expenses/:id", possibleHandler.Delete)
	protected.POST("/possible-expenses/:id/convert", possibleHandler.Convert)

	dashboardHandler := handler.NewDashboardHandler(db)
	protected.GET("/dashboard", dashboardHandler.Get)

	importExportHandler := handler.NewImportExportHandler(db)
	protected.GET("/export/csv", importExportHandler.ExportCSV)
	protected.GET("/export/xlsx", importExportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db, cfg.App.PageSize)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}

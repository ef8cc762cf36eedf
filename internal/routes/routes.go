package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/auth"
	"sendiab_backend/internal/handlers"
	"sendiab_backend/internal/middleware"
	"sendiab_backend/internal/models"
)

// RegisterRoutes wires every HTTP route onto the engine.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenIssuer,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")

	api.POST("/auth/login", appHandlers.AuthHandler.Login)
	api.GET("/plans", appHandlers.AccountHandler.Plans)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		authenticated.GET("/auth/session", appHandlers.AuthHandler.Session)
		authenticated.GET("/accounts/me", appHandlers.AccountHandler.Me)
		authenticated.POST("/readings", appHandlers.ReadingHandler.Submit)
		authenticated.GET("/readings", appHandlers.ReadingHandler.List)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens))
	admin.Use(middleware.RequireRole(models.AccountRoleAdmin))
	{
		admin.POST("/accounts", appHandlers.AdminHandler.CreateAccount)
		admin.GET("/accounts", appHandlers.AdminHandler.ListAccounts)
		admin.GET("/stats", appHandlers.AdminHandler.Stats)
	}
}

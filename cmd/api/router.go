package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager, c.UserService))
	{
		users.GET("", c.UserHandler.ListUsers)
		users.GET("/me", c.UserHandler.GetProfile)
		users.PATCH("/me", c.UserHandler.UpdateProfile)
		users.GET("/:id", c.UserHandler.GetUser)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		// Public - anonymous được đọc
		public := books.Group("")
		public.Use(middleware.OptionalAuthMiddleware(c.JWTManager, c.UserService))
		public.GET("", c.BookHandler.ListBooks)
		public.GET("/:id", c.BookHandler.GetBook)

		// Mutations - bắt buộc đăng nhập, quyền chi tiết do access policy quyết định
		protected := books.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager, c.UserService))
		protected.POST("", c.BookHandler.CreateBook)
		protected.PUT("/:id", c.BookHandler.UpdateBook)
		protected.PATCH("/:id", c.BookHandler.PatchBook)
		protected.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager, c.UserService),
		middleware.AdminMiddleware(),
	)
	{
		admin.GET("/books/export", c.BookHandler.ExportBooks)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := c.HealthCheck(checkCtx)
		data := gin.H{
			"status":       "ok",
			"version":      c.Config.App.Version,
			"dependencies": status,
		}

		if status["database"] != "up" {
			data["status"] = "degraded"
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database unavailable", data)
			return
		}

		response.Success(ctx, http.StatusOK, "", data)
	}
}

// Package http is the gin transport: routing, the bearer-token request gate,
// refresh-cookie handling and the JSON response envelope.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/service"
)

// Options configure the router beyond its service dependencies.
type Options struct {
	// AllowedOrigins is the CORS allow-list. Credentials (the refresh cookie)
	// are only shared with these origins.
	AllowedOrigins []string

	// SecureCookies switches the refresh cookie to Secure + SameSite=None for
	// cross-site production deployments.
	SecureCookies bool
}

// SetupRouter sets up the gin router with the session endpoint group, the
// protected user and task resources, and a health probe.
func SetupRouter(
	authService *service.AuthService,
	userService *service.UserService,
	taskService *service.TaskService,
	opts Options,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())

	// Unexpected failures fall through to a catch-all 500 envelope
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		abortError(c, http.StatusInternalServerError, "Internal server error")
	}))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandlers := NewAuthHandlers(authService, userService, opts.SecureCookies)
	taskHandlers := NewTaskHandlers(taskService)

	// Session endpoints: the refresh cookie is the only auth they use
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandlers.Register)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/refresh", authHandlers.Refresh)
		auth.POST("/logout", authHandlers.Logout)
	}

	// Protected resources behind the request gate
	users := router.Group("/users")
	users.Use(AuthMiddleware(authService))
	{
		users.GET("/me", authHandlers.Me)
	}

	tasks := router.Group("/tasks")
	tasks.Use(AuthMiddleware(authService))
	{
		tasks.GET("", taskHandlers.List)
		tasks.POST("", taskHandlers.Create)
		tasks.PUT("/:id", taskHandlers.Update)
		tasks.DELETE("/:id", taskHandlers.Delete)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authserver/internal/handler"
	"authserver/internal/middleware"
	"authserver/internal/service"
	"authserver/internal/token"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

// NewServer wires the handlers and the access guard onto the router. All
// collaborators are constructed once at startup and passed in; nothing is
// resolved from package-level state.
func NewServer(authService service.AuthService, profileService service.ProfileService, issuer *token.Manager, log *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		log:    log,
	}

	s.setupRoutes(authService, profileService, issuer)

	return s
}

func (s *Server) setupRoutes(authService service.AuthService, profileService service.ProfileService, issuer *token.Manager) {
	authHandler := handler.NewAuthHandler(authService, s.log)
	profileHandler := handler.NewProfileHandler(profileService, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)

	// Routes behind the access guard
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(issuer, s.log))
	{
		authRequired.GET("/protected", profileHandler.Protected)
		authRequired.GET("/profile", profileHandler.GetProfile)
		authRequired.PUT("/profile/description", profileHandler.UpdateDescription)
	}
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}

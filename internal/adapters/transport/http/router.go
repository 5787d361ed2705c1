package http

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerline/auth-service/internal/adapters/transport/http/dto"
	"github.com/ledgerline/auth-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/ledgerline/auth-service/internal/app/auth/service"
	authErrors "github.com/ledgerline/auth-service/internal/domain/auth/errors"
	"github.com/ledgerline/auth-service/internal/domain/auth/jwt"
	"github.com/ledgerline/auth-service/internal/infra/config"
)

// NewRouter wires all routes and middleware. The /protected group is the
// only token-gated surface; everything under it sees an authenticated
// subject and may only read that subject's own resources.
func NewRouter(svc appsvc.Service, jwtUtil jwt.JWTUtil, cfg *config.Config, zapLog *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(middleware.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.POST("/register", func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zapLog.Info("/register",
			zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
		)
		user, err := svc.Register(c.Request.Context(), body)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("%s created successfully", user.Email),
		})
	})

	router.POST("/login", func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zapLog.Info("/login",
			zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
		)

		issued, err := svc.Login(c.Request.Context(), body)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Login successful",
			"token":     issued.Token,
			"expiresIn": int(issued.TTL.Seconds()),
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	protected := router.Group("/protected")
	protected.Use(middleware.RequireAuth(jwtUtil))

	protected.GET("/account/balance", func(c *gin.Context) {
		uid, ok := middleware.Subject(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		account, err := svc.AccountBalance(c.Request.Context(), uid)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"Account": gin.H{
					"balance": account.Balance,
					"id":      account.ID,
				},
			},
		})
	})

	return router
}

func handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

package main

import (
	"fmt"

	"crypto-ramp-backend/internal/common/config"
	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/common/middleware"
	authhttp "crypto-ramp-backend/internal/features/auth/delivery/http"
	authredis "crypto-ramp-backend/internal/features/auth/repository/redis"
	authservice "crypto-ramp-backend/internal/features/auth/service"
	kychttp "crypto-ramp-backend/internal/features/kyc/delivery/http"
	kycservice "crypto-ramp-backend/internal/features/kyc/service"
	userhttp "crypto-ramp-backend/internal/features/user/delivery/http"
	userredis "crypto-ramp-backend/internal/features/user/repository/redis"
	userservice "crypto-ramp-backend/internal/features/user/service"
	"crypto-ramp-backend/internal/platform/kycprovider"
	"crypto-ramp-backend/internal/platform/mail"
	"crypto-ramp-backend/internal/platform/redis"

	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad()

	logger.Init("crypto-ramp-backend", cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb := redis.New(fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)

	userRepo := userredis.NewUserRepository(rdb)
	userSvc := userservice.NewUserService(userRepo)

	mailer := mail.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	authRepo := authredis.NewAuthRepository(rdb)
	authSvc := authservice.NewAuthService(
		authRepo,
		userSvc,
		mailer,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLDays)*24*time.Hour,
	)

	provider := kycprovider.NewClient(cfg.KYC.ProviderBaseURL, cfg.KYC.ProviderToken)
	kycSvc := kycservice.NewKYCService(userSvc, provider)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "init_data"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(authSvc)

	api := router.Group("/api/v1")
	authhttp.NewAuthHandler(authSvc, userSvc, cfg.Telegram.BotToken).RegisterRoutes(api, authRequired)
	userhttp.NewUserHandler(userSvc).RegisterRoutes(api)
	kychttp.NewKYCHandler(kycSvc).RegisterRoutes(api)

	addr := ":" + cfg.Server.Port
	logger.Info().Str("addr", addr).Msg("Starting HTTP server")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

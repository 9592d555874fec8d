package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"toystore/internal/auth"
	"toystore/internal/config"
	apphttp "toystore/internal/http"
	"toystore/internal/domain"
	"toystore/internal/ratelimit"
	"toystore/internal/repository/sqlite"
	"toystore/internal/service"
)

// Per-IP request budgets, matching the original deployment.
const (
	globalLimit       = 100
	globalLimitWindow = 15 * time.Minute
	loginLimit        = 5
	loginLimitWindow  = time.Minute
)

const msgTooManyLogins = "Demasiados intentos de inicio de sesión, inténtalo de nuevo en un minuto."

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	tokens, err := auth.NewTokenService(strings.TrimSpace(cfg.Auth.JWTSecret))
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	messageRepo := sqlite.NewMessageRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := productRepo.Init(ctx); err != nil {
		logger.Fatalf("init product repository: %v", err)
	}
	if err := messageRepo.Init(ctx); err != nil {
		logger.Fatalf("init message repository: %v", err)
	}

	userService := service.NewUserService(userRepo, tokens)
	productService := service.NewProductService(productRepo)
	messageService := service.NewMessageService(messageRepo)

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := userService.EnsureUser(ctx, cfg.Admin.Username, cfg.Admin.Password, domain.RoleAdmin); err != nil {
			logger.Fatalf("seed admin user: %v", err)
		}
		logger.Infof("admin user %q ready", cfg.Admin.Username)
	}

	var globalLimitMW, loginLimitMW gin.HandlerFunc
	if cfg.Redis.URL != "" {
		client, err := ratelimit.NewClient(cfg.Redis.URL)
		if err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
		defer client.Close()

		globalLimitMW = ratelimit.Middleware(
			ratelimit.NewLimiter(client, "global", globalLimit, globalLimitWindow), "", logger)
		loginLimitMW = ratelimit.Middleware(
			ratelimit.NewLimiter(client, "login", loginLimit, loginLimitWindow), msgTooManyLogins, logger)
		logger.Info("redis rate limiting enabled")
	} else {
		logger.Warn("redis url not set, rate limiting disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, productService, messageService, tokens, logger)
	handler.RegisterRoutes(router, globalLimitMW, loginLimitMW)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

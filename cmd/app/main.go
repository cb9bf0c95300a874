package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zunda_backend/internal/cache"
	"zunda_backend/internal/config"
	"zunda_backend/internal/db"
	httpServer "zunda_backend/internal/http"
	"zunda_backend/internal/http/handlers"
	"zunda_backend/internal/http/middleware"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/payment"
	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"
	"zunda_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	userCache := cache.NewUserCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer userCache.Close()

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	userRepo := repository.NewUserRepository(dbPool)
	giftRepo := repository.NewGiftRepository(dbPool)
	giftTxRepo := repository.NewGiftTransactionRepository(dbPool)
	txRepo := repository.NewTransactionRepository(dbPool)
	withdrawalRepo := repository.NewWithdrawalRepository(dbPool)

	hub := ws.NewHub()
	hub.StartCleanup()

	users := service.NewUserService(userRepo, userCache)
	auth := service.NewAuthService(userRepo)
	gifts := service.NewGiftService(dbPool, userRepo, giftRepo, giftTxRepo, users, hub)
	gateway := payment.NewClient(cfg.GatewayShopID, cfg.GatewaySecretKey)
	payments := service.NewPaymentService(dbPool, txRepo, userRepo, users, gateway, cfg.GatewayReturnURL)
	withdrawals := service.NewWithdrawalService(dbPool, withdrawalRepo, userRepo, users, cfg.MinWithdrawal)

	h := handlers.NewHandler(dbPool, auth, users, gifts, payments, withdrawals)
	healthHandler := handlers.NewHealthHandler(dbPool, version)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, h, healthHandler, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exited")
}

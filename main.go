// File: datex/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datex/config"
	"datex/cron"
	"datex/database"
	notificationRepoPkg "datex/database/repository/notification"
	productRepoPkg "datex/database/repository/product"
	userRepoPkg "datex/database/repository/user"
	"datex/handlers"
	"datex/middleware"
	"datex/routes"
	"datex/services/mailer"
	"datex/services/notification"
	"datex/services/product"
	"datex/services/reminder"
	"datex/services/user"
	"datex/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	productRepo := productRepoPkg.NewMongoProductRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	hub := notification.NewHub(utils.GetCacheClient())
	notificationService, err := notification.NewDefaultNotificationService(notificationRepo, hub)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	reminderPolicy := reminder.NewPolicy(notificationRepo, hub, config.AppConfig.InAppReminderDays)
	snapshotCache := product.NewSnapshotCache(utils.GetCacheClient())
	productService := product.NewDefaultProductService(productRepo, snapshotCache, reminderPolicy)
	userService := user.NewDefaultUserService(userRepo, utils.GetAuthCacheClient(), snapshotCache)

	// The sweep worker runs outside the request path. Without SMTP
	// configuration there is nothing for it to send, so it stays off.
	if smtpMailer, err := mailer.NewSMTPMailer(config.AppConfig); err != nil {
		logger.Sugar().Warnf("main: sweep worker disabled: %v", err)
	} else {
		sweeper := cron.NewSweeper(productRepo, userRepo, smtpMailer, config.AppConfig.EmailReminderDays)
		cron.InitSweepWorker(sweeper)
	}

	// handlers.
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(productService, userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterAuthRoutes(router, authHandler)
	routes.RegisterProductRoutes(router, productHandler)
	routes.RegisterNotificationRoutes(router, notificationHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}

package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mathscrusader/paygo-sub001/internal/config"
	"github.com/mathscrusader/paygo-sub001/internal/db"
	"github.com/mathscrusader/paygo-sub001/internal/events"
	"github.com/mathscrusader/paygo-sub001/internal/handlers"
	"github.com/mathscrusader/paygo-sub001/internal/logger"
	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/referral"
	"github.com/mathscrusader/paygo-sub001/internal/services/settlement"
	"github.com/mathscrusader/paygo-sub001/internal/services/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Log.Fatal("failed to connect database", zap.Error(err))
	}

	if err := gdb.AutoMigrate(
		&models.Profile{},
		&models.Transaction{},
		&models.ReferralReward{},
		&models.Withdrawal{},
		&models.WalletTransaction{},
	); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}

	// Settlement events are best effort: without Redis the core still
	// settles, only the external consumers go quiet.
	var pub *events.Publisher
	if cfg.RedisAddr != "" {
		rdb := events.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Log.Warn("redis unreachable, settlement events disabled", zap.Error(err))
		} else {
			pub = events.NewPublisher(rdb, cfg.EventChannel)
		}
	}

	walletSvc := wallet.NewWalletService(gdb)
	engine := settlement.NewRewardEngine(cfg.RewardAmount)
	approvalSvc := settlement.NewApprovalService(gdb, engine, pub)
	payoutSvc := settlement.NewPayoutService(gdb, walletSvc, pub)
	withdrawalSvc := settlement.NewWithdrawalService(gdb, walletSvc, pub)
	referralSvc := referral.NewService(gdb, engine)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}

	var googleH *handlers.GoogleOAuthHandler
	if cfg.GoogleClientID != "" {
		googleH = &handlers.GoogleOAuthHandler{
			DB:              gdb,
			JWTSecret:       cfg.JWTSecret,
			Expires:         cfg.JWTExpiresMin,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}
	}

	handlers.RegisterRoutes(app, handlers.RouteDeps{
		JWTSecret:  cfg.JWTSecret,
		Auth:       authH,
		Google:     googleH,
		Settlement: handlers.NewSettlementHandler(gdb, approvalSvc, payoutSvc, withdrawalSvc),
		Referral:   handlers.NewReferralHandler(referralSvc),
	})

	logger.Log.Info("listening", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/database"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/router"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedGuestRooms(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed guest rooms: %v", err)
	}
	if cfg.AdminSeedFile != "" {
		seeds, err := database.LoadAdminSeeds(cfg.AdminSeedFile)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to read admin seed file: %v", err)
		}
		if err := database.SeedAdmins(db, seeds); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed admins: %v", err)
		}
	}

	deps := router.Deps{
		Config:  cfg,
		Tokens:  utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL),
		Hub:     hub.New(),
		Gateway: services.NewMidtransService(cfg.MidtransServerKey, cfg.MidtransEnv),
	}

	if cfg.RedisAddr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})
		deps.Blacklist = utils.NewRedisBlacklist(deps.Redis)
		utils.InfoLogger.Printf("Session revocation backed by redis at %s", cfg.RedisAddr)
	} else {
		deps.Blacklist = utils.NewMemoryBlacklist()
	}

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		utils.InfoLogger.Println("SMTP not configured, registration mails are only logged")
	}
	deps.Notifier = services.NewNotifier(mailer)

	if !deps.Gateway.Enabled() {
		utils.InfoLogger.Println("Midtrans not configured, online invoice payment disabled")
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(db, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
	deps.Notifier.Wait()
	utils.InfoLogger.Println("Server stopped")
}

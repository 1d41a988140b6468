package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tmajors/daykeeper/internal/config"
	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
	"github.com/tmajors/daykeeper/internal/notify"
	"github.com/tmajors/daykeeper/internal/repository"
	"github.com/tmajors/daykeeper/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Build the dispatcher from whichever channels are configured
	mux := notify.NewMux()

	if cfg.SMTPHost != "" {
		mux.Handle(models.MethodEmail, notify.NewSMTPSender(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword))
		log.Printf("Email channel enabled (relay %s:%d)", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("Email channel disabled, SMTP_HOST not set")
	}

	if cfg.SMSGatewayURL != "" {
		mux.Handle(models.MethodSMS, notify.NewSMSSender(cfg.SMSGatewayURL))
		log.Println("SMS channel enabled")
	} else {
		log.Println("SMS channel disabled, SMS_GATEWAY_URL not set")
	}

	if cfg.TelegramToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("Failed to create Telegram API: %v", err)
		}
		mux.Handle(models.MethodApp, notify.NewTelegramSender(api))
		log.Println("App-notification channel enabled")
	} else {
		log.Println("App-notification channel disabled, TELEGRAM_TOKEN not set")
	}

	// Repositories
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Scan engine + scheduler
	engine := scheduler.NewEngine(
		[]scheduler.EntitySource{taskRepo, eventRepo, goalRepo},
		reminderRepo,
		mux,
		notificationRepo,
		time.Duration(cfg.BufferMinutes)*time.Minute,
	)
	sched := scheduler.New(engine, cfg.ScanInterval)
	sched.Start()

	// Graceful shutdown: finish the in-flight cycle, then close the pool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")
	sched.Stop()
}

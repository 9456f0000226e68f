package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeebot/internal/clock"
	"coffeebot/internal/config"
	"coffeebot/internal/fsm"
	"coffeebot/internal/handler"
	"coffeebot/internal/middleware"
	"coffeebot/internal/notify"
	"coffeebot/internal/repository/postgres"
	"coffeebot/internal/scheduler"
	"coffeebot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Random Coffee Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Open conversation state store
	states, err := fsm.Open(cfg.StateDir)
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}
	defer states.Close()

	logger.Info("Conversation state store opened", zap.String("dir", cfg.StateDir))

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	interestRepo := postgres.NewInterestRepo(db)
	meetingRepo := postgres.NewMeetingRepo(db)
	feedbackRepo := postgres.NewFeedbackRepo(db)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize services
	virtualClock := clock.New()
	notifier := notify.New(bot, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	profileService := service.NewProfileService(userRepo, interestRepo, logger)
	matchService := service.NewMatchService(userRepo, interestRepo, meetingRepo, notifier, logger, rng)
	lifecycleService := service.NewLifecycleService(userRepo, meetingRepo, virtualClock, notifier, logger)
	feedbackService := service.NewFeedbackService(meetingRepo, feedbackRepo, logger)
	statsService := service.NewStatsService(userRepo, meetingRepo, feedbackRepo, logger)

	// Initialize handler
	h := handler.NewHandler(
		bot, profileService, matchService, lifecycleService,
		feedbackService, statsService, states, virtualClock,
		cfg.AdminUserID, logger,
	)
	bot.Use(middleware.EnsureUser(profileService, logger))
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start the job scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(virtualClock, logger)
	registerJobs(sched, matchService, lifecycleService)
	sched.Start(ctx)

	logger.Info("Scheduler started")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()
	sched.Stop()

	logger.Info("Bot stopped gracefully")
}

// registerJobs sets up the fixed registry of recurring jobs, each with
// its normal cron-like cadence and the short interval used in test mode
func registerJobs(sched *scheduler.Scheduler, match *service.MatchService, lifecycle *service.LifecycleService) {
	sched.Register(&scheduler.Job{
		Name:        "weekly_pairing",
		Normal:      scheduler.Weekly(time.Monday, 9, 0),
		Accelerated: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := match.RunPairing(ctx)
			return err
		},
	})
	sched.Register(&scheduler.Job{
		Name:        "reminder_sweep",
		Normal:      scheduler.Hourly(0),
		Accelerated: time.Minute,
		Run:         lifecycle.ReminderSweep,
	})
	sched.Register(&scheduler.Job{
		Name:        "feedback_sweep",
		Normal:      scheduler.Daily(10, 0),
		Accelerated: 2 * time.Minute,
		Run:         lifecycle.FeedbackSweep,
	})
	sched.Register(&scheduler.Job{
		Name:        "reactivation_sweep",
		Normal:      scheduler.Weekly(time.Friday, 12, 0),
		Accelerated: 10 * time.Minute,
		Run:         lifecycle.ReactivationSweep,
	})
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations applied")
	return nil
}

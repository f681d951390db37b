package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Karavaev93/campusparking/config"
	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/bootstrap"
	"github.com/Karavaev93/campusparking/internal/cache"
	"github.com/Karavaev93/campusparking/internal/kafka"
	"github.com/Karavaev93/campusparking/internal/metrics"
	"github.com/Karavaev93/campusparking/internal/repository"
	"github.com/Karavaev93/campusparking/internal/service/bookings"
	"github.com/Karavaev93/campusparking/internal/service/slots"
	"github.com/Karavaev93/campusparking/internal/service/users"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Parking.SlotsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	m := metrics.NewMetrics()

	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	slotService := slots.NewSlotService(slotRepo, redisCache)
	bookingService := bookings.NewBookingService(
		bookingRepo,
		slotRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingsTopic,
		time.Duration(cfg.Parking.SlotHoldTTLSeconds)*time.Second,
		bookings.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		bookings.WithMetrics(m),
	)
	userService := users.NewUserService(userRepo, tokens)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Slots:    slotService,
		Bookings: bookingService,
		Users:    userService,
		Tokens:   tokens,
		Metrics:  m,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

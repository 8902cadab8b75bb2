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
	"github.com/magicalboonies/safaribook/config"
	"github.com/magicalboonies/safaribook/internal/bootstrap"
	"github.com/magicalboonies/safaribook/internal/cache"
	"github.com/magicalboonies/safaribook/internal/captcha"
	"github.com/magicalboonies/safaribook/internal/contact"
	"github.com/magicalboonies/safaribook/internal/kafka"
	"github.com/magicalboonies/safaribook/internal/paystack"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/magicalboonies/safaribook/internal/service/booking"
	"github.com/magicalboonies/safaribook/internal/service/packages"
	"github.com/magicalboonies/safaribook/internal/service/reviews"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.PackagesCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	gateway := paystack.NewClient(cfg.Paystack)
	verifier := captcha.NewRecaptchaVerifier(cfg.Captcha)
	relay := contact.NewRelay(cfg.Contact)

	packageRepo := repository.NewPackageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	packageService := packages.NewPackageService(packageRepo, redisCache)
	reviewService := reviews.NewReviewService(reviewRepo, packageRepo, verifier)
	bookingService := booking.NewBookingService(
		bookingRepo,
		packageRepo,
		redisCache,
		producer,
		gateway,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.MinLeadDays,
		cfg.Booking.MaxHorizonMonths,
		cfg.Booking.ChildDiscountPercent,
		time.Duration(cfg.Booking.SubmitLockSeconds)*time.Second,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Packages: packageService,
		Bookings: bookingService,
		Reviews:  reviewService,
		Contact:  relay,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

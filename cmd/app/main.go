package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/api"
	"github.com/malchincamp/campbooking/config"
	"github.com/malchincamp/campbooking/internal/bootstrap"
	"github.com/malchincamp/campbooking/internal/cache"
	"github.com/malchincamp/campbooking/internal/kafka"
	"github.com/malchincamp/campbooking/internal/repository"
	"github.com/malchincamp/campbooking/internal/service/auth"
	"github.com/malchincamp/campbooking/internal/service/booking"
	"github.com/malchincamp/campbooking/internal/service/camps"
	"github.com/malchincamp/campbooking/internal/service/catalog"
	"github.com/malchincamp/campbooking/internal/service/checkout"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.CampsCacheTTL)*time.Second,
		time.Duration(cfg.Catalog.ProductsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	campRepo := repository.NewCampRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	savedRepo := repository.NewSavedCampRepository(pool)

	authService := auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	campService := camps.NewCampService(logger, campRepo, bookingRepo, redisCache)
	catalogService := catalog.NewCatalogService(logger, productRepo, redisCache)
	bookingService := booking.NewBookingService(
		logger,
		bookingRepo,
		campRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		cfg.Booking.ServiceFeePercent,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMaxStayNights(cfg.Booking.MaxStayNights),
	)
	checkoutService := checkout.NewCheckoutService(
		logger,
		redisCache,
		productRepo,
		campRepo,
		orderRepo,
		producer,
		cfg.Kafka.OrderTopic,
		cfg.Kafka.BookingTopic,
		cfg.Booking.ServiceFeePercent,
	)

	handlers := bootstrap.Handlers{
		Auth:        api.NewAuthHandler(authService),
		Camps:       api.NewCampHandler(campService, bookingService, savedRepo),
		Bookings:    api.NewBookingHandler(bookingService),
		Products:    api.NewProductHandler(catalogService),
		Cart:        api.NewCartHandler(checkoutService),
		Orders:      api.NewOrderHandler(orderRepo),
		Reviews:     api.NewReviewHandler(reviewRepo, campRepo),
		Uploads:     api.NewUploadHandler(cfg.HTTP.UploadDir),
		AuthService: authService,
	}

	if err := bootstrap.Run(ctx, cfg, logger, handlers); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/config"
	"github.com/malchincamp/campbooking/internal/cache"
	"github.com/malchincamp/campbooking/internal/email"
	"github.com/malchincamp/campbooking/internal/kafka"
	"github.com/malchincamp/campbooking/internal/repository"
	"github.com/malchincamp/campbooking/internal/service/booking"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	)

	sender := email.NewSender(logger)

	notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer notifications.Close()
	go consume(ctx, logger, notifications, "notifications", func(ctx context.Context, msg kafkaGo.Message) error {
		return sender.HandleBooking(ctx, msg.Value)
	})

	orders := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrderTopic)
	defer orders.Close()
	go consume(ctx, logger, orders, "orders", func(ctx context.Context, msg kafkaGo.Message) error {
		return sender.HandleOrder(ctx, msg.Value)
	})

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				logger.Error("expire bookings", zap.Error(err))
			} else if len(expired) > 0 {
				logger.Info("expired stale holds", zap.Int("count", len(expired)))
			}

			completed, err := bookingService.CompleteFinishedBookings(ctx)
			if err != nil {
				logger.Error("complete bookings", zap.Error(err))
			} else if len(completed) > 0 {
				logger.Info("completed finished stays", zap.Int("count", len(completed)))
			}
		case s := <-sig:
			logger.Info("shutting down", zap.String("signal", s.String()))
			return
		}
	}
}

func consume(ctx context.Context, log *zap.Logger, c *kafka.Consumer, name string, handler kafka.Handler) {
	if err := c.Consume(ctx, handler); err != nil {
		log.Warn("consumer stopped", zap.String("consumer", name), zap.Error(err))
	}
}

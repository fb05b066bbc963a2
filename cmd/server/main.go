package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clutchden/clutchden-backend/internal/api"
	"github.com/clutchden/clutchden-backend/internal/config"
	"github.com/clutchden/clutchden-backend/internal/handler"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/kafka"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/observability"
	core "github.com/clutchden/clutchden-backend/internal/repository/postgres"
	service "github.com/clutchden/clutchden-backend/internal/services"
	"github.com/clutchden/clutchden-backend/pkg/contracts/topics"
	_ "github.com/lib/pq"
)

func main() {
	shutdown, _ := observability.Setup("clutchden-backend")
	defer shutdown(context.Background())

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	userRepo := core.NewPostgresUserRepository(db)
	adminAccountRepo := core.NewPostgresAdminAccountRepository(db)
	transactionRepo := core.NewPostgresTransactionRepository(db)
	withdrawalRepo := core.NewPostgresWithdrawalRepository(db)
	eventRepo := core.NewPostgresEventRepository(db)
	betRepo := core.NewPostgresBetRepository(db)
	winnerRepo := core.NewPostgresWinnerRepository(db)
	supportRepo := core.NewPostgresSupportRepository(db)
	notificationRepo := core.NewPostgresNotificationRepository(db)

	redisClient, err := redis.NewClient(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	authSvc := service.NewAuthService(userRepo, redisClient, cfg.JWTSecret)
	accountSvc := service.NewAccountService(userRepo, transactionRepo, withdrawalRepo, adminAccountRepo, notificationRepo, producer)
	betSvc := service.NewBetService(betRepo, eventRepo, redisClient, producer)
	eventSvc := service.NewEventService(eventRepo, redisClient)
	winnerSvc := service.NewWinnerService(winnerRepo)
	supportSvc := service.NewSupportService(supportRepo)
	adminSvc := service.NewAdminService(userRepo, transactionRepo, producer)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, topics.Transactions, "clutchden-notifications", notificationRepo)
	go consumer.Consume(context.Background())
	defer consumer.Close()

	h := handler.NewHandler(authSvc, accountSvc, betSvc, eventSvc, winnerSvc, supportSvc, adminSvc, db)
	router := api.SetupRouter(h, redisClient, cfg.JWTSecret)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

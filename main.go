package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"cooplog/internal/auth"
	"cooplog/internal/chickens/chicken_api"
	chicken_db "cooplog/internal/chickens/db"
	chickens "cooplog/internal/chickens/service"
	"cooplog/internal/config"
	"cooplog/internal/database/migrations"
	"cooplog/internal/kafka"
	"cooplog/internal/logger"
	"cooplog/internal/models"
	"cooplog/internal/production/db"
	"cooplog/internal/production/production_api"
	production "cooplog/internal/production/service"
	user_db "cooplog/internal/users/db"
	"cooplog/internal/users/user_api"
)

func connectPostgres(cfg *config.Config, log *logger.Logger) *bun.DB {
	dsn := cfg.Database.DSN()

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting CoopLog service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	bunDB := connectPostgres(cfg, log)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	defer runner.Close()

	var redisClient *redis.Client
	var tokenCache *auth.VerificationCache
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = auth.InitializeVerificationCache(cfg.Redis.Addr, log)
		if err != nil {
			log.Warn("AUTH", fmt.Sprintf("Redis unavailable, token verification will not be cached: %v", err))
		} else {
			tokenCache = auth.NewVerificationCache(redisClient)
			defer redisClient.Close()
		}
	}

	var kafkaProducer *kafka.Producer
	if cfg.Kafka.Enabled {
		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer kafkaProducer.Close()
		log.Info("KAFKA", "Kafka producer initialized successfully")

		requiredTopics := []string{
			cfg.Kafka.Topics.RecordCreated,
			cfg.Kafka.Topics.RecordUpdated,
			cfg.Kafka.Topics.RecordDeleted,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}

		// Activity log: every published production event is echoed into
		// the service log, one consumer per topic.
		consumerCtx, cancelConsumers := context.WithCancel(context.Background())
		defer cancelConsumers()
		for _, topic := range requiredTopics {
			consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID)
			defer consumer.Close()
			go consumer.Start(consumerCtx, func(event models.ProductionEvent) {
				log.LogKafka("CONSUME", event.Action, fmt.Sprintf("record %s owner %s count %d", event.RecordID, event.OwnerID, event.Count))
			})
		}
	} else {
		log.Info("KAFKA", "Kafka disabled, activity events will not be published")
	}

	// Services. The nil producer is fine: event publishing is
	// best-effort and skipped when no broker is configured.
	var events production.EventPublisher
	if kafkaProducer != nil {
		events = kafkaProducer
	}
	productionService := production.NewProductionService(&db.DB{Bun: bunDB}, events)
	chickenService := chickens.NewChickenService(&chicken_db.DB{Bun: bunDB})

	productionHandler := production_api.NewHandler(productionService, log)
	chickenHandler := chicken_api.NewHandler(chickenService, log)
	userHandler := user_api.NewHandler(&user_db.DB{Bun: bunDB}, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.OIDCIssuer, tokenCache))
		log.Info("AUTH", "Auth middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Route("/production", func(r chi.Router) {
				r.Post("/", productionHandler.LogProduction)
				r.Post("/validate", productionHandler.ValidateEntry)
				r.Get("/", productionHandler.ListRecords)
				r.Get("/summary/monthly", productionHandler.MonthlySummary)
				r.Get("/{recordId}", productionHandler.GetRecord)
				r.Put("/{recordId}", productionHandler.UpdateRecord)
				r.Delete("/{recordId}", productionHandler.DeleteRecord)
			})
			log.Info("ROUTER", "Production routes registered under /api/production")

			r.Route("/chickens", func(r chi.Router) {
				r.Post("/", chickenHandler.CreateChicken)
				r.Get("/", chickenHandler.ListChickens)
				r.Get("/{chickenId}", chickenHandler.GetChicken)
				r.Put("/{chickenId}", chickenHandler.UpdateChicken)
				r.Delete("/{chickenId}", chickenHandler.DeleteChicken)
			})
			log.Info("ROUTER", "Chicken routes registered under /api/chickens")

			r.Delete("/account", userHandler.DeleteAccount)
			log.Info("ROUTER", "Account deletion endpoint registered at /api/account")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("CoopLog service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "CoopLog service shutdown complete")
	}
}

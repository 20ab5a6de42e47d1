package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/floroz/ledger/internal/adapters/api"
	"github.com/floroz/ledger/internal/adapters/database"
	"github.com/floroz/ledger/internal/config"
	"github.com/floroz/ledger/internal/domain/items"
	"github.com/floroz/ledger/pkg/auth"
	"github.com/floroz/ledger/pkg/events"
)

const (
	outboxCapacity  = 1024
	relayBatchSize  = 10
	relayInterval   = 1 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Ledger API stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Record store
	codec := items.NewRecordCodec(cfg.MaxRecordSize)
	store, closeStore, err := openStore(ctx, cfg, codec, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Caller identity
	publicKey, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read JWT public key: %w", err)
	}
	signer, err := auth.NewSignerFromPublicKey(publicKey, cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to create token signer: %w", err)
	}

	// 3. Journal (optional)
	var (
		journal items.Journal
		relay   *events.OutboxRelay
	)
	if cfg.RabbitMQURL != "" {
		amqpConn, err := amqp091.Dial(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer amqpConn.Close()
		logger.Info("RabbitMQ Connected")

		publisher, err := events.NewRabbitMQPublisher(amqpConn, cfg.Exchange)
		if err != nil {
			return fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
		}
		defer publisher.Close()

		outbox := events.NewOutbox(outboxCapacity)
		journal = outbox
		relay = events.NewOutboxRelay(outbox, publisher, relayBatchSize, relayInterval, cfg.Exchange, logger)
	} else {
		logger.Warn("RABBITMQ_URL is not set, journal disabled")
	}

	// 4. Engine and API
	service := items.NewService(store, journal, logger)

	count, err := service.GetItemsCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to read record store: %w", err)
	}
	logger.Info("Record store opened", "store", cfg.Store, "count", count)

	path, handler := api.NewLedgerServiceRoutes(api.NewLedgerServiceHandler(service), signer)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Use h2c for HTTP/2 without TLS
	srv := &http.Server{
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	return serve(ctx, srv, ln, relay, shutdownTimeout, logger)
}

// openStore opens the configured record store backend. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, codec items.RecordCodec, logger *slog.Logger) (items.RecordStore, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse database config: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("unable to ping database: %w", err)
		}
		logger.Info("Postgres Connected")

		txManager := database.NewPostgresTransactionManager(pool, 3*time.Second)
		return database.NewPostgresStore(pool, txManager, codec), pool.Close, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Info("Redis Connected")

		return database.NewRedisStore(rdb, cfg.RedisKey, codec), func() { _ = rdb.Close() }, nil

	default:
		store, err := database.OpenLevelDBStore(cfg.LevelDBPath, codec)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open leveldb store: %w", err)
		}
		logger.Info("LevelDB opened", "path", cfg.LevelDBPath)

		return store, func() { _ = store.Close() }, nil
	}
}

package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"

	"github.com/feedgate/feedgate/adapters/events"
	"github.com/feedgate/feedgate/adapters/gateway"
	"github.com/feedgate/feedgate/adapters/ledger"
	"github.com/feedgate/feedgate/adapters/linksigner"
	"github.com/feedgate/feedgate/adapters/noncestore"
	"github.com/feedgate/feedgate/ports"
	"github.com/feedgate/feedgate/service"
	transport "github.com/feedgate/feedgate/transport/http"
)

func main() {
	//nolint:errcheck
	godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":9000"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nonce store: explicit memory mode wins, otherwise Redis when reachable,
	// in-process fallback when not.
	store := noncestore.New(ctx, noncestore.Config{
		ForceMemory: os.Getenv("NONCE_STORE") == "memory",
		RedisURL:    os.Getenv("REDIS_URL"),
	}, logger)
	defer store.Shutdown()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	bunStore := ledger.NewBunStore(db)

	// Instruction gateway credentials are checked at first use, not here:
	// a deployment that never publishes paid content runs without them.
	instructionGateway := gateway.NewClient(os.Getenv("PAYMENT_API_URL"), os.Getenv("PAYMENT_API_TOKEN"))

	// Signing key for short-lived content URLs. Generated per process for
	// now; a multi-instance deployment would load a shared key instead.
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate link signing key")
	}
	links := linksigner.NewJWTSigner(signKey, os.Getenv("CONTENT_BASE_URL"))

	eventPub := newEventPublisher(os.Getenv("REDIS_URL"), logger)

	authService := service.NewAuthService(store, eventPub, logger)
	accessService := service.NewAccessService(bunStore, bunStore, instructionGateway, links)
	publishService := service.NewPublishService(bunStore, instructionGateway, eventPub, logger)

	router := transport.SetupRouter(authService, accessService, publishService)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// newEventPublisher wires the Watermill Redis-stream publisher when Redis is
// configured, and drops events otherwise. Event delivery is best-effort
// either way.
func newEventPublisher(redisURL string, logger zerolog.Logger) ports.EventPublisher {
	if redisURL == "" {
		logger.Info().Msg("events: no redis URL configured, events disabled")
		return events.NopPublisher{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("events: invalid redis URL, events disabled")
		return events.NopPublisher{}
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redis.NewClient(opts),
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("events: failed to create publisher, events disabled")
		return events.NopPublisher{}
	}

	return events.NewWatermillPublisher(publisher)
}

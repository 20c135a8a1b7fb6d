package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/Juan-JM/SmartCart-Frotend/internal/api"
	"github.com/Juan-JM/SmartCart-Frotend/internal/cart"
	"github.com/Juan-JM/SmartCart-Frotend/internal/config"
	"github.com/Juan-JM/SmartCart-Frotend/internal/payments"
	"github.com/Juan-JM/SmartCart-Frotend/internal/session"
)

// app bundles the wired storefront components for one command run.
type app struct {
	session *session.Manager
	cart    *cart.Store
	api     *api.Client
	stripe  *payments.StripeProvider
}

// newApp wires the session manager, cart store and API client from the
// loaded configuration. The returned closer releases any backend
// connections and must be deferred.
func newApp(ctx context.Context) (*app, func(), error) {
	tokens := session.NewFileTokenStore(cfg.TokenPath)
	manager := session.NewManager(cfg.APIBaseURL, tokens, &http.Client{Timeout: cfg.Timeout}, logger)
	manager.Restore()

	authed := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: session.NewTransport(manager, nil),
	}

	snapshot, closer, err := newSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	store := cart.NewStore(snapshot, cfg.MediaBaseURL, logger)
	store.Restore(ctx)

	return &app{
		session: manager,
		cart:    store,
		api:     api.NewClient(cfg.APIBaseURL, authed),
		stripe:  payments.NewStripeProvider(cfg.StripeKey, cfg.StripeBaseURL, nil),
	}, closer, nil
}

// newSnapshot builds the cart snapshot backend selected by the
// configuration.
func newSnapshot(ctx context.Context) (cart.Snapshot, func(), error) {
	switch cfg.CartBackend {
	case config.BackendFile:
		return cart.NewFileSnapshot(cfg.CartPath), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return cart.NewRedisSnapshot(client, cfg.CartOwner), func() { client.Close() }, nil

	case config.BackendMongo:
		db, err := cart.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		snapshot := cart.NewMongoSnapshot(db, cfg.CartOwner)
		if err := snapshot.CreateIndexes(ctx); err != nil {
			logger.Warn("creating cart indexes failed", "error", err)
		}
		return snapshot, func() { _ = db.Client().Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown cart backend %q", cfg.CartBackend)
}

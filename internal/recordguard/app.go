// Package recordguard provides the medical record access service.
package recordguard

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/internal/recordguard/handler"
	"github.com/kart-io/recordguard/internal/recordguard/router"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/app"
	"github.com/kart-io/recordguard/pkg/component/mysql"
	"github.com/kart-io/recordguard/pkg/component/postgres"
	"github.com/kart-io/recordguard/pkg/component/redis"
	"github.com/kart-io/recordguard/pkg/security/csrf"
	"github.com/kart-io/recordguard/pkg/security/session"
)

// Name is the name of the application.
const Name = "recordguard"

const description = `RecordGuard - medical record access control service

The service decides who may view, print, or export a patient's medical
record, rate-limits record generation, protects state-changing operations
with one-time CSRF tokens, and keeps an append-only audit trail of every
decision and completed action.`

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("Medical record access control service"),
		app.WithDescription(description),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the record access service with the given options.
func Run(opts *Options) error {
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting recordguard service...")

	db, closeDB, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := store.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Infow("Database migration completed")

	factory := store.NewFactory(db)

	// Token stores: redis shares tokens and revocations across instances,
	// memory is for single-instance deployments.
	var csrfStore csrf.Store
	var revocations session.Store
	if opts.TokenStore == TokenStoreRedis {
		redisClient, err := redis.New(opts.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redisClient.Close()
		csrfStore = csrf.NewRedisStore(redisClient.Client())
		revocations = session.NewRedisStore(redisClient.Client())
	} else {
		csrfStore = csrf.NewMemoryStore(opts.CSRF.SweepInterval)
		revocations = session.NewMemoryStore(opts.CSRF.SweepInterval)
	}
	defer csrfStore.Close()
	defer revocations.Close()

	sessionMgr, err := session.New(
		session.WithOptions(opts.Session),
		session.WithStore(revocations),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	csrfMgr, err := csrf.New(opts.CSRF, csrfStore)
	if err != nil {
		return fmt.Errorf("failed to initialize csrf manager: %w", err)
	}

	identity := biz.NewIdentityService(factory)
	decision := biz.NewAccessDecisionService(factory)
	ratelimit := biz.NewRateLimitService(factory, opts.RateLimitHour, opts.RateLimitDay)
	audit := biz.NewAuditService(factory)

	gin.SetMode(opts.HTTP.Mode)
	engine := gin.New()
	router.Register(engine, sessionMgr, router.Handlers{
		Record: handler.NewRecordHandler(identity, decision, ratelimit, audit, csrfMgr),
		CSRF:   handler.NewCSRFHandler(identity, csrfMgr),
		Audit:  handler.NewAuditHandler(identity, audit),
	})

	srv := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", opts.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Infow("Shutting down...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Infow("Server exited")
	return nil
}

// openDatabase opens the relational backend selected by db-driver.
func openDatabase(opts *Options) (*gorm.DB, func() error, error) {
	switch opts.DBDriver {
	case DBDriverPostgres:
		client, err := postgres.New(opts.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return client.DB(), client.Close, nil
	default:
		client, err := mysql.New(opts.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mysql: %w", err)
		}
		return client.DB(), client.Close, nil
	}
}

package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/config"
	"github.com/iliyamo/seat-suggest/internal/database"
	"github.com/iliyamo/seat-suggest/internal/handler"
	"github.com/iliyamo/seat-suggest/internal/logger"
	"github.com/iliyamo/seat-suggest/internal/middleware"
	"github.com/iliyamo/seat-suggest/internal/queue"
	"github.com/iliyamo/seat-suggest/internal/repository"
	"github.com/iliyamo/seat-suggest/internal/router"
	"github.com/iliyamo/seat-suggest/internal/seating"
	"github.com/iliyamo/seat-suggest/internal/service"
	"github.com/iliyamo/seat-suggest/internal/utils"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	guards, err := seating.ParseGuards(cfg.Seats.AisleGuards)
	if err != nil {
		return fmt.Errorf("SEAT_AISLE_GUARDS: %w", err)
	}
	layout, err := seating.NewLayout(cfg.Seats.Rows, cfg.Seats.RowLength, guards...)
	if err != nil {
		return fmt.Errorf("seat layout: %w", err)
	}

	var db *sql.DB
	if cfg.UsesMySQL() {
		db, err = database.Open(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
		if err != nil {
			return err
		}
		defer db.Close()
		schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = database.EnsureSchema(schemaCtx, db)
		cancel()
		if err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled || cfg.UserStore == config.BackendRedis {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			if cfg.UserStore == config.BackendRedis {
				return errors.New("redis user store selected but redis is unreachable")
			}
			zl.Warn("redis unreachable; rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
		} else {
			defer rdb.Close()
		}
	}

	health := handler.NewHealthHandler(zl)
	if db != nil {
		health.Add("mysql", db.PingContext)
	}
	if rdb != nil {
		health.Add("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	var users service.UserStore
	switch cfg.UserStore {
	case config.BackendMySQL:
		users = repository.NewUserRepo(db)
	case config.BackendRedis:
		users = repository.NewRedisUserStore(rdb, cfg.Redis.Prefix)
	default:
		users = repository.NewFileUserStore(cfg.UserDBFile)
	}

	var source service.ReservationSource
	switch cfg.ReservationSource {
	case config.BackendMySQL:
		repo := repository.NewReservationRepo(db)
		if cfg.ReservationSeed != "" {
			if err := seedReservations(ctx, repo, cfg.ReservationSeed, zl); err != nil {
				return err
			}
		}
		source = repo
	default:
		source = repository.NewFileReservationSource(cfg.ReservationFile)
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.RabbitMQURL, zl)
		consumer := queue.NewAuditConsumer(cfg.RabbitMQURL, "", zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	auth := service.NewAuth(users, utils.NewHasher(cfg.BcryptCost), utils.NewTokens(cfg.JWTSecret), events, zl, cfg.AccessTTL())
	booking := service.NewBooking(source, layout, events, zl)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			zl.Info("request",
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	}))

	rg := router.Guards{
		Auth:  middleware.BearerAuth(auth, zl),
		Limit: middleware.NewTokenBucket(cfg.RateLimit, rdb, zl),
	}
	router.RegisterRoutes(e, health)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, zl), rg)
	router.RegisterBooking(e, handler.NewBookingHandler(booking, zl), rg)

	addr := ":" + cfg.Port
	zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
		zap.String("user_store", cfg.UserStore), zap.String("reservations", cfg.ReservationSource))
	return serve(ctx, e, addr)
}

// serve runs e until ctx is done and then shuts it down.  A listener that
// fails to start is returned as an error.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	startErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startErr <- err
		}
		close(startErr)
	}()

	select {
	case err := <-startErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// seedReservations copies a reserved.txt style file into MySQL.
func seedReservations(ctx context.Context, repo *repository.ReservationRepo, path string, zl *zap.Logger) error {
	seats, err := repository.NewFileReservationSource(path).Occupied(ctx)
	if err != nil {
		return fmt.Errorf("read reservation seed: %w", err)
	}
	added, err := repo.Seed(ctx, seats)
	if err != nil {
		return fmt.Errorf("seed reservations: %w", err)
	}
	zl.Info("reservations seeded", zap.String("file", path), zap.Int("added", added), zap.Int("total", len(seats)))
	return nil
}

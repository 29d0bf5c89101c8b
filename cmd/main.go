package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/cache"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/config"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/event"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/handler"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/idgen"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/metrics"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/repository"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/service"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/database"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/jwt"
	pkglog "github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/middleware"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/pubsub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "chatroom-service",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db, &domain.RoomModel{}, &domain.MessageModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// Initialize repositories
	roomRepo := repository.NewGormRoomRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Initialize ID generators
	idOpts := idgen.Options{NanoIDSize: cfg.IDGen.NanoIDSize, CUID2Length: cfg.IDGen.CUID2Length}
	roomIDs, err := idgen.New(cfg.IDGen.Room, idOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create room id generator")
	}
	messageIDs, err := idgen.New(cfg.IDGen.Message, idOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create message id generator")
	}

	// Initialize Redis cache
	var roomCache cache.RoomCache = cache.NoopRoomCache{}
	if cfg.Cache.Enabled {
		client, err := cache.Dial(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		roomCache = cache.NewRedisRoomCache(client, cfg.Cache.Prefix, cfg.Cache.TTL)
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("redis cache connected")
	}
	defer roomCache.Close()

	// Initialize event publisher
	publisher, err := pubsub.NewPublisher(cfg.PubSub)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}
	defer publisher.Close()
	events := event.NewEmitter(publisher)

	// Initialize services
	roomService := service.NewRoomService(roomRepo, roomIDs,
		service.WithCache(roomCache),
		service.WithEvents(events),
	)
	messageService := service.NewMessageService(roomRepo, messageRepo, messageIDs,
		service.WithEvents(events),
	)

	// Initialize auth middleware
	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessDuration)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token manager")
	}
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(roomService, messageService, authMiddleware)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(metrics.GinMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// Register routes
	httpHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", addr).
			Str("driver", cfg.Database.Driver).
			Str("room_ids", cfg.IDGen.Room).
			Str("message_ids", cfg.IDGen.Message).
			Msg("chatroom-service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return
	}
	logger.Info().Msg("server exited")
}

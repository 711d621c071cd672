package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/buildbot/internal/bot"
	"github.com/noah-isme/buildbot/internal/config"
	"github.com/noah-isme/buildbot/internal/database"
	"github.com/noah-isme/buildbot/internal/handler"
	"github.com/noah-isme/buildbot/internal/middleware"
	"github.com/noah-isme/buildbot/internal/repository"
	"github.com/noah-isme/buildbot/internal/router"
	"github.com/noah-isme/buildbot/internal/service"
	"github.com/noah-isme/buildbot/pkg/discord"
)

var (
	serveMigrate bool
	serveSync    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the Discord gateway and answer slash commands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.RequireDiscord(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, newLogger(cmd.OutOrStdout(), cfg))
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run database migrations before connecting")
	serveCmd.Flags().BoolVar(&serveSync, "sync-commands", false, "publish slash command definitions on startup")
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	db, err := database.ConnectPostgres(cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if serveMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	validate := validator.New(validator.WithRequiredStructEnabled())

	guildSettings := service.NewGuildSettingsService(
		repository.NewGuildSettingsRepository(db),
		redisClient,
		natsConn,
		service.GuildSettingsOptions{
			CacheSize:   cfg.GuildCacheSize,
			CacheTTL:    cfg.GuildCacheTTL,
			NATSSubject: cfg.NATSSubject,
		},
		logger,
	)
	guildSettings.Start(ctx)

	summaryService := service.NewSummaryService(
		guildSettings,
		discord.NewMessageClient(session, logger),
		repository.NewSubmissionRepository(db),
		repository.NewRejectionRepository(db),
		validate,
		logger,
	)
	seeHandler := handler.NewSeeHandler(summaryService, logger)

	b := bot.New(session, bot.Options{CommandTimeout: cfg.CommandTimeout}, logger)
	b.Register(seeHandler.Command())

	if serveSync {
		if err := b.SyncCommands(cfg.DiscordAppID, cfg.DiscordGuildID); err != nil {
			return err
		}
	}

	if err := b.Open(); err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close gateway session")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ServerHeader:          cfg.AppName,
		DisableStartupMessage: true,
	})
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{Gateway: b})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTPAddress())
	}()

	logger.Info().Str("addr", cfg.HTTPAddress()).Msg("bot running")

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("ops server stopped: %w", err)
		}
	}

	return shutdown(app, logger)
}

func shutdown(app *fiber.App, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	logger.Info().Msg("bot stopped")
	return nil
}

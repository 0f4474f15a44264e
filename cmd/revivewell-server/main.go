package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Murugesh1804/revivewell-final/internal/config"
	"github.com/Murugesh1804/revivewell-final/internal/dashboard"
	"github.com/Murugesh1804/revivewell-final/internal/domain/appointment"
	"github.com/Murugesh1804/revivewell-final/internal/domain/chat"
	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/identity"
	"github.com/Murugesh1804/revivewell-final/internal/domain/meeting"
	"github.com/Murugesh1804/revivewell-final/internal/domain/overview"
	"github.com/Murugesh1804/revivewell-final/internal/platform/auth"
	"github.com/Murugesh1804/revivewell-final/internal/platform/db"
	"github.com/Murugesh1804/revivewell-final/internal/platform/llm"
	"github.com/Murugesh1804/revivewell-final/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "revivewell-server",
		Short: "ReviveWell recovery care coordination server",
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd(), dashboardCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger.Info().Msg("database pool established")

			issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL())
			llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, logger)

			userRepo := identity.NewUserRepoPG(pool)
			profileRepo := identity.NewProfileRepoPG(pool)
			identitySvc := identity.NewService(userRepo, profileRepo, issuer)

			checkinSvc := checkin.NewService(checkin.NewRepoPG(pool), checkin.NewLLMInsights(llmClient), logger)
			apptSvc := appointment.NewService(appointment.NewRepoPG(pool), identitySvc)
			overviewSvc := overview.NewService(identitySvc, checkinSvc, apptSvc, time.Now)

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true

			e.Use(middleware.RequestID())
			e.Use(middleware.Logger(logger))
			e.Use(middleware.Recovery(logger))
			e.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				BurstSize:         cfg.RateLimitBurst,
			}))
			e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.CORSOrigins,
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
			}))

			e.GET("/health", func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})
			e.GET("/health/db", db.HealthHandler(pool))

			public := e.Group("/api")
			authed := e.Group("/api", auth.Middleware(issuer))

			identity.NewHandler(identitySvc).RegisterRoutes(public, authed)
			checkin.NewHandler(checkinSvc).RegisterRoutes(authed)
			appointment.NewHandler(apptSvc).RegisterRoutes(authed)
			meeting.NewHandler(meeting.NewRepoPG(pool)).RegisterRoutes(authed)
			overview.NewHandler(overviewSvc).RegisterRoutes(authed)
			chat.NewHandler(llmClient).RegisterRoutes(e)

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
				errCh <- e.Start(":" + cfg.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "migrations directory")

	withMigrator := func(fn func(ctx context.Context, m *db.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			return fn(ctx, db.NewMigrator(pool, dir))
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migration(s)\n", n)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%04d  %-40s %s\n", s.Version, s.Name, state)
			}
			return nil
		}),
	})

	return cmd
}

// dashboardCmd pulls a one-shot aggregated snapshot from a running server,
// the same view the clinician dashboard renders.
func dashboardCmd() *cobra.Command {
	var (
		baseURL     string
		token       string
		withInsight bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch an aggregated dashboard snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("REVIVEWELL_TOKEN")
			}
			session := dashboard.Session{BaseURL: baseURL, Token: token}
			if !session.Authenticated() {
				return fmt.Errorf("a session token is required (--token or REVIVEWELL_TOKEN)")
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			store := dashboard.NewStore(dashboard.NewHTTPSource(session, logger), logger, nil)

			ctx := cmd.Context()
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			if withInsight {
				store.RefreshInsight(ctx)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(store.Snapshot())
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:5000", "server base URL")
	cmd.Flags().StringVar(&token, "token", "", "session bearer token")
	cmd.Flags().BoolVar(&withInsight, "with-insight", false, "also fetch the narrative insight")
	return cmd
}

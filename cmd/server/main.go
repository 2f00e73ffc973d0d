package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roomify/internal/auth"
	"roomify/internal/cache"
	"roomify/internal/config"
	"roomify/internal/content"
	"roomify/internal/db"
	"roomify/internal/events"
	"roomify/internal/gotrue"
	"roomify/internal/logging"
	"roomify/internal/store"
	"roomify/internal/web"
)

var rootCmd = &cobra.Command{
	Use:          "roomify",
	Short:        "Roomify storefront and content admin",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DBDSN, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		log.Info("schema migrated")
	}

	st := store.New(gdb, log)

	c, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	bus := events.NewBus()
	fetcher := content.NewFetcher(content.SourcesFromStore(st), c, cfg.CacheTTL, log)
	defer fetcher.Watch(bus)()

	var authClient *gotrue.Client
	if cfg.SupabaseURL != "" {
		authClient = gotrue.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	} else {
		log.Warn("SUPABASE_URL not set; only the configured administrator can sign in")
	}
	var admin *auth.Credentials
	if cfg.AdminShortcutEnabled() {
		admin = &auth.Credentials{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash}
	}

	router := web.NewRouter(web.Deps{
		Store:         st,
		Fetcher:       fetcher,
		Bus:           bus,
		AuthClient:    authClient,
		Admin:         admin,
		SessionSecret: []byte(cfg.SessionSecret),
		SecureCookies: !cfg.IsDevelopment(),
		ViewsGlob:     cfg.ViewsGlob,
		Log:           log,
	})

	var trusted []string
	if cfg.IsDevelopment() {
		trusted = []string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           web.Protect(router, []byte(cfg.SessionSecret), log, trusted...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCache returns a Redis cache when REDIS_URL is set and an in-process
// one otherwise.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	if !cfg.UseRedisCache() {
		return cache.NewMemory(cfg.CacheTTL), nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CachePrefix, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	log.Info("using redis cache", zap.String("prefix", cfg.CachePrefix))
	return r, nil
}

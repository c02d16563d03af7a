package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/rjoshi/kitegate/api"
	"github.com/rjoshi/kitegate/config"
	"github.com/rjoshi/kitegate/tokenstore"
)

var (
	port    int
	tlsCert string
	tlsKey  string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the kitegate web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("startup configuration: %w", err)
		}
		if cfg.InsecureSessionSecret() {
			logger.Warn("SESSION_SECRET is the default placeholder; set a real secret before exposing this service")
		}

		tokens, closeTokens, err := buildTokenStore(cfg)
		if err != nil {
			return fmt.Errorf("opening token store: %w", err)
		}
		if closeTokens != nil {
			defer closeTokens()
		}
		seedFallbackToken(cfg, tokens, logger)

		a := api.New(cfg, tokens, api.WithLogger(logger))

		r := chi.NewRouter()
		r.Use(middleware.RealIP)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(api.SecurityHeaders)
		r.Mount("/", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if tlsCert != "" && tlsKey != "" {
				err = server.ListenAndServeTLS(tlsCert, tlsKey)
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		logger.Info("server started",
			slog.Int("port", port),
			slog.String("token_store", cfg.TokenStore),
			slog.String("redirect_uri", cfg.RedirectURI()))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("shutting down", slog.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

// buildTokenStore constructs the durable-fallback token store selected by
// TOKEN_STORE. The returned closer is nil for stores without resources to
// release.
func buildTokenStore(cfg *config.Config) (tokenstore.Store, func() error, error) {
	switch cfg.TokenStore {
	case config.TokenStoreEnvFile:
		return tokenstore.NewEnvFile(cfg.EnvFile), nil, nil
	case config.TokenStoreLogFile:
		return tokenstore.NewLogFile(cfg.TokenLogFile), nil, nil
	case config.TokenStoreBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		store, err := tokenstore.NewBoltFromFile(filepath.Join(cfg.DataDir, "tokens.db"), nil)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown TOKEN_STORE %q", cfg.TokenStore)
	}
}

// seedFallbackToken pre-populates an empty fallback store from
// KITE_ACCESS_TOKEN so a restart does not force a re-login. An existing
// stored token always wins over the environment.
func seedFallbackToken(cfg *config.Config, tokens tokenstore.Store, logger *slog.Logger) {
	if cfg.SeedAccessToken == "" {
		return
	}
	if _, err := tokens.Get(); !errors.Is(err, tokenstore.ErrNoToken) {
		return
	}
	if err := tokens.Set(cfg.SeedAccessToken); err != nil {
		logger.Warn("seeding fallback token failed", slog.String("error", err.Error()))
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to listen on")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"easyblog/internal/config"
	"easyblog/internal/contentcache"
	"easyblog/internal/gql"
	"easyblog/internal/logging"
	"easyblog/internal/posts"
	"easyblog/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	configPath string
	listenAddr string
}

// NewRootCommand builds the blog command tree. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	opts := &serveOptions{}

	rootCmd := &cobra.Command{
		Use:           "blog",
		Short:         "Tag archive pages for a headless-CMS blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	bindServeFlags(rootCmd, opts)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	bindServeFlags(serveCmd, opts)

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printRoutes(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(serveCmd, routesCmd)
	return rootCmd
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a config file (yaml, json or toml)")
	cmd.Flags().StringVar(&opts.listenAddr, "listen", "", "listen address, overrides listen_addr")
}

func printRoutes(out io.Writer) error {
	for _, pattern := range web.RoutePatterns() {
		if _, err := fmt.Fprintf(out, "GET  %s\n", pattern); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out, "GET  /healthz\nGET  /static/*")
	return err
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.listenAddr != "" {
		cfg.ListenAddr = opts.listenAddr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, closeApp, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeApp(); err != nil {
			logger.Warn("close content cache", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("blog server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("cache_backend", cfg.CacheBackend),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newApp wires the content source, its cache and the web handler. The
// returned close function releases the cache store.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (http.Handler, func() error, error) {
	store, err := contentcache.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open content cache: %w", err)
	}

	client := contentcache.NewClient(gql.NewClient(cfg), store, cfg.CacheTTL, logger)

	service := posts.NewService(client, posts.Options{
		PageSize:    cfg.PageSize,
		RecentLimit: cfg.RecentPosts,
		RankedLimit: cfg.RankedPosts,
		RootURL:     cfg.RootURL,
	})

	handler, err := web.NewHandler(cfg, service, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return handler, client.Close, nil
}

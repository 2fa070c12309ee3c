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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/packlist/internal/handler"
	"github.com/pkordes/packlist/internal/middleware"
	"github.com/pkordes/packlist/internal/service"
	"github.com/pkordes/packlist/internal/telegram"
)

// shutdownTimeout is how long in-flight requests get after a signal.
const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the web viewer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), true, true)
	},
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), true, false)
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run only the web viewer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), false, true)
	},
}

// run starts the selected components and blocks until SIGINT/SIGTERM or the
// first component failure.
func run(parent context.Context, withBot, withWeb bool) error {
	if parent == nil {
		parent = context.Background()
	}
	if withBot {
		if err := cfg.RequireTelegram(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.migrateUp(ctx); err != nil {
		return err
	}
	n, err := service.SeedPurposes(ctx, a.purposes)
	if err != nil {
		return err
	}
	logger.Info("trip purposes seeded", "created", n)

	g, gctx := errgroup.WithContext(ctx)
	if withWeb {
		g.Go(func() error { return serveWeb(gctx, a) })
	}
	if withBot {
		g.Go(func() error { return serveBot(gctx, a) })
	}
	err = g.Wait()
	logger.Info("stopped")
	return err
}

// serveWeb runs the viewer until ctx is done, then drains in-flight requests.
func serveWeb(ctx context.Context, a *app) error {
	// Middleware is applied in order: RequestID, RealIP, SlogLogger, Recoverer,
	// CORS, body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(a.checklists, a.export, a.links.Public, logger).Handler())

	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("web viewer starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("web server: %w", err)
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down web viewer")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	return <-errc
}

// serveBot long-polls Telegram until ctx is done.
func serveBot(ctx context.Context, a *app) error {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("telegram login: %w", err)
	}
	logger.Info("bot starting", "username", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	bot := telegram.New(api, a.machine(), a.checklists, a.links, logger)
	return bot.Run(ctx, updates)
}

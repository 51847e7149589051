package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jrsteele09/go-aletheia/internal/config"
	"github.com/jrsteele09/go-aletheia/server"
)

const (
	shutdownTimeout    = 5 * time.Second
	sessionSweepPeriod = time.Hour
)

func NewServeCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(cfg.GetAppName())

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.OutOrStdout()); err != nil {
				return err
			}

			handler, err := server.New(cfg, a.service)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              cfg.GetPort(),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, httpServer, func(ctx context.Context) error {
				return sweepSessions(ctx, a, sessionSweepPeriod)
			})
		},
	}
}

// Serve runs httpServer and any background tasks until ctx is done or one of
// them fails, then shuts the server down gracefully. Tasks must return once
// their context is cancelled.
func Serve(ctx context.Context, httpServer *http.Server, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listenAndServe(httpServer)
	})
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(httpServer)
	})

	err := g.Wait()
	log.Info().Msg("Server stopped")
	return err
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func sweepSessions(ctx context.Context, a *app, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := a.auth.PurgeExpiredSessions(); err != nil {
				log.Err(err).Msg("Session sweep failed")
			}
		}
	}
}

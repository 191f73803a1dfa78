package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/server"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not migrate the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if !skipMigrations {
		if err := database.MigrateDatabase(a.db, a.log); err != nil {
			return err
		}
	}

	gin.SetMode(a.cfg.GinMode)

	store, err := server.NewSessionStore(a.cfg.Session, a.cfg.IsProduction())
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Dependencies{
		AuthService: a.auth,
		TaskService: a.tasks,
		Logger:      a.log,
	}, store)

	srv := &http.Server{
		Addr:    net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("host", a.cfg.HTTP.Host).
			Str("port", a.cfg.HTTP.Port).
			Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			a.log.Error().Err(err).Msg("failed to listen and serve http")
			return err
		}
	case <-quit:
	}

	a.log.Info().Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("failed to shutdown http server")
		return err
	}
	a.log.Info().Msg("shut down http server")
	return nil
}

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

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/database"
	"project-tracker-api/internal/routes"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "server",
		Short:   "Project Tracker API",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			return serve(cfg, db)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

// bootstrap loads the config, applies the log level and opens the database.
func bootstrap(cmd *cobra.Command) (*config.Config, *gorm.DB, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)
	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database, database.GormLogLevel(cfg.Log.Level))
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serve(cfg *config.Config, db *gorm.DB) error {
	security := auth.NewService(cfg.JWT, cfg.Bcrypt)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRoutes(db, security),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", httpServer.Addr).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("failed to shutdown server")
	}
	log.Info("server stopped")
	return nil
}

// Command hubctl is the operator CLI for inspecting and repairing ServiceHub data.
package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/logger"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/repository"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "hubctl",
		Short:         "hubctl - ServiceHub operations CLI",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(adminCmd())
	rootCmd.AddCommand(contentCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(interestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env holds the connections a command needs. Close releases them.
type env struct {
	cfg    *config.Config
	db     *sqlx.DB
	repos  *repository.Repositories
	cache  cache.Store
	logger *zap.Logger
	close  []func()
}

func openEnv() (*env, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	e := &env{
		cfg:    cfg,
		db:     db,
		repos:  repository.NewRepositories(db, config.NewQuerySession(db)),
		cache:  cache.Nop{},
		logger: log,
		close:  []func(){func() { db.Close() }},
	}

	if client, err := config.NewRedisClient(cfg); err == nil {
		e.cache = cache.New(client, log)
		e.close = append(e.close, func() { client.Close() })
	} else {
		log.Warn("redis unavailable, cached content will not be invalidated", zap.Error(err))
	}

	return e, nil
}

func (e *env) Close() {
	for i := len(e.close) - 1; i >= 0; i-- {
		e.close[i]()
	}
	_ = e.logger.Sync()
}

func withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, args, e)
	}
}

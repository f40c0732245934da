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

	"github.com/lnascimentosilva/library/internal/auth"
	intconfig "github.com/lnascimentosilva/library/internal/config"
	intdb "github.com/lnascimentosilva/library/internal/db"
	router "github.com/lnascimentosilva/library/internal/http"
	"github.com/lnascimentosilva/library/internal/notify"
	"github.com/lnascimentosilva/library/internal/repositories"
	"github.com/lnascimentosilva/library/internal/services"
	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	load := func() (intconfig.Env, error) {
		env, err := intconfig.LoadEnv(configFile)
		if err != nil {
			return env, err
		}
		logger, err := utils.InitLogger(env.Log.Level, env.Log.Format)
		if err != nil {
			return env, err
		}
		utils.SetLogger(logger)
		return env, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			return runServer(env)
		},
	}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library catalog and ordering backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			db, err := intconfig.ConnectDB(env.DB)
			if err != nil {
				return err
			}
			defer intconfig.CloseDB()
			return intdb.Migrate(cmd.Context(), db, env.DB.Driver)
		},
	}

	consume := &cobra.Command{
		Use:   "consume-orders",
		Short: "Log order-placed notifications from RabbitMQ",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return notify.Consume(ctx, rabbitConfig(env.AMQP), notify.HandleOrderPlaced)
		},
	}

	root.AddCommand(serve, migrate, consume)
	return root
}

func rabbitConfig(cfg intconfig.AMQPConfig) notify.RabbitConfig {
	return notify.RabbitConfig{URL: cfg.URL, Exchange: cfg.Exchange, Queue: cfg.Queue}
}

// newPublisher falls back to logging when no broker is configured or reachable.
func newPublisher(cfg intconfig.AMQPConfig) notify.Publisher {
	if cfg.URL == "" {
		return notify.LogPublisher{}
	}
	p, err := notify.NewRabbitPublisher(rabbitConfig(cfg))
	if err != nil {
		utils.Log().Warn("rabbitmq unavailable, order notifications will only be logged", zap.Error(err))
		return notify.LogPublisher{}
	}
	return p
}

func runServer(env intconfig.Env) error {
	if env.App.GinMode != "" {
		gin.SetMode(env.App.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if env.DB.AutoMigrate {
		if err := intdb.Migrate(context.Background(), db, env.DB.Driver); err != nil {
			return err
		}
	}

	publisher := newPublisher(env.AMQP)
	defer publisher.Close()

	store := repositories.NewStore(db, env.DB.Driver)
	audit := services.NewAuditService(store)

	r := router.NewRouter(env, router.Deps{
		DB:         db,
		Tokens:     auth.NewTokens(env.JWT.Secret, env.JWT.TTL),
		Authors:    services.AuditAuthors(services.NewAuthorService(store), audit),
		Categories: services.AuditCategories(services.NewCategoryService(store), audit),
		Books:      services.AuditBooks(services.NewBookService(store), audit),
		Users:      services.AuditUsers(services.NewUserService(store), audit),
		Orders:     services.NewOrderService(store, publisher),
		Audit:      audit,
		Admin:      services.NewAdminService(store),
	})

	srv := &http.Server{
		Addr:              env.App.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log().Info("server listening", zap.String("addr", env.App.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	utils.Log().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	utils.Log().Info("server stopped")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-catalog/core/loader"
	"game-catalog/core/logger"
	"game-catalog/core/middleware/auth"
	"game-catalog/core/middleware/rayid"
	"game-catalog/feature/integrity"
	"game-catalog/feature/media"
	"game-catalog/feature/propagation"
	"game-catalog/feature/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog server",
	Long:  `Migrates the schema, starts the job workers and serves the HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		zap.ReplaceGlobals(rt.logger)

		if err := rt.migrate(); err != nil {
			return err
		}

		rt.dispatcher.Start(ctx)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 1. RayID (must be first to trace everything)
		app.Use(rayid.New())
		app.Use(recover.New())

		// 2. Request logging
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(rt.logger, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Metrics (public)
		var skip []string
		if rt.cfg.Server.MetricsEnabled() {
			app.Get(rt.cfg.Server.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(rt.metrics, promhttp.HandlerOpts{})))
			skip = append(skip, rt.cfg.Server.MetricsPath)
		}

		// 4. Auth
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: skip}))

		mgr := loader.NewManager()
		mgr.Register(provider.NewFeature(rt.registry, rt.db, rt.logger))
		mgr.Register(propagation.NewFeature(rt.recorder(), rt.logger))
		mgr.Register(media.NewFeature(rt.db, rt.mediaCache, rt.logger))
		mgr.Register(integrity.NewFeature(rt.db, rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Storage.RegistryObject, rt.logger))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}
		rt.logger.Info("Features loaded", zap.Strings("features", loaded))

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("Starting server", zap.String("addr", rt.cfg.Server.Address()))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		}

		rt.logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			rt.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
		}
		rt.dispatcher.Stop()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pjstats/core/loader"
	"pjstats/core/logger"
	"pjstats/core/middleware/auth"
	"pjstats/core/middleware/rayid"
	"pjstats/feature/estadisticas"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the statistics sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := setupApp(context.Background())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := app.logger
		defer logg.Sync()

		fiberApp := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// RayID must be first so everything downstream can trace
		fiberApp.Use(rayid.New())

		fiberApp.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
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

		fiberApp.Use(auth.New(auth.Config{ApiKey: app.cfg.Server.ApiKey}))

		mgr := loader.NewManager()
		mgr.Register(estadisticas.NewFeature(app.service))

		if err := mgr.LoadAll(fiberApp); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", app.cfg.Server.Port))
			if err := fiberApp.Listen(":" + app.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = fiberApp.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

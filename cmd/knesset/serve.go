package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/routes"
	"github.com/karopastal/Open-Knesset/common/bootstrap"
	"github.com/karopastal/Open-Knesset/common/queue"
	"github.com/karopastal/Open-Knesset/common/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server exposes votes, bills, activity streams and discipline statistics,
and consumes the recompute queue: classification and stage jobs published by
the write endpoints run on background workers in this process.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	// Bootstrap common components (DB, logger, cache, queue)
	components, err := bootstrap.Setup(ctx, "knesset")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap knesset: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Start queue workers
	startWorkers(ctx, serviceContainer)

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e)

	// Setup health check
	setupHealthCheck(e, components)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start server
	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": "knesset",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "knesset",
		})
	})
}

// startWorkers subscribes the recompute pipeline to the job queue
func startWorkers(ctx context.Context, c *container.Container) {
	go func() {
		err := c.Components.Queue.Subscribe(ctx, queue.JobClassifyVote, func(ctx context.Context, job queue.Job) error {
			return c.Classifier.Classify(ctx, job.ID)
		})
		if err != nil {
			c.Components.Logger.Error("classification worker stopped", "error", err)
		}
	}()

	go func() {
		err := c.Components.Queue.Subscribe(ctx, queue.JobRecomputeStage, func(ctx context.Context, job queue.Job) error {
			return c.StageEngine.Recompute(ctx, job.ID, false)
		})
		if err != nil {
			c.Components.Logger.Error("stage worker stopped", "error", err)
		}
	}()
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterVoteRoutes(e, serviceContainer)
	routes.RegisterBillRoutes(e, serviceContainer)
	routes.RegisterStatsRoutes(e, serviceContainer)
	routes.RegisterAdminRoutes(e, serviceContainer)
}

// startServer starts the HTTP server with graceful shutdown on the configured port
func startServer(e *echo.Echo, components *bootstrap.Components) {
	port := components.Config.Service.Port
	components.Logger.Info("Starting knesset", "port", port)

	srv := server.New(components.Config, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

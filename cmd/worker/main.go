package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smokefree-kz/backend/internal/logging"
	"github.com/smokefree-kz/backend/internal/setup"
	"github.com/smokefree-kz/backend/internal/worker/core"
	"github.com/smokefree-kz/backend/internal/worker/rollover"
	"github.com/smokefree-kz/backend/pkg/utils"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// WorkerType identifies this worker in status reports.
	WorkerType = "rollover"

	// DefaultSchedule runs the rollover pass every five minutes so the day
	// boundary is crossed promptly and missed passes are caught up.
	DefaultSchedule = "*/5 * * * *"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cmd := &cli.Command{
		Name:  "worker",
		Usage: "Start the rollover worker",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "run-once",
				Usage: "Execute a single rollover pass and exit",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runWorker(ctx, c.Bool("run-once"))
		},
	}

	return cmd.Run(context.Background(), os.Args)
}

func runWorker(ctx context.Context, runOnce bool) error {
	app, err := setup.InitializeApp(ctx, WorkerLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(ctx)

	logger := logging.GetWorkerLogger("rollover_worker", WorkerLogDir, app.Config.Common.Debug.LogLevel)

	// Stagger startup so several replicas do not hit the database at once
	if delay := app.Config.Worker.StartupDelay; delay > 0 {
		logger.Info("Delaying startup", zap.Int("milliseconds", delay))
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reporter := core.NewStatusReporter(app.StatusClient, WorkerType, logger)
	reporter.Start(ctx)
	defer reporter.Stop()

	logger.Info("Reporting worker status", zap.String("workerId", reporter.GetWorkerID()))

	worker := rollover.New(
		rollover.NewStore(app.DB.Model()),
		app.Metrics,
		reporter,
		app.Config.Worker.RolloverConcurrency,
		logger,
	)

	runPass := func() {
		if err := worker.Run(ctx); err != nil {
			logger.Error("Rollover pass failed", zap.Error(err))
			reporter.SetHealthy(false)

			return
		}

		reporter.SetHealthy(true)
	}

	// Always run a pass at startup to catch up after downtime
	runPass()

	if runOnce {
		return nil
	}

	schedule := app.Config.Worker.RolloverSchedule
	if schedule == "" {
		schedule = DefaultSchedule
	}

	// The schedule follows the application time zone, where days roll over
	scheduler := cron.New(cron.WithLocation(utils.Zone()))
	if _, err := scheduler.AddFunc(schedule, runPass); err != nil {
		logger.Error("Invalid rollover schedule", zap.String("schedule", schedule), zap.Error(err))
		return err
	}

	scheduler.Start()
	logger.Info("Rollover worker started", zap.String("schedule", schedule))

	<-ctx.Done()
	logger.Info("Shutting down rollover worker...")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	return nil
}

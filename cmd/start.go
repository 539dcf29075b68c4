package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"inventory-guard/core/loader"
	"inventory-guard/core/logger"
	"inventory-guard/core/middleware/auth"
	"inventory-guard/core/middleware/rayid"
	"inventory-guard/core/scheduler"
	"inventory-guard/feature/alert"
	"inventory-guard/feature/expiry"
	"inventory-guard/feature/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the sweep and reconciliation loops with the ops server",
	Long: `Starts the periodic timeout sweep and reconciliation, and serves the ops
HTTP API (on-demand runs, last report, activity state, metrics).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.logger

		if err := a.ledger.VerifySchema(ctx); err != nil {
			logg.Warn("Ledger schema check failed", zap.Error(err))
		}

		// 1. Scheduler
		var locker scheduler.Locker
		if a.cfg.Scheduler.DistributedLock {
			locker = scheduler.NewRedisLocker(a.redis)
		}
		sched := scheduler.New(logg, locker)
		if err := sched.Add(scheduler.Task{
			Name:     "expiry-sweep",
			Interval: a.cfg.Expiry.Interval(),
			Run:      func(ctx context.Context) { a.sweeper.RunTimeoutSweep(ctx) },
		}); err != nil {
			return err
		}
		if err := sched.Add(scheduler.Task{
			Name:      "reconciliation",
			Interval:  a.cfg.Reconcile.Interval(),
			Immediate: true,
			Run: func(ctx context.Context) {
				// outcomes are logged and alerted by the runner
				_, _ = a.reconciler.RunFullReconciliation(ctx)
			},
		}); err != nil {
			return err
		}

		// 2. Ops server
		server := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		server.Use(rayid.New())
		server.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
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
		server.Use(auth.New(auth.Config{
			ApiKey: a.cfg.Server.ApiKey,
			Skip:   []string{"/healthz", "/metrics"},
		}))

		server.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

		mgr := loader.NewManager(logg)
		mgr.Register(expiry.NewFeature(a.sweeper, logg))
		mgr.Register(reconcile.NewFeature(a.reconciler, logg))
		mgr.Register(alert.NewFeature(a.activity, logg))
		if err := mgr.LoadAll(server); err != nil {
			return err
		}

		if !a.cfg.Server.AuthEnabled() {
			logg.Warn("Ops API is not protected, set SERVER_API_KEY to require a key")
		}

		// 3. Run
		sched.Start(ctx)

		serverErr := make(chan error, 1)
		go func() {
			logg.Info("Starting ops server", zap.String("port", a.cfg.Server.Port))
			serverErr <- server.Listen(a.cfg.Server.Addr())
		}()

		select {
		case <-ctx.Done():
			logg.Info("Shutting down...")
		case err = <-serverErr:
			logg.Error("Ops server stopped", zap.Error(err))
			stop()
		}

		_ = server.ShutdownWithTimeout(10 * time.Second)
		sched.Wait()
		return err
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

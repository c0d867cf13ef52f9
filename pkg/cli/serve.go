package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/Mariolucas03/Kairos/app/services"
	"github.com/Mariolucas03/Kairos/pkg/config"
	"github.com/Mariolucas03/Kairos/pkg/database"
	"github.com/Mariolucas03/Kairos/pkg/routes"
	"github.com/Mariolucas03/Kairos/pkg/scheduler"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout    = 10 * time.Second
	maintenanceTimeout = 10 * time.Minute
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

// bootstrap connects to Postgres, optionally applies the schema and builds the service layer.
func bootstrap(ctx context.Context, cfg config.Config, migrate bool) (*services.Services, error) {
	log.SetLevel(cfg.Level())

	db, err := database.InitDB(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			database.CloseDB()
			return nil, err
		}
		log.Info("Schema is up to date")
	}

	svc := services.New(services.PostgresStores(db), services.Options{
		Location: utils.LoadLocation(cfg.Timezone),
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
		Analyzer: utils.NewFoodAnalyzer(cfg.LLMURL, cfg.LLMKey, cfg.LLMModels),
	})
	return svc, nil
}

func runServe(ctx context.Context, opts *RootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}
	svc, err := bootstrap(ctx, cfg, cfg.AutoMigrate)
	if err != nil {
		return err
	}
	defer database.CloseDB()

	controllers.Setup(svc, cfg.CronSecret)

	app := fiber.New(fiber.Config{
		AppName:      "kairos",
		ErrorHandler: controllers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Cron-Secret",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Kairos API")
	})
	routes.Register(app, cfg.JWTSecret, svc.Streak)

	if cfg.SchedulerEnabled {
		sched := scheduler.New(utils.LoadLocation(cfg.Timezone))
		if _, err := sched.ScheduleMaintenance(cfg.MaintenanceAt, svc.Maintenance, maintenanceTimeout); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"georecon/core/config"
	"georecon/core/loader"
	"georecon/core/logger"
	"georecon/core/metrics"
	"georecon/core/middleware/auth"
	"georecon/core/middleware/rayid"
	"georecon/core/snapshot"
	"georecon/feature/integrity"
	"georecon/feature/places"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "georecon/docs/swagger"
)

// @title GeoRecon API
// @version 1.0
// @description Place-name reconciliation against a gazetteer name index.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var (
	startFrom string
	startFile string
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long: `Loads the name index, starts the HTTP server and initializes all enabled features.
A failed initial load keeps the server up; requests answer 503 until POST /places/reload succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := setup()
		if err != nil {
			return err
		}
		logg := e.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// Optional: only the feed source and the feed integrity check need it
		var db *gorm.DB
		if conn, err := e.database(); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to gazetteer database", zap.String("driver", e.cfg.Database.Driver))
		}

		var store *snapshot.Store
		if s, err := e.store(); err != nil {
			logg.Warn("Snapshot storage unavailable", zap.Error(err))
		} else {
			store = s
		}

		src, err := e.source(startFrom, startFile)
		if err != nil {
			return err
		}
		rules, err := config.LoadRules(e.cfg.Recon.RulesFile)
		if err != nil {
			return err
		}
		cache, err := e.cfg.Recon.NewCache()
		if err != nil {
			return err
		}

		service := places.NewService(src, rules, cache, logg)
		if _, err := service.Reload(ctx); err != nil {
			logg.Warn("Initial index load failed", zap.String("source", src.Name()), zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             e.cfg.Server.BodyLimitBytes,
		})

		mgr := loader.NewManager()
		mgr.Register(places.NewFeature(service, logg))
		mgr.Register(integrity.NewFeature(store, db, e.cfg.Ingest, logg))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
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

		app.Get("/metrics", metrics.Handler())

		// Public, registered ahead of the key check
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: e.cfg.Server.ApiKey,
			Skip:   []string{"/metrics"},
		}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded), zap.Bool("auth", e.cfg.Server.AuthEnabled()))

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			errCh <- app.Listen(e.cfg.Server.Addr())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-sig:
		}

		logg.Info("Shutting down server...")
		timeout := time.Duration(e.cfg.Server.ShutdownTimeoutSeconds) * time.Second
		return app.ShutdownWithTimeout(timeout)
	},
}

func init() {
	startCmd.Flags().StringVar(&startFrom, "from", fromAuto, "index source: auto, file, snapshot or feed")
	startCmd.Flags().StringVar(&startFile, "file", "", "snapshot file for the file source (default SNAPSHOT_FILE)")
	RootCmd.AddCommand(startCmd)
}

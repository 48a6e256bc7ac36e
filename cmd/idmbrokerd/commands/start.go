package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nyxgate/idmbroker/internal/broker"
	"github.com/nyxgate/idmbroker/internal/device"
	"github.com/nyxgate/idmbroker/internal/handletable"
	"github.com/nyxgate/idmbroker/internal/logger"
	"github.com/nyxgate/idmbroker/internal/transport"
	"github.com/nyxgate/idmbroker/pkg/config"
	"github.com/nyxgate/idmbroker/pkg/metrics"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the IDM broker daemon",
	Long: `Start the IDM broker daemon, attaching to the shared-memory rings for
every configured zone and serving alloc/free/copy/sync/info requests against
the handle table and device driver until terminated.

Examples:
  # Start with the default config search path
  idmbrokerd start

  # Start with a specific config file and zone set
  idmbrokerd start --config /etc/idmbroker/config.yaml --zone 1 --zone 2

  # Override a logging setting from the config file via environment
  IDMBROKER_LOGGING_LEVEL=DEBUG idmbrokerd start --config /etc/idmbroker/config.yaml`,
	RunE: runStart,
}

var startZones []uint32

func init() {
	startCmd.Flags().Uint32SliceVar(&startZones, "zone", nil, "zone id to serve (repeatable); overrides the zones list in config")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	zones := cfg.Zones
	if len(startZones) > 0 {
		zones = startZones
	}
	if len(zones) == 0 {
		return fmt.Errorf("no zones configured: pass --zone or set zones in config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting idmbroker daemon", "version", Version, "zones", zones)

	backend, err := transport.NewDevBackend(cfg.Transport.RingDir, cfg.Transport.SlotSize, cfg.Transport.SlotCount)
	if err != nil {
		return fmt.Errorf("failed to initialize transport backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("transport backend close error", "error", err)
		}
	}()

	handles := handletable.New()
	driver := device.NewMock(cfg.Device.Name, cfg.Device.TotalMemory)

	var rec *metrics.Recorder
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		reg := metrics.InitRegistry()
		rec = metrics.NewRecorder(reg)
		metricsServer = metrics.NewServer(cfg.Metrics.Addr)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("metrics enabled", "addr", cfg.Metrics.Addr)
	} else {
		logger.Info("metrics disabled")
	}

	b := broker.New(backend, handles, driver, rec)

	serverDone := make(chan error, 1)
	go func() { serverDone <- b.Serve(ctx, zones) }()
	go b.RunStatsLoop(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("broker is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if metricsServer != nil {
			_ = metricsServer.Stop(shutdownCtx)
		}

		select {
		case err := <-serverDone:
			if err != nil && err != context.Canceled {
				logger.Error("broker shutdown error", "error", err)
				return err
			}
			logger.Info("broker stopped gracefully")
		case <-shutdownCtx.Done():
			return fmt.Errorf("broker did not stop within %s", cfg.ShutdownTimeout)
		}

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil && err != context.Canceled {
			logger.Error("broker error", "error", err)
			return err
		}
		logger.Info("broker stopped")
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/internal/server"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/landtax"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	serverConfigLocation string
	serveAddress         string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimate form and JSON API over HTTP",
	Long: `Serves the estimate form page, the JSON API and Prometheus metrics.

Settings come from the server config file (--server-config); when it does
not exist the defaults apply. Pass --config explicitly to take the land
transfer tax schedule from a lead file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srvCfg, err := server.LoadConfig(serverConfigLocation)
		if err != nil {
			return eris.Wrapf(err, "failed to load server configuration at %s", serverConfigLocation)
		}
		if serveAddress != "" {
			srvCfg.Address = serveAddress
		}

		if err := useLogging(srvCfg.Logging); err != nil {
			return err
		}

		schedule := landtax.Default()
		if cmd.Flags().Changed("config") {
			leadConf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return eris.Wrapf(err, "failed to load configuration at %s", configLocation)
			}
			schedule = leadConf.LandTransferTax
		}
		calc, err := estimate.NewCalculator(logger, schedule)
		if err != nil {
			return eris.Wrap(err, "invalid land transfer tax schedule")
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		handler, err := server.NewHandler(logger, server.Options{
			Calculator:  calc,
			Mail:        srvCfg.Mail,
			MaxBodySize: srvCfg.BodySizeBytes(),
			RateLimit:   srvCfg.RateLimit,
			Version:     version,
			Registry:    registry,
		})
		if err != nil {
			return eris.Wrap(err, "failed to build HTTP handler")
		}

		srv := &http.Server{
			Addr:              srvCfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", srvCfg.Address),
			zap.String("taxRegion", calc.TaxSchedule().Region),
			zap.Int64("maxBodySize", srvCfg.BodySizeBytes()),
		)
		return runServer(ctx, srv)
	},
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address override, e.g. :8080")
	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/isometry/codec-handler/internal/config"
	"github.com/isometry/codec-handler/internal/runtime"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve every wrapped function over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("Spawning...")

			var extra []runtime.Option
			if config.Service.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				extra = append(extra, runtime.WithMetrics(reg))
			}

			rt, err := setup(cmd.Context(), logger, "", extra...)
			if err != nil {
				return errors.Wrap(err, "failed to setup service")
			}

			logger.Debug("Creating HTTP server...")
			s := &http.Server{
				Handler:      rt,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("Serving...", "address", s.Addr, "timeout", config.Service.Timeout.String(), "metrics", config.Service.Metrics)
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapBool)
	bindEnvMap(cmd, svcEnvMapDuration)
	return cmd
}

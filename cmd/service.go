package cmd

import (
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elnpack/eln-packager-app/internal/config"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup service")
			}

			logger.Debug("creating HTTP server...")
			s := &http.Server{
				Handler:      rt.Router(),
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("serving...", "address", s.Addr, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	return cmd
}

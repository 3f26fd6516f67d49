package main

import (
	"github.com/spf13/cobra"
)

const (
	httpHostF         = "http-host"
	httpPortF         = "http-port"
	corsOriginsF      = "cors-origins"
	metricsF          = "metrics"
	checkSpecVersionF = "check-spec-version"
	maxRequestsF      = "max-requests"
	maxQueuedF        = "max-queued-requests"

	defaultHTTPHost         = "localhost"
	defaultHTTPPort         = uint16(6070)
	defaultMetrics          = false
	defaultCheckSpecVersion = true
	defaultMaxRequests      = uint(64)
	defaultMaxQueued        = int32(1024)

	httpHostUsage = "The interface on which the HTTP server will listen for requests."
	httpPortUsage = "The port on which the HTTP server will listen for requests. " +
		"Warning: every classification request is forwarded to the Starknet node."
	corsOriginsUsage      = "Origins allowed to call the HTTP API from a browser. CORS is disabled when empty."
	metricsUsage          = "Serves Prometheus metrics at /metrics."
	checkSpecVersionUsage = "Refuse to start when the node's JSON-RPC spec version is not supported " +
		"or its chain id does not match the network."
	maxRequestsUsage      = "Maximum number of classification requests handled at the same time."
	maxQueuedUsage        = "Maximum number of requests waiting for a slot before 503 is returned."
)

func newServeCmd(load loadFn, newServer NewServerFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load(cmd)
			if err != nil {
				return err
			}

			server, err := newServer(cfg, log)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String(httpHostF, defaultHTTPHost, httpHostUsage)
	cmd.Flags().Uint16(httpPortF, defaultHTTPPort, httpPortUsage)
	cmd.Flags().StringSlice(corsOriginsF, nil, corsOriginsUsage)
	cmd.Flags().Bool(metricsF, defaultMetrics, metricsUsage)
	cmd.Flags().Bool(checkSpecVersionF, defaultCheckSpecVersion, checkSpecVersionUsage)
	cmd.Flags().Int(concurrencyF, defaultConcurrency, concurrencyUsage)
	cmd.Flags().Uint(maxRequestsF, defaultMaxRequests, maxRequestsUsage)
	cmd.Flags().Int32(maxQueuedF, defaultMaxQueued, maxQueuedUsage)
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pcbgraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [design...]",
		Short: "Serve placement sessions over HTTP",
		Long: `Serve the placement HTTP API. Designs given as arguments are loaded as
sessions at startup; clients can upload more with POST /sessions.

Feature vectors are cached with the configured backend ([cache] in the
config). The server stops gracefully on interrupt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}

			fc, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer fc.Close()

			srv := server.New(server.Config{
				Addr:     addr,
				Features: c.config.featureOptions(),
				Ordering: c.config.Placement.Ordering,
				Cache:    fc,
				CacheTTL: c.config.Cache.TTL.Duration,
				Logger:   c.Logger,
			})

			for _, arg := range args {
				d, err := c.loadDesign(ctx, arg)
				if err != nil {
					return err
				}
				id := srv.Add(d.graph, d.board)
				printInfo("Session %s: %s", id, d.paths.Name)
			}

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the feature cache")

	return cmd
}

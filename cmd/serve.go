package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/ontograph/export"
	"github.com/TFMV/ontograph/metrics"
	"github.com/TFMV/ontograph/server"
	"github.com/TFMV/ontograph/store"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			opts := []server.Option{server.WithMetrics(metrics.DefaultRegistry())}

			if cfg.Redis.Addr != "" {
				rs, err := store.DialRedis(ctx, cfg.Redis.Addr)
				if err != nil {
					return err
				}
				defer rs.Close()
				opts = append(opts, server.WithStore(rs))
				log.Printf("Storing graphs in redis at %s", cfg.Redis.Addr)
			} else {
				log.Println("Storing graphs in memory")
			}

			if cfg.Database.URL != "" {
				pg, err := export.NewPostgresExporter(ctx, cfg.Database.URL)
				if err != nil {
					return err
				}
				defer pg.Close()
				opts = append(opts, server.WithExporter(pg))
			} else {
				log.Println(warn.Sprint("No export database configured, export is disabled"))
			}

			srv := server.New(cfg.Server, opts...)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides the config)")
	return cmd
}

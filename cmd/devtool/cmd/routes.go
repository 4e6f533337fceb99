package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeplug/config"
	"routeplug/internal/app/modules"
	"routeplug/internal/chiplugin"
	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

type routeRow struct {
	method      string
	path        string
	middlewares int
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Bootstrap the controller container and print the bound routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig(config.NewViper())
			if err != nil {
				return err
			}
			rows, err := controllerRoutes(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), rows)
		},
	}
}

// controllerRoutes binds the controllers on a fresh mux. Nothing is served,
// so the store is built without a database.
func controllerRoutes(ctx context.Context, cfg config.Config) ([]routeRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reg := metadata.NewRegistry()
	modules.Annotate(reg)

	plugin, err := chiplugin.New(chiplugin.Options{Extractor: reg})
	if err != nil {
		return nil, err
	}
	c := container.New(container.WithPlugin(plugin))
	if err := modules.Register(c, modules.Deps{Cfg: cfg, Logger: zap.NewNop().Sugar()}); err != nil {
		return nil, err
	}
	if err := c.Bootstrap(ctx); err != nil {
		return nil, err
	}

	var rows []routeRow
	err = chi.Walk(plugin.App(), func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		rows = append(rows, routeRow{method: method, path: route, middlewares: len(mws)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].path != rows[j].path {
			return rows[i].path < rows[j].path
		}
		return rows[i].method < rows[j].method
	})
	return rows, nil
}

func printRoutes(w io.Writer, rows []routeRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tMIDDLEWARE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.method, r.path, r.middlewares)
	}
	return tw.Flush()
}

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/suretydesk/suretydesk/internal/server"
	"github.com/suretydesk/suretydesk/internal/session"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the intake and project API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := server.NewWebAPI(serverConfig(app, addr))
			return api.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from http.addr)")
	return cmd
}

func serverConfig(app *App, addr string) server.Config {
	httpCfg := app.Config.HTTP
	if addr == "" {
		addr = httpCfg.Addr
	}
	deps := server.Dependencies{
		Sessions: session.NewManager(app.Deps),
		Projects: app.Projects,
		Metrics:  app.Metrics,
		Logger:   app.Log,
	}
	if app.Registry != nil {
		deps.Gatherer = app.Registry
	}
	return server.Config{
		Addr:            addr,
		ShutdownTimeout: time.Duration(httpCfg.ShutdownTimeout) * time.Second,
		MaxUploadBytes:  int64(httpCfg.MaxUploadMB) << 20,
		Dependencies:    deps,
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/formkit/bootstrap"
	"github.com/kbukum/formkit/forms"
	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/observability"
	"github.com/kbukum/formkit/server"
	"github.com/kbukum/formkit/storage"
	"github.com/kbukum/formkit/version"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configFile, flags.envFile)
			if err != nil {
				return err
			}
			if cfg.Version == "" {
				cfg.Version = version.Version
			}

			app, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)

			shutdown, err := observability.Setup(ctx, cfg.Tracing)
			if err != nil {
				return fmt.Errorf("observability setup: %w", err)
			}
			app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

			svc := newService(cfg, app.Logger, app.Components.HealthAll)
			if err := app.RegisterComponent(svc.storage); err != nil {
				return err
			}
			if err := app.RegisterComponent(server.NewComponent(svc.server)); err != nil {
				return err
			}
			app.OnReady(func(context.Context) error {
				app.Logger.Info("Accepting uploads", logger.Fields(
					"addr", svc.server.Addr(),
					logger.FieldBackend, cfg.Forms.Backend,
					"upload_dir", cfg.Forms.UploadDir,
				))
				return nil
			})
			return app.Run(ctx)
		},
	}
}

func urlCmd(flags *rootFlags) *cobra.Command {
	var (
		backend string
		params  map[string]string
	)
	cmd := &cobra.Command{
		Use:   "url <path>",
		Short: "Print the URL of a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configFile, flags.envFile)
			if err != nil {
				return err
			}
			app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(logger.Nop()))
			if err != nil {
				return err
			}

			svc := newService(cfg, app.Logger, nil)
			if err := app.RegisterComponent(svc.storage); err != nil {
				return err
			}
			var ref storage.Ref
			if backend != "" {
				ref = storage.Named(backend)
			}
			return app.RunTask(contextOf(cmd), func(ctx context.Context) error {
				u, err := forms.URLFor(ctx, svc.env, args[0], ref, params)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend name (default: forms.upload_backend)")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "backend URL parameter, e.g. expires=1h")
	return cmd
}

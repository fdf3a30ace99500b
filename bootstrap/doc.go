// Package bootstrap runs a formkit service: it validates the typed config,
// initializes logging, starts the registered components in order, runs the
// lifecycle hooks and shuts everything down on SIGINT/SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(storage.NewComponent(registry, app.Logger))
//	_ = app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap

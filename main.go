package main

import (
	"context"
	"flag"

	"github.com/litetable/litetable-readrows/internal/admin"
	"github.com/litetable/litetable-readrows/internal/app"
	"github.com/litetable/litetable-readrows/internal/config"
	"github.com/litetable/litetable-readrows/internal/observability"
	"github.com/litetable/litetable-readrows/internal/reaper"
	"github.com/litetable/litetable-readrows/internal/recorder"
	"github.com/litetable/litetable-readrows/internal/server/grpc"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to ~/.litetable/readrows.toml)")
	writeConfig := flag.Bool("init", false, "write the default config file and exit")
	flag.Parse()

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			panic(err)
		}
	}

	if *writeConfig {
		if err := config.WriteDefault(path, false); err != nil {
			panic(err)
		}
		log.Info().Msgf("wrote default config to %s", path)
		return
	}

	application, err := initialize(path)
	if err != nil {
		panic(err)
	}

	if err = application.Run(context.Background()); err != nil {
		panic(err)
	}
}

func initialize(configPath string) (*app.App, error) {
	var deps []app.Dependency

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	observability.InitLogger("readrows", true, cfg.Debug)
	observability.RegisterMetrics()

	// every recording under the recordings directory is served by name
	store, err := recorder.NewStore(cfg.RecordingsDir)
	if err != nil {
		return nil, err
	}

	if cfg.RecordingRetention > 0 {
		reaperGC, err := reaper.New(&reaper.Config{
			Path:       cfg.RecordingsDir,
			Recordings: store,
			Interval:   cfg.ReapInterval,
			Retention:  cfg.RecordingRetention,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, reaperGC)
	}

	srv, err := grpc.NewServer(&grpc.Config{
		Address:    cfg.ServerAddress,
		Port:       cfg.ServerPort,
		Recordings: store,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	adminSrv, err := admin.NewServer(&admin.Config{
		Address:     cfg.ServerAddress,
		Port:        cfg.AdminPort,
		Recordings:  store,
		Strict:      cfg.Strict,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, adminSrv)

	application, err := app.CreateApp(&app.Config{
		ServiceName: "LiteTable ReadRows",
		StopTimeout: cfg.StopTimeout,
	}, deps...)
	if err != nil {
		return nil, err
	}

	return application, nil
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/itchan-dev/postboard/backend/internal/storage/pg"
	"github.com/itchan-dev/postboard/shared/config"
	"github.com/itchan-dev/postboard/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	command := flag.String("command", "up", "migrate command (up|status|down|version)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	log := logger.Log.With("component", "migrate")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := pg.Connect(ctx, cfg.Private.Pg, pg.DefaultConnectionConfig())
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	migrator := pg.NewMigrator(db)

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	case "version":
		var version int64
		version, err = migrator.Version(ctx)
		if err == nil {
			log.Info("current schema version", "version", version)
		}
	default:
		log.Error("unsupported command", "command", *command)
		os.Exit(1)
	}
	if err != nil {
		log.Error("migration command failed", "command", *command, "error", err)
		os.Exit(1)
	}

	log.Info("migration command completed", "command", *command)
}

package main

import (
	"flag"
	"fmt"
	"movieapp/pkg/config"
	"movieapp/pkg/logger"
	"movieapp/postgres"
	"os"
	"strconv"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		log.Fatalw("cannot connect to db", zap.Error(err))
	}

	migrations := &migrate.FileMigrationSource{
		Dir: cfg.MigrationsDir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalw("cannot get db instance", zap.Error(err))
	}

	direction, maxSteps := migrate.Up, 0
	if *down {
		direction, maxSteps = migrate.Down, 1
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, maxSteps)
	if err != nil {
		log.Fatalw("cannot execute migration", zap.Error(err))
	}

	log.Infow("applied migrations", "total", total, "down", *down)
}

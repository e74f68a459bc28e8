package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/protomem/oncall/internal/database"
	"github.com/protomem/oncall/internal/env"
	"github.com/protomem/oncall/internal/model"
	"github.com/protomem/oncall/internal/password"
	"github.com/protomem/oncall/internal/token"
	"github.com/protomem/oncall/internal/version"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	auth struct {
		secret   string
		tokenTTL time.Duration
	}
	schedule struct {
		timezone string
	}
	bootstrap struct {
		adminPassword string
	}
}

type application struct {
	config   config
	db       *database.DB
	logger   *slog.Logger
	tokens   *token.Manager
	location *time.Location
	wg       sync.WaitGroup
}

func run(logger *slog.Logger) error {
	flag.Parse()

	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.dsn = env.GetString("DB_DSN", "oncall:oncall@localhost:5432/oncall")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.auth.secret = env.GetString("AUTH_SECRET", "")
	cfg.auth.tokenTTL = env.GetDuration("AUTH_TOKEN_TTL", 24*time.Hour)
	cfg.schedule.timezone = env.GetString("SCHEDULE_TIMEZONE", "UTC")
	cfg.bootstrap.adminPassword = env.GetString("BOOTSTRAP_ADMIN_PASSWORD", "admin123")

	showVersion := flag.Bool("version", false, "display version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	if cfg.auth.secret == "" {
		return errors.New("AUTH_SECRET must be set")
	}

	location, err := time.LoadLocation(cfg.schedule.timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	db, err := database.New(logger, cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	app := &application{
		config:   cfg,
		db:       db,
		logger:   logger,
		tokens:   token.NewManager(cfg.auth.secret, cfg.auth.tokenTTL),
		location: location,
	}

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	return app.serveHTTP()
}

const (
	_bootstrapAdminUsername = "admin"
	_bootstrapAdminEmail    = "admin@oncall.devops"
	_bootstrapAdminFullName = "System Administrator"
)

// bootstrapAdmin seeds the first administrator account so a fresh install
// has someone able to create users and assignments. Only runs against an
// empty users table.
func (app *application) bootstrapAdmin(ctx context.Context) error {
	dao := database.NewUserDAO(app.logger, app.db)

	count, err := dao.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(app.config.bootstrap.adminPassword)
	if err != nil {
		return err
	}

	fullName := _bootstrapAdminFullName
	id, err := dao.Insert(ctx, database.InsertUserDTO{
		Username:       _bootstrapAdminUsername,
		Email:          _bootstrapAdminEmail,
		FullName:       &fullName,
		HashedPassword: hashedPassword,
		IsAdmin:        true,
	})
	if err != nil {
		// Lost the race against a concurrent first start. The other
		// instance seeded the account.
		if errors.Is(err, model.ErrExists) {
			return nil
		}
		return err
	}

	app.logger.Info("seeded bootstrap admin", "userId", id, "username", _bootstrapAdminUsername)

	return nil
}

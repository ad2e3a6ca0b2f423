package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	migrationsdb "github.com/kinectapp/kinect/db"
	"github.com/kinectapp/kinect/internal/config"
	"github.com/kinectapp/kinect/internal/contacts"
	"github.com/kinectapp/kinect/internal/db"
	"github.com/kinectapp/kinect/internal/handlers"
	"github.com/kinectapp/kinect/internal/importer"
	"github.com/kinectapp/kinect/internal/lists"
	"github.com/kinectapp/kinect/internal/logger"
	"github.com/kinectapp/kinect/internal/mail"
	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/scheduler"
	"github.com/kinectapp/kinect/internal/server"
	"github.com/kinectapp/kinect/internal/users"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,

			users.NewService,
			lists.NewService,
			contacts.NewService,
			provideImporter,
			provideMailer,
			provideRemindersService,
			provideScheduler,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(handlers.NewUsersHandler),
			provideServerHandler(handlers.NewListsHandler),
			provideServerHandler(handlers.NewContactsHandler),
			provideServerHandler(handlers.NewRemindersHandler),

			provideServer,
		),
		fx.Invoke(
			startScheduler,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideAuthHandler(log *slog.Logger, userService *users.Service, cfg config.Config) (*handlers.AuthHandler, error) {
	expiresIn, err := time.ParseDuration(cfg.Auth.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("parse jwt_expires_in: %w", err)
	}
	return handlers.NewAuthHandler(log, userService, cfg.Auth.JWTSecret, expiresIn), nil
}

func provideImporter(log *slog.Logger, contactsService *contacts.Service) *importer.Service {
	return importer.NewService(log, contactsService)
}

func provideMailer(log *slog.Logger, cfg config.Config) (reminders.Mailer, error) {
	return mail.New(log, cfg.Mail)
}

func provideRemindersService(
	log *slog.Logger,
	cfg config.Config,
	contactsService *contacts.Service,
	listsService *lists.Service,
	usersService *users.Service,
	mailer reminders.Mailer,
) *reminders.Service {
	resolver := reminders.ThresholdResolver{DefaultDays: cfg.Reminders.DefaultDays}
	if cfg.Reminders.UseCategoryDefaults {
		resolver.CategoryDefaults = map[string]int{
			contacts.CategoryBestFriend:   cfg.Reminders.BestFriendDays,
			contacts.CategoryFriend:       cfg.Reminders.FriendDays,
			contacts.CategoryAcquaintance: cfg.Reminders.AcquaintanceDays,
		}
	}
	opts := reminders.Options{
		MaxContactsPerEmail: cfg.Reminders.MaxContactsPerEmail,
		DispatchDelay:       time.Duration(cfg.Reminders.DispatchDelayMS) * time.Millisecond,
		SendTimeout:         time.Duration(cfg.Reminders.SendTimeoutSec) * time.Second,
	}
	return reminders.NewService(log, contactsService, listsService, usersService, mailer, resolver, reminders.SystemClock(), opts)
}

func provideScheduler(log *slog.Logger, remindersService *reminders.Service, cfg config.Config) (*scheduler.Scheduler, error) {
	return scheduler.New(log, remindersService, cfg.Reminders)
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.ServerHandlers...)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func startScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

// runMigrate handles `kinect migrate <up|down|version|force N>`.
func runMigrate(args []string) {
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	migrationsFS, err := fs.Sub(migrationsdb.MigrationsFS, "migrations")
	if err != nil {
		logger.Error("migrations fs", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.RunMigrate(logger.L, cfg.Postgres, migrationsFS, command, args); err != nil {
		logger.Error("migrate", slog.Any("error", err))
		os.Exit(1)
	}
}

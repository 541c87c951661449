package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/formlane/formlane/pkg/auth"
	"github.com/formlane/formlane/pkg/cmd"
	"github.com/formlane/formlane/pkg/log"
	"github.com/formlane/formlane/pkg/mailer"
	"github.com/formlane/formlane/pkg/otelhelper"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "formlane-api",
		Usage:                 "Build, share and collect multi-step forms",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL (postgres://... or a file path)",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for one-time codes (omit to keep codes in memory)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:     "jwt-secret",
				Usage:    "Secret used to sign session tokens",
				Required: true,
				Sources:  cli.EnvVars("JWT_SECRET"),
			},
			&cli.StringFlag{
				Name:    "smtp-host",
				Usage:   "SMTP relay host (omit to log mail instead of sending)",
				Sources: cli.EnvVars("SMTP_HOST"),
			},
			&cli.IntFlag{
				Name:    "smtp-port",
				Usage:   "SMTP relay port",
				Value:   587,
				Sources: cli.EnvVars("SMTP_PORT"),
			},
			&cli.StringFlag{
				Name:    "smtp-username",
				Usage:   "SMTP relay username",
				Sources: cli.EnvVars("SMTP_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "smtp-password",
				Usage:   "SMTP relay password",
				Sources: cli.EnvVars("SMTP_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "mail-from",
				Usage:   "From address for outgoing mail",
				Value:   "no-reply@formlane.dev",
				Sources: cli.EnvVars("MAIL_FROM"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Formlane API")

			tracer, err := otelhelper.NewTracer(ctx, "formlane-api")
			if err != nil {
				return err
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			otpStore, err := cmd.NewOTPStore(ctx, command.String("redis-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := otpStore.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close otp store", "error", err)
				}
			}()

			sender, err := cmd.NewMailSender(logger, mailer.SMTPConfig{
				Host:     command.String("smtp-host"),
				Port:     command.Int("smtp-port"),
				Username: command.String("smtp-username"),
				Password: command.String("smtp-password"),
				From:     command.String("mail-from"),
			})
			if err != nil {
				return err
			}

			dispatcher := mailer.NewDispatcher(eventBus, sender, log.WithModule("mailer"))

			err = dispatcher.Start(ctx)
			if err != nil {
				return err
			}

			tokens := auth.NewTokenManager(command.String("jwt-secret"), auth.DefaultTokenTTL)
			authService := auth.NewService(persistence.UserRepository(), otpStore, tokens, eventBus, log.WithModule("auth"))

			api := NewAPI(
				logger,
				persistence,
				eventBus,
				authService,
				tracer,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "task-registry",
		Usage: "Task registry service",
		Commands: []*cli.Command{
			serveCommand(),
		},
		DefaultCommand: "serve",
		Before:         setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"TASKS_LOGGER_LEVEL"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-format",
				EnvVars: []string{"TASKS_LOGGER_FORMAT"},
				Usage:   "Log output format (text, json)",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:    "debug",
				EnvVars: []string{"TASKS_DEBUG"},
				Usage:   "Print error stack traces",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		if ctx.Bool("debug") {
			slog.ErrorContext(ctx.Context, fmt.Sprintf("%+v", err))
		} else {
			slog.ErrorContext(ctx.Context, err.Error())
		}
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func setupLogger(ctx *cli.Context) error {
	level, err := parseLogLevel(ctx.String("log-level"))
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if ctx.String("log-format") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// parseLogLevel не различает регистр: DEBUG и debug равнозначны
func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level %q", raw)
	}
}

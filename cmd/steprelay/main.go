package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/steprelay/steprelay/internal/config"
	"github.com/steprelay/steprelay/internal/logging"
	"github.com/steprelay/steprelay/internal/version"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "steprelay",
		Usage:   "Extract worker step configs and relay them to the parent orchestrator",
		Version: version.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a steprelay config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Relay channel mode (auto, fd, stdout)",
			},
		},
		Commands: []*cli.Command{
			getConfigCommand(),
			validateCommand(),
			listCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return cli.ShowAppHelp(c)
		},
	}
}

// runtimeEnv bundles the pieces every command needs. Built per invocation;
// nothing here outlives the process.
type runtimeEnv struct {
	cfg          *config.Config
	logger       *logging.Logger
	invocationID string
}

func setup(c *cli.Command) (*runtimeEnv, error) {
	cfg, err := config.Parse(config.Flags{
		Config:   c.String("config"),
		LogLevel: c.String("log-level"),
		Channel:  c.String("channel"),
	})
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(
		logging.WithLogLevel(cfg.LogLevel),
		logging.WithLogFormat(cfg.LogFormat),
	)
	if err != nil {
		return nil, err
	}

	return &runtimeEnv{
		cfg:          cfg,
		logger:       logger,
		invocationID: uuid.New().String(),
	}, nil
}

// fail emits the single diagnostic line for this invocation and maps it to a
// non-zero exit. cli.Exit with an empty message keeps urfave/cli from
// printing a second line.
func (e *runtimeEnv) fail(ctx context.Context, msg, path string, err error) cli.ExitCoder {
	e.logger.Ctx(ctx).Error(msg,
		zap.String("definition_path", path),
		zap.String("invocation_id", e.invocationID),
		zap.Error(err),
	)
	_ = e.logger.Sync()
	return cli.Exit("", 1)
}

// setupError handles failures before the logger exists.
func setupError(err error) cli.ExitCoder {
	fmt.Fprintln(os.Stderr, err)
	return cli.Exit("", 1)
}

package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/steprelay/steprelay/internal/relay"
	"github.com/steprelay/steprelay/internal/workercfg"
)

func getConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "get-config",
		Usage:     "Load a worker definition and relay its config to the parent process",
		ArgsUsage: "<definition-path>",
		Action:    runGetConfig,
	}
}

func runGetConfig(ctx context.Context, c *cli.Command) error {
	// The parent treats a bad invocation as exit 1 with no output on
	// either stream.
	if c.NArg() != 1 {
		return cli.Exit("", 1)
	}
	path := c.Args().First()

	env, err := setup(c)
	if err != nil {
		return setupError(err)
	}

	loader := workercfg.NewLoader()
	raw, err := loader.Load(path)
	if err != nil {
		return env.fail(ctx, "config extraction failed", path, err)
	}
	cleaned := workercfg.StripMiddleware(raw)

	// Open before encoding so a dead channel never produces partial output.
	channel, err := relay.Open(relay.OpenOptions{
		Mode:     env.cfg.Channel,
		FDEnvVar: env.cfg.ChannelFDEnvVar,
	})
	if err != nil {
		return env.fail(ctx, "relay channel unavailable", path, err)
	}
	defer channel.Close()

	if err := relay.Send(ctx, channel, cleaned); err != nil {
		return env.fail(ctx, "config relay failed", path, err)
	}

	env.logger.Ctx(ctx).Debug("config relayed",
		zap.String("definition_path", path),
		zap.String("invocation_id", env.invocationID),
	)
	_ = env.logger.Sync()
	return nil
}

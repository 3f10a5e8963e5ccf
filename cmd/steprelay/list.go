package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/steprelay/steprelay/internal/registry"
	"github.com/steprelay/steprelay/internal/workercfg"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List discovered worker definitions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to scan (default: steps_dir)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output",
			},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, c *cli.Command) error {
	env, err := setup(c)
	if err != nil {
		return setupError(err)
	}

	dir := c.String("dir")
	if dir == "" {
		dir = env.cfg.StepsDir
	}

	reg, err := registry.Scan(dir, workercfg.NewLoader())
	if err != nil {
		return env.fail(ctx, "worker definition scan failed", dir, err)
	}
	entries := reg.Entries()

	if c.Bool("json") {
		payload, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return env.fail(ctx, "could not encode entries", dir, err)
		}
		fmt.Println(string(payload))
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "QUEUE\tFLOWS\tROLE\tSTEP\tEMITS\tPATH")
	for _, entry := range entries {
		flows, role, step, emits := "-", "-", "-", "-"
		if flow := entry.Descriptor.Flow; flow != nil {
			flows = strings.Join(flow.Name, ",")
			role = string(flow.Role)
			step = flow.Step
			if len(flow.Emits) > 0 {
				emits = strings.Join(flow.Emits, ",")
			}
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Queue, flows, role, step, emits, entry.Path)
	}
	return writer.Flush()
}

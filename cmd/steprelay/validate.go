package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/steprelay/steprelay/internal/registry"
	"github.com/steprelay/steprelay/internal/workercfg"
)

type validateResult struct {
	Path   string                 `json:"path"`
	Status string                 `json:"status"` // "ok" or "error"
	Error  string                 `json:"error,omitempty"`
	Fields []workercfg.FieldError `json:"fields,omitempty"`
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Schema-check worker definitions",
		ArgsUsage: "[<definition-path>...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Validate every definition under a directory (default: steps_dir)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output",
			},
		},
		Action: runValidate,
	}
}

func runValidate(ctx context.Context, c *cli.Command) error {
	env, err := setup(c)
	if err != nil {
		return setupError(err)
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		dir := c.String("dir")
		if dir == "" {
			dir = env.cfg.StepsDir
		}
		paths, err = registry.Definitions(dir)
		if err != nil {
			return env.fail(ctx, "could not list worker definitions", dir, err)
		}
	}

	loader := workercfg.NewLoader()
	results := make([]validateResult, 0, len(paths))
	failed := false
	for _, path := range paths {
		results = append(results, validateOne(loader, path))
		if results[len(results)-1].Status != "ok" {
			failed = true
		}
	}

	if c.Bool("json") {
		payload, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return env.fail(ctx, "could not encode results", "", err)
		}
		fmt.Println(string(payload))
	} else {
		for _, res := range results {
			if res.Status == "ok" {
				fmt.Printf("ok\t%s\n", res.Path)
				continue
			}
			fmt.Printf("error\t%s\t%s\n", res.Path, res.Error)
		}
	}

	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func validateOne(loader *workercfg.Loader, path string) validateResult {
	descriptor, err := loader.LoadDescriptor(path)
	if err != nil {
		return validateResult{Path: path, Status: "error", Error: err.Error()}
	}
	if err := descriptor.Validate(path); err != nil {
		res := validateResult{Path: path, Status: "error", Error: err.Error()}
		var verr *workercfg.ValidationError
		if errors.As(err, &verr) {
			res.Fields = verr.Fields
		}
		return res
	}
	return validateResult{Path: path, Status: "ok"}
}

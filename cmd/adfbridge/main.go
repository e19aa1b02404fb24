package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/adfbridge/internal"
	"github.com/starford/adfbridge/internal/converter"
	pkgconfig "github.com/starford/adfbridge/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func convert(_ context.Context, cmd *cli.Command) error {
	target := cmd.String("to")
	if !slices.Contains(converter.Targets, target) {
		return fmt.Errorf("unknown target %q (want one of %s)", target, strings.Join(converter.Targets, ", "))
	}

	var (
		input []byte
		err   error
		src   = "stdin"
	)
	if file := cmd.Args().First(); file != "" {
		src = file
		input, err = os.ReadFile(file)
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	out, err := converter.Convert(target, input)
	if err != nil {
		return fmt.Errorf("convert %s: %w", src, err)
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("convert: done",
		slog.String("source", src),
		slog.String("target", target),
		slog.String("in", humanize.Bytes(uint64(len(input)))),
		slog.String("out", humanize.Bytes(uint64(len(out)))))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "adfbridge",
		Usage:   "Convert between Markdown-like text, Atlassian Document Format and wiki markup",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, workspace watcher and SSE stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the conversion tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:      "convert",
				Usage:     "Convert a file (or stdin) and print the result",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "to",
						Usage: "Target format: " + strings.Join(converter.Targets, ", "),
						Value: converter.TargetADF,
					},
				},
				Action: convert,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

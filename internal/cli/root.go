package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/danmuck/fieldctl/internal/config"
	"github.com/danmuck/fieldctl/internal/logging"
	"github.com/danmuck/fieldctl/internal/registry"
)

const name = "fieldctl"

// New builds the root command writing to out.
func New(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   name,
		Usage:  "Inspect the actuator field-code registry",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a fieldctl TOML config",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace|debug|info|warn|error|disabled",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			listCmd(),
			codeCmd(),
			nameCmd(),
			groupCmd(),
			validateCmd(),
			exportCmd(),
			checkVersionCmd(),
			metricsCmd(),
			initConfigCmd(),
		},
	}
}

// Execute runs fieldctl with os.Args and exits non-zero on error.
func Execute() {
	logging.ConfigureRuntime()
	if err := New(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := config.Default()
	// init-config must be able to replace a config that no longer loads.
	if sub := cmd.Command(cmd.Args().First()); sub == nil || sub.Name != initConfigName {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return ctx, err
		}
		cfg = loaded
	}
	level := cfg.LogLevel
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if level != "" && !logging.SetLevel(level) {
		return ctx, fmt.Errorf("invalid log level: %q", level)
	}
	log.Debug().Str("config", cmd.String("config")).Str("format", cfg.Format).Msg("fieldctl configured")
	return ctx, nil
}

// loadConfig resolves the root --config flag from any command in the tree.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	return config.Load(cmd.Root().String("config"))
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func parseSpace(nsRaw, kindRaw string) (registry.Namespace, registry.Kind, error) {
	ns, err := registry.ParseNamespace(nsRaw)
	if err != nil {
		return 0, 0, err
	}
	kind, err := registry.ParseKind(kindRaw)
	if err != nil {
		return 0, 0, err
	}
	return ns, kind, nil
}

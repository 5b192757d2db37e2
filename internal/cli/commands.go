package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/danmuck/fieldctl/internal/config"
	"github.com/danmuck/fieldctl/internal/export"
	"github.com/danmuck/fieldctl/internal/observability"
	"github.com/danmuck/fieldctl/internal/registry"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List fields in code order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "command|info|feedback"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "string|enum|highresangle|float"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			namespaces, err := namespaceSelection(cmd, cmd.String("namespace"))
			if err != nil {
				return err
			}
			var kinds []registry.Kind
			if raw := cmd.String("kind"); raw != "" {
				k, err := registry.ParseKind(raw)
				if err != nil {
					return err
				}
				kinds = []registry.Kind{k}
			}

			reg := registry.Default()
			tw := tabwriter.NewWriter(writer(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAMESPACE\tKIND\tCODE\tNAME\tGROUP\tROLE")
			for _, s := range reg.Spaces() {
				if !slices.Contains(namespaces, s.Namespace) {
					continue
				}
				if len(kinds) != 0 && kinds[0] != s.Kind {
					continue
				}
				for _, f := range reg.FieldsOf(s.Namespace, s.Kind) {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
						f.Namespace, f.Kind, f.Code, f.Name, dash(f.Group.String()), dash(f.Role.String()))
				}
			}
			return tw.Flush()
		},
	}
}

func codeCmd() *cli.Command {
	return &cli.Command{
		Name:      "code",
		Usage:     "Print the code of a field",
		ArgsUsage: "NAMESPACE KIND NAME",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 3 {
				return fmt.Errorf("code: expected NAMESPACE KIND NAME")
			}
			ns, kind, err := parseSpace(cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}
			code, err := registry.CodeOf(ns, kind, cmd.Args().Get(2))
			if err != nil {
				return err
			}
			fmt.Fprintln(writer(cmd), code)
			return nil
		},
	}
}

func nameCmd() *cli.Command {
	return &cli.Command{
		Name:      "name",
		Usage:     "Print the field name carried by a code",
		ArgsUsage: "NAMESPACE KIND CODE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 3 {
				return fmt.Errorf("name: expected NAMESPACE KIND CODE")
			}
			ns, kind, err := parseSpace(cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}
			code, err := strconv.Atoi(cmd.Args().Get(2))
			if err != nil {
				return fmt.Errorf("name: parse code: %w", err)
			}
			name, err := registry.NameOf(ns, kind, code)
			if err != nil {
				return err
			}
			fmt.Fprintln(writer(cmd), name)
			return nil
		},
	}
}

func groupCmd() *cli.Command {
	return &cli.Command{
		Name:      "group",
		Usage:     "Print the control group of a field name",
		ArgsUsage: "NAME",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("group: expected NAME")
			}
			g, ok := registry.GroupOf(cmd.Args().First())
			if !ok {
				fmt.Fprintln(writer(cmd), "none")
				return nil
			}
			fmt.Fprintln(writer(cmd), g)
			return nil
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a field table for duplicate, missing or asymmetric codes",
		Description: `Without --file the built-in table is checked. With --file an exported
toml, yaml or json document is read back and checked instead.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "exported schema document"},
			&cli.StringFlag{Name: "format", Usage: "format of --file (defaults to its extension)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fields := registry.Default().Fields()
			source := "builtin"
			if path := cmd.String("file"); path != "" {
				var err error
				fields, err = readFields(path, cmd.String("format"))
				if err != nil {
					return err
				}
				source = path
			}
			reg, err := registry.New(fields)
			if err != nil {
				return fmt.Errorf("validate %s: %w", source, err)
			}
			log.Info().Str("source", source).Int("fields", len(fields)).Msg("schema valid")
			fmt.Fprintf(writer(cmd), "ok source=%s api=%s spaces=%d fields=%d\n",
				source, registry.APIVersion, len(reg.Spaces()), len(fields))
			return nil
		},
	}
}

func readFields(path, formatRaw string) ([]registry.Field, error) {
	if formatRaw == "" {
		if i := strings.LastIndex(path, "."); i >= 0 {
			formatRaw = path[i+1:]
		}
	}
	f, err := export.ParseFormat(formatRaw)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	defer file.Close()
	doc, err := export.Read(file, f)
	if err != nil {
		return nil, err
	}
	return export.Fields(doc)
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Render the registry as toml, yaml, json, markdown or Go constants",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Usage: "toml|yaml|json|markdown|go (default from config)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
			&cli.StringSliceFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "restrict to namespace, repeatable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			formatRaw := cfg.Format
			if cmd.IsSet("format") {
				formatRaw = cmd.String("format")
			}
			f, err := export.ParseFormat(formatRaw)
			if err != nil {
				return err
			}

			namespaces, err := cfg.NamespaceFilter()
			if err != nil {
				return err
			}
			if raw := cmd.StringSlice("namespace"); len(raw) != 0 {
				namespaces = make([]registry.Namespace, 0, len(raw))
				for _, s := range raw {
					ns, err := registry.ParseNamespace(s)
					if err != nil {
						return err
					}
					namespaces = append(namespaces, ns)
				}
			}

			output := cfg.Output
			if cmd.IsSet("output") {
				output = cmd.String("output")
			}

			doc := export.Build(registry.Default(), namespaces...)
			if output == "" {
				return export.Write(writer(cmd), doc, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := export.Write(file, doc, f); err != nil {
				file.Close()
				return err
			}
			log.Info().Str("output", output).Str("format", string(f)).Msg("schema exported")
			return file.Close()
		},
	}
}

func checkVersionCmd() *cli.Command {
	return &cli.Command{
		Name:      "check-version",
		Usage:     "Check a firmware version against the registry API version",
		ArgsUsage: "[VERSION]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			version := cmd.Args().First()
			if version == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				version = cfg.FirmwareVersion
			}
			if version == "" {
				return errors.New("check-version: no firmware version given")
			}
			if err := registry.CheckFirmware(version); err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "compatible firmware=%s api=%s\n", version, registry.APIVersion)
			return nil
		},
	}
}

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print registry metrics in the prometheus text format",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return observability.WriteText(writer(cmd), registry.Default())
		},
	}
}

const initConfigName = "init-config"

func initConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  initConfigName,
		Usage: "Write a config template",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "fieldctl.toml"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("output")
			if err := config.WriteTemplate(path, cmd.Bool("force")); err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "wrote %s\n", path)
			return nil
		},
	}
}

// namespaceSelection prefers an explicit flag value over the config filter.
func namespaceSelection(cmd *cli.Command, raw string) ([]registry.Namespace, error) {
	if raw != "" {
		ns, err := registry.ParseNamespace(raw)
		if err != nil {
			return nil, err
		}
		return []registry.Namespace{ns}, nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cfg.NamespaceFilter()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

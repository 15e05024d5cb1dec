package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/fastrefl/gen"
)

type genOptions struct {
	types  []string
	output string
	tags   string
}

func addGenFlags(fs *pflag.FlagSet, o *genOptions) {
	fs.StringSliceVarP(&o.types, "type", "t", nil, "Comma separated type names (default: all eligible types)")
	fs.StringVarP(&o.output, "output", "o", "", "Output file, relative to the package directory (default from config)")
	fs.StringVar(&o.tags, "tags", "", "Build tags used to load the packages (default from config)")
}

// NewGenCommand creates the gen command
func NewGenCommand(a *app) *cobra.Command {
	o := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen <package>...",
		Short: "Generate typed accessors for a package",
		Long: `Generate typed accessors for the types of one or more packages.

The generated file registers the accessors from init, so the registry uses
them instead of building reflection based accessors at runtime.

Examples:
  fastrefl gen ./model
  fastrefl gen ./model --type User,Account --output accessors_gen.go`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, a, o, args)
		},
	}
	addGenFlags(cmd.Flags(), o)
	return cmd
}

func runGen(cmd *cobra.Command, a *app, o *genOptions, pkgs []string) error {
	output := o.output
	if output == "" {
		output = a.cfg.Generator.Output
	}
	tags := o.tags
	if !cmd.Flags().Changed("tags") {
		tags = a.cfg.Generator.Tags
	}

	p := gen.NewParser(tags)
	g := gen.New(gen.NewGoimportsFormatter(), gen.NewFileWriter())

	successColor := color.New(color.FgGreen)
	skipColor := color.New(color.Faint)
	out := cmd.OutOrStdout()

	for _, path := range pkgs {
		pkg, err := p.Parse(path, o.types...)
		if err != nil {
			return err
		}
		written, err := g.Generate(pkg, output)
		if err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}
		a.log.Debug("generated accessors",
			zap.String("package", pkg.Path),
			zap.Int("types", len(pkg.Types)),
			zap.Bool("written", written),
		)
		if written {
			successColor.Fprintf(out, "✓ %s: %d types\n", pkg.Path, len(pkg.Types))
		} else {
			skipColor.Fprintf(out, "- %s: unchanged\n", pkg.Path)
		}
	}
	return nil
}

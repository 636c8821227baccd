package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"beamlint/internal/codemod"
	"beamlint/internal/diag"
)

// exitCodeErrors is returned when any Error-severity diagnostic remained.
const exitCodeErrors = 101

var lintCmd = &cobra.Command{
	Use:   "lint [project-dir]",
	Short: "Run diagnostics over a project and optionally apply fixes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLint,
}

func init() {
	flags := lintCmd.Flags()
	flags.String("module", "", "restrict to one module name")
	flags.String("file", "", "restrict to one file path")
	flags.String("diagnostic-filter", "", "diagnostic code or label to act on (required)")
	flags.Uint32("line-from", 0, "only diagnostics starting at or after this line")
	flags.Uint32("line-to", 0, "only diagnostics starting at or before this line")
	flags.Bool("apply-fix", false, "apply the first fix of each matching diagnostic")
	flags.Bool("recursive", false, "re-run after each fix until a fixed point")
	flags.Bool("in-place", false, "overwrite the original files")
	flags.String("to", "", "write changed modules into this directory")
	flags.Bool("include-generated", false, "also diagnose generated files")
	flags.StringSlice("ignore-apps", nil, "application names to skip")
	flags.String("format", "normal", "output format (json|normal)")
	flags.Bool("print-diags", true, "print each diagnostic")
	flags.Bool("pretty", false, "render diagnostics with source excerpts")
	flags.String("erlang-service", "", "command of the external analyzer sidecar")
	flags.Bool("timings", false, "show timing information")
}

func runLint(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	projectDir := "."
	if len(args) == 1 {
		projectDir = args[0]
	}

	opts := codemod.Options{}
	opts.Module, _ = flags.GetString("module")
	opts.File, _ = flags.GetString("file")
	opts.ApplyFix, _ = flags.GetBool("apply-fix")
	opts.Recursive, _ = flags.GetBool("recursive")
	opts.InPlace, _ = flags.GetBool("in-place")
	opts.To, _ = flags.GetString("to")
	opts.IncludeGenerated, _ = flags.GetBool("include-generated")
	opts.IgnoreApps, _ = flags.GetStringSlice("ignore-apps")
	opts.PrintDiags, _ = flags.GetBool("print-diags")

	format, _ := flags.GetString("format")
	switch format {
	case "json":
		opts.FormatJSON = true
	case "normal":
	default:
		return fmt.Errorf("unknown --format: %q (expected json or normal)", format)
	}

	// Ровно один код или метка обязательны для любого запуска lint,
	// не только для применения фиксов.
	filter, _ := flags.GetString("diagnostic-filter")
	if filter == "" {
		return errors.New("expecting --diagnostic-filter")
	}
	code, ok := diag.FromString(filter)
	if !ok {
		return fmt.Errorf("unknown diagnostic code or label: %q", filter)
	}
	opts.Filter = code
	opts.HasFilter = true
	if flags.Changed("line-from") {
		v, _ := flags.GetUint32("line-from")
		opts.LineFrom = &v
	}
	if flags.Changed("line-to") {
		v, _ := flags.GetUint32("line-to")
		opts.LineTo = &v
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	opts.WithProgress = !quiet && !opts.FormatJSON && isTerminal(os.Stderr)
	opts.Pretty, _ = flags.GetBool("pretty")
	opts.Timings, _ = flags.GetBool("timings")
	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	opts.Color = colorEnabled(colorMode, os.Stdout)

	project, err := loadProject(projectDir)
	if err != nil {
		return err
	}
	manifest, err := loadManifest(project.Root)
	if err != nil {
		return err
	}
	cfg, err := configFromManifest(manifest)
	if err != nil {
		return err
	}
	if len(opts.IgnoreApps) == 0 {
		opts.IgnoreApps = manifest.IgnoreApps
	}
	if opts.To != "" {
		if err := os.MkdirAll(opts.To, 0o755); err != nil {
			return err
		}
	}

	driver := codemod.NewDriver(project.Database, project.VFS, cfg, opts, cmd.OutOrStdout())
	if serviceCmd, _ := flags.GetString("erlang-service"); serviceCmd != "" {
		client, stop, err := startExternalService(serviceCmd)
		if err != nil {
			return err
		}
		defer stop()
		driver.SetExternal(client)
	}
	result, err := driver.Run(context.Background())
	if err != nil {
		return err
	}
	if result.ErrorsFound {
		// Ошибочные диагностики остались: ненулевой выход для CI.
		fmt.Fprintln(cmd.ErrOrStderr(), "Errors found")
		os.Exit(exitCodeErrors)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/look-tools-mcp/internal/app"
	"github.com/ironsheep/look-tools-mcp/internal/config"
	"github.com/ironsheep/look-tools-mcp/internal/logging"
	"github.com/ironsheep/look-tools-mcp/internal/param"
	"github.com/ironsheep/look-tools-mcp/internal/server"
	"github.com/ironsheep/look-tools-mcp/internal/settings"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "look-mcp",
		Short: "MCP server for building color looks and exporting 3D LUTs",
		Long: "look-mcp serves the look tools over MCP on stdin/stdout.\n" +
			"Configure it in your MCP client, or use the subcommands to apply\n" +
			"looks and bake LUTs from the shell.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app()
			if err != nil {
				return err
			}
			a.Log.Info().Str("version", Version).Str("commit", GitCommit).Msg("look server starting")
			srv := server.New(a, Version)
			defer srv.Close()
			return srv.Run()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error|off (defaults LOOK_LOG_LEVEL or info)")

	root.AddCommand(
		newOperatorsCmd(opts),
		newApplyCmd(opts),
		newExportLUTCmd(opts),
		newVersionCmd(),
	)
	return root
}

// app resolves the configuration and builds the application context. Logs
// always go to stderr; stdout carries the MCP protocol.
func (o *options) app() (*app.App, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, level, logging.Format(cfg.LogFormat))

	var store param.Store
	if cfg.SettingsPath != "" {
		fs, err := settings.OpenFileStore(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
		store = fs
	}
	return app.New(cfg, log, store)
}

func newOperatorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the registered operator types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app()
			if err != nil {
				return err
			}
			for _, name := range a.Registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newApplyCmd(opts *options) *cobra.Command {
	var lookPath, in, out string
	cmd := &cobra.Command{
		Use:     "apply",
		Short:   "Render an image through a look",
		Example: "  look-mcp apply --look film.look.yaml --in plate.tif --out graded.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app()
			if err != nil {
				return err
			}
			if _, err := a.LoadLook(lookPath); err != nil {
				return err
			}
			if _, err := a.LoadImage(in); err != nil {
				return err
			}
			if err := a.SaveOutput(out); err != nil {
				return err
			}
			a.Log.Info().Str("out", out).Msg("image written")
			return nil
		},
	}
	cmd.Flags().StringVar(&lookPath, "look", "", "Look file")
	cmd.Flags().StringVar(&in, "in", "", "Input image")
	cmd.Flags().StringVar(&out, "out", "", "Output image; the extension picks the format")
	for _, f := range []string{"look", "in", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newExportLUTCmd(opts *options) *cobra.Command {
	var lookPath, out string
	var size int
	cmd := &cobra.Command{
		Use:     "export-lut",
		Short:   "Bake a look into a .cube 3D LUT",
		Example: "  look-mcp export-lut --look film.look.yaml --out film.cube --size 65",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app()
			if err != nil {
				return err
			}
			if _, err := a.LoadLook(lookPath); err != nil {
				return err
			}
			return a.ExportLUT(out, size)
		},
	}
	cmd.Flags().StringVar(&lookPath, "look", "", "Look file")
	cmd.Flags().StringVar(&out, "out", "", "Output .cube path")
	cmd.Flags().IntVar(&size, "size", 0, "Lattice points per axis (defaults to the configured LUT size)")
	_ = cmd.MarkFlagRequired("look")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "look-tools-mcp %s\n", Version)
			fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
		},
	}
}

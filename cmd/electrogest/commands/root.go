// Package commands provides the CLI for the ElectroGest launcher. The root
// command runs the bootstrap sequence (banner, runtime probe, dependency
// install, blocking launch, footer, pause); the status subcommand queries a
// running daemon's health endpoint.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/juniorxam/Gestaodevendas/internal/bootstrap"
	"github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/version"
	"github.com/spf13/cobra"
)

// Launcher flag values.
var flags struct {
	Manifest      string
	Installer     string
	Runtime       string
	Entry         string
	WorkDir       string
	SkipInstall   bool
	StrictInstall bool
	NoPause       bool
	ReadyURL      string
	LogLevel      string
}

// RootCmd is the launcher entry point.
var RootCmd = &cobra.Command{
	Use:   "electrogest",
	Short: "ElectroGest launcher",
	Long: `ElectroGest launcher verifies the runtime is installed, refreshes the
dependency manifest, and starts the management dashboard as a foreground
process. When the dashboard stops, the launcher reports how it stopped and
waits for a keypress so diagnostics stay visible.`,
	Version:      version.LauncherVersion,
	SilenceUsage: true,
	Example: `  # Launch with defaults
  electrogest

  # Skip the dependency refresh and exit without pausing
  electrogest --skip-install --no-pause

  # Fail hard when the dependency install fails
  electrogest --strict-install

  # Report when the dashboard starts answering
  electrogest --ready-url=http://127.0.0.1:8501/api/v1/health`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.ValidateLogLevel(flags.LogLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetLevel(flags.LogLevel)

		cfg := bootstrap.Config{
			RuntimeProbe:  splitCommand(flags.Runtime),
			Installer:     splitCommand(flags.Installer),
			ManifestPath:  flags.Manifest,
			Entry:         splitCommand(flags.Entry),
			WorkDir:       flags.WorkDir,
			SkipInstall:   flags.SkipInstall,
			NoPause:       flags.NoPause,
			ReadyURL:      flags.ReadyURL,
			InstallPolicy: bootstrap.ContinueOnError,
		}
		if flags.StrictInstall {
			cfg.InstallPolicy = bootstrap.AbortOnError
		}

		_, err := bootstrap.New(cfg).Run(cmd.Context())
		return err
	},
}

// splitCommand turns "pip install -r" into a Command. Empty input yields the
// zero Command so bootstrap defaults apply.
func splitCommand(s string) bootstrap.Command {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return bootstrap.Command{}
	}
	return bootstrap.Command{Name: fields[0], Args: fields[1:]}
}

func init() {
	RootCmd.Flags().StringVar(&flags.Manifest, "manifest", config.DefaultManifestPath,
		"Path to the dependency manifest")
	RootCmd.Flags().StringVar(&flags.Installer, "installer", "",
		"Installer command; the manifest path is appended as the final argument")
	RootCmd.Flags().StringVar(&flags.Runtime, "runtime", "",
		"Runtime probe command (default: electrogestd --version)")
	RootCmd.Flags().StringVar(&flags.Entry, "entry", "",
		"Application entry command to launch (default: electrogestd)")
	RootCmd.Flags().StringVar(&flags.WorkDir, "workdir", "",
		"Working directory for spawned commands (default: current directory)")
	RootCmd.Flags().BoolVar(&flags.SkipInstall, "skip-install", false,
		"Skip the dependency install step")
	RootCmd.Flags().BoolVar(&flags.StrictInstall, "strict-install", false,
		"Abort the launch when the dependency install fails")
	RootCmd.Flags().BoolVar(&flags.NoPause, "no-pause", false,
		"Exit immediately after the footer instead of waiting for a keypress")
	RootCmd.Flags().StringVar(&flags.ReadyURL, "ready-url", "",
		"Health URL to poll after launch; reports when the dashboard answers")
	RootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")

	RootCmd.AddCommand(statusCmd)
}

// Execute runs the launcher CLI.
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

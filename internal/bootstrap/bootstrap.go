// Package bootstrap implements the ElectroGest launcher sequence: banner,
// runtime probe, dependency install, blocking application launch, exit
// classification, and the final pause that keeps diagnostics on screen.
//
// The sequence is strictly ordered and runs once per invocation. The runtime
// probe is the only gate: if it fails nothing else runs. Installer failures
// are a policy decision (ContinueOnError or AbortOnError), never silently
// dropped. The child's termination is classified so a crash reads differently
// from a clean shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
)

// InstallPolicy decides what a failed dependency install does to the run.
type InstallPolicy int

const (
	// ContinueOnError logs the failure and proceeds to launch. This mirrors
	// the historical launcher behavior of treating the install as a
	// best-effort refresh.
	ContinueOnError InstallPolicy = iota
	// AbortOnError halts the run before launching.
	AbortOnError
)

func (p InstallPolicy) String() string {
	if p == AbortOnError {
		return "abort-on-error"
	}
	return "continue-on-error"
}

// InstallResult is the examined outcome of the dependency install step.
type InstallResult struct {
	Skipped bool
	Status  ExitStatus
	Err     error
}

// Failed reports whether the install ran and did not finish cleanly.
func (r InstallResult) Failed() bool {
	return !r.Skipped && (r.Err != nil || !r.Status.Clean())
}

// Config controls one launcher run. Zero values fall back to the product
// defaults so `electrogest` with no flags behaves like the historical script.
type Config struct {
	// RuntimeProbe verifies the required runtime answers a version query.
	RuntimeProbe Command
	// Installer refreshes dependencies from the manifest. The manifest path
	// is appended as its final argument.
	Installer Command
	// ManifestPath locates the dependency manifest.
	ManifestPath string
	// Entry is the application to launch as the blocking foreground child.
	Entry Command
	// WorkDir, when set, is the working directory for every spawned command.
	WorkDir string

	InstallPolicy InstallPolicy
	SkipInstall   bool

	// ReadyURL, when set, is polled after launch so the operator sees when
	// the dashboard answers. Probe failures are reported, never fatal.
	ReadyURL string

	// NoPause skips the final keypress wait.
	NoPause bool
}

func (c *Config) applyDefaults() {
	if c.RuntimeProbe.Name == "" {
		c.RuntimeProbe = Command{Name: "electrogestd", Args: []string{"--version"}}
	}
	if c.Installer.Name == "" {
		c.Installer = Command{Name: "pip", Args: []string{"install", "-r"}}
	}
	if c.ManifestPath == "" {
		c.ManifestPath = config.DefaultManifestPath
	}
	if c.Entry.Name == "" {
		c.Entry = Command{Name: "electrogestd"}
	}
}

// Result is the outcome of a full launcher run.
type Result struct {
	// Halted is true when the runtime probe failed and nothing else ran.
	Halted bool
	// Install is the dependency install outcome.
	Install InstallResult
	// Exit classifies how the application terminated. Only meaningful when
	// Halted is false.
	Exit ExitStatus
}

// Bootstrapper runs the launch sequence. Runner and Prompter are injectable
// so tests can fake process execution and the keypress wait.
type Bootstrapper struct {
	config   Config
	runner   Runner
	prompter Prompter
	ready    ReadinessProbe
	out      io.Writer
}

// Option adjusts a Bootstrapper at construction.
type Option func(*Bootstrapper)

// WithRunner substitutes the process runner.
func WithRunner(r Runner) Option {
	return func(b *Bootstrapper) { b.runner = r }
}

// WithPrompter substitutes the keypress wait.
func WithPrompter(p Prompter) Option {
	return func(b *Bootstrapper) { b.prompter = p }
}

// WithReadinessProbe substitutes the HTTP readiness poll.
func WithReadinessProbe(probe ReadinessProbe) Option {
	return func(b *Bootstrapper) { b.ready = probe }
}

// WithOutput redirects the banner and footer.
func WithOutput(w io.Writer) Option {
	return func(b *Bootstrapper) { b.out = w }
}

// New creates a Bootstrapper with real process execution and a terminal
// keypress prompter.
func New(cfg Config, opts ...Option) *Bootstrapper {
	cfg.applyDefaults()

	b := &Bootstrapper{
		config:   cfg,
		runner:   &ExecRunner{Dir: cfg.WorkDir},
		prompter: &TerminalPrompter{In: os.Stdin, Out: os.Stdout},
		ready:    &HTTPReadinessProbe{},
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes the launcher sequence and always terminates. The error return
// covers only the aborting paths (failed probe, or install failure under
// AbortOnError); the child's own exit status lives in Result.Exit.
func (b *Bootstrapper) Run(ctx context.Context) (Result, error) {
	var result Result

	b.printBanner()

	if err := b.probeRuntime(ctx); err != nil {
		result.Halted = true
		b.printProbeFailure(err)
		b.pause()
		return result, err
	}

	result.Install = b.installDependencies(ctx)
	if result.Install.Failed() && b.config.InstallPolicy == AbortOnError {
		b.pause()
		return result, fmt.Errorf("dependency install failed: %w", installError(result.Install))
	}

	result.Exit = b.launch(ctx)

	b.printFooter(result.Exit)
	b.pause()
	return result, nil
}

// probeRuntime runs the version command and demands a clean exit.
func (b *Bootstrapper) probeRuntime(ctx context.Context) error {
	probe := b.config.RuntimeProbe
	logging.Info("Probing runtime: %s", probe)

	status, err := b.runner.Run(ctx, probe)
	if err != nil {
		return fmt.Errorf("runtime %s not found: %w", probe.Name, err)
	}
	if !status.Clean() {
		return fmt.Errorf("runtime probe %s exited with %s", probe, status)
	}
	return nil
}

// installDependencies runs the installer against the manifest. The outcome
// is always returned for the caller to examine; whether it aborts the run is
// the policy's call, made in Run.
func (b *Bootstrapper) installDependencies(ctx context.Context) InstallResult {
	if b.config.SkipInstall {
		logging.Info("Skipping dependency install")
		return InstallResult{Skipped: true}
	}

	installer := b.config.Installer
	installer.Args = append(append([]string{}, installer.Args...), b.config.ManifestPath)

	logging.Info("Installing dependencies: %s", installer)
	status, err := b.runner.Run(ctx, installer)
	result := InstallResult{Status: status, Err: err}

	if result.Failed() {
		logging.Warn("Dependency install failed (%v), policy %s",
			installError(result), b.config.InstallPolicy)
	} else {
		logging.Success("Dependencies up to date")
	}
	return result
}

// launch starts the application as a blocking child and classifies its
// termination. Readiness polling, when configured, runs alongside the child
// and only reports.
func (b *Bootstrapper) launch(ctx context.Context) ExitStatus {
	logging.Info("Launching application: %s", b.config.Entry)

	if b.config.ReadyURL != "" && b.ready != nil {
		go func() {
			if err := b.ready.WaitReady(ctx, b.config.ReadyURL); err != nil {
				logging.Warn("Dashboard did not answer at %s: %v", b.config.ReadyURL, err)
				return
			}
			logging.Success("Dashboard is answering at %s", b.config.ReadyURL)
		}()
	}

	status, err := b.runner.Run(ctx, b.config.Entry)
	if err != nil {
		// The child could not even start. Surface it as a failed exit so the
		// footer still picks the failure message.
		logging.Error("Failed to start application: %v", err)
		return ExitStatus{Class: ExitFailed, Code: -1}
	}
	return status
}

func (b *Bootstrapper) pause() {
	if b.config.NoPause || b.prompter == nil {
		return
	}
	b.prompter.WaitForKeypress()
}

func installError(r InstallResult) error {
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("installer exited with %s", r.Status)
}

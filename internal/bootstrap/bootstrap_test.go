package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeRunner records every command and answers from a scripted outcome per
// command name.
type fakeRunner struct {
	calls    []Command
	statuses map[string]ExitStatus
	errs     map[string]error
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (ExitStatus, error) {
	f.calls = append(f.calls, cmd)
	if err, ok := f.errs[cmd.Name]; ok {
		return ExitStatus{}, err
	}
	return f.statuses[cmd.Name], nil
}

func (f *fakeRunner) calledNames() []string {
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Name
	}
	return names
}

type fakePrompter struct {
	waited int
}

func (f *fakePrompter) WaitForKeypress() { f.waited++ }

func newTestBootstrapper(cfg Config, runner *fakeRunner, prompter *fakePrompter) (*Bootstrapper, *bytes.Buffer) {
	var out bytes.Buffer
	b := New(cfg,
		WithRunner(runner),
		WithPrompter(prompter),
		WithOutput(&out),
	)
	return b, &out
}

func TestProbeFailureHaltsBeforeInstallAndLaunch(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitFailed, Code: 1},
		},
	}
	prompter := &fakePrompter{}
	b, out := newTestBootstrapper(Config{}, runner, prompter)

	result, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("Run() with failing probe returned nil error")
	}
	if !result.Halted {
		t.Error("result.Halted = false, want true")
	}

	// only the probe command may have run
	if len(runner.calls) != 1 {
		t.Fatalf("commands run = %v, want only the probe", runner.calledNames())
	}
	if runner.calls[0].Name != "electrogestd" || runner.calls[0].Args[0] != "--version" {
		t.Errorf("probe command = %s, want electrogestd --version", runner.calls[0])
	}

	if !strings.Contains(out.String(), "ERRO") {
		t.Error("probe failure output missing remediation message")
	}
	if prompter.waited != 1 {
		t.Errorf("prompter waits = %d, want 1", prompter.waited)
	}
}

func TestHappyPathOrdering(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitClean},
			"pip":          {Class: ExitClean},
		},
	}
	prompter := &fakePrompter{}
	b, out := newTestBootstrapper(Config{}, runner, prompter)

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Halted {
		t.Error("result.Halted = true, want false")
	}

	want := []string{"electrogestd", "pip", "electrogestd"}
	got := runner.calledNames()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("command order = %v, want %v", got, want)
	}

	// installer receives the manifest as its final argument
	installer := runner.calls[1]
	if installer.Args[len(installer.Args)-1] != "requirements.txt" {
		t.Errorf("installer args = %v, want manifest as last argument", installer.Args)
	}

	banner := strings.Index(out.String(), "ElectroGest")
	footer := strings.Index(out.String(), "parou de ser executado")
	if banner == -1 || footer == -1 || banner > footer {
		t.Error("banner and footer missing or out of order")
	}
	if prompter.waited != 1 {
		t.Errorf("prompter waits = %d, want 1", prompter.waited)
	}
}

func TestInstallerFailureContinuesByDefault(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitClean},
			"pip":          {Class: ExitFailed, Code: 2},
		},
	}
	b, _ := newTestBootstrapper(Config{}, runner, &fakePrompter{})

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Install.Failed() {
		t.Error("Install.Failed() = false, want true")
	}

	// launch still happened after the failed install
	got := runner.calledNames()
	if len(got) != 3 || got[2] != "electrogestd" {
		t.Errorf("commands run = %v, want launch after failed install", got)
	}
}

func TestInstallerFailureAbortsUnderAbortPolicy(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitClean},
			"pip":          {Class: ExitFailed, Code: 2},
		},
	}
	prompter := &fakePrompter{}
	b, _ := newTestBootstrapper(Config{InstallPolicy: AbortOnError}, runner, prompter)

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("Run() under AbortOnError returned nil error")
	}

	// probe + installer only, no launch
	if len(runner.calls) != 2 {
		t.Errorf("commands run = %v, want no launch", runner.calledNames())
	}
	if prompter.waited != 1 {
		t.Errorf("prompter waits = %d, want 1 (pause still happens)", prompter.waited)
	}
}

func TestSkipInstall(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{"electrogestd": {Class: ExitClean}},
	}
	b, _ := newTestBootstrapper(Config{SkipInstall: true}, runner, &fakePrompter{})

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Install.Skipped {
		t.Error("Install.Skipped = false, want true")
	}

	got := runner.calledNames()
	if fmt.Sprint(got) != fmt.Sprint([]string{"electrogestd", "electrogestd"}) {
		t.Errorf("commands run = %v, want probe then launch only", got)
	}
}

func TestFooterPerExitClass(t *testing.T) {
	tests := []struct {
		name   string
		status ExitStatus
		want   string
	}{
		{"clean", ExitStatus{Class: ExitClean}, "encerrado normalmente"},
		{"nonzero", ExitStatus{Class: ExitFailed, Code: 3}, "código 3"},
		{"signaled", ExitStatus{Class: ExitSignaled, Signal: "interrupt"}, "sinal: interrupt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				statuses: map[string]ExitStatus{
					"electrogestd": tt.status,
					"pip":          {Class: ExitClean},
				},
			}
			// probe and launch share the binary; let the probe pass by
			// making the probe a distinct command
			cfg := Config{
				RuntimeProbe: Command{Name: "runtime", Args: []string{"--version"}},
			}
			runner.statuses["runtime"] = ExitStatus{Class: ExitClean}

			b, out := newTestBootstrapper(cfg, runner, &fakePrompter{})
			result, err := b.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.Exit.Class != tt.status.Class {
				t.Errorf("Exit.Class = %v, want %v", result.Exit.Class, tt.status.Class)
			}

			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("footer %q missing %q", out.String(), tt.want)
			}
			// the generic advice line prints for every class
			if !strings.Contains(out.String(), "parou de ser executado") {
				t.Error("footer missing generic advice line")
			}
		})
	}
}

func TestLaunchStartFailureStillReachesFooterAndPause(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{"runtime": {Class: ExitClean}},
		errs:     map[string]error{"electrogestd": fmt.Errorf("executable not found")},
	}
	prompter := &fakePrompter{}
	cfg := Config{
		RuntimeProbe: Command{Name: "runtime", Args: []string{"--version"}},
		SkipInstall:  true,
	}

	b, out := newTestBootstrapper(cfg, runner, prompter)
	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Exit.Clean() {
		t.Error("Exit.Clean() = true for failed start, want false")
	}
	if !strings.Contains(out.String(), "parou de ser executado") {
		t.Error("footer missing after failed start")
	}
	if prompter.waited != 1 {
		t.Errorf("prompter waits = %d, want 1", prompter.waited)
	}
}

func TestRerunIsIdempotent(t *testing.T) {
	run := func() []string {
		runner := &fakeRunner{
			statuses: map[string]ExitStatus{
				"electrogestd": {Class: ExitClean},
				"pip":          {Class: ExitClean},
			},
		}
		b, _ := newTestBootstrapper(Config{}, runner, &fakePrompter{})
		if _, err := b.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return runner.calledNames()
	}

	first := run()
	second := run()
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("re-run sequence %v differs from first run %v", second, first)
	}
}

func TestNoPauseSkipsPrompter(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitClean},
			"pip":          {Class: ExitClean},
		},
	}
	prompter := &fakePrompter{}
	b, _ := newTestBootstrapper(Config{NoPause: true}, runner, prompter)

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if prompter.waited != 0 {
		t.Errorf("prompter waits = %d, want 0", prompter.waited)
	}
}

func TestRunTerminatesPromptlyAfterChildExit(t *testing.T) {
	runner := &fakeRunner{
		statuses: map[string]ExitStatus{
			"electrogestd": {Class: ExitClean},
			"pip":          {Class: ExitClean},
		},
	}
	b, _ := newTestBootstrapper(Config{NoPause: true}, runner, &fakePrompter{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := b.Run(context.Background()); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not terminate after child exit")
	}
}

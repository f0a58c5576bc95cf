// Package executor runs aip-man to install and remove packages.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"aipster/internal/log"
	"aipster/pkg/manager"
)

// DefaultBinary is the package manager invoked for actions.
const DefaultBinary = "aip-man"

// Executor invokes the package manager binary as "<binary> <verb> <name>".
// Upgrades use the install verb.
type Executor struct {
	binary      string
	installVerb string
	removeVerb  string
	dryRun      bool
	verbose     bool
	stream      io.Writer // Receives live output when set
}

// New creates a new Executor with the given options. An empty binary selects
// DefaultBinary.
func New(binary string, dryRun, verbose bool) *Executor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Executor{
		binary:      binary,
		installVerb: "install",
		removeVerb:  "remove",
		dryRun:      dryRun,
		verbose:     verbose,
	}
}

// SetVerbs overrides the install and remove verbs. Empty values are ignored.
func (e *Executor) SetVerbs(install, remove string) {
	if install != "" {
		e.installVerb = install
	}
	if remove != "" {
		e.removeVerb = remove
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetVerbose enables or disables verbose mode.
func (e *Executor) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// SetStream makes the executor copy output to w while the command runs.
// The TUI leaves this unset; output is still captured in the Outcome.
func (e *Executor) SetStream(w io.Writer) {
	e.stream = w
}

// Binary returns the configured package manager binary.
func (e *Executor) Binary() string {
	return e.binary
}

// Command returns the argv for action on name.
func (e *Executor) Command(action manager.Action, name string) ([]string, error) {
	var verb string
	switch action {
	case manager.ActionInstall, manager.ActionUpgrade:
		verb = e.installVerb
	case manager.ActionRemove:
		verb = e.removeVerb
	default:
		return nil, fmt.Errorf("unknown action %q", string(action))
	}
	if name == "" {
		return nil, errors.New("package name is required")
	}
	return []string{e.binary, verb, name}, nil
}

// Run implements manager.Executor. A non-zero exit is reported through
// Outcome.Success; only failures to start the command return an error.
func (e *Executor) Run(ctx context.Context, action manager.Action, name string) (manager.Outcome, error) {
	argv, err := e.Command(action, name)
	if err != nil {
		return manager.Outcome{}, manager.NewError(manager.ErrActionDispatchFailed, action.String()+" "+name, err)
	}
	line := strings.Join(argv, " ")

	if e.dryRun {
		msg := fmt.Sprintf("[dry-run] Would execute: %s", line)
		e.echo(msg)
		return manager.Outcome{Success: true, Stdout: msg}, nil
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return manager.Outcome{}, manager.NewError(manager.ErrActionDispatchFailed, line, err)
	}

	log.Debug("executor: %s %s %s", path, argv[1], argv[2])
	if e.verbose {
		e.echo("Executing: " + line)
	}

	cmd := exec.CommandContext(ctx, path, argv[1:]...)

	var stdout, stderr bytes.Buffer
	if e.stream != nil {
		cmd.Stdout = io.MultiWriter(e.stream, &stdout)
		cmd.Stderr = io.MultiWriter(e.stream, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err = cmd.Run()
	outcome := manager.Outcome{
		Success: err == nil,
		Stdout:  strings.TrimRight(stdout.String(), "\n"),
		Stderr:  strings.TrimRight(stderr.String(), "\n"),
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return outcome, manager.NewError(manager.ErrActionDispatchFailed, line, err)
	}
	if exitErr != nil {
		log.Debug("executor: %s exited with code %d", line, exitErr.ExitCode())
	}

	return outcome, nil
}

func (e *Executor) echo(line string) {
	if e.stream != nil {
		fmt.Fprintln(e.stream, line)
	}
}

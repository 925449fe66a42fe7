package train

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Invocation is one trainer process launch.
type Invocation struct {
	Args []string
	Dir  string
	// Env entries (KEY=value) are added to the inherited environment.
	Env []string
}

// Runner launches the external trainer.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs the trainer as a child process and forwards its output
// to the logger line by line.
type ExecRunner struct {
	Logger *slog.Logger
}

// Run starts the trainer and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	argv := inv.Args
	if len(argv) == 0 {
		return fmt.Errorf("trainer command is empty")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // command comes from user configuration
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach trainer stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to attach trainer stderr: %w", err)
	}

	logger.Info("starting trainer", slog.String("command", strings.Join(argv, " ")))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start trainer %q: %w", argv[0], err)
	}

	var g errgroup.Group
	g.Go(func() error { return forward(stdout, logger, "stdout") })
	g.Go(func() error { return forward(stderr, logger, "stderr") })

	// Pipes must be drained before Wait closes them.
	streamErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("trainer failed: %w", err)
	}
	if streamErr != nil {
		return fmt.Errorf("failed to read trainer output: %w", streamErr)
	}
	return nil
}

func forward(rd io.Reader, logger *slog.Logger, stream string) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		logger.Info(sc.Text(), slog.String("stream", stream))
	}
	return sc.Err()
}

// BuildCommand splits a trainer command line on whitespace and expands the
// {config} and {output_dir} placeholders in each argument.
func BuildCommand(command, configPath, outputDir string) []string {
	fields := strings.Fields(command)
	repl := strings.NewReplacer("{config}", configPath, "{output_dir}", outputDir)
	for i, f := range fields {
		fields[i] = repl.Replace(f)
	}
	return fields
}

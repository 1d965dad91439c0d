// Package typeset compiles LaTeX markup into a PDF with an external toolchain.
package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultBinary is the LaTeX engine used when none is configured
	DefaultBinary = "tectonic"
	// DefaultTimeout is the maximum time to wait for a compilation
	DefaultTimeout = 60 * time.Second
	// DefaultInputName is the markup file written into the workspace
	DefaultInputName = "resume.tex"
	// DefaultOutputName is the artifact the compiler is expected to produce
	DefaultOutputName = "resume.pdf"

	// waitDelay bounds how long Wait blocks on output pipes after the process is killed
	waitDelay = 2 * time.Second
)

// Compiler runs an external typesetting binary in a throwaway workspace.
// The zero value is usable and compiles with tectonic.
type Compiler struct {
	Binary     string
	Args       []string // placed before the input file name
	Timeout    time.Duration
	InputName  string
	OutputName string
	Logger     *log.Logger
}

// New returns a Compiler for the given binary with default settings
func New(binary string, timeout time.Duration) *Compiler {
	return &Compiler{Binary: binary, Timeout: timeout}
}

func (c *Compiler) withDefaults() Compiler {
	cfg := Compiler{}
	if c != nil {
		cfg = *c
	}
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.InputName == "" {
		cfg.InputName = DefaultInputName
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultOutputName
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return cfg
}

// Compile writes markup to a fresh workspace, runs the compiler there and returns the artifact bytes.
// The workspace is removed before Compile returns, on every path.
func (c *Compiler) Compile(ctx context.Context, markup string) ([]byte, error) {
	cfg := c.withDefaults()

	binPath, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, &CompilationError{
			Message:  fmt.Sprintf("%s not found in PATH", cfg.Binary),
			ExitCode: -1,
			Cause:    err,
		}
	}

	ws, err := openWorkspace()
	if err != nil {
		return nil, &CompilationError{Message: "failed to create workspace", ExitCode: -1, Cause: err}
	}
	defer ws.Close()

	if err := ws.WriteFile(cfg.InputName, []byte(markup)); err != nil {
		return nil, &CompilationError{Message: "failed to write input file", ExitCode: -1, Cause: err}
	}

	output, runErr := cfg.run(ctx, binPath, ws.dir)
	if runErr != nil {
		return nil, runErr
	}

	pdf, err := ws.ReadFile(cfg.OutputName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingArtifactError{Name: cfg.OutputName, Output: output}
		}
		return nil, &CompilationError{Message: "failed to read artifact", Output: output, Cause: err}
	}
	return pdf, nil
}

// run executes the compiler and classifies its termination
func (cfg Compiler) run(ctx context.Context, binPath, dir string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, cfg.Args...), cfg.InputName)
	cmd := exec.CommandContext(runCtx, binPath, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	out := &lineLogger{logger: cfg.Logger, prefix: "[typeset] "}
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()
	out.Flush()
	output := out.String()

	switch {
	case err == nil:
		cfg.Logger.Printf("[typeset] %s finished in %s", cfg.Binary, time.Since(start).Round(time.Millisecond))
		return output, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return output, &CompilationError{Message: "caller deadline exceeded", ExitCode: -1, Output: output, Cause: ctx.Err()}
	case ctx.Err() != nil:
		return output, &CompilationError{Message: "compilation canceled", ExitCode: -1, Output: output, Cause: ctx.Err()}
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return output, &TimeoutError{Timeout: cfg.Timeout, Output: output}
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return output, &CompilationError{
		Message:  fmt.Sprintf("%s exited with code %d", cfg.Binary, exitCode),
		ExitCode: exitCode,
		Output:   output,
		Cause:    err,
	}
}

// workspace is a call-scoped directory owned by a single compilation
type workspace struct {
	dir string
}

func openWorkspace() (*workspace, error) {
	dir, err := os.MkdirTemp("", "typeset-*")
	if err != nil {
		return nil, err
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) WriteFile(name string, data []byte) error {
	return os.WriteFile(filepath.Join(w.dir, name), data, 0600)
}

func (w *workspace) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(w.dir, name))
}

func (w *workspace) Close() error {
	if err := os.RemoveAll(w.dir); err != nil {
		log.Printf("[typeset] failed to remove workspace %s: %v", w.dir, err)
		return err
	}
	return nil
}

// lineLogger collects merged process output and logs it one line at a time
type lineLogger struct {
	mu      sync.Mutex
	logger  *log.Logger
	prefix  string
	all     bytes.Buffer
	pending []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all.Write(p)
	l.pending = append(l.pending, p...)
	for {
		i := bytes.IndexByte(l.pending, '\n')
		if i < 0 {
			break
		}
		l.logger.Print(l.prefix + string(bytes.TrimRight(l.pending[:i], "\r")))
		l.pending = l.pending[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) > 0 {
		l.logger.Print(l.prefix + string(l.pending))
		l.pending = nil
	}
}

func (l *lineLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.all.String()
}

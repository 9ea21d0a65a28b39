package doot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// RunConfig carries per-invocation subprocess settings.
type RunConfig struct {
	Echo      bool
	LogStatus bool
	Dir       string
	Env       []string
	Context   context.Context
	Stdin     io.Reader
}

type RunOption func(*RunConfig)

// WithEcho controls whether the command line is echoed before running.
// Echo is on by default.
func WithEcho(echo bool) RunOption {
	return func(cfg *RunConfig) {
		cfg.Echo = echo
	}
}

// WithLogStatus logs a success or failure line after the command exits.
func WithLogStatus() RunOption {
	return func(cfg *RunConfig) {
		cfg.LogStatus = true
	}
}

// WithDir sets the working directory for the command.
func WithDir(dir string) RunOption {
	return func(cfg *RunConfig) {
		cfg.Dir = dir
	}
}

// WithEnv appends variables ("KEY=value") to the inherited environment.
func WithEnv(env ...string) RunOption {
	return func(cfg *RunConfig) {
		cfg.Env = append(cfg.Env, env...)
	}
}

// WithContext cancels the command when ctx is done.
func WithContext(ctx context.Context) RunOption {
	return func(cfg *RunConfig) {
		cfg.Context = ctx
	}
}

// WithStdin connects the command's standard input to r instead of the
// process stdin.
func WithStdin(r io.Reader) RunOption {
	return func(cfg *RunConfig) {
		cfg.Stdin = r
	}
}

// Run tokenizes command, appends the extra tokens and executes it with
// inherited stdio. The child's exit status is returned; spawn failures
// are reported and yield -1.
func (tm *TaskManager) Run(command string, extra []string, opts ...RunOption) int {
	argv, err := splitCommand(command)
	if err != nil {
		tm.log.Error("%v", err)
		return -1
	}
	if len(argv) == 0 {
		tm.log.Error("doot: empty command")
		return -1
	}

	return tm.RunArgv(argv, extra, opts...)
}

// RunArgv is Run with an explicit token list, skipping tokenization.
func (tm *TaskManager) RunArgv(argv []string, extra []string, opts ...RunOption) int {
	cfg := RunConfig{Echo: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	argv = append(argv[:len(argv):len(argv)], extra...)

	if cfg.Echo {
		tm.colorln(tm.stdout, cmdColor, " -> "+quoteCommand(argv))
	}

	var cmd *exec.Cmd
	if cfg.Context != nil {
		cmd = exec.CommandContext(cfg.Context, argv[0], argv[1:]...)
	} else {
		cmd = exec.Command(argv[0], argv[1:]...)
	}

	cmd.Dir = cfg.Dir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}

	cmd.Stdin = os.Stdin
	if cfg.Stdin != nil {
		cmd.Stdin = cfg.Stdin
	}
	cmd.Stdout = tm.stdout
	cmd.Stderr = tm.stderr

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			tm.log.Error("failed to run command: %v", err)
			code = -1
		}
	}

	if cfg.LogStatus {
		tm.Log("")
		if code != 0 {
			tm.log.Error("Command exited with a non-zero exit code: %d", code)
		} else {
			tm.log.Info("Command completed without any errors.")
		}
	}

	return code
}

// RunIn executes command inside a running docker container via
// "docker exec -it". An empty container falls back to the configured
// default container.
func (tm *TaskManager) RunIn(container, command string, extra []string, opts ...RunOption) int {
	if container == "" {
		container = tm.cfg.DefaultContainer
	}
	if container == "" {
		tm.log.Error("default container is not set, so you must pass a container name")
		return -1
	}

	out, err := exec.Command("docker", "inspect", "--format", "{{.State.Running}}", container).Output()
	running := err == nil && strings.TrimSpace(string(out)) == "true"
	if !running {
		tm.log.Error(`The %q container does not appear to be running. Try "docker-compose up -d".`, container)
		return -1
	}

	return tm.Run(fmt.Sprintf("docker exec -it %s %s", container, command), extra, opts...)
}

// RunScript writes script to a temporary file and executes it with sh.
func (tm *TaskManager) RunScript(script string, opts ...RunOption) int {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("doot-%s.sh", uuid.NewString()))
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		tm.log.Error("failed to write script: %v", err)
		return -1
	}
	defer os.Remove(path)

	return tm.RunArgv([]string{"sh", path}, nil, append([]RunOption{WithEcho(false)}, opts...)...)
}

// splitCommand tokenizes a command line, honoring single quotes, double
// quotes and backslash escapes.
func splitCommand(s string) ([]string, error) {
	var argv []string
	var current strings.Builder

	var quote rune
	escaped := false
	pending := false

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				current.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			pending = true
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case unicode.IsSpace(r):
			if pending || current.Len() > 0 {
				argv = append(argv, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}

	if escaped || quote != 0 {
		return nil, fmt.Errorf("doot: unbalanced quote in command: %q", s)
	}

	if pending || current.Len() > 0 {
		argv = append(argv, current.String())
	}

	return argv, nil
}

// quoteCommand renders argv for echoing, quoting tokens with spaces.
func quoteCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if strings.ContainsAny(arg, " \t") {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}

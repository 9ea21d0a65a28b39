package doot

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/mwantia/doot/log"
)

var (
	splashColor = color.New(color.FgHiCyan)
	cmdColor    = color.New(color.FgHiCyan)
)

// Config holds runner-wide settings.
type Config struct {
	// Name is the program name shown in usage output, e.g. "./do".
	Name string

	// Splash is printed above the task listing.
	Splash string

	// DefaultContainer is used by RunIn when no container is given.
	DefaultContainer string

	LogLevel log.LogLevel
	LogFile  string
	NoColor  bool

	// Output and ErrOutput replace the process stdout/stderr, mainly
	// for tests and embedding.
	Output    io.Writer
	ErrOutput io.Writer
}

// Option configures a TaskManager at construction time.
type Option func(*Config)

func WithName(name string) Option {
	return func(cfg *Config) {
		cfg.Name = name
	}
}

func WithSplash(splash string) Option {
	return func(cfg *Config) {
		cfg.Splash = splash
	}
}

func WithDefaultContainer(container string) Option {
	return func(cfg *Config) {
		cfg.DefaultContainer = container
	}
}

func WithLogLevel(level log.LogLevel) Option {
	return func(cfg *Config) {
		cfg.LogLevel = level
	}
}

func WithLogFile(file string) Option {
	return func(cfg *Config) {
		cfg.LogFile = file
	}
}

func WithoutColor() Option {
	return func(cfg *Config) {
		cfg.NoColor = true
	}
}

func WithOutput(w io.Writer) Option {
	return func(cfg *Config) {
		cfg.Output = w
	}
}

func WithErrOutput(w io.Writer) Option {
	return func(cfg *Config) {
		cfg.ErrOutput = w
	}
}

// TaskManager is the process-wide task registry and dispatcher. It is
// populated through Register while the program declares its tasks and
// becomes read-only once Exec begins dispatch.
type TaskManager struct {
	cfg Config
	log *log.Logger

	stdout io.Writer
	stderr io.Writer

	tasks       []*Task
	index       map[string]*Task
	defaultTask *Task
	dispatching bool
}

func New(opts ...Option) *TaskManager {
	cfg := Config{
		Name:     "./do",
		LogLevel: log.Info,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	logger := log.NewLogger("doot", cfg.LogLevel, cfg.LogFile)
	logger.NoColor = cfg.NoColor

	tm := &TaskManager{
		cfg:    cfg,
		log:    logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
		index:  make(map[string]*Task),
	}
	tm.SetOutput(cfg.Output, cfg.ErrOutput)

	return tm
}

// SetOutput redirects console output, primarily for tests. Errors and
// usage messages go to errOut, everything else to out.
func (tm *TaskManager) SetOutput(out, errOut io.Writer) {
	if out != nil {
		tm.stdout = out
	}
	if errOut != nil {
		tm.stderr = errOut
	}
	tm.log.SetOutput(out, errOut)
}

// Register creates a task from fn and inserts it into the registry.
// fn must be one of:
//
//	func() error
//	func(*doot.Options) error
//	func(*doot.Options, []string) error
//
// The third shape receives the extra token list and requires
// WithPassthrough. Without WithTaskName the name is derived from the
// function's declared identifier, underscores mapped to hyphens; a
// leading "__" hides the task from the listing.
func (tm *TaskManager) Register(fn any, opts ...TaskOption) (*Task, error) {
	if tm.dispatching {
		return nil, ErrRegistryFrozen
	}

	task, err := newTask(fn, opts...)
	if err != nil {
		return nil, err
	}

	if task.Name == helpTaskName {
		return nil, fmt.Errorf("%w: %q", ErrReservedName, task.Name)
	}

	if existing, exists := tm.index[task.Name]; exists {
		return nil, fmt.Errorf("%w: %q (%s and %s)", ErrDuplicateTask, task.Name, existing.funcName, task.funcName)
	}

	if task.Default {
		if tm.defaultTask != nil {
			return nil, fmt.Errorf("%w: %q and %q", ErrMultipleDefaults, tm.defaultTask.Name, task.Name)
		}
		tm.defaultTask = task
	}

	tm.tasks = append(tm.tasks, task)
	tm.index[task.Name] = task

	return task, nil
}

// MustRegister is Register with configuration errors treated as fatal,
// matching declaration-time fail-fast semantics.
func (tm *TaskManager) MustRegister(fn any, opts ...TaskOption) *Task {
	task, err := tm.Register(fn, opts...)
	if err != nil {
		tm.log.Fatal("%v", err)
	}
	return task
}

// Get returns a registered task by name.
func (tm *TaskManager) Get(name string) (*Task, error) {
	task, exists := tm.index[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return task, nil
}

// Tasks returns all registered tasks in registration order.
func (tm *TaskManager) Tasks() []*Task {
	tasks := make([]*Task, len(tm.tasks))
	copy(tasks, tm.tasks)
	return tasks
}

// Log prints an uncolored line to the runner's output.
func (tm *TaskManager) Log(msg string, args ...any) {
	fmt.Fprintf(tm.stdout, msg+"\n", args...)
}

func (tm *TaskManager) Debug(msg string, args ...any) {
	tm.log.Debug(msg, args...)
}

func (tm *TaskManager) Info(msg string, args ...any) {
	tm.log.Info(msg, args...)
}

func (tm *TaskManager) Warn(msg string, args ...any) {
	tm.log.Warn(msg, args...)
}

func (tm *TaskManager) Error(msg string, args ...any) {
	tm.log.Error(msg, args...)
}

// Fatal logs the message and terminates the process with status 1.
func (tm *TaskManager) Fatal(msg string, args ...any) {
	tm.log.Fatal(msg, args...)
}

func (tm *TaskManager) colorln(w io.Writer, c *color.Color, msg string) {
	if tm.cfg.NoColor {
		fmt.Fprintln(w, msg)
		return
	}
	c.Fprintln(w, msg)
}

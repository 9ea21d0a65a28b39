package doot

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"unicode"
)

// hiddenPrefix marks a task as internal: it is suppressed from the
// help listing but remains invocable. The prefix is stripped from the
// final name.
const hiddenPrefix = "__"

// Task binds a callable to a name, a summary, its argument specs and
// its dispatch behavior. Tasks are created through TaskManager.Register
// and are read-only afterwards.
type Task struct {
	Name        string
	Summary     string
	Args        []*ArgSpec
	Passthrough bool
	Hidden      bool
	Default     bool

	fn       taskFunc
	funcName string
}

// taskFunc is the closed set of callable shapes a task may have:
// no arguments, parsed options only, or parsed options plus the extra
// token list (passthrough tasks).
type taskFunc interface {
	invoke(opts *Options) error
}

type noArgsFunc func() error

func (f noArgsFunc) invoke(*Options) error { return f() }

type optionsFunc func(*Options) error

func (f optionsFunc) invoke(opts *Options) error { return f(opts) }

type extrasFunc func(*Options, []string) error

func (f extrasFunc) invoke(opts *Options) error { return f(opts, opts.Extra) }

// TaskOption configures a task at registration time.
type TaskOption func(*Task) error

// WithTaskName overrides the name derived from the callable.
func WithTaskName(name string) TaskOption {
	return func(t *Task) error {
		if name == "" {
			return fmt.Errorf("%w: task name is empty", ErrInvalidName)
		}
		t.Name = name
		return nil
	}
}

// WithSummary sets the one-line description shown in the help listing.
// Only the first line is kept.
func WithSummary(summary string) TaskOption {
	return func(t *Task) error {
		if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
			summary = summary[:idx]
		}
		t.Summary = strings.TrimSpace(summary)
		return nil
	}
}

// WithArgs appends argument specs to the task.
func WithArgs(specs ...*ArgSpec) TaskOption {
	return func(t *Task) error {
		t.Args = append(t.Args, specs...)
		return nil
	}
}

// WithPassthrough captures unrecognized tokens instead of rejecting
// them; the callable must accept the extra token list.
func WithPassthrough() TaskOption {
	return func(t *Task) error {
		t.Passthrough = true
		return nil
	}
}

// WithHidden suppresses the task from the help listing. It remains
// invocable by name.
func WithHidden() TaskOption {
	return func(t *Task) error {
		t.Hidden = true
		return nil
	}
}

// WithDefault marks the task as the fallback invoked when the requested
// task name is not registered.
func WithDefault() TaskOption {
	return func(t *Task) error {
		t.Default = true
		return nil
	}
}

// Matches the idents the runtime gives anonymous functions, e.g.
// "func1" or the "2" tail of "main.main.func1.2".
var anonFuncPattern = regexp.MustCompile(`^(func)?\d+(\.\d+)*$`)

func newTask(fn any, opts ...TaskOption) (*Task, error) {
	task := &Task{
		funcName: callableName(fn),
	}

	switch f := fn.(type) {
	case func() error:
		task.fn = noArgsFunc(f)
	case func(*Options) error:
		task.fn = optionsFunc(f)
	case func(*Options, []string) error:
		task.fn = extrasFunc(f)
	default:
		return nil, fmt.Errorf("%w: %T (%s)", ErrBadCallable, fn, task.funcName)
	}

	for _, opt := range opts {
		if err := opt(task); err != nil {
			return nil, err
		}
	}

	// Derivation rewrites apply to the callable's identifier only; an
	// explicit name is used verbatim.
	if task.Name == "" {
		ident := identFromFuncName(task.funcName)
		if ident == "" || anonFuncPattern.MatchString(ident) {
			return nil, fmt.Errorf("%w: cannot derive a name for %s, use WithTaskName", ErrInvalidName, task.funcName)
		}

		if strings.HasPrefix(ident, hiddenPrefix) {
			task.Hidden = true
			ident = strings.TrimLeft(ident, "_")
		}
		task.Name = strings.ReplaceAll(ident, "_", "-")
	}

	if err := validateName(task.Name); err != nil {
		return nil, err
	}

	_, wantsExtras := task.fn.(extrasFunc)
	if task.Passthrough && !wantsExtras {
		return nil, fmt.Errorf("%w: task %q (%s) does not accept extras", ErrPassthroughArity, task.Name, task.funcName)
	}
	if wantsExtras && !task.Passthrough {
		return nil, fmt.Errorf("%w: task %q (%s) accepts extras but was not registered with WithPassthrough", ErrPassthroughArity, task.Name, task.funcName)
	}

	dests := make(map[string]bool)
	for _, spec := range task.Args {
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", task.Name, err)
		}
		if dests[spec.dest()] {
			return nil, fmt.Errorf("task %q: duplicate destination %q", task.Name, spec.dest())
		}
		dests[spec.dest()] = true
	}

	return task, nil
}

// shortSummary is the listing form of the summary: first line, trailing
// period stripped.
func (t *Task) shortSummary() string {
	return strings.TrimSuffix(t.Summary, ".")
}

// callableName resolves the declared identifier of a function value,
// e.g. "main.hello_world" or "github.com/acme/proj.Deploy".
func callableName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "<nil>"
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "<unknown>"
	}

	return strings.TrimSuffix(f.Name(), "-fm")
}

// identFromFuncName extracts the bare identifier from a fully qualified
// runtime function name.
func identFromFuncName(name string) string {
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: task name is empty", ErrInvalidName)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	return nil
}

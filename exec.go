package doot

import (
	"errors"
	"fmt"
	"os"
)

// helpTaskName is the reserved pseudo-task for listing and per-task
// usage. User tasks cannot take this name.
const helpTaskName = "help"

// ExitError is the sanctioned way a task aborts the run with a chosen
// status and a final message.
type ExitError struct {
	Status  int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Status)
	}
	return e.Message
}

// Exit returns an error that terminates dispatch with the given status
// after the message is reported.
func Exit(status int, format string, args ...any) error {
	return &ExitError{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Main dispatches os.Args and exits the process with the resulting
// status.
func (tm *TaskManager) Main() {
	os.Exit(tm.Exec(os.Args[1:]))
}

// Exec resolves the requested task from args, parses the remaining
// tokens against it and invokes it. The returned value is the process
// exit status.
//
// Resolution order: no arguments runs the default task when one exists,
// otherwise prints the listing; "help" and a bare -h/--help print the
// listing; "help <task>" prints that task's usage without invoking it;
// an unknown task name falls back to the default task, which is handed
// the full original token list.
func (tm *TaskManager) Exec(args []string) int {
	// The registry is read-only from here on.
	tm.dispatching = true

	if len(args) == 0 {
		if tm.defaultTask != nil {
			return tm.invoke(tm.defaultTask, nil)
		}
		tm.printListing(tm.stdout)
		return 0
	}

	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		tm.printListing(tm.stdout)
		return 0
	}

	if args[0] == helpTaskName {
		if len(args) == 1 {
			tm.printListing(tm.stdout)
			return 0
		}

		task, exists := tm.index[args[1]]
		if !exists {
			tm.log.Error("unknown task: %s", args[1])
			return 1
		}
		tm.printUsage(task, tm.stdout)
		return 0
	}

	task, exists := tm.index[args[0]]
	if !exists {
		if tm.defaultTask != nil {
			// The unknown subcommand is forwarded wholesale: the
			// default task sees the original token list, name included.
			return tm.invoke(tm.defaultTask, args)
		}
		tm.log.Error("unknown task: %s", args[0])
		return 1
	}

	return tm.invoke(task, args[1:])
}

func (tm *TaskManager) invoke(task *Task, args []string) int {
	opts, err := newParser(task).Parse(args)
	if errors.Is(err, errHelp) {
		tm.printUsage(task, tm.stdout)
		return 0
	}
	if err != nil {
		tm.log.Error("%v", err)
		tm.printUsage(task, tm.stderr)
		return 1
	}

	if err := task.fn.invoke(opts); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			if exit.Message != "" {
				if exit.Status == 0 {
					tm.log.Info("%s", exit.Message)
				} else {
					tm.log.Error("%s", exit.Message)
				}
			}
			return exit.Status
		}

		tm.log.Error("%v", err)
		return 1
	}

	return 0
}

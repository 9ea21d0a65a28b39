package doot

import (
	"fmt"
	"io"
	"strings"
)

// printListing writes the task overview: optional splash, usage line
// and every non-hidden task with its summary, in registration order.
func (tm *TaskManager) printListing(w io.Writer) {
	if tm.cfg.Splash != "" {
		tm.colorln(w, splashColor, tm.cfg.Splash)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Usage: %s [task]\n\n", tm.cfg.Name)
	fmt.Fprintf(w, "Available tasks:\n\n")

	for _, task := range tm.tasks {
		if task.Hidden {
			continue
		}
		fmt.Fprintf(w, "  %-22s %s\n", task.Name, task.shortSummary())
	}
}

// printUsage writes one task's usage: synopsis, summary and flag table.
func (tm *TaskManager) printUsage(task *Task, w io.Writer) {
	synopsis := fmt.Sprintf("Usage: %s %s", tm.cfg.Name, task.Name)
	if len(task.Args) > 0 {
		synopsis += " [flags]"
	}
	if task.Passthrough {
		synopsis += " [args...]"
	}
	fmt.Fprintln(w, synopsis)

	if task.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", task.Summary)
	}

	if len(task.Args) == 0 {
		return
	}

	fmt.Fprintf(w, "\nFlags:\n")
	for _, spec := range task.Args {
		fmt.Fprintf(w, "  %-24s %s\n", flagUsage(spec), flagHelp(spec))
	}
}

func flagUsage(spec *ArgSpec) string {
	usage := strings.Join(spec.Flags, ", ")
	if spec.takesValue() {
		usage += " " + spec.metavar()
	}
	return usage
}

func flagHelp(spec *ArgSpec) string {
	help := spec.Help
	if spec.Required {
		help = strings.TrimSpace(help + " (required)")
	}
	if spec.Default != nil {
		help = strings.TrimSpace(help + fmt.Sprintf(" (default: %v)", spec.Default))
	}
	return help
}

package doot

import (
	"fmt"
	"strings"
)

// Action determines how a flag stores its value when parsed.
type Action int

const (
	// Store keeps the token following the flag (or the "=value" part).
	Store Action = iota
	// StoreTrue sets the destination to true, consuming no value.
	StoreTrue
	// Count increments the destination for every occurrence.
	Count
	// Append collects every occurrence's value into a list.
	Append
)

// ArgSpec describes a single command-line flag belonging to a task.
// A spec is owned by exactly one task and must not be mutated after
// registration.
type ArgSpec struct {
	Flags    []string // flag forms, e.g. "-n", "--name"
	Help     string   // help text shown in the task's usage
	Required bool     // must be provided on the command line
	Default  any      // value used when the flag is absent
	Action   Action   // how the value is stored
	Type     string   // "string", "int" or "bool" (Store only)
	Dest     string   // destination name override
}

// Arg is a convenience constructor for an ArgSpec with the given flag
// forms. Remaining fields are set through the struct.
func Arg(flags ...string) *ArgSpec {
	return &ArgSpec{Flags: flags}
}

// dest resolves the destination name for parsed values: the Dest
// override if set, otherwise the first long flag (or the first flag),
// dashes stripped and inner dashes mapped to underscores.
func (a *ArgSpec) dest() string {
	if a.Dest != "" {
		return a.Dest
	}

	name := ""
	for _, flag := range a.Flags {
		if strings.HasPrefix(flag, "--") {
			name = strings.TrimPrefix(flag, "--")
			break
		}
	}
	if name == "" && len(a.Flags) > 0 {
		name = strings.TrimLeft(a.Flags[0], "-")
	}

	return strings.ReplaceAll(name, "-", "_")
}

func (a *ArgSpec) validate() error {
	if len(a.Flags) == 0 {
		return fmt.Errorf("doot: argument spec requires at least one flag form")
	}

	for _, flag := range a.Flags {
		if !strings.HasPrefix(flag, "-") || flag == "-" || flag == "--" {
			return fmt.Errorf("doot: invalid flag form: %q", flag)
		}
		if strings.ContainsAny(flag, " \t=") {
			return fmt.Errorf("doot: invalid flag form: %q", flag)
		}
	}

	switch a.Action {
	case Store:
		switch a.Type {
		case "", "string", "int", "bool":
		default:
			return fmt.Errorf("doot: unknown value type: %q", a.Type)
		}
	case StoreTrue, Count, Append:
		if a.Type != "" {
			return fmt.Errorf("doot: value type cannot be combined with this action")
		}
	default:
		return fmt.Errorf("doot: unknown action: %d", a.Action)
	}

	if a.dest() == "" {
		return fmt.Errorf("doot: argument spec has no destination name")
	}

	return nil
}

// metavar is the placeholder shown next to value-taking flags in usage
// output.
func (a *ArgSpec) metavar() string {
	return strings.ToUpper(a.dest())
}

// takesValue reports whether the flag consumes a value token.
func (a *ArgSpec) takesValue() bool {
	return a.Action == Store || a.Action == Append
}

package doot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// errHelp signals that -h/--help was requested for a task.
var errHelp = errors.New("doot: help requested")

// parser parses one task's raw argument tokens against its specs.
type parser struct {
	task   *Task
	byFlag map[string]*ArgSpec
}

func newParser(task *Task) *parser {
	byFlag := make(map[string]*ArgSpec)
	for _, spec := range task.Args {
		for _, flag := range spec.Flags {
			byFlag[flag] = spec
		}
	}

	return &parser{
		task:   task,
		byFlag: byFlag,
	}
}

// Parse builds the Options for one invocation. Unrecognized tokens are
// collected in order; without passthrough their presence is a usage
// error, with passthrough they become the task's extra argument list.
func (p *parser) Parse(raw []string) (*Options, error) {
	opts := newOptions()
	seen := make(map[*ArgSpec]bool)

	for _, spec := range p.task.Args {
		p.seedDefault(opts, spec)
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			opts.Extra = append(opts.Extra, raw[i+1:]...)
			break
		}

		if arg == "-h" || arg == "--help" {
			return nil, errHelp
		}

		if strings.HasPrefix(arg, "--") {
			consumed, err := p.parseLong(opts, seen, arg, raw[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed
			continue
		}

		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			consumed, known, err := p.parseShortCluster(opts, seen, arg, raw[i+1:])
			if err != nil {
				return nil, err
			}
			if !known {
				opts.Extra = append(opts.Extra, arg)
				continue
			}
			i += consumed
			continue
		}

		opts.Extra = append(opts.Extra, arg)
	}

	if !p.task.Passthrough && len(opts.Extra) > 0 {
		return nil, fmt.Errorf("unrecognized arguments: %s", strings.Join(opts.Extra, " "))
	}

	for _, spec := range p.task.Args {
		if spec.Required && !seen[spec] {
			return nil, fmt.Errorf("required flag: %s", strings.Join(spec.Flags, " / "))
		}
	}

	return opts, nil
}

func (p *parser) seedDefault(opts *Options, spec *ArgSpec) {
	dest := spec.dest()

	switch spec.Action {
	case StoreTrue:
		value := false
		if b, ok := spec.Default.(bool); ok {
			value = b
		}
		opts.values[dest] = value
	case Count:
		value := int64(0)
		switch d := spec.Default.(type) {
		case int:
			value = int64(d)
		case int64:
			value = d
		}
		opts.values[dest] = value
	default:
		if spec.Default != nil {
			opts.values[dest] = spec.Default
		}
	}
}

// parseLong handles one "--flag" or "--flag=value" token. Returns how
// many following tokens were consumed as the flag's value.
func (p *parser) parseLong(opts *Options, seen map[*ArgSpec]bool, arg string, rest []string) (int, error) {
	key, value, hasValue := splitLongFlag(arg)

	spec, exists := p.byFlag[key]
	if !exists {
		opts.Extra = append(opts.Extra, arg)
		return 0, nil
	}
	seen[spec] = true

	switch spec.Action {
	case StoreTrue:
		if hasValue {
			return 0, fmt.Errorf("flag %s takes no value", key)
		}
		opts.values[spec.dest()] = true
		return 0, nil
	case Count:
		if hasValue {
			return 0, fmt.Errorf("flag %s takes no value", key)
		}
		opts.values[spec.dest()] = opts.Int(spec.dest()) + 1
		return 0, nil
	}

	consumed := 0
	if !hasValue {
		if len(rest) == 0 || strings.HasPrefix(rest[0], "-") {
			return 0, fmt.Errorf("flag %s requires a value", key)
		}
		value = rest[0]
		consumed = 1
	}

	return consumed, p.store(opts, spec, key, value)
}

// parseShortCluster handles a "-abc" token. The cluster is scanned
// first; if any short flag in it is unknown the whole token is left to
// the caller (known=false) so passthrough mode can keep it verbatim.
func (p *parser) parseShortCluster(opts *Options, seen map[*ArgSpec]bool, arg string, rest []string) (consumed int, known bool, err error) {
	chars := arg[1:]

	for j := 0; j < len(chars); j++ {
		spec, exists := p.byFlag["-"+string(chars[j])]
		if !exists {
			return 0, false, nil
		}
		if spec.takesValue() {
			break
		}
	}

	for j := 0; j < len(chars); j++ {
		key := "-" + string(chars[j])
		spec := p.byFlag[key]
		seen[spec] = true

		switch spec.Action {
		case StoreTrue:
			opts.values[spec.dest()] = true
		case Count:
			opts.values[spec.dest()] = opts.Int(spec.dest()) + 1
		default:
			var value string
			if j+1 < len(chars) {
				value = chars[j+1:]
			} else if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
				value = rest[0]
				consumed = 1
			} else {
				return 0, true, fmt.Errorf("flag %s requires a value", key)
			}
			return consumed, true, p.store(opts, spec, key, value)
		}
	}

	return 0, true, nil
}

func (p *parser) store(opts *Options, spec *ArgSpec, key, value string) error {
	coerced, err := coerce(value, spec.Type, key)
	if err != nil {
		return err
	}

	dest := spec.dest()
	if spec.Action == Append {
		list, _ := opts.values[dest].([]string)
		opts.values[dest] = append(list, value)
		return nil
	}

	opts.values[dest] = coerced
	return nil
}

func splitLongFlag(arg string) (key, value string, hasValue bool) {
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

func coerce(value string, typeStr string, flag string) (any, error) {
	switch typeStr {
	case "", "string":
		return value, nil
	case "int":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for flag %s", value, flag)
		}
		return v, nil
	case "bool":
		return value == "true" || value == "1" || value == "yes", nil
	default:
		return value, nil
	}
}

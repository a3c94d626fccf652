// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser gives every command the same flag handling. It accepts
// --flag value, --flag=value, -f value, and bare boolean flags, and
// keeps positional arguments in order.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw arguments.
//
//	p := NewArgParser([]string{"history", "conv_1", "--limit", "20", "--json"})
//	p.Positional(0)        // "history"
//	p.Flag("limit")        // "20"
//	p.BoolFlag("json")     // true
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       raw,
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			p.positional = append(p.positional, arg)
			i++
			continue
		}

		if name, value, ok := strings.Cut(arg, "="); ok {
			name = strings.TrimLeft(name, "-")
			// --json=true / --json=false select the boolean form
			if value == "true" || value == "false" {
				p.boolFlags[name] = value == "true"
			} else {
				p.flags[name] = value
			}
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i += 2
		} else {
			p.boolFlags[name] = true
			i++
		}
	}
	return p
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns a string flag's value, or "" when absent.
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// FlagOrDefault returns the flag value or def when the flag is absent.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// FlagIntOrDefault returns the flag parsed as an int, or def when the
// flag is absent or malformed.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	v, err := strconv.Atoi(p.Flag(name))
	if err != nil {
		return def
	}
	return v
}

// BoolFlag reports whether a boolean flag is set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// HasFlag reports whether the flag was given in either form.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, s := p.flags[name]
	_, b := p.boolFlags[name]
	return s || b
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positional arguments starting at index.
// The ask command joins these back into the question text.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return nil
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

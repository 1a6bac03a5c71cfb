package engine

import (
	"strconv"
	"strings"
)

// Verb is the first token of every engine invocation.
type Verb string

const (
	VerbLoad     Verb = "load"
	VerbNext     Verb = "next"
	VerbPrev     Verb = "prev"
	VerbRandom   Verb = "random"
	VerbExit     Verb = "exit"
	VerbSettings Verb = "settings"
)

// Command is an ordered list of tokens passed to the engine. The zero value
// is an empty command; use the constructors below.
type Command struct {
	tokens []string
}

// NewCommand builds a command from a verb and its arguments. The arguments
// are copied so later changes to the caller's slice are not observed.
func NewCommand(verb Verb, args ...string) Command {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, string(verb))
	tokens = append(tokens, args...)
	return Command{tokens: tokens}
}

// Load activates the preset with the given identifier.
func Load(presetID string) Command { return NewCommand(VerbLoad, presetID) }

// Next advances to the next preset.
func Next() Command { return NewCommand(VerbNext) }

// Prev goes back to the previous preset.
func Prev() Command { return NewCommand(VerbPrev) }

// Random picks a random preset.
func Random() Command { return NewCommand(VerbRandom) }

// Exit stops the engine.
func Exit() Command { return NewCommand(VerbExit) }

// Set changes one engine setting.
func Set(key, value string) Command { return NewCommand(VerbSettings, key, value) }

// Verb returns the command verb, or "" for the zero Command.
func (c Command) Verb() Verb {
	if len(c.tokens) == 0 {
		return ""
	}
	return Verb(c.tokens[0])
}

// Args returns a copy of the tokens after the verb.
func (c Command) Args() []string {
	if len(c.tokens) <= 1 {
		return nil
	}
	out := make([]string, len(c.tokens)-1)
	copy(out, c.tokens[1:])
	return out
}

// Tokens returns a copy of every token, verb first.
func (c Command) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// IsZero reports whether the command has no tokens.
func (c Command) IsZero() bool {
	return len(c.tokens) == 0
}

// String renders the command for logs, quoting tokens that contain spaces.
func (c Command) String() string {
	parts := make([]string, len(c.tokens))
	for i, tok := range c.tokens {
		if tok == "" || strings.ContainsAny(tok, " \t\"") {
			tok = strconv.Quote(tok)
		}
		parts[i] = tok
	}
	return strings.Join(parts, " ")
}

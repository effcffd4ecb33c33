package entity

import "strings"

// Action is the verb of a time-report command.
type Action int

const (
	ActionUnsupported Action = iota
	ActionAdd
	ActionEdit
	ActionDelete
	ActionList
	ActionLock
	ActionHelp
)

// actionVerbs maps command verbs to actions.
var actionVerbs = map[string]Action{
	"add":    ActionAdd,
	"edit":   ActionEdit,
	"delete": ActionDelete,
	"list":   ActionList,
	"lock":   ActionLock,
	"help":   ActionHelp,
}

// KnownActions returns the supported actions in help order.
func KnownActions() []Action {
	return []Action{ActionAdd, ActionEdit, ActionDelete, ActionList, ActionLock, ActionHelp}
}

// ParseAction returns the action for a verb, or ActionUnsupported.
// Verbs are matched exactly.
func ParseAction(verb string) Action {
	if a, ok := actionVerbs[verb]; ok {
		return a
	}
	return ActionUnsupported
}

// String returns the command verb for the action.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionList:
		return "list"
	case ActionLock:
		return "lock"
	case ActionHelp:
		return "help"
	default:
		return "unsupported"
	}
}

// Command is a tokenized slash command. Token 0 is the verb.
type Command struct {
	tokens []string
}

// ParseCommand splits command text on whitespace.
// Empty text yields the single token "help".
func ParseCommand(text string) Command {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		tokens = []string{"help"}
	}
	return Command{tokens: tokens}
}

// Verb returns the first token as typed by the user.
func (c Command) Verb() string {
	if len(c.tokens) == 0 {
		return "help"
	}
	return c.tokens[0]
}

// Action returns the parsed verb.
func (c Command) Action() Action {
	return ParseAction(c.Verb())
}

// Tokens returns a copy of all tokens including the verb.
func (c Command) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Args returns the positional arguments after the verb.
func (c Command) Args() []string {
	if len(c.tokens) < 2 {
		return nil
	}
	return c.Tokens()[1:]
}

// Arg returns the i-th positional argument (0-based, verb excluded).
func (c Command) Arg(i int) (string, bool) {
	if i < 0 || i+1 >= len(c.tokens) {
		return "", false
	}
	return c.tokens[i+1], true
}

// Len returns the number of tokens including the verb.
func (c Command) Len() int {
	return len(c.tokens)
}

// String joins the tokens back into command text.
func (c Command) String() string {
	return strings.Join(c.tokens, " ")
}

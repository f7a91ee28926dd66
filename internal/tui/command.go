package tui

import "strings"

// Command represents a parsed command-prompt line.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), ":"))
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	if canonical, ok := aliases[cmd.Name]; ok {
		cmd.Name = canonical
	}
	return cmd
}

var aliases = map[string]string{
	"q":    "quit",
	"h":    "help",
	"n":    "new",
	"chat": "new",
	"a":    "attach",
	"s":    "search",
	"f":    "friends",
	"r":    "requests",
	"c":    "chats",
	"p":    "profile",
	"me":   "profile",
}

// splitDescription splits "name | description" as accepted by :new.
func splitDescription(args string) (name, description string) {
	name, description, _ = strings.Cut(args, "|")
	return strings.TrimSpace(name), strings.TrimSpace(description)
}

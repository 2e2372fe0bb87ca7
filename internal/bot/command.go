package bot

import "strings"

// Command is a parsed chat command such as "/status dpl_123".
type Command struct {
	Name string
	Arg  string
}

// ParseCommand extracts the command name and its first argument from text.
// "/status@MyBot dpl_1 extra" yields {status dpl_1}. ok is false for text
// that is not a command.
func ParseCommand(text string) (cmd Command, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}
	cmd.Name = strings.ToLower(name)
	if len(fields) > 1 {
		cmd.Arg = fields[1]
	}
	return cmd, true
}

package format

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes the characters that Telegram's legacy Markdown mode
// treats as entity delimiters. Free text such as error messages goes through
// it before being embedded in a Markdown reply.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

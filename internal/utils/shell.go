package utils

import (
	"strings"
)

// ShellQuote wraps s in single quotes, escaping embedded single quotes, so
// user-controlled text can be embedded into a shell command or script
// without being interpreted.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

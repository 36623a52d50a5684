package script

import "strings"

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Quote returns s as a double-quoted AppleScript string literal.
// All user-supplied text embedded in a generated script must pass through here.
func Quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

package ada

import "strings"

// unnamedIdent replaces linkage names that sanitize to nothing.
const unnamedIdent = "unnamed"

var identReplacer = strings.NewReplacer(
	".", "_",
	":", "_",
	"/", "_",
	"-", "_",
)

// Sanitize turns a linkage name into an Ada identifier: separators become
// underscores, leading underscores are dropped and the reserved word "in"
// is spelled "inn". The result is never empty and Sanitize(Sanitize(s)) ==
// Sanitize(s).
func Sanitize(name string) string {
	s := strings.TrimLeft(identReplacer.Replace(name), "_")
	switch s {
	case "":
		return unnamedIdent
	case "in":
		return "inn"
	}
	return s
}

// quote renders s as an Ada string literal.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

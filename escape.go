package sphinxql

import (
	"sort"
	"strings"
)

// matchEscaper neutralizes the characters the full-text query parser treats
// as operators. Control bytes that would corrupt the text are rewritten to
// symbolic escapes rather than kept raw.
var matchEscaper = strings.NewReplacer(
	`\`, `\\`,
	`/`, `\/`,
	`"`, `\"`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`!`, `\!`,
	`@`, `\@`,
	`~`, `\~`,
	`&`, `\&`,
	`^`, `\^`,
	`$`, `\$`,
	`=`, `\=`,
	`>`, `\>`,
	`<`, `\<`,
	"\x00", `\x00`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\x1a`,
)

// EscapeMatch escapes s so the full-text engine matches it as literal text.
// Plain strings handed to Query.Match and the match expression constructors
// pass through here; raw *Expr fragments never do.
func EscapeMatch(s string) string {
	return matchEscaper.Replace(s)
}

// defaultLikeEscape is applied to LIKE patterns and SHOW META patterns
// unless a condition supplies its own table or disables escaping.
var defaultLikeEscape = map[string]string{
	`%`: `\%`,
	`_`: `\_`,
	`\`: `\\`,
}

// escapeLike rewrites value through the replacement table in a single pass.
// Table keys are sorted so the replacer is built deterministically.
func escapeLike(value string, table map[string]string) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, table[k])
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

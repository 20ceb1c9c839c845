// Package tpl renders engine configuration templates from an info map.
//
// Templates use shell-like placeholders: $KEY or ${KEY}. Placeholders with
// no matching key are left in place, and $$ produces a literal dollar sign.
package tpl

import (
	"os"
	"regexp"

	"github.com/applicake-tools/searchcake/info"
)

var placeholder = regexp.MustCompile(`\$(?:\$|\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// Render substitutes every known placeholder in tmpl with the corresponding
// value in inf.
func Render(tmpl string, inf info.Info) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if m == "$$" {
			return "$"
		}
		sub := placeholder.FindStringSubmatch(m)
		key := sub[1]
		if key == "" {
			key = sub[2]
		}
		if !inf.Has(key) {
			return m
		}
		return inf.Get(key)
	})
}

// RenderFile renders tmpl and writes the result to path.
func RenderFile(tmpl string, inf info.Info, path string) error {
	return os.WriteFile(path, []byte(Render(tmpl, inf)), 0644)
}

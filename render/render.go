// Package render substitutes ${NAME} placeholders in text.
package render

import (
	"regexp"

	"github.com/canonical/charmed-temporal-image/envtmpl/envfile"
)

// placeholder matches ${NAME} where NAME is one or more of [A-Za-z0-9_].
var placeholder = regexp.MustCompile(`\$\{(\w+)\}`)

// Render replaces every ${NAME} in text with vars[NAME].
//
// Placeholders naming a variable that is not in vars are left as they are.
// Substituted values are not scanned again, so a value containing ${OTHER}
// is written out literally.
func Render(text string, vars envfile.Vars) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		// match is always "${" + name + "}"
		if value, ok := vars[match[2:len(match)-1]]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct variable names referenced by text in
// order of first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if name := m[1]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Unresolved returns the distinct variable names referenced by text that
// have no entry in vars.
func Unresolved(text string, vars envfile.Vars) []string {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

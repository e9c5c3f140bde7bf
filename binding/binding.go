// Package binding substitutes ${key} placeholders in label templates and URL
// templates with per-recipient values.
package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces every ${key} in text with vars[key]. Unknown keys keep
// their placeholder so a missing merge field stays visible instead of
// silently vanishing.
func Interpolate(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if key == "" {
			return match
		}
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})
}

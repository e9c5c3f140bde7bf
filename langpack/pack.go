// Package langpack loads the built-in certificate language packs. A pack is a
// static mapping of label keys to localized strings, declared in a small
// `.lang` file format and frozen after load.
package langpack

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed packs/*.lang
var packFS embed.FS

// Pack holds the localized labels for one language.
type Pack struct {
	Code     string
	Name     string
	FontRole string
	Labels   map[string]string
}

// Label returns the localized string for key, or "" when the pack has none.
func (p *Pack) Label(key string) string {
	if p == nil {
		return ""
	}
	return p.Labels[key]
}

// MergesLocation reports whether this pack renders the body location and date
// as one merged line instead of two separate ones.
func (p *Pack) MergesLocation() bool {
	return p.Label("body-location-merged") != ""
}

// Load parses and freezes the built-in pack for the given language code,
// e.g. "en" or "te".
func Load(code string) (*Pack, error) {
	data, err := packFS.ReadFile("packs/" + code + ".lang")
	if err != nil {
		return nil, fmt.Errorf("no built-in language pack %q: %w", code, err)
	}
	file, err := ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing language pack %q: %w", code, err)
	}
	return fromFile(file)
}

// Codes lists the built-in pack codes in lexical order.
func Codes() []string {
	entries, err := packFS.ReadDir("packs")
	if err != nil {
		return nil
	}
	var codes []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".lang") {
			codes = append(codes, strings.TrimSuffix(name, ".lang"))
		}
	}
	return codes
}

func fromFile(file *File) (*Pack, error) {
	if file.Code == "" {
		return nil, fmt.Errorf("language pack is missing a code")
	}
	pack := &Pack{
		Code:   file.Code,
		Labels: map[string]string{},
	}
	for _, section := range file.Sections {
		switch {
		case section.Meta != nil:
			for _, e := range section.Meta.Entries {
				switch e.Key {
				case "name":
					pack.Name = string(e.Value)
				case "font":
					pack.FontRole = string(e.Value)
				}
			}
		case section.Labels != nil:
			for _, e := range section.Labels.Entries {
				if _, ok := pack.Labels[e.Key]; ok {
					return nil, fmt.Errorf("language pack %s: duplicate label %q", file.Code, e.Key)
				}
				pack.Labels[e.Key] = string(e.Value)
			}
		}
	}
	for _, key := range requiredLabels {
		if pack.Labels[key] == "" {
			return nil, fmt.Errorf("language pack %s: missing label %q", file.Code, key)
		}
	}
	return pack, nil
}

// requiredLabels are the keys every pack must define; location/date lines are
// checked separately because the merged variant replaces the split pair.
var requiredLabels = []string{
	"certificate-id",
	"title",
	"subtitle-1",
	"subtitle-2",
	"body-1",
	"body-2",
	"date-label",
	"date-value",
	"signer-name",
	"signer-role",
	"card-header",
}

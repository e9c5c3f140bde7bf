// Package records supplies the ordered recipient sequence consumed by the
// composer and exporter. The CSV loader resolves flexibly spelled column
// headers once, at load time, into typed records; downstream code never sees
// raw tabular data.
package records

import (
	"fmt"
	"strings"

	"github.com/aikaryashala/patram/binding"
)

// Recipient is one certificate recipient.
type Recipient struct {
	ID            string // unique, used as file and URL key
	DisplayName   string
	SecondaryName string // optional alternate-language name
	PhotoRef      string // filename hint for the photo resolver
}

// Validate checks the required-field invariants. Invalid records are skipped
// by the exporter, counted separately from photo skips.
func (r Recipient) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("recipient is missing an id")
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return fmt.Errorf("recipient %s is missing a display name", r.ID)
	}
	return nil
}

// ShareURL derives the per-recipient page URL from the base URL. It is the
// payload of the certificate's machine-readable code and the key downstream
// page generation uses.
func ShareURL(baseURL, id string) string {
	base := strings.TrimRight(baseURL, "/")
	return binding.Interpolate(base+"/${id}/", map[string]string{"id": id})
}

// Package photos resolves recipient photo references to image bytes.
package photos

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no photo file exists for a recipient.
var ErrNotFound = errors.New("photo not found")

// Resolver turns a recipient's id and photo reference into image bytes.
type Resolver interface {
	Resolve(id, ref string) ([]byte, error)
}

// DirResolver looks photos up in a single directory, probing the explicit
// reference first and then the conventional <id>.<ext> filenames.
type DirResolver struct {
	Dir string
}

var probeExtensions = []string{".jpg", ".jpeg", ".png"}

// Resolve implements Resolver. A missing file yields ErrNotFound; read
// failures on an existing file are surfaced as-is.
func (r DirResolver) Resolve(id, ref string) ([]byte, error) {
	var candidates []string
	if ref != "" {
		candidates = append(candidates, ref)
	}
	for _, ext := range probeExtensions {
		candidates = append(candidates, id+ext)
	}
	for _, name := range candidates {
		path := filepath.Join(r.Dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading photo %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("%w for %s in %s", ErrNotFound, id, r.Dir)
}

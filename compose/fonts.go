package compose

import (
	"fmt"
	"image/color"
	"os"

	"github.com/tdewolff/canvas"
)

// Font roles. "regular" is mandatory; the others fall back to it when their
// resource is absent.
const (
	RoleRegular = "regular"
	RoleBold    = "bold"
	RoleTelugu  = "telugu"
)

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

func (r Resource) empty() bool { return len(r.Bytes) == 0 && r.Path == "" }

func (r Resource) load() ([]byte, error) {
	if len(r.Bytes) > 0 {
		return r.Bytes, nil
	}
	if r.Path != "" {
		return os.ReadFile(r.Path)
	}
	return nil, fmt.Errorf("resource has neither bytes nor path")
}

// loadFamilies loads every configured font resource into a canvas font
// family, eagerly so that metrics are available (and failures surface)
// before the first composition.
func loadFamilies(fonts map[string]Resource) (map[string]*canvas.FontFamily, error) {
	families := map[string]*canvas.FontFamily{}
	for role, res := range fonts {
		if res.empty() {
			continue
		}
		data, err := res.load()
		if err != nil {
			return nil, fmt.Errorf("loading font %s: %w", role, err)
		}
		family := canvas.NewFontFamily(role)
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", role, err)
		}
		families[role] = family
	}
	if families[RoleRegular] == nil {
		return nil, fmt.Errorf("font role %q is required", RoleRegular)
	}
	return families, nil
}

// family resolves a role to a loaded family, falling back to regular.
func (c *Composer) family(role string) *canvas.FontFamily {
	if fam, ok := c.families[role]; ok {
		return fam
	}
	return c.families[RoleRegular]
}

// face creates a font face for the role at sizePt.
func (c *Composer) face(role string, sizePt float64, col color.Color) *canvas.FontFace {
	return c.family(role).Face(sizePt, col, canvas.FontRegular, canvas.FontNormal)
}

// familyMeasurer adapts a font family to the fitting engine: widths come out
// in mm for faces created at pt sizes, matching the page coordinate system.
type familyMeasurer struct {
	family *canvas.FontFamily
}

func (m familyMeasurer) TextWidth(s string, size float64) float64 {
	return m.family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal).TextWidth(s)
}

// measurer returns the fitting-engine measurer for a font role.
func (c *Composer) measurer(role string) familyMeasurer {
	return familyMeasurer{family: c.family(role)}
}

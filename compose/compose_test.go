package compose

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aikaryashala/patram/langpack"
	"github.com/aikaryashala/patram/records"
)

func TestNewRequiresRegularFont(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error without a regular font")
	}
	if _, err := New(Options{Fonts: map[string]Resource{
		RoleBold: {Bytes: []byte("not-a-font")},
	}}); err == nil {
		t.Fatalf("expected error when only bold is configured")
	}
}

func TestNewRejectsMissingFontFile(t *testing.T) {
	_, err := New(Options{Fonts: map[string]Resource{
		RoleRegular: {Path: filepath.Join(t.TempDir(), "absent.ttf")},
	}})
	if err == nil {
		t.Fatalf("expected error for missing font path")
	}
}

func TestResourceLoad(t *testing.T) {
	if _, err := (Resource{}).load(); err == nil {
		t.Fatalf("empty resource must not load")
	}
	data, err := (Resource{Bytes: []byte{1, 2, 3}}).load()
	if err != nil || len(data) != 3 {
		t.Fatalf("byte resource load failed: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "res.bin")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("writing resource: %v", err)
	}
	data, err = (Resource{Path: path}).load()
	if err != nil || string(data) != "abc" {
		t.Fatalf("path resource load failed: %v %q", err, data)
	}
}

func TestScaleToFit(t *testing.T) {
	const eps = 1e-9
	cases := []struct {
		w, h       int
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{400, 200, 42, 20, 40, 20},   // height-bound
		{400, 100, 42, 20, 42, 10.5}, // width-bound
		{10, 5, 42, 20, 10, 5},       // never upscales
		{0, 0, 42, 20, 42, 20},       // degenerate input
	}
	for _, tc := range cases {
		w, h := scaleToFit(tc.w, tc.h, tc.maxW, tc.maxH)
		if math.Abs(w-tc.wantW) > eps || math.Abs(h-tc.wantH) > eps {
			t.Fatalf("scaleToFit(%d, %d, %g, %g) = (%g, %g), want (%g, %g)",
				tc.w, tc.h, tc.maxW, tc.maxH, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestNameTextRole(t *testing.T) {
	en := &langpack.Pack{Code: "en", FontRole: RoleRegular}
	te := &langpack.Pack{Code: "te", FontRole: RoleTelugu}
	rec := records.Recipient{DisplayName: "Kavuri Suhitha", SecondaryName: "కావూరి సుహిత"}

	text, role := nameTextRole(Job{Recipient: rec, Pack: en})
	if text != "KAVURI SUHITHA" || role != RoleBold {
		t.Fatalf("primary pass: got (%q, %q)", text, role)
	}

	text, role = nameTextRole(Job{Recipient: rec, Pack: te})
	if text != "కావూరి సుహిత" || role != RoleTelugu {
		t.Fatalf("secondary pass: got (%q, %q)", text, role)
	}

	// A Telugu pass without a secondary name falls back to the display name.
	rec.SecondaryName = ""
	text, role = nameTextRole(Job{Recipient: rec, Pack: te})
	if text != "KAVURI SUHITHA" || role != RoleBold {
		t.Fatalf("fallback pass: got (%q, %q)", text, role)
	}
}

func TestFontRoles(t *testing.T) {
	en := &langpack.Pack{Code: "en"}
	te := &langpack.Pack{Code: "te", FontRole: RoleTelugu}
	if labelRole(en) != RoleRegular || titleRole(en) != RoleBold {
		t.Fatalf("unexpected roles for en: %s/%s", labelRole(en), titleRole(en))
	}
	if labelRole(te) != RoleTelugu || titleRole(te) != RoleTelugu {
		t.Fatalf("unexpected roles for te: %s/%s", labelRole(te), titleRole(te))
	}
}

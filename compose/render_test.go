package compose_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-fonts/latin-modern/lmroman10regular"

	"github.com/aikaryashala/patram/compose"
	"github.com/aikaryashala/patram/export"
	"github.com/aikaryashala/patram/langpack"
	"github.com/aikaryashala/patram/records"
)

// pngBytes encodes a small solid-shaded image for use as photo or signature
// input.
func pngBytes(t *testing.T, w, h int, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: uint8(x % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func newTestComposer(t *testing.T, signature []byte) *compose.Composer {
	t.Helper()
	c, err := compose.New(compose.Options{
		Fonts: map[string]compose.Resource{
			compose.RoleRegular: {Bytes: lmroman10regular.TTF},
		},
		Signature: compose.Resource{Bytes: signature},
	})
	if err != nil {
		t.Fatalf("building composer: %v", err)
	}
	return c
}

func testJob(t *testing.T, photo []byte) compose.Job {
	t.Helper()
	pack, err := langpack.Load("en")
	if err != nil {
		t.Fatalf("loading pack: %v", err)
	}
	return compose.Job{
		Recipient: records.Recipient{
			ID:          "AIK24B21A42C7",
			DisplayName: "Kavuri Suhitha",
			PhotoRef:    "AIK24B21A42C7.jpg",
		},
		Pack:       pack,
		PhotoBytes: photo,
	}
}

func TestComposeFullPage(t *testing.T) {
	c := newTestComposer(t, pngBytes(t, 200, 80, 40))
	job := testJob(t, pngBytes(t, 60, 75, 120))

	page, warnings, err := c.Compose(job)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if page.W != compose.PageWidth || page.H != compose.PageHeight {
		t.Fatalf("page is %gx%g mm, want %gx%g", page.W, page.H, compose.PageWidth, compose.PageHeight)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := newTestComposer(t, pngBytes(t, 200, 80, 40))
	job := testJob(t, pngBytes(t, 60, 75, 120))

	first, _, err := c.Compose(job)
	if err != nil {
		t.Fatalf("first compose: %v", err)
	}
	second, _, err := c.Compose(job)
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}

	a := export.Rasterize(first, 2.0)
	b := export.Rasterize(second, 2.0)
	if a.Bounds() != b.Bounds() {
		t.Fatalf("raster bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("same job rendered different pixels")
	}
}

func TestComposeDegradesOptionalAssets(t *testing.T) {
	// No signature configured, and photo bytes that are not an image: both
	// degrade to warnings while the page still renders.
	c := newTestComposer(t, nil)
	job := testJob(t, []byte("not an image"))

	page, warnings, err := c.Compose(job)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if page == nil {
		t.Fatalf("degraded compose must still return a page")
	}
	elements := map[string]bool{}
	for _, w := range warnings {
		elements[w.Element] = true
	}
	if !elements["signature"] || !elements["photo"] {
		t.Fatalf("warnings = %v, want signature and photo degradations", warnings)
	}
}

func TestComposeWarnsOnAbsentPhoto(t *testing.T) {
	c := newTestComposer(t, pngBytes(t, 200, 80, 40))
	job := testJob(t, nil)

	_, warnings, err := c.Compose(job)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Element != "photo" {
		t.Fatalf("warnings = %v, want one photo warning", warnings)
	}
}

func TestComposeRequiresPack(t *testing.T) {
	c := newTestComposer(t, nil)
	if _, _, err := c.Compose(compose.Job{}); err == nil {
		t.Fatalf("expected error for a job without a language pack")
	}
}

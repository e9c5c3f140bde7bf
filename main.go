package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aikaryashala/patram/compose"
	"github.com/aikaryashala/patram/export"
	"github.com/aikaryashala/patram/langpack"
	"github.com/aikaryashala/patram/photos"
	"github.com/aikaryashala/patram/records"
)

func main() {
	csvPath := flag.String("csv", "students.csv", "recipients CSV file")
	photosDir := flag.String("photos", "assets/student_images", "directory with recipient photos")
	assetsDir := flag.String("assets", "assets", "directory with fonts and the signature image")
	output := flag.String("out", "output/certificates.pdf", "output file")
	baseURL := flag.String("base-url", compose.DefaultBaseURL, "base URL for shareable certificate links")
	recipient := flag.String("recipient", "", "render only the recipient with this id")
	dual := flag.Bool("dual", false, "render a second Telugu page per recipient")
	skipMissing := flag.Bool("skip-missing", true, "skip recipients whose photo is missing")
	asPNG := flag.Bool("png", false, "write a single PNG and preview thumbnail instead of a PDF (requires -recipient)")
	flag.Parse()

	if err := run(*csvPath, *photosDir, *assetsDir, *output, *baseURL, *recipient, *dual, *skipMissing, *asPNG); err != nil {
		log.Fatalf("certificate export failed: %v", err)
	}
}

func run(csvPath, photosDir, assetsDir, output, baseURL, recipient string, dual, skipMissing, asPNG bool) error {
	recs, err := records.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	if recipient != "" {
		recs = filterByID(recs, recipient)
		if len(recs) == 0 {
			return fmt.Errorf("recipient %s not found in %s", recipient, csvPath)
		}
	}
	log.Printf("loaded %d recipient(s) from %s", len(recs), csvPath)

	primary, err := langpack.Load("en")
	if err != nil {
		return err
	}
	secondary, err := langpack.Load("te")
	if err != nil {
		return err
	}

	composer, err := compose.New(compose.Options{
		Fonts:     fontResources(assetsDir),
		Signature: compose.Resource{Path: filepath.Join(assetsDir, "signature.png")},
		BaseURL:   baseURL,
	})
	if err != nil {
		return err
	}
	resolver := photos.DirResolver{Dir: photosDir}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if asPNG {
		if len(recs) != 1 {
			return fmt.Errorf("-png needs -recipient to select exactly one record")
		}
		return writeSingle(composer, resolver, recs[0], primary, output)
	}

	runner, err := export.NewRunner(export.RunnerOptions{
		Composer:  composer,
		Photos:    resolver,
		Primary:   primary,
		Secondary: secondary,
		Reporter:  logReporter{},
		Meta: export.Meta{
			Title:   "AI Karyashala Bootcamp Certificates",
			Author:  "AI Karyashala",
			Creator: "patram",
		},
	})
	if err != nil {
		return err
	}

	// Ctrl-C cancels cooperatively at the next record boundary.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		runner.RequestCancel()
	}()

	doc, summary, err := runner.Run(export.Batch{
		Records: recs,
		Options: export.Options{DualLanguage: dual, SkipOnMissingPhoto: skipMissing},
	})
	if err != nil {
		return err
	}
	if doc == nil {
		log.Printf("run %s with no document (%d skipped, %d invalid)",
			summary.State, summary.SkipCount, summary.InvalidCount)
		return nil
	}
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	log.Printf("wrote %s (%d pages)", output, summary.Pages)
	return nil
}

// writeSingle renders one recipient to a PNG plus the social-preview JPEG
// next to it.
func writeSingle(composer *compose.Composer, resolver photos.Resolver, rec records.Recipient, pack *langpack.Pack, output string) error {
	photo, err := resolver.Resolve(rec.ID, rec.PhotoRef)
	if err != nil {
		log.Printf("warning: %v", err)
	}
	page, warnings, err := composer.Compose(compose.Job{Recipient: rec, Pack: pack, PhotoBytes: photo})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Printf("warning: %s: %s", rec.ID, w.String())
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WritePNG(f, page); err != nil {
		return err
	}

	preview := previewPath(output)
	pf, err := os.Create(preview)
	if err != nil {
		return err
	}
	defer pf.Close()
	if err := export.WriteThumbnail(pf, page); err != nil {
		return err
	}
	log.Printf("wrote %s and %s", output, preview)
	return nil
}

func previewPath(output string) string {
	ext := filepath.Ext(output)
	return output[:len(output)-len(ext)] + "-preview.jpg"
}

func filterByID(recs []records.Recipient, id string) []records.Recipient {
	var out []records.Recipient
	for _, rec := range recs {
		if rec.ID == id {
			out = append(out, rec)
		}
	}
	return out
}

// fontResources maps the conventional asset filenames onto font roles. Only
// regular.ttf is required; the composer falls back to it for the rest.
func fontResources(assetsDir string) map[string]compose.Resource {
	res := map[string]compose.Resource{
		compose.RoleRegular: {Path: filepath.Join(assetsDir, "regular.ttf")},
	}
	for _, role := range []string{compose.RoleBold, compose.RoleTelugu} {
		path := filepath.Join(assetsDir, role+".ttf")
		if _, err := os.Stat(path); err == nil {
			res[role] = compose.Resource{Path: path}
		}
	}
	return res
}

// logReporter renders orchestrator events through the standard logger.
type logReporter struct{}

func (logReporter) Progress(step, total int, recordID string) {
	log.Printf("[%d/%d] %s", step, total, recordID)
}
func (logReporter) Info(msg string)    { log.Printf("info: %s", msg) }
func (logReporter) Warning(msg string) { log.Printf("warning: %s", msg) }
func (logReporter) Error(msg string)   { log.Printf("error: %s", msg) }
func (logReporter) Success(msg string) { log.Printf("done: %s", msg) }

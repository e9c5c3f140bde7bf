package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

// Meta holds the PDF document information.
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}

// WritePDF assembles the captured pages, in order, into one paginated PDF.
func WritePDF(w io.Writer, pages []*canvas.Canvas, meta Meta) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to assemble")
	}
	writer := pdf.New(w, pages[0].W, pages[0].H, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(page.W, page.H)
		}
		page.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing pdf: %w", err)
	}
	return nil
}

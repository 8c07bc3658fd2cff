package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"

	"resume-builder/internal/model"
	"resume-builder/internal/theme"
)

// ErrNotPDF is returned when the print service answers with something
// that does not start with the PDF signature.
var ErrNotPDF = errors.New("print service did not return a PDF")

// PrintService converts a standalone HTML document into PDF bytes.
type PrintService interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Sanitizer cleans HTML before it is printed.
type Sanitizer interface {
	Sanitize(html string) string
}

// File is an export artifact ready to be sent as a download.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

var unsafeID = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// PDFFilename returns resume-<themeID>.pdf.
func PDFFilename(themeID string) string {
	id := unsafeID.ReplaceAllString(themeID, "")
	if id == "" {
		id = "default"
	}
	return "resume-" + id + ".pdf"
}

// PDFExporter renders, sanitizes, wraps and prints a document.
type PDFExporter struct {
	printer   PrintService
	sanitizer Sanitizer
	paper     string
	minify    bool
}

func NewPDFExporter(printer PrintService, sanitizer Sanitizer, paper string, minify bool) *PDFExporter {
	return &PDFExporter{printer: printer, sanitizer: sanitizer, paper: paper, minify: minify}
}

// Export prints doc with theme t. The document is cloned first so a slow
// print never observes later edits.
func (e *PDFExporter) Export(ctx context.Context, doc *model.Document, t theme.Theme) (*File, error) {
	body := e.sanitizer.Sanitize(t.Render(doc.Clone()))
	shell := PrintShell(t, body, PrintOptions{Paper: e.paper, Minify: e.minify})

	data, err := e.printer.RenderHTMLToPDF(ctx, shell)
	if err != nil {
		return nil, fmt.Errorf("printing %s: %w", PDFFilename(t.ID), err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, ErrNotPDF
	}
	return &File{Filename: PDFFilename(t.ID), ContentType: "application/pdf", Data: data}, nil
}

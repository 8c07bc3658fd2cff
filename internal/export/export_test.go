package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/editor"
	"resume-builder/internal/model"
	"resume-builder/internal/sanitize"
	"resume-builder/internal/theme"
)

// jsonNative uses only the types encoding/json produces, so a decoded copy
// compares equal to it.
func jsonNative() *model.Document {
	return model.NewDocument(
		model.Node{Type: model.TypePersonalInfo, Attrs: map[string]any{"name": "Ada", "email": "ada@example.com"}},
		model.Node{Type: model.TypeHeading, Attrs: map[string]any{"level": float64(1)}, Content: []model.Node{model.NewText("Work")}},
		model.Node{Type: model.TypeExperience, Attrs: map[string]any{"company": "Acme <Labs>", "role": "Engineer"}, Content: []model.Node{
			model.NewText("Shipped "),
			model.NewText("the engine", model.Mark{Type: model.MarkBold}, model.Mark{Type: model.MarkLink, Attrs: map[string]any{"href": "https://acme.io?a=1&b=2"}}),
		}},
		model.Node{Type: model.TypeSkills, Attrs: map[string]any{"items": []any{"Go", "Rust"}}},
	)
}

func TestExportImport_RoundTrip(t *testing.T) {
	doc := jsonNative()

	raw, err := ExportJSON(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), "}\n"))
	assert.Contains(t, string(raw), "\n  \"content\": [")
	assert.Contains(t, string(raw), "Acme <Labs>")

	back, err := ImportJSON(model.DefaultSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	again, err := ExportJSON(back)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestExportImport_EmptyDocument(t *testing.T) {
	raw, err := ExportJSON(model.NewDocument())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"doc\",\n  \"content\": []\n}\n", string(raw))

	back, err := ImportJSON(model.DefaultSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, model.NewDocument(), back)

	raw, err = ExportJSON(&model.Document{Type: model.DocType})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"content": []`)
	back, err = ImportJSON(model.DefaultSchema(), raw)
	require.NoError(t, err)
	assert.Empty(t, back.Content)
}

func TestExportImport_RoundTripFromCommands(t *testing.T) {
	e := editor.New(model.DefaultSchema())
	doc := model.NewDocument(
		model.Node{Type: model.TypeParagraph, Content: []model.Node{model.NewText("/skills")}},
		model.Node{Type: model.TypeParagraph, Content: []model.Node{model.NewText("/h1")}},
	)

	doc, err := editor.SlashCmd{Range: editor.Span(editor.Path{0}, 0, 7), Command: "skills", Attrs: map[string]any{"items": []string{"Go", "Rust"}}}.Apply(e, doc)
	require.NoError(t, err)
	doc, err = editor.SlashCmd{Range: editor.Span(editor.Path{1}, 0, 3), Command: "heading-1"}.Apply(e, doc)
	require.NoError(t, err)
	doc, err = e.SetNodeAttrs(doc, editor.Path{0}, map[string]any{"items": []string{"Go", "Rust", "Zig"}})
	require.NoError(t, err)

	raw, err := ExportJSON(doc)
	require.NoError(t, err)
	back, err := ImportJSON(model.DefaultSchema(), raw)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestImportJSON_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty", "  ", "file is empty"},
		{"invalid json", `{"type": "doc", "content": [`, "file is not valid JSON"},
		{"wrong root", `{"type": "page", "content": []}`, "file does not match the document format"},
		{"missing content", `{"type": "doc"}`, "file does not match the document format"},
		{"unknown node", `{"type": "doc", "content": [{"type": "video"}]}`, "document does not match the schema"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ImportJSON(model.DefaultSchema(), []byte(tt.raw))
			assert.Nil(t, doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImport)

			var ie *ImportError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.reason, ie.Reason)
		})
	}
}

func TestImportJSON_SchemaIssuesAreReported(t *testing.T) {
	_, err := ImportJSON(model.DefaultSchema(), []byte(`{"type": "doc", "content": [{"type": "skills", "content": [{"type": "text", "text": "x"}]}]}`))

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	require.Len(t, ie.Issues, 1)
	assert.Equal(t, "content.0", ie.Issues[0].Path)
	assert.ErrorIs(t, err, model.ErrInvalidDocument)
}

func TestJSONFilename(t *testing.T) {
	assert.Equal(t, "resume.json", JSONFilename(""))
	assert.Equal(t, "ada.json", JSONFilename("ada"))
	assert.Equal(t, "ada.JSON", JSONFilename("ada.JSON"))
	assert.Equal(t, "passwd.json", JSONFilename("../../etc/passwd"))
	assert.Equal(t, "cv.json", JSONFilename(`C:\Users\ada\cv.json`))
}

func TestPrintShell(t *testing.T) {
	body := `<main class="resume theme-classic"><p>Hello</p></main>`

	out := PrintShell(theme.Classic(), body, PrintOptions{Title: "Ada & Co", Paper: "letter", AutoPrint: true})
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Ada &amp; Co</title>")
	assert.Contains(t, out, "@page{size:Letter;margin:12mm}")
	assert.Contains(t, out, body)
	assert.Contains(t, out, "window.print()")

	plain := PrintShell(theme.Classic(), body, PrintOptions{})
	assert.Contains(t, plain, "@page{size:A4;margin:12mm}")
	assert.NotContains(t, plain, "<script")

	minified := PrintShell(theme.Classic(), body, PrintOptions{Minify: true})
	assert.Less(t, len(minified), len(plain))
	assert.Contains(t, minified, "Hello")
}

type fakePrinter struct {
	html string
	out  []byte
	err  error
}

func (f *fakePrinter) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.out, f.err
}

func TestPDFExporter(t *testing.T) {
	printer := &fakePrinter{out: []byte("%PDF-1.7 fake")}
	exp := NewPDFExporter(printer, sanitize.New(), PaperA4, false)

	doc := model.NewDocument(model.Node{Type: model.TypeParagraph, Content: []model.Node{
		model.NewText("click", model.Mark{Type: model.MarkLink, Attrs: map[string]any{"href": "javascript:alert(1)"}}),
	}})

	f, err := exp.Export(context.Background(), doc, theme.Modern())
	require.NoError(t, err)
	assert.Equal(t, "resume-modern.pdf", f.Filename)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, []byte("%PDF-1.7 fake"), f.Data)
	assert.NotContains(t, printer.html, "javascript:")
	assert.Contains(t, printer.html, "theme-modern")
}

func TestPDFExporter_Failures(t *testing.T) {
	doc := model.NewDocument()

	_, err := NewPDFExporter(&fakePrinter{out: []byte("<html>")}, sanitize.New(), "", false).Export(context.Background(), doc, theme.Classic())
	assert.ErrorIs(t, err, ErrNotPDF)

	boom := errors.New("chrome crashed")
	_, err = NewPDFExporter(&fakePrinter{err: boom}, sanitize.New(), "", false).Export(context.Background(), doc, theme.Classic())
	assert.ErrorIs(t, err, boom)
}

func TestPDFFilename(t *testing.T) {
	assert.Equal(t, "resume-classic.pdf", PDFFilename("classic"))
	assert.Equal(t, "resume-evil.pdf", PDFFilename("../evil"))
	assert.Equal(t, "resume-default.pdf", PDFFilename(""))
}

func TestResumeText(t *testing.T) {
	text, err := ResumeText(jsonNative())
	require.NoError(t, err)
	assert.Contains(t, text, "Ada")
	assert.Contains(t, text, "Engineer")
	assert.Contains(t, text, "- Go")
	assert.NotContains(t, text, "<section")
}

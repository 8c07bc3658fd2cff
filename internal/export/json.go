// Package export holds the boundary adapters: JSON download/upload, the
// print view and PDF, and a plain-text rendition for ATS analysis.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resume-builder/internal/model"
)

// DefaultJSONFilename is used when the caller does not name the download.
const DefaultJSONFilename = "resume.json"

// ErrImport is matched by every ImportError.
var ErrImport = errors.New("import failed")

// ImportError explains why an uploaded document was rejected.
type ImportError struct {
	Reason string
	Issues []model.Issue
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return "import failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

func (e *ImportError) Is(target error) bool { return target == ErrImport }

// ExportJSON serializes doc with two-space indentation and a trailing
// newline.
func ExportJSON(doc *model.Document) ([]byte, error) {
	if doc == nil {
		doc = model.NewDocument()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// JSONFilename returns a safe download name, defaulting to resume.json.
func JSONFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultJSONFilename
	}
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return DefaultJSONFilename
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		name += ".json"
	}
	return name
}

// ImportJSON parses and validates an uploaded document. Nothing is applied
// here; callers swap the result in only when err is nil.
func ImportJSON(schema *model.Schema, raw []byte) (*model.Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ImportError{Reason: "file is empty"}
	}
	if !json.Valid(raw) {
		var probe any
		err := json.Unmarshal(raw, &probe)
		return nil, &ImportError{Reason: "file is not valid JSON", Err: err}
	}
	if err := model.ValidateJSON(raw); err != nil {
		return nil, importFromValidation("file does not match the document format", err)
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ImportError{Reason: "decoding document", Err: err}
	}
	if err := schema.Validate(&doc).Err(); err != nil {
		return nil, importFromValidation("document does not match the schema", err)
	}
	if doc.Content == nil {
		doc.Content = []model.Node{}
	}
	return &doc, nil
}

func importFromValidation(reason string, err error) error {
	ie := &ImportError{Reason: reason, Err: err}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		ie.Issues = ve.Issues
	}
	return ie
}

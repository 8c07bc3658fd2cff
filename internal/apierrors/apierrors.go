// Package apierrors maps domain errors onto the JSON error bodies the HTTP
// API returns.
package apierrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"resume-builder/internal/domain"
	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	Details    any    `json:"details,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

// WithDetails returns a copy carrying extra context for the client.
func (e DefinedError) WithDetails(details any) DefinedError {
	e.Details = details
	return e
}

func (e DefinedError) WithFormattedMessage(args ...any) DefinedError {
	e.Err = fmt.Sprintf(e.Err, args...)
	return e
}

var (
	// 1*** - request errors
	ErrBadRequest     = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "bad request"}
	ErrInvalidID      = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "invalid document id"}
	ErrInvalidCommand = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "invalid command: %s"}
	ErrInvalidRange   = DefinedError{Code: 1004, StatusCode: http.StatusBadRequest, Err: "invalid range"}
	ErrInvalidPath    = DefinedError{Code: 1005, StatusCode: http.StatusBadRequest, Err: "invalid path"}
	ErrUnknownType    = DefinedError{Code: 1006, StatusCode: http.StatusBadRequest, Err: "unknown node or mark type"}

	// 2*** - document errors
	ErrDocumentNotFound = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "document not found"}
	ErrInvalidDocument  = DefinedError{Code: 2002, StatusCode: http.StatusUnprocessableEntity, Err: "document does not match the schema"}
	ErrStructural       = DefinedError{Code: 2003, StatusCode: http.StatusConflict, Err: "%s"}
	ErrImportFailed     = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "import failed: %s"}
	ErrNothingSelected  = DefinedError{Code: 2005, StatusCode: http.StatusBadRequest, Err: "no slash command matches"}
	ErrDocumentReadOnly = DefinedError{Code: 2006, StatusCode: http.StatusConflict, Err: "document is read-only while an AI edit is in flight"}
	ErrPDFNotConfigured = DefinedError{Code: 2007, StatusCode: http.StatusServiceUnavailable, Err: "PDF export is not configured"}
	ErrPDFFailed        = DefinedError{Code: 2008, StatusCode: http.StatusBadGateway, Err: "PDF export failed"}

	// 3*** - AI errors
	ErrAIBusy          = DefinedError{Code: 3001, StatusCode: http.StatusConflict, Err: "an AI edit is already in flight"}
	ErrAICanceled      = DefinedError{Code: 3002, StatusCode: http.StatusConflict, Err: "AI edit canceled"}
	ErrAIUpstream      = DefinedError{Code: 3003, StatusCode: http.StatusBadGateway, Err: "AI service error"}
	ErrAINotConfigured = DefinedError{Code: 3004, StatusCode: http.StatusServiceUnavailable, Err: "AI service is not configured"}

	ErrInternal = DefinedError{Code: 5000, StatusCode: http.StatusInternalServerError, Err: "internal server error"}
)

// FromError finds the catalogue entry for err. Unknown errors become
// ErrInternal.
func FromError(err error) DefinedError {
	var de DefinedError
	if errors.As(err, &de) {
		return de
	}

	var ie *export.ImportError
	if errors.As(err, &ie) {
		e := ErrImportFailed.WithFormattedMessage(ie.Reason)
		if len(ie.Issues) > 0 {
			e = e.WithDetails(ie.Issues)
		}
		return e
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ErrInvalidDocument.WithDetails(ve.Issues)
	}
	var ce *editor.ConflictError
	if errors.As(err, &ce) {
		return ErrStructural.WithFormattedMessage(ce.Error())
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrDocumentNotFound
	case errors.Is(err, model.ErrInvalidDocument):
		return ErrInvalidDocument
	case errors.Is(err, editor.ErrInvalidRange):
		return ErrInvalidRange
	case errors.Is(err, editor.ErrInvalidPath):
		return ErrInvalidPath
	case errors.Is(err, editor.ErrUnknownType):
		return ErrUnknownType
	case errors.Is(err, editor.ErrEmptyPalette):
		return ErrNothingSelected
	case errors.Is(err, usecase.ErrReadOnly):
		return ErrDocumentReadOnly
	case errors.Is(err, usecase.ErrBusy):
		return ErrAIBusy
	case errors.Is(err, usecase.ErrCanceled), errors.Is(err, context.Canceled):
		return ErrAICanceled
	case errors.Is(err, usecase.ErrAIUnavailable):
		return ErrAINotConfigured
	case errors.Is(err, usecase.ErrPDFUnavailable):
		return ErrPDFNotConfigured
	case errors.Is(err, export.ErrNotPDF):
		return ErrPDFFailed
	case errors.Is(err, ai.ErrUpstream):
		return ErrAIUpstream
	}
	return ErrInternal
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"resume-builder/internal/editor"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/pkg/ai"
)

// EditInput targets one textblock with a natural-language instruction.
type EditInput struct {
	Path        editor.Path `json:"path"`
	Instruction string      `json:"instruction"`
}

// EditSection rewrites the inline content of one textblock through the AI.
// The session is read-only until the request returns or is cancelled; a
// result that arrives after CancelEdit is dropped.
func (w *Workspace) EditSection(ctx context.Context, id uuid.UUID, in EditInput) (*model.Document, error) {
	if w.ai == nil {
		return nil, ErrAIUnavailable
	}
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}

	aiCtx, token, doc, err := s.beginAIEdit(ctx)
	if err != nil {
		return nil, err
	}
	node, err := w.editTarget(doc, in.Path)
	if err != nil {
		s.finishAIEdit(token, nil)
		return nil, err
	}

	req := ai.EditRequest{
		HTML:        w.gate.Sanitize(render.Render(doc)),
		SectionHTML: w.gate.Sanitize("<p>" + render.Inline(node.Content) + "</p>"),
		Instruction: in.Instruction,
	}
	out, err := w.ai.EditHTML(aiCtx, req)
	w.metrics.aiRequest("edit", err)
	if err != nil {
		if _, ferr := s.finishAIEdit(token, nil); errors.Is(ferr, ErrCanceled) || errors.Is(err, context.Canceled) {
			return nil, ErrCanceled
		}
		slog.Warn("AI edit failed", "id", id, "error", err)
		return nil, err
	}

	content, err := w.editor.ParseInlineHTML(w.gate.Sanitize(out))
	if err != nil {
		s.finishAIEdit(token, nil)
		return nil, err
	}
	next, err := s.finishAIEdit(token, func(cur *model.Document) (*model.Document, error) {
		return w.editor.ReplaceContent(cur, in.Path, content)
	})
	if errors.Is(err, ErrCanceled) {
		slog.Info("Discarded AI edit after cancel", "id", id)
	}
	return next, err
}

// editTarget resolves path to a textblock of doc.
func (w *Workspace) editTarget(doc *model.Document, path editor.Path) (*model.Node, error) {
	node := doc.At(path)
	if node == nil || len(path) == 0 {
		return nil, fmt.Errorf("%w: %v", editor.ErrInvalidPath, path)
	}
	if !w.editor.Schema().IsTextblock(node.Type) {
		return nil, fmt.Errorf("%w: %q has no editable text", editor.ErrInvalidPath, node.Type)
	}
	return node, nil
}

// CancelEdit aborts the document's in-flight AI edit.
func (w *Workspace) CancelEdit(ctx context.Context, id uuid.UUID) (bool, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return false, err
	}
	return s.CancelAIEdit(), nil
}

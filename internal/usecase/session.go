package usecase

import (
	"context"
	"errors"
	"sync"

	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
)

var (
	// ErrReadOnly is returned for edits while an AI request owns the document.
	ErrReadOnly = errors.New("document is read-only while an AI edit is in flight")
	ErrBusy     = errors.New("an AI edit is already in flight")
	// ErrCanceled is returned when an AI edit was cancelled; its result, if
	// any, has been discarded.
	ErrCanceled = errors.New("AI edit canceled")
)

const maxHistory = 100

// Listener receives a private copy of the document after every change,
// with the version that change produced. Notifications for concurrent
// changes can arrive out of order; the highest version is the latest.
type Listener func(doc *model.Document, version uint64)

// Session owns one document while it is being edited. It is the single
// writer: every mutation goes through Dispatch, Replace, Import, Undo, Redo
// or a finished AI edit.
type Session struct {
	mu     sync.Mutex
	editor *editor.Editor
	doc     *model.Document
	version uint64
	undo    []*model.Document
	redo    []*model.Document

	listeners map[int]Listener
	nextID    int

	aiActive bool
	aiToken  uint64
	aiCancel context.CancelFunc
}

func NewSession(e *editor.Editor, doc *model.Document) *Session {
	if doc == nil {
		doc = model.NewDocument()
	}
	return &Session{editor: e, doc: doc.Clone(), listeners: map[int]Listener{}}
}

func (s *Session) Editor() *editor.Editor { return s.editor }

// GetDocument returns a deep copy of the current document.
func (s *Session) GetDocument() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Version counts committed changes, undo and redo included.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ReadOnly reports whether an AI edit currently blocks mutations.
func (s *Session) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiActive
}

// Subscribe registers l and returns a function that removes it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch applies cmd to the current document. A command with nothing to
// do leaves the document, the history and the listeners untouched.
func (s *Session) Dispatch(cmd editor.Command) (*model.Document, error) {
	return s.mutate(func(doc *model.Document) (*model.Document, error) {
		return cmd.Apply(s.editor, doc)
	})
}

// Replace swaps in doc after validating it.
func (s *Session) Replace(doc *model.Document) (*model.Document, error) {
	return s.mutate(func(*model.Document) (*model.Document, error) {
		if doc == nil {
			return nil, model.ErrInvalidDocument
		}
		next := doc.Clone()
		next.JSONNative()
		if err := s.editor.Schema().Validate(next).Err(); err != nil {
			return nil, err
		}
		return next, nil
	})
}

// Import replaces the document with a JSON export. Nothing changes when
// raw is rejected.
func (s *Session) Import(raw []byte) (*model.Document, error) {
	return s.mutate(func(*model.Document) (*model.Document, error) {
		return export.ImportJSON(s.editor.Schema(), raw)
	})
}

func (s *Session) Undo() (*model.Document, error) {
	return s.travel(&s.undo, &s.redo)
}

func (s *Session) Redo() (*model.Document, error) {
	return s.travel(&s.redo, &s.undo)
}

func (s *Session) travel(from, to *[]*model.Document) (*model.Document, error) {
	s.mu.Lock()
	if s.aiActive {
		s.mu.Unlock()
		return nil, ErrReadOnly
	}
	if len(*from) == 0 {
		doc := s.doc.Clone()
		s.mu.Unlock()
		return doc, editor.ErrNoChange
	}
	last := len(*from) - 1
	prev := (*from)[last]
	*from = (*from)[:last]
	*to = append(*to, s.doc)
	s.doc = prev
	s.version++
	doc, version, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, doc, version)
	return doc.Clone(), nil
}

func (s *Session) mutate(apply func(doc *model.Document) (*model.Document, error)) (*model.Document, error) {
	s.mu.Lock()
	if s.aiActive {
		s.mu.Unlock()
		return nil, ErrReadOnly
	}
	next, err := apply(s.doc)
	if errors.Is(err, editor.ErrNoChange) {
		doc := s.doc.Clone()
		s.mu.Unlock()
		return doc, nil
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.commitLocked(next)
	doc, version, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, doc, version)
	return doc.Clone(), nil
}

func (s *Session) commitLocked(next *model.Document) {
	s.undo = append(s.undo, s.doc)
	if len(s.undo) > maxHistory {
		s.undo = s.undo[len(s.undo)-maxHistory:]
	}
	s.redo = nil
	s.doc = next
	s.version++
}

func (s *Session) snapshotLocked() (*model.Document, uint64, []Listener) {
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return s.doc.Clone(), s.version, listeners
}

func notify(listeners []Listener, doc *model.Document, version uint64) {
	for _, l := range listeners {
		l(doc.Clone(), version)
	}
}

// beginAIEdit marks the session read-only and returns a context that
// CancelAIEdit aborts, the token that identifies this edit, and a copy of
// the document the edit starts from. The document cannot change until the
// edit finishes or is cancelled.
func (s *Session) beginAIEdit(parent context.Context) (context.Context, uint64, *model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aiActive {
		return nil, 0, nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(parent)
	s.aiActive = true
	s.aiToken++
	s.aiCancel = cancel
	return ctx, s.aiToken, s.doc.Clone(), nil
}

// finishAIEdit applies the edit's result if token still names the active
// edit. A nil apply only releases the session.
func (s *Session) finishAIEdit(token uint64, apply func(doc *model.Document) (*model.Document, error)) (*model.Document, error) {
	s.mu.Lock()
	if !s.aiActive || s.aiToken != token {
		s.mu.Unlock()
		return nil, ErrCanceled
	}
	s.aiActive = false
	s.aiCancel()
	s.aiCancel = nil
	if apply == nil {
		s.mu.Unlock()
		return nil, nil
	}

	next, err := apply(s.doc)
	if errors.Is(err, editor.ErrNoChange) {
		doc := s.doc.Clone()
		s.mu.Unlock()
		return doc, nil
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.commitLocked(next)
	doc, version, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, doc, version)
	return doc.Clone(), nil
}

// CancelAIEdit aborts the in-flight AI edit and makes the session editable
// again. It reports whether there was anything to cancel.
func (s *Session) CancelAIEdit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.aiActive {
		return false
	}
	s.aiActive = false
	s.aiToken++
	s.aiCancel()
	s.aiCancel = nil
	return true
}

package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/domain"
	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/sanitize"
	"resume-builder/internal/theme"
	"resume-builder/pkg/ai"
)

var (
	ErrAIUnavailable  = errors.New("AI service is not configured")
	ErrPDFUnavailable = errors.New("PDF export is not configured")
)

// DocumentStore persists documents by id.
type DocumentStore interface {
	Save(ctx context.Context, d *domain.StoredDocument) error
	Get(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error)
	List(ctx context.Context, owner uuid.UUID) ([]*domain.StoredDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AIClient is the subset of the ai-service client the workspace uses.
type AIClient interface {
	Generate(ctx context.Context, input string) (string, error)
	EditHTML(ctx context.Context, req ai.EditRequest) (string, error)
	AnalyzeATS(ctx context.Context, resumeText string) (*ai.ATSReport, error)
	ListTemplates(ctx context.Context, q ai.TemplateQuery) (*ai.TemplatePage, error)
}

// Options wires a Workspace. Store, Editor and Themes are required; a nil
// Gate means sanitize.New(). AI and PDF are optional.
type Options struct {
	Store          DocumentStore
	Editor         *editor.Editor
	Themes         *theme.Registry
	Gate           *sanitize.Gate
	PDF            *export.PDFExporter
	AI             AIClient
	Clock          Clock
	AutosaveWindow time.Duration
	SaveTimeout    time.Duration
	Metrics        *Metrics
	Paper          string
	DefaultTheme   string
}

type entry struct {
	session *Session
	record  *domain.StoredDocument
	// version of the session change last copied into record.
	version uint64
}

// Workspace holds the open editing sessions and connects them to storage,
// themes, export and the AI collaborators.
type Workspace struct {
	store        DocumentStore
	editor       *editor.Editor
	themes       *theme.Registry
	gate         *sanitize.Gate
	pdf          *export.PDFExporter
	ai           AIClient
	autosave     *Debouncer
	timeout      time.Duration
	metrics      *Metrics
	paper        string
	defaultTheme string

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry

	// saveMu orders autosaves against deletes.
	saveMu sync.Mutex
}

func NewWorkspace(opts Options) *Workspace {
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}
	if opts.Gate == nil {
		opts.Gate = sanitize.New()
	}
	return &Workspace{
		store:        opts.Store,
		editor:       opts.Editor,
		themes:       opts.Themes,
		gate:         opts.Gate,
		pdf:          opts.PDF,
		ai:           opts.AI,
		autosave:     NewDebouncer(opts.Clock, opts.AutosaveWindow),
		timeout:      opts.SaveTimeout,
		metrics:      opts.Metrics,
		paper:        opts.Paper,
		defaultTheme: opts.DefaultTheme,
		sessions:     map[uuid.UUID]*entry{},
	}
}

func (w *Workspace) Themes() *theme.Registry { return w.themes }

// CreateInput describes a new document. Content wins over Seed; with
// neither the document starts empty.
type CreateInput struct {
	OwnerID uuid.UUID
	Title   string
	ThemeID string
	Seed    *model.Resume
	Content *model.Document
}

// Create validates and stores a new document, then opens a session for it.
func (w *Workspace) Create(ctx context.Context, in CreateInput) (*domain.StoredDocument, error) {
	content := in.Content
	if content == nil && in.Seed != nil {
		content = in.Seed.Document()
	}
	if content == nil {
		content = model.NewDocument()
	}
	content = content.Clone()
	content.JSONNative()
	if err := w.editor.Schema().Validate(content).Err(); err != nil {
		return nil, err
	}
	themeID := w.themes.Resolve(cmp.Or(in.ThemeID, w.defaultTheme)).ID
	rec := domain.NewStoredDocument(in.OwnerID, domain.TitleFrom(content, in.Title), themeID, content)
	if err := w.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	slog.Info("Document created", "id", rec.ID, "theme", themeID)

	w.mu.Lock()
	w.openLocked(rec)
	w.mu.Unlock()
	return copyRecord(rec), nil
}

// List returns the owner's stored documents.
func (w *Workspace) List(ctx context.Context, owner uuid.UUID) ([]*domain.StoredDocument, error) {
	return w.store.List(ctx, owner)
}

// Get returns the live state of a document.
func (w *Workspace) Get(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	e, err := w.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyRecord(e.record), nil
}

// Delete drops the session and the stored document.
func (w *Workspace) Delete(ctx context.Context, id uuid.UUID) error {
	w.mu.Lock()
	if e, ok := w.sessions[id]; ok {
		e.session.CancelAIEdit()
		delete(w.sessions, id)
	}
	w.mu.Unlock()
	w.autosave.Cancel(id.String())

	w.saveMu.Lock()
	defer w.saveMu.Unlock()
	return w.store.Delete(ctx, id)
}

// Session returns the editing session for id, loading it on first use.
func (w *Workspace) Session(ctx context.Context, id uuid.UUID) (*Session, error) {
	e, err := w.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

func (w *Workspace) entry(ctx context.Context, id uuid.UUID) (*entry, error) {
	w.mu.Lock()
	if e, ok := w.sessions[id]; ok {
		w.mu.Unlock()
		return e, nil
	}
	w.mu.Unlock()

	rec, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// Another request may have opened it meanwhile.
	if e, ok := w.sessions[id]; ok {
		return e, nil
	}
	return w.openLocked(rec), nil
}

func (w *Workspace) openLocked(rec *domain.StoredDocument) *entry {
	id := rec.ID
	e := &entry{session: NewSession(w.editor, rec.Content), record: copyRecord(rec)}
	e.session.Subscribe(func(doc *model.Document, version uint64) {
		w.contentChanged(id, doc, version)
	})
	w.sessions[id] = e
	return e
}

// contentChanged copies a session change into the record. Changes older
// than the one already copied are ignored.
func (w *Workspace) contentChanged(id uuid.UUID, doc *model.Document, version uint64) {
	w.schedule(id, func(cur *entry) bool {
		if version <= cur.version {
			return false
		}
		cur.version = version
		cur.record.Content = doc
		cur.record.Title = domain.TitleFrom(doc, cur.record.Title)
		return true
	})
}

// schedule applies update to the live record and queues a debounced save.
// An update that returns false changes nothing and schedules nothing.
func (w *Workspace) schedule(id uuid.UUID, update func(e *entry) bool) {
	w.mu.Lock()
	e, ok := w.sessions[id]
	if !ok || !update(e) {
		w.mu.Unlock()
		return
	}
	e.record.UpdatedAt = time.Now().UTC()
	w.mu.Unlock()

	w.autosave.Trigger(id.String(), func() { w.persist(id) })
}

// persist saves the record as it is when the save runs. Documents deleted
// in the meantime are skipped.
func (w *Workspace) persist(id uuid.UUID) {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	e, ok := w.sessions[id]
	if !ok {
		w.mu.Unlock()
		return
	}
	rec := copyRecord(e.record)
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.store.Save(ctx, rec); err != nil {
		slog.Error("Autosave failed", "id", rec.ID, "error", err)
		return
	}
	w.metrics.saved()
	slog.Debug("Autosaved document", "id", rec.ID)
}

// Flush writes every pending autosave.
func (w *Workspace) Flush() { w.autosave.Flush() }

// Close flushes pending saves and makes later saves synchronous.
func (w *Workspace) Close() { w.autosave.Stop() }

// Dispatch applies a command to the document's session.
func (w *Workspace) Dispatch(ctx context.Context, id uuid.UUID, cmd editor.Command) (*model.Document, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.Dispatch(cmd)
	w.metrics.command(cmd.Name(), err)
	return doc, err
}

func (w *Workspace) Undo(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Undo()
}

func (w *Workspace) Redo(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Redo()
}

// UpdateInput replaces the content, the theme, or both. Nil or empty
// fields are left alone.
type UpdateInput struct {
	Content *model.Document
	ThemeID string
	Title   string
}

func (w *Workspace) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.StoredDocument, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Content != nil {
		if _, err := s.Replace(in.Content); err != nil {
			return nil, err
		}
	}
	if in.ThemeID != "" || in.Title != "" {
		themeID := ""
		if in.ThemeID != "" {
			themeID = w.themes.Resolve(in.ThemeID).ID
		}
		w.schedule(id, func(e *entry) bool {
			if themeID != "" {
				e.record.ThemeID = themeID
			}
			if in.Title != "" {
				e.record.Title = in.Title
			}
			return true
		})
	}
	return w.Get(ctx, id)
}

// Import replaces the document with a JSON export.
func (w *Workspace) Import(ctx context.Context, id uuid.UUID, raw []byte) (*model.Document, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.Import(raw)
	if err != nil {
		slog.Warn("Import rejected", "id", id, "error", err)
	}
	return doc, err
}

func (w *Workspace) ExportJSON(ctx context.Context, id uuid.UUID) (*export.File, error) {
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := export.ExportJSON(s.GetDocument())
	if err != nil {
		return nil, err
	}
	w.metrics.exported("json")
	return &export.File{Filename: export.JSONFilename(""), ContentType: "application/json", Data: data}, nil
}

// theme picks the requested theme, else the document's, else the default.
func (w *Workspace) theme(ctx context.Context, id uuid.UUID, requested string) (theme.Theme, *model.Document, error) {
	e, err := w.entry(ctx, id)
	if err != nil {
		return theme.Theme{}, nil, err
	}
	if requested == "" {
		w.mu.Lock()
		requested = e.record.ThemeID
		w.mu.Unlock()
	}
	return w.themes.Resolve(requested), e.session.GetDocument(), nil
}

// Preview renders the document with a theme and sanitizes the result.
func (w *Workspace) Preview(ctx context.Context, id uuid.UUID, themeID string) (string, error) {
	t, doc, err := w.theme(ctx, id, themeID)
	if err != nil {
		return "", err
	}
	w.metrics.rendered(t.ID)
	return w.gate.Sanitize(t.Render(doc)), nil
}

// PrintView returns a standalone printable page.
func (w *Workspace) PrintView(ctx context.Context, id uuid.UUID, themeID string, autoPrint bool) (string, error) {
	t, doc, err := w.theme(ctx, id, themeID)
	if err != nil {
		return "", err
	}
	w.metrics.rendered(t.ID)
	body := w.gate.Sanitize(t.Render(doc))
	return export.PrintShell(t, body, export.PrintOptions{
		Title:     domain.TitleFrom(doc, ""),
		Paper:     w.paper,
		AutoPrint: autoPrint,
	}), nil
}

func (w *Workspace) ExportPDF(ctx context.Context, id uuid.UUID, themeID string) (*export.File, error) {
	if w.pdf == nil {
		return nil, ErrPDFUnavailable
	}
	t, doc, err := w.theme(ctx, id, themeID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	f, err := w.pdf.Export(ctx, doc, t)
	if err != nil {
		slog.Error("PDF export failed", "id", id, "theme", t.ID, "error", err)
		return nil, err
	}
	slog.Info("PDF exported", "id", id, "theme", t.ID, "bytes", len(f.Data), "duration", time.Since(start))
	w.metrics.exported("pdf")
	return f, nil
}

// AnalyzeATS sends the document's text form to the ATS analyzer.
func (w *Workspace) AnalyzeATS(ctx context.Context, id uuid.UUID) (*ai.ATSReport, error) {
	if w.ai == nil {
		return nil, ErrAIUnavailable
	}
	s, err := w.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	text, err := export.ResumeText(s.GetDocument())
	if err != nil {
		return nil, err
	}
	report, err := w.ai.AnalyzeATS(ctx, text)
	w.metrics.aiRequest("ats", err)
	return report, err
}

// Generate asks the AI for new content and returns it as sanitized HTML.
func (w *Workspace) Generate(ctx context.Context, prompt string) (string, error) {
	if w.ai == nil {
		return "", ErrAIUnavailable
	}
	out, err := w.ai.Generate(ctx, prompt)
	w.metrics.aiRequest("generate", err)
	if err != nil {
		return "", err
	}
	return w.gate.Sanitize(out), nil
}

// Templates lists starter documents from the catalogue.
func (w *Workspace) Templates(ctx context.Context, q ai.TemplateQuery) (*ai.TemplatePage, error) {
	if w.ai == nil {
		return nil, ErrAIUnavailable
	}
	return w.ai.ListTemplates(ctx, q)
}

func copyRecord(r *domain.StoredDocument) *domain.StoredDocument {
	c := *r
	c.Content = r.Content.Clone()
	return &c
}
